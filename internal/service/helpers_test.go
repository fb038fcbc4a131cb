package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"narada_backend/internal/config"
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
	}
}

type fixture struct {
	db            *gorm.DB
	users         *repository.UserRepository
	profiles      *repository.ProfileRepository
	settings      *repository.SettingsRepository
	faqs          *repository.FAQRepository
	conversations *repository.ConversationRepository
	auth          *AuthService
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	f := &fixture{
		db:            db,
		users:         repository.NewUserRepository(db),
		profiles:      repository.NewProfileRepository(db),
		settings:      repository.NewSettingsRepository(db),
		faqs:          repository.NewFAQRepository(db),
		conversations: repository.NewConversationRepository(db),
	}
	f.auth = NewAuthService(db, f.users, f.profiles, f.settings, testConfig())
	return f
}

func (f *fixture) register(t *testing.T, email, shop string) *model.User {
	t.Helper()
	user, err := f.auth.Register(RegisterInput{Email: email, Password: "password123", ShopName: shop})
	require.NoError(t, err)
	return user
}

// fakeCompleter records every request and replies with a canned answer.
type fakeCompleter struct {
	mu       sync.Mutex
	requests []CompletionRequest
	answer   string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.answer, f.err
}

func (f *fakeCompleter) calls() []CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CompletionRequest(nil), f.requests...)
}
