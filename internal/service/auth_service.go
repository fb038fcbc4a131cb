package service

import (
	"errors"
	"fmt"
	"narada_backend/internal/config"
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/internal/util"
	"narada_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	ProfileRepo  *repository.ProfileRepository
	SettingsRepo *repository.SettingsRepository
	Cfg          *config.Config

	now func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, settingsRepo *repository.SettingsRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		DB:           db,
		UserRepo:     userRepo,
		ProfileRepo:  profileRepo,
		SettingsRepo: settingsRepo,
		Cfg:          cfg,
		now:          time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	ShopName string
}

// DefaultGreeting is the greeting stored with a new account's settings.
func DefaultGreeting(shopName string) string {
	return fmt.Sprintf("สวัสดีค่ะ ยินดีต้อนรับสู่ %s มีอะไรให้ช่วยไหมคะ?", shopName)
}

// Register creates the account, its profile with a free trial, and default
// settings in one transaction.
func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	_, err := s.UserRepo.FindByEmail(in.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	shopName := strings.TrimSpace(in.ShopName)
	trialEndsAt := s.now().Add(model.TrialPeriod)

	user := &model.User{
		Email:    in.Email,
		Password: string(hashedPassword),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.WithTx(tx).Create(user); err != nil {
			return err
		}

		profile := &model.Profile{
			ID:          user.ID,
			ShopName:    shopName,
			PlanType:    model.PlanFree,
			TrialEndsAt: &trialEndsAt,
		}
		if err := s.ProfileRepo.WithTx(tx).Create(profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}

		settings := &model.Settings{
			UserID:          user.ID,
			Tone:            string(ToneFriendly),
			ShopName:        shopName,
			GreetingMessage: DefaultGreeting(shopName),
		}
		if err := s.SettingsRepo.WithTx(tx).Save(settings); err != nil {
			return fmt.Errorf("create settings: %w", err)
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent registration for the same address
		return nil, util.ErrEmailRegistered
	}
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Merchant registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrInvalidCredential
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredential
	}

	if err := s.UserRepo.TouchLastLogin(user.ID, s.now()); err != nil {
		logger.Log.Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}
