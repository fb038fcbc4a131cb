package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"narada_backend/internal/config"
	"narada_backend/internal/model"
	"narada_backend/internal/service"
	"narada_backend/internal/util"
	"narada_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests  []service.CompletionRequest
	pingCount int
	err       error
}

func (f *fakeBackend) Complete(_ context.Context, req service.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return "คำตอบจากระบบค่ะ", nil
}

func (f *fakeBackend) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCount++
	return f.err
}

func (f *fakeBackend) pings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingCount
}

func (f *fakeBackend) last() service.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func testApp(t *testing.T) (*App, *fakeBackend) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent), TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		JWT:    config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour},
		RateLimit: config.RateLimitConfig{
			Demo: config.DemoLimitConfig{MaxRequests: 2, WindowSeconds: 60, Store: "memory"},
		},
	}
	backend := &fakeBackend{}
	a := build(cfg, db, nil, backend)
	t.Cleanup(a.Close)
	return a, backend
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type envelope struct {
	Code  int             `json:"code"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func registerAndLogin(t *testing.T, c *client, email string) {
	t.Helper()
	w := c.do(http.MethodPost, "/api/register", map[string]string{
		"email": email, "password": "password123", "confirmPassword": "password123", "shopName": "ร้านทดสอบ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/login", map[string]string{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	decode(t, w, &env)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	c.token = data.Token
}

func TestMerchantFlow(t *testing.T) {
	a, backend := testApp(t)
	c := &client{t: t, h: a.Router}
	registerAndLogin(t, c, "merchant@example.com")

	// FAQs
	w := c.do(http.MethodPost, "/api/faqs", map[string]interface{}{
		"category": "การจัดส่ง", "question": "ส่งกี่วันคะ", "answer": "จัดส่งภายใน 2-3 วันทำการค่ะ",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env envelope
	decode(t, w, &env)
	var faq struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &faq))
	assert.True(t, faq.IsActive)

	w = c.do(http.MethodPost, "/api/faqs", map[string]interface{}{
		"category": "ราคา", "question": "ลดราคาไหม", "answer": "ตอนนี้ยังไม่มีส่วนลดค่ะ", "is_active": false,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Settings
	w = c.do(http.MethodPut, "/api/settings", map[string]string{
		"tone": "vendor", "shop_name": "ร้านแม่ค้า", "custom_instructions": "ลงท้ายด้วยจ้า",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Generate
	w = c.do(http.MethodPost, "/api/ai/generate", map[string]string{"question": "ส่งกี่วันคะ"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"answer":"คำตอบจากระบบค่ะ"}`, w.Body.String())

	req := backend.last()
	assert.Equal(t, service.SourceMerchant, req.Source)
	assert.Contains(t, req.SystemPrompt, `"ร้านแม่ค้า"`)
	assert.Contains(t, req.SystemPrompt, "1. คำถาม: ส่งกี่วันคะ")
	assert.NotContains(t, req.SystemPrompt, "ลดราคาไหม")
	assert.Contains(t, req.SystemPrompt, "คำแนะนำเพิ่มเติม: ลงท้ายด้วยจ้า")
	assert.Contains(t, req.SystemPrompt, "ใช้ tone ตามที่กำหนด: แบบแม่ค้า")

	// Copy records a conversation
	w = c.do(http.MethodPost, "/api/conversations", map[string]interface{}{
		"customer_question": "ส่งกี่วันคะ", "ai_answer": "คำตอบจากระบบค่ะ", "was_copied": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &env)
	var dash service.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.EqualValues(t, 1, dash.ActiveFAQs)
	assert.EqualValues(t, 1, dash.TotalConversations)
	assert.EqualValues(t, 1, dash.ConversationsToday)
	assert.Equal(t, service.ToneVendor, dash.Tone)

	// Toggle then delete
	w = c.do(http.MethodPatch, "/api/faqs/"+faq.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodDelete, "/api/faqs/"+faq.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodDelete, "/api/faqs/"+faq.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateErrors(t *testing.T) {
	a, backend := testApp(t)
	c := &client{t: t, h: a.Router}

	w := c.do(http.MethodPost, "/api/ai/generate", map[string]string{"question": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"ไม่พบข้อมูลผู้ใช้"}`, w.Body.String())

	registerAndLogin(t, c, "gen@example.com")

	w = c.do(http.MethodPost, "/api/ai/generate", map[string]string{"question": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"กรุณาระบุคำถาม"}`, w.Body.String())

	w = c.do(http.MethodPost, "/api/ai/generate", map[string]interface{}{"question": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.DB.Exec("DELETE FROM settings")
	w = c.do(http.MethodPost, "/api/ai/generate", map[string]string{"question": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"ไม่พบการตั้งค่า"}`, w.Body.String())

	w = c.do(http.MethodPut, "/api/settings", map[string]string{"tone": "friendly", "shop_name": "ร้านใหม่"})
	require.Equal(t, http.StatusOK, w.Code)

	backend.err = util.ErrCompletionFailed
	w = c.do(http.MethodPost, "/api/ai/generate", map[string]string{"question": "hi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"เกิดข้อผิดพลาดในการสร้างคำตอบ"}`, w.Body.String())
}

func TestDemoChat(t *testing.T) {
	a, backend := testApp(t)
	c := &client{t: t, h: a.Router}

	w := c.do(http.MethodPost, "/api/demo/chat", map[string]string{"question": "<b>มีโปรไหม</b>"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"answer":"คำตอบจากระบบค่ะ","tone":"friendly"}`, w.Body.String())
	assert.Equal(t, "มีโปรไหม", backend.last().Question)

	w = c.do(http.MethodPost, "/api/demo/chat", map[string]string{"question": "<p></p>"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"กรุณาใส่คำถามค่ะ"}`, w.Body.String())

	// The limit counts every request, including rejected ones.
	w = c.do(http.MethodPost, "/api/demo/chat", map[string]string{"question": "hello"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"กรุณารอสักครู่ก่อนส่งคำถามใหม่ค่ะ"}`, w.Body.String())
}

func TestDemoChat_RotatingForwardedFor(t *testing.T) {
	a, _ := testApp(t)

	codes := make([]int, 0, 3)
	for _, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/demo/chat", strings.NewReader(`{"question":"hello"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		a.Router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestDemoChat_CompletionFailure(t *testing.T) {
	a, backend := testApp(t)
	backend.err = util.ErrCompletionFailed
	c := &client{t: t, h: a.Router}

	w := c.do(http.MethodPost, "/api/demo/chat", map[string]string{"question": "hello"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"เกิดข้อผิดพลาดในการตอบกลับค่ะ กรุณาลองใหม่อีกครั้งค่ะ"}`, w.Body.String())
}

func TestConfigReloadUpdatesDemoLimit(t *testing.T) {
	a, _ := testApp(t)

	next := *a.Config
	next.RateLimit.Demo.MaxRequests = 7
	next.RateLimit.Demo.WindowSeconds = 5
	a.applyConfig(&next)

	p := a.services.demoLimiter.Policy()
	assert.Equal(t, 7, p.Limit)
	assert.Equal(t, 5*time.Second, p.Window)
}

func TestRegisterValidation(t *testing.T) {
	a, _ := testApp(t)
	c := &client{t: t, h: a.Router}

	w := c.do(http.MethodPost, "/api/register", map[string]string{
		"email": "v@example.com", "password": "password123", "confirmPassword": "password124", "shopName": "ร้าน",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var env envelope
	decode(t, w, &env)
	assert.Equal(t, "รหัสผ่านไม่ตรงกัน", env.Error)

	registerAndLogin(t, c, "v@example.com")
	w = c.do(http.MethodPost, "/api/register", map[string]string{
		"email": "v@example.com", "password": "password123", "confirmPassword": "password123", "shopName": "ร้าน",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFAQValidation(t *testing.T) {
	a, _ := testApp(t)
	c := &client{t: t, h: a.Router}
	registerAndLogin(t, c, "faq@example.com")

	w := c.do(http.MethodPost, "/api/faqs", map[string]string{"category": "ส่ง", "question": "สั้น", "answer": "คำตอบที่ยาวพอแล้วค่ะ"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var env envelope
	decode(t, w, &env)
	assert.Equal(t, "คำถามต้องมีอย่างน้อย 5 ตัวอักษร", env.Error)

	w = c.do(http.MethodPost, "/api/faqs", map[string]string{"question": "คำถามยาวพอ", "answer": "คำตอบที่ยาวพอแล้วค่ะ"})
	decode(t, w, &env)
	assert.Equal(t, "กรุณาเลือกหมวดหมู่", env.Error)

	w = c.do(http.MethodPost, "/api/faqs", map[string]string{"category": "   ", "question": "คำถามยาวพอ", "answer": "คำตอบที่ยาวพอแล้วค่ะ"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &env)
	assert.Equal(t, "กรุณาเลือกหมวดหมู่", env.Error)

	w = c.do(http.MethodPost, "/api/conversations", map[string]string{"customer_question": " \t ", "ai_answer": "คำตอบ"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	a.DB.Model(&model.FAQ{}).Count(&count)
	assert.Zero(t, count)
	a.DB.Model(&model.Conversation{}).Count(&count)
	assert.Zero(t, count)
}

func TestPublicRoutes(t *testing.T) {
	a, _ := testApp(t)
	c := &client{t: t, h: a.Router}

	w := c.do(http.MethodGet, "/api/tones", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	decode(t, w, &env)
	var tones []service.TonePreset
	require.NoError(t, json.Unmarshal(env.Data, &tones))
	assert.Len(t, tones, 4)

	w = c.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"ai"`)

	w = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/faqs", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeepHealthRequiresToken(t *testing.T) {
	a, backend := testApp(t)
	c := &client{t: t, h: a.Router}

	for i := 0; i < 5; i++ {
		w := c.do(http.MethodGet, "/api/health?deep=true", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, 0, backend.pings())

	registerAndLogin(t, c, "health@example.com")
	w := c.do(http.MethodGet, "/api/health?deep=true", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"ai":"up"`)
	assert.Equal(t, 1, backend.pings())
}
