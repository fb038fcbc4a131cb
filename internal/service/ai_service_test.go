package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"narada_backend/internal/config"
	"narada_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path       string
	APIVersion string
	Body       map[string]interface{}
}

// fakeChatAPI mimics the chat-completions endpoint of Azure OpenAI and
// OpenAI-compatible servers.
type fakeChatAPI struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	content  string
	noChoice bool
	delay    time.Duration
}

func (f *fakeChatAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{
		Path:       r.URL.Path,
		APIVersion: r.URL.Query().Get("api-version"),
		Body:       body,
	})
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if f.status >= 400 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
		return
	}

	choices := []map[string]interface{}{{
		"index":         0,
		"message":       map[string]string{"role": "assistant", "content": f.content},
		"finish_reason": "stop",
	}}
	if f.noChoice {
		choices = nil
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"choices": choices,
		"usage":   map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func (f *fakeChatAPI) last(t *testing.T) capturedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newFakeAI(t *testing.T, api *fakeChatAPI, cfg config.AIConfig) *AIService {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	cfg.Endpoint = srv.URL
	if cfg.Provider == "openai" {
		cfg.Endpoint = srv.URL + "/v1"
	}
	return NewAIServiceWithHTTPClient(cfg, srv.Client())
}

func TestAIService_Azure(t *testing.T) {
	api := &fakeChatAPI{content: "สวัสดีค่ะ"}
	svc := newFakeAI(t, api, config.AIConfig{
		Provider:    "azure",
		APIKey:      "key",
		APIVersion:  "2024-08-01-preview",
		Deployment:  "gpt-test",
		Temperature: 0.7,
		MaxTokens:   500,
	})

	answer, err := svc.Complete(context.Background(), CompletionRequest{
		Source:       SourceMerchant,
		SystemPrompt: "system text",
		Question:     "คำถาม",
	})
	require.NoError(t, err)
	assert.Equal(t, "สวัสดีค่ะ", answer)

	req := api.last(t)
	assert.Equal(t, "/openai/deployments/gpt-test/chat/completions", req.Path)
	assert.Equal(t, "2024-08-01-preview", req.APIVersion)
	assert.InDelta(t, 0.7, req.Body["temperature"], 0.0001)
	assert.EqualValues(t, 500, req.Body["max_tokens"])

	messages, ok := req.Body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "system text", messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
	assert.Equal(t, "คำถาม", messages[1].(map[string]interface{})["content"])
}

func TestAIService_OpenAICompatible(t *testing.T) {
	api := &fakeChatAPI{content: "ok"}
	svc := newFakeAI(t, api, config.AIConfig{
		Provider:    "openai",
		APIKey:      "key",
		Deployment:  "gpt-4o-mini",
		Temperature: 0.2,
		MaxTokens:   100,
	})

	_, err := svc.Complete(context.Background(), CompletionRequest{Question: "hi"})
	require.NoError(t, err)

	req := api.last(t)
	assert.Equal(t, "/v1/chat/completions", req.Path)
	assert.Equal(t, "gpt-4o-mini", req.Body["model"])
	assert.EqualValues(t, 100, req.Body["max_tokens"])
}

func TestAIService_EmptyChoicesFallsBack(t *testing.T) {
	api := &fakeChatAPI{noChoice: true}
	svc := newFakeAI(t, api, config.AIConfig{Provider: "azure", Deployment: "d", Temperature: 0.7})

	answer, err := svc.Complete(context.Background(), CompletionRequest{Question: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ขออภัย ไม่สามารถสร้างคำตอบได้ในขณะนี้", answer)
}

func TestAIService_BlankContentFallsBack(t *testing.T) {
	api := &fakeChatAPI{content: "   "}
	svc := newFakeAI(t, api, config.AIConfig{Provider: "azure", Deployment: "d"})

	answer, err := svc.Complete(context.Background(), CompletionRequest{Question: "hi"})
	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, answer)
}

func TestAIService_UpstreamError(t *testing.T) {
	api := &fakeChatAPI{status: http.StatusInternalServerError}
	svc := newFakeAI(t, api, config.AIConfig{Provider: "azure", Deployment: "d"})

	_, err := svc.Complete(context.Background(), CompletionRequest{Question: "hi"})
	assert.ErrorIs(t, err, util.ErrCompletionFailed)
}

func TestAIService_Timeout(t *testing.T) {
	api := &fakeChatAPI{content: "late", delay: 500 * time.Millisecond}
	svc := newFakeAI(t, api, config.AIConfig{Provider: "azure", Deployment: "d", Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := svc.Complete(context.Background(), CompletionRequest{Question: "hi"})
	assert.ErrorIs(t, err, util.ErrCompletionFailed)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestAIService_ApplyConfig(t *testing.T) {
	api := &fakeChatAPI{content: "ok"}
	svc := newFakeAI(t, api, config.AIConfig{Provider: "azure", Deployment: "d", Temperature: 0.7, MaxTokens: 500})

	svc.ApplyConfig(config.AIConfig{Temperature: 0.3, MaxTokens: 0})
	_, err := svc.Complete(context.Background(), CompletionRequest{Question: "hi"})
	require.NoError(t, err)

	req := api.last(t)
	assert.InDelta(t, 0.3, req.Body["temperature"], 0.0001)
	assert.EqualValues(t, 500, req.Body["max_tokens"])
}

func TestAIService_Ping(t *testing.T) {
	api := &fakeChatAPI{content: "สวัสดีค่ะ"}
	svc := newFakeAI(t, api, config.AIConfig{Provider: "azure", Deployment: "d", MaxTokens: 500})

	require.NoError(t, svc.Ping(context.Background()))

	req := api.last(t)
	assert.EqualValues(t, 10, req.Body["max_tokens"])
	messages := req.Body["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "สวัสดี", messages[0].(map[string]interface{})["content"])

	silent := newFakeAI(t, &fakeChatAPI{noChoice: true}, config.AIConfig{Provider: "azure", Deployment: "d"})
	assert.Error(t, silent.Ping(context.Background()))
}
