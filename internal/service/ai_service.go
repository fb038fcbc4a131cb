package service

import (
	"context"
	"errors"
	"fmt"
	"narada_backend/internal/config"
	"narada_backend/internal/util"
	"narada_backend/pkg/logger"
	"narada_backend/pkg/monitoring"
	"narada_backend/pkg/tracing"
	"net/http"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Completion sources, used as metric labels.
const (
	SourceMerchant = "merchant"
	SourceDemo     = "demo"
	SourceProbe    = "probe"
)

type CompletionRequest struct {
	Source       string
	SystemPrompt string
	Question     string
}

// Completer turns a system prompt and a customer question into reply text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// AIService talks to an Azure OpenAI deployment, or any OpenAI-compatible
// endpoint when provider is "openai".
type AIService struct {
	client     *openai.Client
	deployment string
	timeout    time.Duration

	mu          sync.RWMutex
	temperature float32
	maxTokens   int
}

func NewAIService(cfg config.AIConfig) *AIService {
	return NewAIServiceWithHTTPClient(cfg, &http.Client{})
}

func NewAIServiceWithHTTPClient(cfg config.AIConfig, httpClient *http.Client) *AIService {
	var clientCfg openai.ClientConfig
	switch cfg.Provider {
	case "openai":
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
		}
	default:
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		if cfg.APIVersion != "" {
			clientCfg.APIVersion = cfg.APIVersion
		}
		deployment := cfg.Deployment
		clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	}
	clientCfg.HTTPClient = httpClient

	s := &AIService{
		client:     openai.NewClientWithConfig(clientCfg),
		deployment: cfg.Deployment,
		timeout:    cfg.Timeout,
	}
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig updates the sampling parameters; endpoint changes need a restart.
func (s *AIService) ApplyConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = cfg.Temperature
	s.maxTokens = cfg.MaxTokens
	if s.maxTokens <= 0 {
		s.maxTokens = 500
	}
}

func (s *AIService) sampling() (float32, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.temperature, s.maxTokens
}

func (s *AIService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	temperature, maxTokens := s.sampling()
	return s.complete(ctx, req, temperature, maxTokens)
}

func (s *AIService) complete(ctx context.Context, req CompletionRequest, temperature float32, maxTokens int) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := tracing.Tracer.Start(ctx, "ai.completion", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.source", req.Source),
		attribute.String("ai.deployment", s.deployment),
	)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Question,
	})

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.deployment,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	elapsed := time.Since(start)

	if err != nil {
		monitoring.ObserveCompletion(req.Source, "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			logger.Log.Error("Completion API rejected request",
				zap.String("source", req.Source),
				zap.Int("status", apiErr.HTTPStatusCode),
				zap.String("api_message", apiErr.Message),
			)
		} else {
			logger.Log.Error("Completion API call failed",
				zap.String("source", req.Source),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("%w: %v", util.ErrCompletionFailed, err)
	}

	span.SetAttributes(attribute.Int("ai.total_tokens", resp.Usage.TotalTokens))

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		monitoring.ObserveCompletion(req.Source, "empty", elapsed)
		logger.Log.Warn("Completion API returned no content", zap.String("source", req.Source))
		return fallbackAnswer, nil
	}

	monitoring.ObserveCompletion(req.Source, "ok", elapsed)
	logger.Log.Debug("Completion generated",
		zap.String("source", req.Source),
		zap.Duration("elapsed", elapsed),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

// Ping sends a short greeting and checks that text comes back.
func (s *AIService) Ping(ctx context.Context) error {
	temperature, _ := s.sampling()
	answer, err := s.complete(ctx, CompletionRequest{Source: SourceProbe, Question: connectionProbe}, temperature, connectionMaxToks)
	if err != nil {
		return err
	}
	if answer == fallbackAnswer {
		return errors.New("completion API returned no content")
	}
	return nil
}
