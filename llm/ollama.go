package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/jinxian630/Assigment-MiniProject/logger"
	"github.com/jinxian630/Assigment-MiniProject/resilience"
	"github.com/jinxian630/Assigment-MiniProject/types"
)

// OllamaClient talks to a local Ollama server. It implements Client and
// Embedder. Calls run behind a circuit breaker so a dead model server fails
// fast instead of stalling every fallback request.
type OllamaClient struct {
	llm     *ollama.LLM
	cfg     Config
	breaker *resilience.CircuitBreaker
	retry   *resilience.RetryConfig
	log     *logger.Logger
}

// NewOllamaClient creates a client for the configured Ollama endpoint.
func NewOllamaClient(cfg Config, log *logger.Logger) (*OllamaClient, error) {
	if log == nil {
		log = logger.New()
	}

	model, err := ollama.New(
		ollama.WithServerURL(cfg.Endpoint),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 1 + cfg.MaxRetries

	breaker := resilience.NewCircuitBreaker(5, 30*time.Second)
	breaker.SetOnStateChange(func(from, to resilience.State) {
		log.Warnf("ollama circuit breaker %s -> %s", from, to)
	})

	return &OllamaClient{
		llm:     model,
		cfg:     cfg,
		breaker: breaker,
		retry:   retry,
		log:     log,
	}, nil
}

// Chat sends one chat completion request with the given system prompt,
// prior turns and user payload, and returns the trimmed completion text.
func (c *OllamaClient) Chat(ctx context.Context, system string, history []types.ChatMessage, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, system))
	for _, m := range history {
		switch m.Role {
		case "user":
			messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, m.Content))
		case "assistant":
			messages = append(messages, llms.TextParts(schema.ChatMessageTypeAI, m.Content))
		case "system":
			messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, m.Content))
		}
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, user))

	var out string
	call := func() error {
		resp, err := c.llm.GenerateContent(ctx, messages,
			llms.WithTemperature(c.cfg.Temperature),
			llms.WithMaxTokens(c.cfg.MaxTokens),
		)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return ErrEmptyCompletion
		}
		out = strings.TrimSpace(resp.Choices[0].Content)
		return nil
	}

	err := c.breaker.Execute(func() error {
		return resilience.RetryWithConfig(ctx, c.retry, call)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", err
	}
	return out, nil
}

// CreateEmbedding embeds the given texts with the same model server.
func (c *OllamaClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	return c.llm.CreateEmbedding(ctx, texts)
}
