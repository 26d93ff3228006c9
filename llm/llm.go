// Package llm provides the language-model collaborator used by the advice
// engine's fallback path, backed by a local Ollama instance through
// langchaingo. The engine makes a single attempt with a bounded timeout;
// retries and circuit breaking live here, inside the collaborator.
package llm

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jinxian630/Assigment-MiniProject/types"
)

// Client is the minimal chat interface consumed by the advice engine.
type Client interface {
	Chat(ctx context.Context, system string, history []types.ChatMessage, user string) (string, error)
}

// Embedder turns texts into vectors for the store. The Ollama client
// implements both interfaces.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds the collaborator settings.
type Config struct {
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// DefaultConfig returns settings matching the local dev setup.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "http://localhost:11434",
		Model:       "deepseek-r1:7b",
		Temperature: 0.2,
		MaxTokens:   260,
		Timeout:     60 * time.Second,
		MaxRetries:  1,
	}
}

// ConfigFromEnv reads the collaborator settings with relaxed env precedence.
// Endpoint precedence: OLLAMA_ENDPOINT > LLM_BASE_URL; model precedence:
// OLLAMA_MODEL > LLM_MODEL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := firstNonEmpty(os.Getenv("OLLAMA_ENDPOINT"), os.Getenv("LLM_BASE_URL")); v != "" {
		cfg.Endpoint = strings.TrimRight(v, "/")
	}
	if v := firstNonEmpty(os.Getenv("OLLAMA_MODEL"), os.Getenv("LLM_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("LLM_MAX_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("LLM_TEMPERATURE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Temperature = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("LLM_NUM_PREDICT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}

	return cfg
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
