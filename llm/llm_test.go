package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"OLLAMA_ENDPOINT", "LLM_BASE_URL", "OLLAMA_MODEL", "LLM_MODEL",
		"LLM_TIMEOUT_MS", "LLM_MAX_RETRIES", "LLM_TEMPERATURE", "LLM_NUM_PREDICT"} {
		t.Setenv(key, "")
	}

	cfg := ConfigFromEnv()
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigFromEnvPrecedence(t *testing.T) {
	t.Setenv("OLLAMA_ENDPOINT", "http://ollama:11434/")
	t.Setenv("LLM_BASE_URL", "http://ignored:9999")
	t.Setenv("OLLAMA_MODEL", "llama3:8b")
	t.Setenv("LLM_MODEL", "ignored")

	cfg := ConfigFromEnv()
	assert.Equal(t, "http://ollama:11434", cfg.Endpoint, "trailing slash must be stripped")
	assert.Equal(t, "llama3:8b", cfg.Model)
}

func TestConfigFromEnvFallbackNames(t *testing.T) {
	t.Setenv("OLLAMA_ENDPOINT", "")
	t.Setenv("LLM_BASE_URL", "http://fallback:11434")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("LLM_MODEL", "qwen2:7b")

	cfg := ConfigFromEnv()
	assert.Equal(t, "http://fallback:11434", cfg.Endpoint)
	assert.Equal(t, "qwen2:7b", cfg.Model)
}

func TestConfigFromEnvTuning(t *testing.T) {
	t.Setenv("LLM_TIMEOUT_MS", "2500")
	t.Setenv("LLM_MAX_RETRIES", "3")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_NUM_PREDICT", "512")

	cfg := ConfigFromEnv()
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 512, cfg.MaxTokens)
}

func TestConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("LLM_TIMEOUT_MS", "soon")
	t.Setenv("LLM_MAX_RETRIES", "-2")
	t.Setenv("LLM_NUM_PREDICT", "0")

	cfg := ConfigFromEnv()
	def := DefaultConfig()
	assert.Equal(t, def.Timeout, cfg.Timeout)
	assert.Equal(t, def.MaxRetries, cfg.MaxRetries)
	assert.Equal(t, def.MaxTokens, cfg.MaxTokens)
}
