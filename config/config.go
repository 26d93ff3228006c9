// Package config loads process configuration from the environment (with an
// optional .env file) and validates seed-data files for the vector store.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jinxian630/Assigment-MiniProject/llm"
)

// Config holds everything the server process needs.
type Config struct {
	Port        int
	WSPort      int // 0 disables the activity-log stream
	StorePath   string
	SeedFile    string
	LogLevel    string
	LogJSON     bool
	CORSOrigins []string
	LLM         llm.Config
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("ADVISOR_PORT", 8000),
		WSPort:      getEnvInt("ADVISOR_WS_PORT", 0),
		StorePath:   getEnvStr("ADVISOR_STORE_PATH", "./vectordb.sqlite"),
		SeedFile:    getEnvStr("ADVISOR_SEED_FILE", ""),
		LogLevel:    getEnvStr("ADVISOR_LOG_LEVEL", "info"),
		LogJSON:     getEnvBool("ADVISOR_LOG_JSON", true),
		CORSOrigins: splitCSV(getEnvStr("ADVISOR_CORS_ORIGINS", "*")),
		LLM:         llm.ConfigFromEnv(),
	}

	return cfg, nil
}

// Environment variable helpers

func getEnvStr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	default:
		return defaultValue
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
