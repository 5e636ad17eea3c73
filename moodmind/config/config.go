package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Base URL of the remote sentiment analyzer service.
	SentimentServiceURL string

	// Optional YAML file overriding the built-in reply templates.
	TemplatePath string

	OpenAI OpenAIConfig
}

// OpenAIConfig holds everything one augmentation call needs. It is read
// when the augmentor is constructed; hot-reload between turns means
// rebuilding the augmentor from a fresh LoadConfig.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	MaxTokens      int
	DailyLimit     int
	SystemPrompt   string
	RequestTimeout time.Duration
}

// Valid reports whether the config is usable for real calls. Placeholder
// keys from sample .env files are rejected.
func (c OpenAIConfig) Valid() bool {
	if c.APIKey == "" || c.APIKey == "placeholder" {
		return false
	}
	for i := 0; i+5 <= len(c.APIKey); i++ {
		if c.APIKey[i:i+5] == "your_" {
			return false
		}
	}
	return true
}

const defaultSystemPrompt = "You are an empathetic mental health assistant for a mood tracking application. " +
	"Respond to the user with warmth, understanding, and helpful guidance. " +
	"Be conversational yet professional. Keep responses concise and focused on supporting the user's emotional wellbeing."

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		// no .env file; fall through to system environment
	}

	return Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8000"),
		DBUser:              getEnv("DB_USER", ""),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBHost:              getEnv("DB_HOST", ""),
		DBPort:              getEnv("DB_PORT", ""),
		DBName:              getEnv("DB_NAME", ""),
		SentimentServiceURL: getEnv("SENTIMENT_SERVICE_URL", "http://localhost:8080"),
		TemplatePath:        getEnv("REPLY_TEMPLATE_PATH", ""),
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_API_URL", "https://api.openai.com/v1"),
			Model:          getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			Temperature:    getEnvFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokens:      getEnvInt("OPENAI_MAX_TOKENS", 300),
			DailyLimit:     getEnvInt("OPENAI_DAILY_LIMIT", 100),
			SystemPrompt:   getEnv("OPENAI_SYSTEM_PROMPT", defaultSystemPrompt),
			RequestTimeout: time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}
