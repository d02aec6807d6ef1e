package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Completion backend names accepted in COMPLETION_BACKEND.
const (
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
)

type OllamaConfig struct {
	BaseURL string
	Model   string
}

// IsConfigured returns true if all required Ollama configuration is present
func (c OllamaConfig) IsConfigured() bool {
	return c.BaseURL != "" && c.Model != ""
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// IsConfigured returns true if all required Anthropic configuration is present
func (c AnthropicConfig) IsConfigured() bool {
	return c.APIKey != "" && c.Model != ""
}

type WhisperConfig struct {
	BaseURL string
}

// IsConfigured returns true if all required whisper server configuration is present
func (c WhisperConfig) IsConfigured() bool {
	return c.BaseURL != ""
}

type AppConfig struct {
	// Core configuration
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	AlertWebhookURL    string
	ServerLogsURL      string
	UseStrictConfig    bool // require optional integrations to be configured

	// Extraction loop tuning
	MaxAttempts        int
	CommandAutocorrect bool

	// Completion pool tuning
	CompletionBackend string
	CompletionWorkers int
	CompletionTimeout time.Duration

	// External collaborators
	OllamaConfig    OllamaConfig
	AnthropicConfig AnthropicConfig
	WhisperConfig   WhisperConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	whisperURL, err := getEnvRequired("WHISPER_URL")
	if err != nil {
		return nil, err
	}

	maxAttempts, err := getEnvIntWithDefault("MAX_ATTEMPTS", 2)
	if err != nil {
		return nil, err
	}

	completionWorkers, err := getEnvIntWithDefault("COMPLETION_WORKERS", 2)
	if err != nil {
		return nil, err
	}

	completionTimeoutSeconds, err := getEnvIntWithDefault("COMPLETION_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		AlertWebhookURL:    getEnvWithDefault("ALERT_WEBHOOK_URL", ""),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "false") == "true",

		MaxAttempts:        maxAttempts,
		CommandAutocorrect: getEnvWithDefault("COMMAND_AUTOCORRECT", "false") == "true",

		CompletionBackend: getEnvWithDefault("COMPLETION_BACKEND", BackendOllama),
		CompletionWorkers: completionWorkers,
		CompletionTimeout: time.Duration(completionTimeoutSeconds) * time.Second,

		OllamaConfig: OllamaConfig{
			BaseURL: getEnvWithDefault("OLLAMA_URL", "http://localhost:11434"),
			Model:   getEnvWithDefault("OLLAMA_MODEL", "llama3.2-vision"),
		},
		AnthropicConfig: AnthropicConfig{
			APIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Model:  getEnvWithDefault("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		},
		WhisperConfig: WhisperConfig{
			BaseURL: whisperURL,
		},
	}

	switch config.CompletionBackend {
	case BackendOllama:
		if !config.OllamaConfig.IsConfigured() {
			return nil, fmt.Errorf("ollama backend selected but not fully configured")
		}
		log.Printf("✅ Ollama completion backend configured (model %s)", config.OllamaConfig.Model)
	case BackendAnthropic:
		if !config.AnthropicConfig.IsConfigured() {
			return nil, fmt.Errorf("anthropic backend selected but ANTHROPIC_API_KEY is not set")
		}
		log.Printf("✅ Anthropic completion backend configured (model %s)", config.AnthropicConfig.Model)
	default:
		return nil, fmt.Errorf("unknown completion backend: %s", config.CompletionBackend)
	}

	if config.MaxAttempts <= 0 {
		return nil, fmt.Errorf("MAX_ATTEMPTS must be positive")
	}
	if config.CompletionWorkers <= 0 {
		return nil, fmt.Errorf("COMPLETION_WORKERS must be positive")
	}

	if config.AlertWebhookURL == "" {
		if config.UseStrictConfig {
			return nil, fmt.Errorf("ALERT_WEBHOOK_URL is required when USE_STRICT_CONFIG is enabled")
		}
		log.Printf("⚠️ Alert webhook not configured - error alerting will be disabled")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
