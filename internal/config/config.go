package config

import "github.com/geo-copy/geo-api/internal/domain"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig points at an optional Postgres catalog. When URL is empty
// the embedded in-memory catalog is used.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// CatalogConfig controls the in-memory catalog seed.
type CatalogConfig struct {
	// SeedPath overrides the embedded seed with a YAML file on disk.
	SeedPath string `mapstructure:"seed_path"`
}

// LLMConfig contains all LLM integration related settings.
// An empty API key is valid here; it only fails once a model of that
// provider is requested.
type LLMConfig struct {
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	DeepSeekAPIKey string `mapstructure:"deepseek_api_key"`
	QwenAPIKey     string `mapstructure:"qwen_api_key"`
	GrokAPIKey     string `mapstructure:"grok_api_key"`

	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`

	// RequestTimeoutSeconds bounds buffered completion calls. Zero disables it.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// Credentials returns the configured API key per provider.
func (c LLMConfig) Credentials() map[domain.Provider]string {
	return map[domain.Provider]string{
		domain.ProviderOpenAI:   c.OpenAIAPIKey,
		domain.ProviderDeepSeek: c.DeepSeekAPIKey,
		domain.ProviderQwen:     c.QwenAPIKey,
		domain.ProviderGrok:     c.GrokAPIKey,
	}
}

// GenerationConfig tunes the fan-out scheduler.
type GenerationConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0,lte=64"`
}
