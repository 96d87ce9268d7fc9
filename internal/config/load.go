package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default values applied before any file or environment source.
const (
	DefaultPort        = 3000
	DefaultLogLevel    = "info"
	DefaultTemperature = 0.7
	DefaultWorkerCount = 6
)

// legacyEnv maps config keys to the unprefixed variable names the service
// has always accepted. GEO_-prefixed names take precedence.
var legacyEnv = map[string]string{
	"server.port":                 "PORT",
	"server.log_level":            "LOG_LEVEL",
	"server.allowed_origins":      "CORS_ALLOWED_ORIGINS",
	"database.url":                "DATABASE_URL",
	"llm.openai_api_key":          "OPENAI_API_KEY",
	"llm.deepseek_api_key":        "DEEPSEEK_API_KEY",
	"llm.qwen_api_key":            "QWEN_API_KEY",
	"llm.grok_api_key":            "GROK_API_KEY",
	"llm.temperature":             "LLM_TEMPERATURE",
	"llm.request_timeout_seconds": "LLM_REQUEST_TIMEOUT_SECONDS",
	"generation.worker_count":     "GENERATION_WORKER_COUNT",
}

// Options customizes where Load looks for configuration.
type Options struct {
	// ConfigFile is an explicit config file path. When empty, config.yaml in
	// the working directory is used if present.
	ConfigFile string

	// EnvFiles are dotenv files loaded into the process environment before
	// reading. Missing files are ignored. Defaults to ".env".
	EnvFiles []string
}

// Load reads configuration with default options.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions reads configuration from defaults, an optional config file,
// dotenv files and environment variables, in increasing precedence.
// Returns a populated Config or an error if loading or validation fails.
func LoadWithOptions(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("GEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := "GEO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags on the loaded configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("database.url", "")
	v.SetDefault("catalog.seed_path", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.deepseek_api_key", "")
	v.SetDefault("llm.qwen_api_key", "")
	v.SetDefault("llm.grok_api_key", "")
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.request_timeout_seconds", 0)
	v.SetDefault("generation.worker_count", DefaultWorkerCount)
}
