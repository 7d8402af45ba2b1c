package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultModel = "groq/llama-3.3-70b-versatile"

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	RowStore  RowStoreConfig
	Blob      BlobConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	Environment    string
	AllowedOrigins []string
}

type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

// RowStoreConfig points at the relational store. For the postgres driver URL is
// either a Postgres DSN or a https://<ref>.supabase.co project URL. Password is
// the database password (not the Supabase API service key) and fills the DSN
// when the URL carries none; a project URL requires it.
type RowStoreConfig struct {
	Driver       string
	URL          string
	Password     string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

type BlobConfig struct {
	Bucket string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/legal-assistant")

	v.SetEnvPrefix("LEGAL_ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// bindLegacyEnv maps the deployment's established variable names onto config keys.
// The prefixed name wins when both are set.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"llm.apiKey":        {"LEGAL_ASSISTANT_LLM_APIKEY", "GROQ_API_KEY"},
		"llm.model":         {"LEGAL_ASSISTANT_LLM_MODEL", "MODEL_NAME"},
		"rowstore.url":      {"LEGAL_ASSISTANT_ROWSTORE_URL", "SUPABASE_URL"},
		"rowstore.password": {"LEGAL_ASSISTANT_ROWSTORE_PASSWORD", "SUPABASE_DB_PASSWORD"},
		"server.port":       {"LEGAL_ASSISTANT_SERVER_PORT", "PORT"},
		"logging.level":     {"LEGAL_ASSISTANT_LOGGING_LEVEL", "LOG_LEVEL"},
	}

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 300)
	v.SetDefault("server.bodyLimit", 20*1024*1024)
	v.SetDefault("server.environment", "production")
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.maxTokens", 8000)

	v.SetDefault("rowstore.driver", "postgres")
	v.SetDefault("rowstore.sqlitePath", "./data/legal.db")
	v.SetDefault("rowstore.maxOpenConns", 20)
	v.SetDefault("rowstore.maxIdleConns", 5)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requestsPerMinute", 60)
	v.SetDefault("ratelimit.redisDB", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
}

// Warnings lists settings whose absence disables part of the service.
// The server still starts; requests touching the missing backend fail.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.LLM.APIKey == "" && !strings.HasPrefix(c.LLM.Model, "ollama/") {
		warnings = append(warnings, "llm.apiKey (GROQ_API_KEY) is not set: model-backed endpoints will fail")
	}

	switch c.RowStore.Driver {
	case "postgres", "":
		if c.RowStore.URL == "" {
			warnings = append(warnings, "rowstore.url (SUPABASE_URL) is not set: row store is unavailable")
		} else if strings.HasPrefix(c.RowStore.URL, "https://") && c.RowStore.Password == "" {
			warnings = append(warnings, "rowstore.password (SUPABASE_DB_PASSWORD) is not set: a Supabase project URL needs the database password, row store is unavailable")
		}
	case "sqlite":
	default:
		warnings = append(warnings, fmt.Sprintf("rowstore.driver %q is unknown: row store is unavailable", c.RowStore.Driver))
	}

	return warnings
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
