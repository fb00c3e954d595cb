package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// app config, loaded from the environment
type Config struct {
	Provider string
	Port     string

	Database DatabaseConfig

	// empty disables redis; pointer and events fall back to the database and a no-op publisher
	RedisAddr string

	// empty disables bearer auth; every caller is the anonymous user
	JWTSecret string

	CallTimeout        time.Duration
	EvaluationCacheTTL time.Duration

	Export ExportConfig

	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver     string // "postgres" | "sqlite"
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	SQLitePath string
}

func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type ExportConfig struct {
	Enabled  bool
	Schedule string // cron schedule, e.g. "0 2 * * *"
	Dir      string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider: strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),
		Port:     getEnvOrDefault("PORT", "8080"),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
			Host:       getEnvOrDefault("POSTGRES_HOST", "localhost"),
			User:       getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password:   getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Name:       getEnvOrDefault("POSTGRES_DB", "mockmate"),
			Port:       getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:    getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "mockmate.db"),
		},
		RedisAddr: os.Getenv("REDIS_ADDR"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		Export: ExportConfig{
			Enabled:  getEnvOrDefault("REPORT_EXPORT_ENABLED", "false") == "true",
			Schedule: getEnvOrDefault("REPORT_EXPORT_SCHEDULE", "0 2 * * *"),
			Dir:      getEnvOrDefault("REPORT_EXPORT_DIR", "./exports"),
		},
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	var err error
	if config.CallTimeout, err = getEnvDuration("LLM_CALL_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if config.EvaluationCacheTTL, err = getEnvDuration("EVALUATION_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Provider {
	case "gemini", "groq":
		// provider-specific keys are checked by the provider packages
	default:
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini, groq")
	}

	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("unsupported DB_DRIVER: " + config.Database.Driver + ". Currently supported: postgres, sqlite")
	}

	if _, err := strconv.Atoi(config.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", config.Port, err)
	}
	if config.CallTimeout <= 0 {
		return errors.New("LLM_CALL_TIMEOUT must be positive")
	}
	if config.EvaluationCacheTTL <= 0 {
		return errors.New("EVALUATION_CACHE_TTL must be positive")
	}

	if config.Export.Enabled {
		if _, err := cron.ParseStandard(config.Export.Schedule); err != nil {
			return fmt.Errorf("invalid REPORT_EXPORT_SCHEDULE %q: %w", config.Export.Schedule, err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
