package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Moderation configuration
	Moderation ModerationConfig

	// Background auto-approval sweep
	Sweep SweepConfig

	// Operator authentication
	Auth AuthConfig

	// Operator email notifications
	Notify NotifyConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// ModerationConfig holds content screening settings
type ModerationConfig struct {
	ProviderEndpoint          string
	ProviderKey               string
	ProviderTimeout           time.Duration
	ProfanityLexicon          []string // empty means built-in lexicon
	SpamKeywords              []string // empty means built-in keywords
	AutoApproveThresholdHours int
	MaxContentLength          int
}

// SweepConfig holds the time-based approval schedule
type SweepConfig struct {
	Enabled  bool
	Schedule string // robfig/cron spec, e.g. "@every 5m"
}

// AuthConfig holds operator token settings
type AuthConfig struct {
	JWTSecret    string
	OperatorRole string
	TokenTTL     time.Duration
}

// NotifyConfig holds SendGrid settings for operator review notifications
type NotifyConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FromName       string
	OperatorEmail  string
	Timeout        time.Duration
}

// Enabled reports whether notifications can be sent
func (n NotifyConfig) Enabled() bool {
	return n.SendGridAPIKey != "" && n.FromAddress != "" && n.OperatorEmail != ""
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "comment_moderation"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Moderation: ModerationConfig{
			ProviderEndpoint:          getEnv("MODERATION_PROVIDER_ENDPOINT", ""),
			ProviderKey:               getEnv("MODERATION_PROVIDER_KEY", ""),
			ProviderTimeout:           getDurationEnv("MODERATION_PROVIDER_TIMEOUT", 8*time.Second),
			ProfanityLexicon:          getListEnv("MODERATION_PROFANITY_LEXICON"),
			SpamKeywords:              getListEnv("MODERATION_SPAM_KEYWORDS"),
			AutoApproveThresholdHours: getIntEnv("AUTO_APPROVE_THRESHOLD_HOURS", 24),
			MaxContentLength:          getIntEnv("COMMENT_MAX_LENGTH", 5000),
		},
		Sweep: SweepConfig{
			Enabled:  getBoolEnv("SWEEP_ENABLED", true),
			Schedule: getEnv("SWEEP_SCHEDULE", "@every 5m"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			OperatorRole: getEnv("OPERATOR_ROLE", "operator"),
			TokenTTL:     getDurationEnv("OPERATOR_TOKEN_TTL", 12*time.Hour),
		},
		Notify: NotifyConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromAddress:    getEnv("NOTIFY_FROM_ADDRESS", ""),
			FromName:       getEnv("NOTIFY_FROM_NAME", "Blog Comments"),
			OperatorEmail:  getEnv("NOTIFY_OPERATOR_EMAIL", ""),
			Timeout:        getDurationEnv("NOTIFY_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Moderation.AutoApproveThresholdHours <= 0 {
		return fmt.Errorf("AUTO_APPROVE_THRESHOLD_HOURS must be positive")
	}
	if c.Moderation.MaxContentLength <= 0 {
		return fmt.Errorf("COMMENT_MAX_LENGTH must be positive")
	}
	if c.Sweep.Enabled && c.Sweep.Schedule == "" {
		return fmt.Errorf("SWEEP_SCHEDULE is required when the sweep is enabled")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated variable, dropping blanks
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
