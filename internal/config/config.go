// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	DBSchemaMode   string `mapstructure:"DB_SCHEMA_MODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	Env            string `mapstructure:"APP_ENV"`
	SentryDSN      string `mapstructure:"SENTRY_DSN"`

	DBMaxOpenConns           int `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	DBAutoMigrateAllowDestructive bool `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`

	DevBootstrapRoot        bool   `mapstructure:"DEV_BOOTSTRAP_ROOT"`
	DevRootUsername         string `mapstructure:"DEV_ROOT_USERNAME"`
	DevRootEmail            string `mapstructure:"DEV_ROOT_EMAIL"`
	DevRootPassword         string `mapstructure:"DEV_ROOT_PASSWORD"`
	DevRootForceCredentials bool   `mapstructure:"DEV_ROOT_FORCE_CREDENTIALS"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSampleRatio  float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	// Strike escalation thresholds. Durations are a comma separated list of days.
	ModerationWarningThreshold     int    `mapstructure:"MODERATION_WARNING_THRESHOLD"`
	ModerationTempBanThreshold     int    `mapstructure:"MODERATION_TEMP_BAN_THRESHOLD"`
	ModerationPermaBanThreshold    int    `mapstructure:"MODERATION_PERMA_BAN_THRESHOLD"`
	ModerationTempBanDurations     string `mapstructure:"MODERATION_TEMP_BAN_DURATIONS"`
	ModerationStrikeExpirationDays int    `mapstructure:"MODERATION_STRIKE_EXPIRATION_DAYS"`
	ModerationProfanityTerms       string `mapstructure:"MODERATION_PROFANITY_TERMS"`
	ModerationHateTerms            string `mapstructure:"MODERATION_HATE_TERMS"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8375")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "inkshelf")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	viper.SetDefault("DEV_BOOTSTRAP_ROOT", false)
	viper.SetDefault("DEV_ROOT_USERNAME", "inkshelf_root")
	viper.SetDefault("DEV_ROOT_EMAIL", "root@inkshelf.local")
	viper.SetDefault("DEV_ROOT_PASSWORD", "")
	viper.SetDefault("DEV_ROOT_FORCE_CREDENTIALS", false)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "auto_strikes=on")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
	viper.SetDefault("MODERATION_WARNING_THRESHOLD", 1)
	viper.SetDefault("MODERATION_TEMP_BAN_THRESHOLD", 3)
	viper.SetDefault("MODERATION_PERMA_BAN_THRESHOLD", 5)
	viper.SetDefault("MODERATION_TEMP_BAN_DURATIONS", "7,14,30")
	viper.SetDefault("MODERATION_STRIKE_EXPIRATION_DAYS", 90)
	viper.SetDefault("MODERATION_PROFANITY_TERMS", "")
	viper.SetDefault("MODERATION_HATE_TERMS", "")
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// TempBanDurations parses MODERATION_TEMP_BAN_DURATIONS into day counts.
func (c *Config) TempBanDurations() ([]int, error) {
	var out []int
	for _, part := range strings.Split(c.ModerationTempBanDurations, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		days, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid temp ban duration %q: %w", part, err)
		}
		if days <= 0 {
			return nil, fmt.Errorf("temp ban duration must be positive, got %d", days)
		}
		out = append(out, days)
	}
	if len(out) == 0 {
		return nil, errors.New("MODERATION_TEMP_BAN_DURATIONS must list at least one duration")
	}
	return out, nil
}

// TermList splits a comma separated term list, dropping blanks.
func TermList(raw string) []string {
	var out []string
	for _, term := range strings.Split(raw, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if err := c.validateModeration(); err != nil {
		return err
	}

	if c.IsProduction() {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}

func (c *Config) validateModeration() error {
	if c.ModerationWarningThreshold < 0 {
		return errors.New("MODERATION_WARNING_THRESHOLD must not be negative")
	}
	if c.ModerationWarningThreshold > c.ModerationTempBanThreshold {
		return fmt.Errorf("MODERATION_WARNING_THRESHOLD (%d) must not exceed MODERATION_TEMP_BAN_THRESHOLD (%d)",
			c.ModerationWarningThreshold, c.ModerationTempBanThreshold)
	}
	if c.ModerationTempBanThreshold > c.ModerationPermaBanThreshold {
		return fmt.Errorf("MODERATION_TEMP_BAN_THRESHOLD (%d) must not exceed MODERATION_PERMA_BAN_THRESHOLD (%d)",
			c.ModerationTempBanThreshold, c.ModerationPermaBanThreshold)
	}
	if c.ModerationStrikeExpirationDays < 0 {
		return errors.New("MODERATION_STRIKE_EXPIRATION_DAYS must not be negative (0 disables expiry)")
	}
	if _, err := c.TempBanDurations(); err != nil {
		return err
	}
	return nil
}
