package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// EngineConfig holds the attendance engine tuning knobs. These are
// company-independent defaults; per-company rate settings stored in the
// database take precedence for payroll.
type EngineConfig struct {
	GracePeriod      time.Duration
	TransitionBuffer time.Duration
	CheckInLead      time.Duration
	StaleSessionAge  time.Duration
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "tempo-hr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Engine configuration
	graceMinutes, err := strconv.Atoi(getEnv("GRACE_PERIOD_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRACE_PERIOD_MINUTES: %w", err)
	}
	bufferMinutes, err := strconv.Atoi(getEnv("TRANSITION_BUFFER_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSITION_BUFFER_MINUTES: %w", err)
	}
	leadMinutes, err := strconv.Atoi(getEnv("CHECK_IN_LEAD_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_IN_LEAD_MINUTES: %w", err)
	}
	staleHours, err := strconv.Atoi(getEnv("STALE_SESSION_HOURS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_SESSION_HOURS: %w", err)
	}

	config.Engine = EngineConfig{
		GracePeriod:      time.Duration(graceMinutes) * time.Minute,
		TransitionBuffer: time.Duration(bufferMinutes) * time.Minute,
		CheckInLead:      time.Duration(leadMinutes) * time.Minute,
		StaleSessionAge:  time.Duration(staleHours) * time.Hour,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Engine.GracePeriod < 0 {
		return fmt.Errorf("GRACE_PERIOD_MINUTES must not be negative")
	}
	if c.Engine.TransitionBuffer < 0 {
		return fmt.Errorf("TRANSITION_BUFFER_MINUTES must not be negative")
	}
	if c.Engine.CheckInLead < 0 {
		return fmt.Errorf("CHECK_IN_LEAD_MINUTES must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
