package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds the attendance session policy.
type AttendanceConfig struct {
	MaxSession    time.Duration // open sessions older than this are force-closed
	WarningWindow time.Duration // "about to expire" threshold in status reads
	SweepInterval time.Duration // expiry sweep tick
	ExpectedStart string        // HH:MM, late-arrival threshold
	ExpectedEnd   string        // HH:MM, early-departure threshold
}

func Load() (*Config, error) {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: dbMaxConns,
		MinConns: dbMinConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy configuration
	maxSession, err := time.ParseDuration(getEnv("ATTENDANCE_MAX_SESSION", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MAX_SESSION: %w", err)
	}
	warningWindow, err := time.ParseDuration(getEnv("ATTENDANCE_WARNING_WINDOW", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_WARNING_WINDOW: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("ATTENDANCE_SWEEP_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_SWEEP_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		MaxSession:    maxSession,
		WarningWindow: warningWindow,
		SweepInterval: sweepInterval,
		ExpectedStart: getEnv("ATTENDANCE_EXPECTED_START", "09:00"),
		ExpectedEnd:   getEnv("ATTENDANCE_EXPECTED_END", "17:00"),
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
	if c.Database.MinConns <= 0 || c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("DB_MAX_CONNS/DB_MIN_CONNS must be positive with max >= min")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.MaxSession <= 0 {
		return fmt.Errorf("ATTENDANCE_MAX_SESSION must be positive")
	}
	if c.Attendance.SweepInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_SWEEP_INTERVAL must be positive")
	}
	if _, err := time.Parse("15:04", c.Attendance.ExpectedStart); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_EXPECTED_START: %w", err)
	}
	if _, err := time.Parse("15:04", c.Attendance.ExpectedEnd); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_EXPECTED_END: %w", err)
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
