package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration (admin/health surface)
	Server ServerConfig

	// Directory database (tenant directory / control plane)
	Directory DatabaseConfig

	// Redis configuration (second-level tenant cache, event publishing)
	Redis RedisConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// Static publishing configuration
	Statics StaticsConfig

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
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig holds optional Redis settings. An empty Host disables the
// Redis cache layer and event publication.
type RedisConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SchedulerConfig holds sweep settings
type SchedulerConfig struct {
	Interval       time.Duration
	MaxWorkers     int
	TenantParallel int
}

// StaticsConfig holds static artifact writer settings
type StaticsConfig struct {
	Enabled bool
	RootDir string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Directory: DatabaseConfig{
			Host:         getEnv("DIRECTORY_DB_HOST", "localhost"),
			Port:         getEnv("DIRECTORY_DB_PORT", "5432"),
			User:         getEnv("DIRECTORY_DB_USER", "postgres"),
			Password:     getEnv("DIRECTORY_DB_PASSWORD", "postgres"),
			Name:         getEnv("DIRECTORY_DB_NAME", "skycms_directory"),
			SSLMode:      getEnv("DIRECTORY_DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DIRECTORY_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DIRECTORY_DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DIRECTORY_DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Scheduler: SchedulerConfig{
			Interval:       getDurationEnv("SCHEDULER_INTERVAL", time.Minute),
			MaxWorkers:     getIntEnv("SCHEDULER_MAX_WORKERS", 0),
			TenantParallel: getIntEnv("SCHEDULER_TENANT_PARALLEL", 4),
		},
		Statics: StaticsConfig{
			Enabled: getBoolEnv("STATICS_ENABLED", false),
			RootDir: getEnv("STATICS_ROOT_DIR", "./data/statics"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Directory,
		validation.Field(&c.Directory.Host, validation.Required.Error("DIRECTORY_DB_HOST is required")),
		validation.Field(&c.Directory.Name, validation.Required.Error("DIRECTORY_DB_NAME is required")),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Scheduler,
		validation.Field(&c.Scheduler.Interval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Scheduler.TenantParallel, validation.Min(1)),
	)
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Addr returns the host:port address, or "" when Redis is disabled
func (c *RedisConfig) Addr() string {
	if c.Host == "" {
		return ""
	}
	return c.Host + ":" + c.Port
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
