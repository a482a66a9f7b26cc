// Package config provides environment-variable-driven configuration loading.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the process-wide configuration tree.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Nlp       NlpConfig
}

// AppConfig holds general process settings.
type AppConfig struct {
	Name     string
	Env      string
	LogLevel string
}

// DatabaseConfig holds the postgres connection parameters.
type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode
}

// SchedulerConfig controls the CP-SAT solve driver.
type SchedulerConfig struct {
	SolveTimeout time.Duration
	RandomSeed   int64
}

// NlpConfig controls the natural-language patch oracle.
type NlpConfig struct {
	APIKey string
	Model  string
}

// IsConfigured reports whether an oracle credential was supplied.
func (c *NlpConfig) IsConfigured() bool {
	return c.APIKey != ""
}

// Load reads configuration from environment variables, falling back to
// development defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "shiftplan"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "shiftplan"),
			User:            getEnv("DB_USER", "shiftplan"),
			Password:        getEnv("DB_PASSWORD", "shiftplan"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Scheduler: SchedulerConfig{
			SolveTimeout: getEnvDuration("SCHEDULER_SOLVE_TIMEOUT", 30*time.Second),
			RandomSeed:   int64(getEnvInt("SCHEDULER_RANDOM_SEED", 1)),
		},
		Nlp: NlpConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("NLP_MODEL", "claude-3-5-sonnet-20241022"),
		},
	}

	return cfg, nil
}

// IsDevelopment reports whether the process is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction reports whether the process is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
