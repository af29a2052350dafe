package config

import (
	"fmt"
	"os"
	"strconv"

	// Load environment variables from a .env file when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Engine        EngineConfig
	Store         StoreConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
}

// EngineConfig tunes the parsing engine itself.
type EngineConfig struct {
	// MaxTextBytes caps the extracted statement text. Zero disables the cap
	// and every line is scanned by every strategy regardless of size.
	MaxTextBytes int
}

// StoreConfig selects and configures the learned-pattern store backend.
type StoreConfig struct {
	Backend        string // "file" or "postgres"
	Path           string // durable file for the file backend
	BackupEnabled  bool
	BackupSchedule string // cron expression, 5-field
	BackupDir      string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Store backend identifiers accepted by STORE_BACKEND.
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Engine: EngineConfig{
			MaxTextBytes: getEnvAsInt("ENGINE_MAX_TEXT_BYTES", 0),
		},
		Store: StoreConfig{
			Backend:        getEnv("STORE_BACKEND", StoreBackendFile),
			Path:           getEnv("STORE_PATH", "./data/learned_patterns.json"),
			BackupEnabled:  getEnvAsBool("STORE_BACKUP_ENABLED", false),
			BackupSchedule: getEnv("STORE_BACKUP_SCHEDULE", "0 3 * * *"),
			BackupDir:      getEnv("STORE_BACKUP_DIR", "./data/backups"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "statements-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", false),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	if cfg.Store.Backend != StoreBackendFile && cfg.Store.Backend != StoreBackendPostgres {
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
