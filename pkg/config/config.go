package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Folders       FolderConfig
	Database      DatabaseConfig
	Catalog       CatalogConfig
	Export        ExportConfig
	Observability ObservabilityConfig
}

// FolderConfig describes the watched folder layout.
type FolderConfig struct {
	InputDir    string
	OutputDir   string
	ExportDir   string
	PollSeconds int
	Consolidate bool // merge multi-invoice PDFs into one CSV instead of one per invoice
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// CatalogConfig selects the parts catalog backing store. When CSVPath is set
// the in-memory catalog is loaded from it and Postgres is not touched.
// HTSKeywordsCSV and AutoCodesCSV point at optional lookup tables: keyword →
// HTS suggestions for catalog misses, and HTS → declaration codes for
// automotive parts.
type CatalogConfig struct {
	CSVPath        string
	HTSKeywordsCSV string
	AutoCodesCSV   string
}

// ExportConfig controls Section 232 export output.
type ExportConfig struct {
	WriteExcel bool
	WriteCSV   bool
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables, loading a local
// .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Folders: FolderConfig{
			InputDir:    getEnv("TARIFFMILL_INPUT_DIR", "input"),
			OutputDir:   getEnv("TARIFFMILL_OUTPUT_DIR", "output"),
			ExportDir:   getEnv("TARIFFMILL_EXPORT_DIR", "exports"),
			PollSeconds: getEnvAsInt("TARIFFMILL_POLL_SECONDS", 60),
			Consolidate: getEnvAsBool("TARIFFMILL_CONSOLIDATE", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "tariffmill"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			CSVPath:        getEnv("TARIFFMILL_CATALOG_CSV", ""),
			HTSKeywordsCSV: getEnv("TARIFFMILL_HTS_KEYWORDS_CSV", ""),
			AutoCodesCSV:   getEnv("TARIFFMILL_AUTO_CODES_CSV", ""),
		},
		Export: ExportConfig{
			WriteExcel: getEnvAsBool("TARIFFMILL_EXPORT_EXCEL", true),
			WriteCSV:   getEnvAsBool("TARIFFMILL_EXPORT_CSV", false),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", false),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	if cfg.Folders.PollSeconds < 5 {
		cfg.Folders.PollSeconds = 5
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
