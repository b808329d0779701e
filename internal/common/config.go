package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	OCR     OCRConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// StorageConfig holds filesystem layout configuration
type StorageConfig struct {
	ArtifactBaseDir string
	LedgerDir       string
}

// OCRConfig holds OCR provider configuration
type OCRConfig struct {
	Provider string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			ArtifactBaseDir: getEnv("ARTIFACT_BASE_DIR", "./data/submissions"),
			LedgerDir:       getEnv("LEDGER_DIR", "./data"),
		},
		OCR: OCRConfig{
			Provider: getEnv("OCR_PROVIDER", "stub"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Storage.ArtifactBaseDir == "" {
		return NewAppError("CONFIG_ERROR", "ARTIFACT_BASE_DIR is required", ErrInvalidInput)
	}
	if c.Storage.LedgerDir == "" {
		return NewAppError("CONFIG_ERROR", "LEDGER_DIR is required", ErrInvalidInput)
	}
	if c.OCR.Provider == "" {
		return NewAppError("CONFIG_ERROR", "OCR_PROVIDER is required", ErrInvalidInput)
	}
	return nil
}
