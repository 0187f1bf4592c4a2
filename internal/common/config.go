package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Vision   VisionConfig
	Ingest   IngestConfig
	Currency string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	HealthTimeout   time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// OCRConfig holds local OCR (tesseract) configuration
type OCRConfig struct {
	TesseractBin  string
	TesseractLang string
	TessdataDir   string
}

// VisionConfig holds the remote vision backend configuration
type VisionConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// IngestConfig holds directory-watcher configuration
type IngestConfig struct {
	WatchDirs   []string
	InitialScan bool
	Debounce    time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			HealthTimeout:   getEnvAsDuration("DB_HEALTH_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			TesseractBin:  getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
		},
		Vision: VisionConfig{
			APIKey:   getEnv("GOOGLE_VISION_API_KEY", ""),
			Endpoint: getEnv("GOOGLE_VISION_ENDPOINT", "https://vision.googleapis.com/v1/images:annotate"),
			Timeout:  getEnvAsDuration("GOOGLE_VISION_TIMEOUT", 30*time.Second),
		},
		Ingest: IngestConfig{
			WatchDirs:   getEnvAsList("INGEST_WATCH_DIRS", nil),
			InitialScan: getEnvAsBool("INGEST_INITIAL_SCAN", true),
			Debounce:    getEnvAsDuration("INGEST_DEBOUNCE", 500*time.Millisecond),
		},
		Currency: getEnv("DEFAULT_CURRENCY", "USD"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if verr := CurrencyCode("DEFAULT_CURRENCY", c.Currency); verr != nil {
		return NewAppError("CONFIG_ERROR", verr.Error(), ErrInvalidInput)
	}
	if c.Currency != "USD" && c.Currency != "INR" {
		return NewAppError("CONFIG_ERROR", "DEFAULT_CURRENCY must be USD or INR", ErrInvalidInput)
	}
	return nil
}
