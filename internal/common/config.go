package common

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Analyzer AnalyzerConfig
	OCR      OCRConfig
	Store    StoreConfig
	Server   ServerConfig
	Batch    BatchConfig
	LogLevel slog.Level
}

// AnalyzerConfig holds classification and rename settings
type AnalyzerConfig struct {
	RulesPath     string // empty = embedded defaults
	MinConfidence float64
	Temperature   float64
	Fuzzy         bool
	Rename        bool
	DestDir       string
}

// OCRConfig holds text extraction settings
type OCRConfig struct {
	Enabled     bool
	Lang        string
	TessdataDir string
	DPI         int
	MaxPages    int
	MaxBytes    int
}

// StoreConfig holds result-history database settings
type StoreConfig struct {
	Driver          string // "sqlite" | "pgx"
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// BatchConfig holds worker pool settings
type BatchConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			RulesPath:     getEnv("PDFA_RULES", ""),
			MinConfidence: getEnvAsFloat("PDFA_MIN_CONFIDENCE", 0.6),
			Temperature:   getEnvAsFloat("PDFA_TEMPERATURE", 1.0),
			Fuzzy:         getEnvAsBool("PDFA_FUZZY", true),
			Rename:        getEnvAsBool("PDFA_RENAME", false),
			DestDir:       getEnv("PDFA_DEST", ""),
		},
		OCR: OCRConfig{
			Enabled:     getEnvAsBool("PDFA_OCR", false),
			Lang:        getEnv("PDFA_OCR_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			DPI:         getEnvAsInt("PDFA_OCR_DPI", 300),
			MaxPages:    getEnvAsInt("PDFA_OCR_MAX_PAGES", 0),
			MaxBytes:    getEnvAsInt("PDFA_MAX_TEXT_BYTES", 5<<20),
		},
		Store: StoreConfig{
			Driver:          getEnv("PDFA_STORE_DRIVER", "sqlite"),
			DSN:             getEnv("PDFA_STORE_DSN", ""),
			MaxConns:        getEnvAsInt32("PDFA_STORE_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("PDFA_STORE_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("PDFA_STORE_CONN_LIFETIME", 30*time.Minute),
			DialTimeout:     getEnvAsDuration("PDFA_STORE_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		Batch: BatchConfig{
			Workers:   getEnvAsInt("PDFA_WORKERS", runtime.NumCPU()),
			QueueSize: getEnvAsInt("PDFA_QUEUE_SIZE", 256),
			Timeout:   getEnvAsDuration("PDFA_TIMEOUT", 2*time.Minute),
		},
		LogLevel: ParseLogLevel(getEnv("PDFA_LOG_LEVEL", "info")),
	}
}

// ParseLogLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("min_confidence", c.Analyzer.MinConfidence, InRange(0, 1)).
		Field("temperature", c.Analyzer.Temperature, Positive).
		Field("workers", c.Batch.Workers, Positive).
		Field("store_driver", c.Store.Driver, OneOf("sqlite", "pgx", "postgres"))
	if c.Store.Driver != "sqlite" {
		v.Field("store_dsn", c.Store.DSN, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidConfig)
	}
	return nil
}
