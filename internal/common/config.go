package common

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Extraction ExtractionConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Batch      BatchConfig
	Log        LogConfig
}

// ExtractionConfig holds document-to-text configuration
type ExtractionConfig struct {
	Method    string // "native" | "pdfcpu" | "pdftotext"
	Pdftotext string
	MaxPages  int
	Timeout   time.Duration
}

// DatabaseConfig holds run-history database configuration. An empty DSN disables run history.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr       string
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// BatchConfig holds batch/watch worker configuration
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
	OutputDir      string
	Debounce       time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Text extraction methods.
const (
	MethodNative    = "native"
	MethodPdfcpu    = "pdfcpu"
	MethodPdftotext = "pdftotext"
)

// SetDefaults registers every configuration key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("TEXT_METHOD", MethodNative)
	v.SetDefault("PDFTOTEXT_BIN", "pdftotext")
	v.SetDefault("MAX_PAGES", 0)
	v.SetDefault("EXTRACT_TIMEOUT", 2*time.Minute)

	v.SetDefault("DB_URL", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_DIAL_TIMEOUT", 3*time.Second)

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(32<<20))
	v.SetDefault("REQUEST_TIMEOUT", 2*time.Minute)

	v.SetDefault("BATCH_WORKERS", 4)
	v.SetDefault("BATCH_QUEUE_SIZE", 64)
	v.SetDefault("PROCESS_TIMEOUT", 3*time.Minute)
	v.SetDefault("OUTPUT_DIR", "./out")
	v.SetDefault("WATCH_DEBOUNCE", 500*time.Millisecond)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// LoadConfig loads configuration from v (config file values and environment variables).
// A nil v uses a fresh viper instance reading only the environment.
func LoadConfig(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Extraction: ExtractionConfig{
			Method:    strings.ToLower(strings.TrimSpace(v.GetString("TEXT_METHOD"))),
			Pdftotext: v.GetString("PDFTOTEXT_BIN"),
			MaxPages:  v.GetInt("MAX_PAGES"),
			Timeout:   v.GetDuration("EXTRACT_TIMEOUT"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("DB_URL"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxConnLifetime: v.GetDuration("DB_MAX_CONN_LIFETIME"),
			DialTimeout:     v.GetDuration("DB_DIAL_TIMEOUT"),
		},
		Server: ServerConfig{
			HTTPAddr:       v.GetString("HTTP_ADDR"),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Batch: BatchConfig{
			Workers:        v.GetInt("BATCH_WORKERS"),
			QueueSize:      v.GetInt("BATCH_QUEUE_SIZE"),
			ProcessTimeout: v.GetDuration("PROCESS_TIMEOUT"),
			OutputDir:      v.GetString("OUTPUT_DIR"),
			Debounce:       v.GetDuration("WATCH_DEBOUNCE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Extraction.Method {
	case MethodNative, MethodPdfcpu, MethodPdftotext:
	default:
		return NewAppError(CodeConfig, "TEXT_METHOD must be one of native, pdfcpu, pdftotext", ErrInvalidInput)
	}
	if c.Extraction.Method == MethodPdftotext && c.Extraction.Pdftotext == "" {
		return NewAppError(CodeConfig, "PDFTOTEXT_BIN is required for the pdftotext method", ErrInvalidInput)
	}
	if c.Extraction.MaxPages < 0 {
		return NewAppError(CodeConfig, "MAX_PAGES must not be negative", ErrInvalidInput)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return NewAppError(CodeConfig, "MAX_UPLOAD_BYTES must be positive", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError(CodeConfig, "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
