// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Storage  StorageConfig
	Convert  ConvertConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080). PORT is honoured for
	// platforms that inject it.
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 2m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"2m"`
}

// UploadConfig holds upload and conversion limits.
type UploadConfig struct {
	// MaxFileSize is the largest accepted upload. Accepts sizes like "32MB"
	// or plain byte counts (default: 32MB).
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"32MB" format:"bytes"`

	// MaxConcurrent is the maximum number of parallel conversions (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a conversion slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// Timeout bounds a single conversion (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// RateLimitConfig holds per-client rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for conversion endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`

	// Burst is how many requests a client may make at once before the
	// per-minute rate applies (default: 5)
	Burst int `env:"RATE_LIMIT_BURST" default:"5"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// CSRFKey enables CSRF protection on the upload form when set. It must
	// be 32 bytes long.
	CSRFKey string `env:"CSRF_KEY"`

	// CSRFSecure marks the CSRF cookie Secure (default: true). Disable
	// only for plain-HTTP development.
	CSRFSecure bool `env:"CSRF_SECURE" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// StorageConfig controls where artifacts wait for download.
type StorageConfig struct {
	// Backend is "disk" or "memory" (default: disk)
	Backend string `env:"STORAGE_BACKEND" default:"disk"`

	// Dir holds artifact files for the disk backend
	// (default: $TMPDIR/rdgupload)
	Dir string `env:"STORAGE_DIR"`

	// TTL is how long an artifact waits for its download (default: 10m)
	TTL time.Duration `env:"STORAGE_TTL" default:"10m"`
}

// ConvertConfig selects conversion profiles.
type ConvertConfig struct {
	// ProfilesFile is a YAML file replacing the built-in profiles
	ProfilesFile string `env:"CONVERT_PROFILES_FILE"`

	// DefaultProfile overrides the default profile name
	DefaultProfile string `env:"CONVERT_DEFAULT_PROFILE"`

	// PreviewRows is the number of rows returned by a preview (default: 20)
	PreviewRows int `env:"CONVERT_PREVIEW_ROWS" default:"20"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// StorageDir returns the configured artifact directory or the default.
func (c *StorageConfig) StorageDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(os.TempDir(), "rdgupload")
}
