package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable the loader reads so host settings do not
// leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVER_HOST", "SERVER_PORT", "PORT", "SERVER_READ_TIMEOUT",
		"UPLOAD_MAX_FILE_SIZE", "UPLOAD_MAX_CONCURRENT", "UPLOAD_MAX_WAIT_TIME",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_REQUESTS_PER_MINUTE", "RATE_LIMIT_UPLOAD",
		"TRUSTED_PROXIES", "CSRF_KEY", "CSRF_SECURE",
		"LOG_LEVEL", "LOG_FORMAT",
		"STORAGE_BACKEND", "STORAGE_DIR", "STORAGE_TTL",
		"CONVERT_PROFILES_FILE", "CONVERT_DEFAULT_PROFILE", "CONVERT_PREVIEW_ROWS",
	} {
		t.Setenv(name, "")
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload:  UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: time.Minute},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, UploadLimit: 10, Burst: 5},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{Backend: "disk", TTL: time.Minute},
		Convert: ConvertConfig{PreviewRows: 20},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 4 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 4)
	}
	if cfg.Upload.MaxFileSize != 32_000_000 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 32_000_000)
	}
	if cfg.Storage.Backend != "disk" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "disk")
	}
	if cfg.Storage.TTL != 10*time.Minute {
		t.Errorf("Storage.TTL = %v, want %v", cfg.Storage.TTL, 10*time.Minute)
	}
	if !cfg.Security.CSRFSecure {
		t.Error("Security.CSRFSecure should default to true")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("CONVERT_DEFAULT_PROFILE", "filtered-csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 10 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, "memory")
	}
	if cfg.Convert.DefaultProfile != "filtered-csv" {
		t.Errorf("Convert.DefaultProfile = %q, want %q", cfg.Convert.DefaultProfile, "filtered-csv")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 5000)
	}
}

func TestLoad_ByteSizes(t *testing.T) {
	tests := []struct {
		value string
		want  int64
	}{
		{"1048576", 1048576},
		{"10MB", 10_000_000},
		{"5 MiB", 5 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("UPLOAD_MAX_FILE_SIZE", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Upload.MaxFileSize != tt.want {
				t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, tt.want)
			}
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPLOAD_MAX_FILE_SIZE", "lots")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "UPLOAD_MAX_FILE_SIZE") {
		t.Errorf("Load() error = %v, want mention of UPLOAD_MAX_FILE_SIZE", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("UPLOAD_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "s3" }, "STORAGE_BACKEND"},
		{"zero ttl", func(c *Config) { c.Storage.TTL = 0 }, "STORAGE_TTL"},
		{"short csrf key", func(c *Config) { c.Security.CSRFKey = "short" }, "CSRF_KEY"},
		{"zero upload rate", func(c *Config) { c.Rate.UploadLimit = 0 }, "RATE_LIMIT_UPLOAD"},
		{"zero upload rate when disabled", func(c *Config) { c.Rate.Enabled = false; c.Rate.UploadLimit = 0 }, ""},
		{"zero preview rows", func(c *Config) { c.Convert.PreviewRows = 0 }, "CONVERT_PREVIEW_ROWS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestStorageDir(t *testing.T) {
	cfg := &StorageConfig{Dir: "/var/lib/rdgupload"}
	if got := cfg.StorageDir(); got != "/var/lib/rdgupload" {
		t.Errorf("StorageDir() = %q, want %q", got, "/var/lib/rdgupload")
	}

	cfg.Dir = ""
	if got := cfg.StorageDir(); !strings.HasSuffix(got, "rdgupload") {
		t.Errorf("StorageDir() = %q, want default under temp dir", got)
	}
}

func TestConfigString_MasksCSRFKey(t *testing.T) {
	cfg := validConfig()
	cfg.Security.CSRFKey = "0123456789abcdef0123456789abcdef"

	str := cfg.String()
	if strings.Contains(str, "0123456789abcdef") {
		t.Error("String() should mask the CSRF key")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
