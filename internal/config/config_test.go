package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv wipes every variable the loader reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL",
		"LOG_PRETTY", "STORE_PATH", "API_BASE_PATH", "WS_SEND_BUFFER",
		"WS_WRITE_TIMEOUT", "CORS_ALLOWED_ORIGINS", "ENABLE_HSTS",
		"HSTS_MAX_AGE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q; want 5000", cfg.Port)
	}
	if cfg.StorePath != "users.json" {
		t.Errorf("StorePath = %q; want users.json", cfg.StorePath)
	}
	if cfg.APIBasePath != "/" {
		t.Errorf("APIBasePath = %q; want /", cfg.APIBasePath)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q; want release", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want info", cfg.LogLevel)
	}
	if cfg.WSSendBuffer != 32 {
		t.Errorf("WSSendBuffer = %d; want 32", cfg.WSSendBuffer)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v; want 15s", cfg.ReadTimeout)
	}
	if cfg.OTEL.Enabled {
		t.Errorf("OTEL should be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9100")
	t.Setenv("STORE_PATH", "/var/data/users.json")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("WS_WRITE_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.StorePath != "/var/data/users.json" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q; want lowercased debug", cfg.LogLevel)
	}
	if !cfg.LogPretty {
		t.Errorf("LogPretty should be true")
	}
	if cfg.WSWriteTimeout != 2*time.Second {
		t.Errorf("WSWriteTimeout = %v", cfg.WSWriteTimeout)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_NormalizesWarning(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warning")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		key, val string
		want     string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"WS_SEND_BUFFER", "0", "WS_SEND_BUFFER"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v; want mention of %s", err, tc.want)
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}
