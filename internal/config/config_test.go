package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Business
	t.Setenv("BUSINESS_NAME", "PetUp Centro")
	t.Setenv("DEMO_PETS", "off")

	// Model backend
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-test")
	t.Setenv("OPENAI_MAX_TOKENS", "900")
	t.Setenv("OPENAI_TIMEOUT", "30s")

	// Session lifecycle
	t.Setenv("SESSION_IDLE_RESET", "40m")
	t.Setenv("SESSION_DELAY_AFTER", "10m")
	t.Setenv("SESSION_THINKING_DELAY", "3s")
	t.Setenv("SESSION_KEEP_TURNS", "12")
	t.Setenv("SESSION_CONTEXT_TURNS", "6")

	// Persistence
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("REPORTS_DIR", "/var/reports")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 1.0
	t.Setenv("RATE_BURST", "nope") // -> default 5

	// Admin server
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("GIN_MODE", "weird")        // will normalize to "release"
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Business
	if cfg.BusinessName != "PetUp Centro" || cfg.DemoPets {
		t.Fatalf("business fields unexpected: %+v", cfg)
	}

	// Model backend
	if cfg.Model.APIKey != "sk-test" || cfg.Model.Name != "gpt-test" ||
		cfg.Model.MaxTokens != 900 || cfg.Model.Timeout != 30*time.Second {
		t.Fatalf("model fields unexpected: %+v", cfg.Model)
	}

	// Session lifecycle
	if cfg.Session.IdleReset != 40*time.Minute ||
		cfg.Session.DelayAfter != 10*time.Minute ||
		cfg.Session.ThinkingDelay != 3*time.Second ||
		cfg.Session.KeepTurns != 12 ||
		cfg.Session.ContextTurns != 6 {
		t.Fatalf("session fields unexpected: %+v", cfg.Session)
	}

	// Persistence
	if cfg.DBPath != "db.sqlite" || cfg.ReportsDir != "/var/reports" {
		t.Fatalf("persistence fields unexpected: %+v", cfg)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 1.0 || cfg.RateBurst != 5 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Admin server
	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second ||
		cfg.GinMode != "release" || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging
	if cfg.LogLevel != "warn" || !cfg.LogPretty {
		t.Fatalf("logging unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"invalid LOG_LEVEL", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"empty BUSINESS_NAME", "BUSINESS_NAME", "  ", "BUSINESS_NAME"},
		{"empty DB_PATH", "DB_PATH", "  ", "DB_PATH"},
		{"empty REPORTS_DIR", "REPORTS_DIR", "  ", "REPORTS_DIR"},
		{"zero READ_TIMEOUT", "READ_TIMEOUT", "0s", "timeouts"},
		{"zero MAX_HEADER_BYTES", "MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"zero OPENAI_MAX_TOKENS", "OPENAI_MAX_TOKENS", "0", "OPENAI_MAX_TOKENS"},
		{"zero SESSION_KEEP_TURNS", "SESSION_KEEP_TURNS", "0", "SESSION_KEEP_TURNS"},
		{"context exceeds keep", "SESSION_CONTEXT_TURNS", "99", "SESSION_CONTEXT_TURNS"},
		{"zero RATE_BURST", "RATE_BURST", "0", "burst"},
		{"sampler out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestLoad_IdleResetMustExceedDelayAfter(t *testing.T) {
	t.Setenv("SESSION_IDLE_RESET", "5m")
	t.Setenv("SESSION_DELAY_AFTER", "5m")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when idle reset does not exceed delay threshold")
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
