// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the
// messaging assistant (model backend, session thresholds, topic guard),
// persistence, the staff admin HTTP server, logging, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ModelConfig defines model backend settings.
type ModelConfig struct {
	APIKey    string        // OPENAI_API_KEY
	Name      string        // OPENAI_MODEL
	MaxTokens int           // OPENAI_MAX_TOKENS
	Timeout   time.Duration // OPENAI_TIMEOUT (0 disables the per-call deadline)
}

// SessionConfig defines conversation lifecycle thresholds.
type SessionConfig struct {
	IdleReset     time.Duration // gap that resets memory (welcome back)
	DelayAfter    time.Duration // gap beyond which the thinking delay applies
	ThinkingDelay time.Duration // artificial pause before answering
	KeepTurns     int           // retention cap per user
	ContextTurns  int           // turns sent to the model (persona excluded)
}

// Config holds all configuration values for the application.
type Config struct {
	// Business
	BusinessName string // display name used in replies
	DemoPets     bool   // prepend showcase pets to listings

	// Model backend
	Model ModelConfig

	// Session lifecycle
	Session SessionConfig

	// Persistence
	DBPath     string // SQLite path
	ReportsDir string // report archive directory

	// Channel rate limiting (per user)
	RateRPS   float64 // tokens per second (>= 0, 0 disables)
	RateBurst int     // bucket size (>= 1)

	// Admin HTTP server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test
	APIBasePath       string
	AdminRateRPS      float64
	AdminRateBurst    int

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Web protection
	CORS CORSConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Business
		BusinessName: getenv("BUSINESS_NAME", "PetUp"),
		DemoPets:     getbool("DEMO_PETS", true),

		// Model backend
		Model: ModelConfig{
			APIKey:    getenv("OPENAI_API_KEY", ""),
			Name:      getenv("OPENAI_MODEL", "gpt-5-nano-2025-08-07"),
			MaxTokens: getint("OPENAI_MAX_TOKENS", 1250),
			Timeout:   getdur("OPENAI_TIMEOUT", 60*time.Second),
		},

		// Session lifecycle
		Session: SessionConfig{
			IdleReset:     getdur("SESSION_IDLE_RESET", 20*time.Minute),
			DelayAfter:    getdur("SESSION_DELAY_AFTER", 5*time.Minute),
			ThinkingDelay: getdur("SESSION_THINKING_DELAY", 2*time.Second),
			KeepTurns:     getint("SESSION_KEEP_TURNS", 10),
			ContextTurns:  getint("SESSION_CONTEXT_TURNS", 8),
		},

		// Persistence
		DBPath:     getenv("DB_PATH", "app.db"),
		ReportsDir: getenv("REPORTS_DIR", "relatorios"),

		// Channel rate limiting
		RateRPS:   getfloat("RATE_RPS", 1.0),
		RateBurst: getint("RATE_BURST", 5),

		// Admin HTTP server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		APIBasePath:       normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),
		AdminRateRPS:      getfloat("ADMIN_RATE_RPS", 20.0),
		AdminRateBurst:    getint("ADMIN_RATE_BURST", 40),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "petup-assistant"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.BusinessName) == "" {
		return cfg, errors.New("BUSINESS_NAME must not be empty")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.ReportsDir) == "" {
		return cfg, errors.New("REPORTS_DIR must not be empty")
	}
	if cfg.Model.MaxTokens <= 0 {
		return cfg, errors.New("OPENAI_MAX_TOKENS must be > 0")
	}
	if cfg.Model.Timeout < 0 {
		return cfg, errors.New("OPENAI_TIMEOUT must be >= 0")
	}
	if cfg.Session.IdleReset <= cfg.Session.DelayAfter {
		return cfg, errors.New("SESSION_IDLE_RESET must be greater than SESSION_DELAY_AFTER")
	}
	if cfg.Session.DelayAfter <= 0 || cfg.Session.ThinkingDelay < 0 {
		return cfg, errors.New("session thresholds must be positive durations")
	}
	if cfg.Session.KeepTurns < 1 {
		return cfg, errors.New("SESSION_KEEP_TURNS must be >= 1")
	}
	if cfg.Session.ContextTurns < 1 || cfg.Session.ContextTurns > cfg.Session.KeepTurns {
		return cfg, errors.New("SESSION_CONTEXT_TURNS must be in [1, SESSION_KEEP_TURNS]")
	}
	if cfg.RateRPS < 0 || cfg.AdminRateRPS < 0 {
		return cfg, errors.New("rate limits must be >= 0")
	}
	if cfg.RateBurst < 1 || cfg.AdminRateBurst < 1 {
		return cfg, errors.New("rate limit bursts must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
