package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	DoceditAPIKey string

	// Geometry engine
	GeometryLicenseKey string

	// Sessions
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Spelling: a remote service wins over a local word list.
	DictionaryPath     string
	SpellServiceURL    string
	SpellServiceAPIKey string

	// Export
	ScreenWidth   int
	PDFPageSize   string
	StatsWindow   time.Duration
	MinLineWidth  int
	ScriptTimeout time.Duration

	// PDF import
	PDFFallbackPdftotext bool

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		DoceditAPIKey: os.Getenv("DOCEDIT_API_KEY"),

		GeometryLicenseKey: os.Getenv("GEOMETRY_LICENSE_KEY"),

		SessionTTL:             envDuration("SESSION_TTL", 2*time.Hour),
		SessionCleanupInterval: envDuration("SESSION_CLEANUP_INTERVAL", 5*time.Minute),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		DictionaryPath:     os.Getenv("DICTIONARY_PATH"),
		SpellServiceURL:    strings.TrimRight(os.Getenv("SPELL_SERVICE_URL"), "/"),
		SpellServiceAPIKey: os.Getenv("SPELL_SERVICE_API_KEY"),

		ScreenWidth:   envInt("SCREEN_WIDTH", 800),
		PDFPageSize:   envOr("PDF_PAGE_SIZE", "A4"),
		StatsWindow:   envDuration("STATS_WINDOW", 15*time.Minute),
		MinLineWidth:  envInt("MIN_LINE_WIDTH", 1),
		ScriptTimeout: envDuration("SCRIPT_TIMEOUT", 2*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.SessionCleanupInterval <= 0 {
		cfg.SessionCleanupInterval = 5 * time.Minute
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ScreenWidth <= 0 {
		cfg.ScreenWidth = 800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 15 * time.Minute
	}
	if cfg.MinLineWidth <= 0 {
		cfg.MinLineWidth = 1
	}
	if cfg.ScriptTimeout <= 0 {
		cfg.ScriptTimeout = 2 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DoceditAPIKey == "" {
		return fmt.Errorf("DOCEDIT_API_KEY is required")
	}
	if c.GeometryLicenseKey == "" {
		return fmt.Errorf("GEOMETRY_LICENSE_KEY is required")
	}
	switch strings.ToLower(c.PDFPageSize) {
	case "a4", "letter", "legal":
	default:
		return fmt.Errorf("PDF_PAGE_SIZE %q is not one of A4, Letter, Legal", c.PDFPageSize)
	}
	if c.ScreenWidth < 64 {
		return fmt.Errorf("SCREEN_WIDTH must be at least 64, got %d", c.ScreenWidth)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
