// Package config provides centralized configuration loaded from environment
// variables, plus the club registry. Shared by every courtwatch subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courtwatch/courtwatch/internal/window"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	// DefaultBaseURL is the public availability endpoint of the booking
	// platform; clubs are addressed by numeric id under this path.
	DefaultBaseURL = "https://alquilatucancha.com/api/v3/availability/sportclubs"

	// DefaultSportID is the platform's tag for padel.
	DefaultSportID = "7"

	DefaultTimezone = "America/Argentina/Buenos_Aires"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Availability API
	BaseURL           string
	SportID           string
	LookaheadDays     int
	RequestsPerMinute int

	// Eligibility window
	DaysToCheck    []string
	EarliestHour   int
	EarliestMinute int
	LatestHour     int
	LatestMinute   int
	Timezone       string

	// Scan loop
	CheckInterval time.Duration
	RunStartHour  int
	RunEndHour    int

	// Ledger
	TTL         time.Duration
	StorageFile string
	DatabaseURL string // when set, the ledger lives in Postgres instead of StorageFile

	// Email delivery
	EmailSender     string
	EmailPassword   string
	EmailRecipients []string
	SMTPHost        string
	SMTPPort        int

	// Status API
	StatusEnabled     bool
	APIHost           string
	APIPort           int
	CORSAllowOrigins  []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Clubs
	Clubs []Club
}

// Load reads configuration from environment variables with sensible defaults.
// Env var names match the original notifier where the setting existed there.
func Load() (*Config, error) {
	cfg := &Config{
		BaseURL:           strings.TrimRight(envOr("API_BASE_URL", DefaultBaseURL), "/"),
		SportID:           envOr("SPORT_ID", DefaultSportID),
		LookaheadDays:     envInt("LOOKAHEAD_DAYS", 6),
		RequestsPerMinute: envInt("API_REQUESTS_PER_MINUTE", 60),

		DaysToCheck:    envList("DAYS_TO_CHECK", []string{"MO", "TU", "WE", "TH", "FR"}),
		EarliestHour:   envInt("EARLIEST_HOUR", 18),
		EarliestMinute: envInt("EARLIEST_MINUTE", 30),
		LatestHour:     envInt("LATEST_HOUR", 23),
		LatestMinute:   envInt("LATEST_MINUTE", 0),
		Timezone:       envOr("TIMEZONE", DefaultTimezone),

		CheckInterval: time.Duration(envInt("CHECK_INTERVAL_MINUTES", 30)) * time.Minute,
		RunStartHour:  envInt("RUN_START_HOUR", 7),
		RunEndHour:    envInt("RUN_END_HOUR", 23),

		TTL:         time.Duration(envInt("NOTIFICATION_TTL_HOURS", 24)) * time.Hour,
		StorageFile: envOr("STORAGE_FILE", "notified-slots.json"),
		DatabaseURL: envOr("DATABASE_URL", ""),

		EmailSender:     envOr("EMAIL_SENDER", ""),
		EmailPassword:   envOr("EMAIL_PASSWORD", ""),
		EmailRecipients: envList("EMAIL_RECIPIENTS", nil),
		SMTPHost:        envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        envInt("SMTP_PORT", 587),

		StatusEnabled:     envBool("STATUS_ENABLED", false),
		APIHost:           envOr("API_HOST", "0.0.0.0"),
		APIPort:           envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins:  envList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}

	if cfg.LookaheadDays < 1 {
		return nil, fmt.Errorf("LOOKAHEAD_DAYS must be at least 1")
	}
	if cfg.CheckInterval < time.Minute {
		return nil, fmt.Errorf("CHECK_INTERVAL_MINUTES must be at least 1")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("NOTIFICATION_TTL_HOURS must be positive")
	}

	clubs, err := loadClubs(envOr("CLUBS_FILE", ""))
	if err != nil {
		return nil, err
	}
	cfg.Clubs = clubs

	return cfg, nil
}

// Window builds the eligibility window from the configured days, cutoffs and
// timezone. Kept as a method so validation of the day symbols and the zone
// happens at startup, not mid-scan.
func (c *Config) Window() (window.Window, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return window.Window{}, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return window.New(c.DaysToCheck, c.EarliestHour, c.EarliestMinute, c.LatestHour, c.LatestMinute, loc)
}

// EmailConfigured reports whether delivery credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.EmailSender != "" && len(c.EmailRecipients) > 0
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
