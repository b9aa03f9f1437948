package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, read once at startup and
// fixed for the process lifetime.
type Config struct {
	// Google Calendar.
	GoogleCredsJSON string // path to the service-account credentials file
	CalendarID      string
	Timezone        string

	// Model provider.
	Provider string
	Model    string

	// Conversation conventions: the year and month the assistant assumes
	// when the user leaves them unspecified.
	CurrentYear  int
	CurrentMonth time.Month

	// Serving.
	HTTPAddr string

	// Transcript memory.
	MemoryBackend   string
	MemoryDSN       string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	TranscriptLimit int

	location *time.Location
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present; real environment variables
// win over file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GoogleCredsJSON: os.Getenv("GOOGLE_CREDS_JSON"),
		CalendarID:      os.Getenv("CALENDAR_ID"),
		Timezone:        getenv("TIMEZONE", "Asia/Kolkata"),
		Provider:        getenv("MODEL_PROVIDER", "openai"),
		Model:           getenv("OPENAI_MODEL", "gpt-4o-mini"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		MemoryBackend:   getenv("MEMORY_BACKEND", "memory"),
		MemoryDSN:       os.Getenv("MEMORY_DSN"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDatabase:   getenv("MONGO_DATABASE", "schedmate"),
		MongoCollection: getenv("MONGO_COLLECTION", "transcripts"),
	}

	var err error
	if cfg.CurrentYear, err = getenvInt("CURRENT_YEAR", 2025); err != nil {
		return nil, err
	}
	month, err := getenvInt("CURRENT_MONTH", 7)
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("CURRENT_MONTH must be between 1 and 12, got %d", month)
	}
	cfg.CurrentMonth = time.Month(month)

	if cfg.TranscriptLimit, err = getenvInt("TRANSCRIPT_LIMIT", 16); err != nil {
		return nil, err
	}
	if cfg.TranscriptLimit < 1 {
		return nil, fmt.Errorf("TRANSCRIPT_LIMIT must be at least 1, got %d", cfg.TranscriptLimit)
	}

	if cfg.GoogleCredsJSON == "" {
		return nil, fmt.Errorf("GOOGLE_CREDS_JSON must be set")
	}
	if cfg.CalendarID == "" {
		return nil, fmt.Errorf("CALENDAR_ID must be set")
	}
	if err := checkProviderKey(cfg.Provider); err != nil {
		return nil, err
	}

	if cfg.location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("TIMEZONE %q is not a valid IANA zone: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location returns the resolved default timezone.
func (c *Config) Location() *time.Location {
	return c.location
}

// checkProviderKey fails fast when the chosen provider's API key is
// plainly absent, instead of erroring on the first chat turn.
func checkProviderKey(provider string) error {
	switch provider {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("OPENAI_KEY") == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set")
		}
	case "anthropic", "claude":
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY must be set")
		}
	case "gemini", "google":
		if os.Getenv("GOOGLE_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("GOOGLE_API_KEY or GEMINI_API_KEY must be set")
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
