package api

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds backend client configuration.
type Config struct {
	// BaseURL is the backend origin, without the /api/v2 suffix.
	BaseURL string

	// Language is sent with question requests. Default: "en".
	Language string

	// Timeout is the per-request limit for most calls. Default: 10s.
	Timeout time.Duration

	// InfoTimeout is the extended limit for the student-info submission,
	// which waits on server-side report generation. Default: 60s.
	InfoTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:8000",
		Language:    "en",
		Timeout:     10 * time.Second,
		InfoTimeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("CARHYTHM_API_URL"); u != "" {
		cfg.BaseURL = u
	}
	if l := os.Getenv("CARHYTHM_LANGUAGE"); l != "" {
		cfg.Language = l
	}
	if t := os.Getenv("CARHYTHM_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate checks that the base URL is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("CARHYTHM_API_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	return nil
}
