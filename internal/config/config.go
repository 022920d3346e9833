// Package config provides centralized configuration for the sitecheck suite.
// It loads configuration from environment variables, validates required fields,
// and provides sensible defaults.
//
// SITE_URL, USER_NAME, and USER_PASSWORD point the suite at the site under
// test. SITECHECK_FIXTURE=1 runs against the built-in fixture site instead,
// which needs no environment at all.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/webdrift/sitecheck/internal/logutil"
)

const (
	defaultArtifactsDir = "test-results"
	defaultLoginPath    = "/login"
	defaultTimeout      = 10 * time.Second
)

// Config holds all suite configuration.
type Config struct {
	// Site under test
	SiteURL   string // SITE_URL, scheme-qualified base URL
	Username  string // USER_NAME
	Password  string // USER_PASSWORD
	LoginPath string // SITECHECK_LOGIN_PATH, path of the login form

	// Suite behavior
	ArtifactsDir string        // SITECHECK_ARTIFACTS_DIR, screenshots/videos/console logs
	Headless     bool          // HEADLESS, set to "false" to watch the browser
	RecordVideo  bool          // SITECHECK_RECORD_VIDEO
	Timeout      time.Duration // SITECHECK_TIMEOUT, cap for every navigation and wait

	// Fixture mode (SITECHECK_FIXTURE): run against the built-in demo site.
	// SITE_URL and credentials are then supplied by the fixture itself.
	Fixture bool
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load loads configuration from environment variables and validates it.
// Every missing or malformed variable is reported in a single ValidationError
// so one run of the suite surfaces the whole problem.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Fixture = parseBoolOrDefault("SITECHECK_FIXTURE", false)

	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(os.Getenv("SITE_URL")), "/")
	cfg.Username = strings.TrimSpace(os.Getenv("USER_NAME"))
	cfg.Password = os.Getenv("USER_PASSWORD")
	cfg.LoginPath = getEnvOrDefault("SITECHECK_LOGIN_PATH", defaultLoginPath)

	cfg.ArtifactsDir = getEnvOrDefault("SITECHECK_ARTIFACTS_DIR", defaultArtifactsDir)
	cfg.Headless = parseBoolOrDefault("HEADLESS", true)
	cfg.RecordVideo = parseBoolOrDefault("SITECHECK_RECORD_VIDEO", true)
	cfg.Timeout = parseDurationOrDefault("SITECHECK_TIMEOUT", defaultTimeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
// Fixture mode supplies its own site and credentials, so the SITE_* family is
// only required when targeting a live site.
func (c *Config) Validate() error {
	var errs []string

	if !c.Fixture {
		if c.SiteURL == "" {
			errs = append(errs, "SITE_URL is required (set env var or use SITECHECK_FIXTURE=1)")
		} else if u, err := url.Parse(c.SiteURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("SITE_URL must be an absolute http(s) URL, got %q", c.SiteURL))
		}
		if c.Username == "" {
			errs = append(errs, "USER_NAME is required (login account for the site under test)")
		}
		if c.Password == "" {
			errs = append(errs, "USER_PASSWORD is required (login password for the site under test)")
		}
	}

	if !strings.HasPrefix(c.LoginPath, "/") {
		errs = append(errs, fmt.Sprintf("SITECHECK_LOGIN_PATH must start with '/', got %q", c.LoginPath))
	}
	if c.Timeout <= 0 {
		errs = append(errs, "SITECHECK_TIMEOUT must be positive")
	}
	if c.ArtifactsDir == "" {
		errs = append(errs, "SITECHECK_ARTIFACTS_DIR must not be empty")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// LoginURL returns the absolute URL of the login form.
func (c *Config) LoginURL() string {
	return c.SiteURL + c.LoginPath
}

// TimeoutMS returns the suite timeout in milliseconds for playwright options.
func (c *Config) TimeoutMS() float64 {
	return float64(c.Timeout.Milliseconds())
}

// RedactedSummary returns a human-readable startup summary. The password never
// appears; the username passes through the shared redaction check in case the
// operator put a secret in the wrong variable.
func (c *Config) RedactedSummary() string {
	var b strings.Builder
	fmt.Fprintln(&b, "sitecheck suite configuration:")
	if c.Fixture {
		fmt.Fprintln(&b, "  Target:  built-in fixture site (SITECHECK_FIXTURE)")
	} else {
		fmt.Fprintf(&b, "  Target:  %s\n", c.SiteURL)
		fmt.Fprintf(&b, "  Login:   %s as %s\n", c.LoginPath, logutil.RedactValue("user_name", c.Username))
		fmt.Fprintln(&b, "  Secret:  USER_PASSWORD [configured]")
	}
	fmt.Fprintf(&b, "  Artifacts: %s\n", c.ArtifactsDir)
	fmt.Fprintf(&b, "  Headless:  %t, video: %t, timeout: %s\n", c.Headless, c.RecordVideo, c.Timeout)
	return b.String()
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoad loads configuration and exits the process if validation fails.
// Use in TestMain and cmd/preflight so a broken environment fails before any
// browser starts, with the full list of problems.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintln(os.Stderr, validationErr.Error())
		} else {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		}
		os.Exit(2)
	}
	return cfg
}
