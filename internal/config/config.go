// Package config provides environment-driven configuration for keyfleet.
// Configuration follows 12-factor principles: everything comes from the
// environment, with sensible defaults for local development.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL Secret `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8000"`
	ListenHost  string `env:"LISTEN_HOST" envDefault:"127.0.0.1"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Encryption of provisioned credentials at rest.
	EncryptionKey Secret `env:"ENCRYPTION_KEY,required"`

	// Hosted pricing-table embed. The secret stays server-side; the
	// publishable key and table id are handed to consoles via /api/config.
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	StripePricingTableID string `env:"STRIPE_PRICING_TABLE_ID"`
	StripeSecretKey      Secret `env:"STRIPE_SECRET_KEY"`

	// APIBaseURL is what /api/config reports to consoles.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`

	// Feature flags passed through /api/config verbatim.
	EnablePricingTable bool `env:"ENABLE_PRICING_TABLE" envDefault:"true"`
	EnableEvents       bool `env:"ENABLE_EVENTS" envDefault:"true"`

	AuditQueueSize int `env:"AUDIT_QUEUE_SIZE" envDefault:"1000"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenHost, c.Port)
}

func (c *Config) validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if len(c.EncryptionKey.Value()) < 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be at least 32 bytes")
	}

	return c.validateCORS()
}

func (c *Config) validateDatabase() error {
	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}
