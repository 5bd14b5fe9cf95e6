package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	ModeOnPrem      = "onprem"
	ModeDevelopment = "development"
)

// Config is built once in main and passed into every component constructor.
// Nothing else in the tree reads the environment directly.
type Config struct {
	Mode     string
	Port     string
	LogLevel string
	BaseURL  string

	DatabaseURL string

	SessionSecret          string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	SAMLEntryPoint  string
	SAMLIssuer      string
	SAMLCert        string
	SAMLCallbackURL string

	DevUserEmail string
	DevUserName  string
}

func Load() *Config {
	mode := strings.ToLower(envOr("DEPLOYMENT_MODE", ModeDevelopment))
	if mode != ModeOnPrem {
		mode = ModeDevelopment
	}
	return &Config{
		Mode:                   mode,
		Port:                   envOr("HTTP_PORT", "8080"),
		LogLevel:               os.Getenv("LOG_LEVEL"),
		BaseURL:                strings.TrimRight(envOr("BASE_URL", "http://localhost:8080"), "/"),
		DatabaseURL:            strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SessionSecret:          strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTL:             envDuration("SESSION_TTL", 24*time.Hour),
		SessionCleanupInterval: envDuration("SESSION_CLEANUP_INTERVAL", 15*time.Minute),
		SAMLEntryPoint:         strings.TrimSpace(os.Getenv("SAML_ENTRY_POINT")),
		SAMLIssuer:             strings.TrimSpace(os.Getenv("SAML_ISSUER")),
		SAMLCert:               strings.TrimSpace(os.Getenv("SAML_CERT")),
		SAMLCallbackURL:        strings.TrimSpace(os.Getenv("SAML_CALLBACK_URL")),
		DevUserEmail:           envOr("DEV_USER_EMAIL", "dev@tempo.local"),
		DevUserName:            envOr("DEV_USER_NAME", "Dev User"),
	}
}

// OnPrem is the single source of truth for deployment mode. Components must
// consult this and never re-derive the mode from the environment.
func (c *Config) OnPrem() bool {
	return c.Mode == ModeOnPrem
}

// Validate fails fast in on-prem mode when any required value is absent.
// In development mode missing values are replaced with safe defaults and the
// substitutions are reported so a misconfigured production deployment cannot
// silently run against the fallback store.
func (c *Config) Validate() ([]string, error) {
	if c.OnPrem() {
		var missing []string
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
		if len(c.SessionSecret) < 32 {
			missing = append(missing, "SESSION_SECRET (minimum 32 characters)")
		}
		if c.SAMLEntryPoint == "" {
			missing = append(missing, "SAML_ENTRY_POINT")
		}
		if c.SAMLIssuer == "" {
			missing = append(missing, "SAML_ISSUER")
		}
		if c.SAMLCert == "" {
			missing = append(missing, "SAML_CERT")
		}
		if c.SAMLCallbackURL == "" {
			missing = append(missing, "SAML_CALLBACK_URL")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("on-premises mode requires: %s", strings.Join(missing, ", "))
		}
		return nil, nil
	}

	var defaulted []string
	if len(c.SessionSecret) < 32 {
		c.SessionSecret = "development-session-secret-do-not-use-in-production"
		defaulted = append(defaulted, "SESSION_SECRET")
	}
	return defaulted, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
