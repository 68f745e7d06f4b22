// Package config loads application configuration from environment
// variables. Everything here is read once at startup and immutable
// afterwards.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Required variables are enforced
// by must(); missing values abort startup with a fatal log.
type Config struct {
	Env    string // "dev", "test" or "prod"
	Port   string
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	JWTSecret      string // symmetric signing secret, process-wide
	RefreshTTLDays int
	BcryptCost     int

	// BaseDomain is the platform suffix: a request to
	// acme.<BaseDomain> resolves tenant "acme" by subdomain.
	BaseDomain string
	// DefaultTenant is the subdomain resolved as a last resort outside
	// production, so local development works without Host tricks.
	DefaultTenant string

	SMTP SMTPConfig
}

// SMTPConfig configures the outbound mailer. An empty Host disables SMTP
// delivery and the service falls back to the log mailer.
type SMTPConfig struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		BaseDomain:     envStr("BASE_DOMAIN", "sitebuilder.local"),
		DefaultTenant:  envStr("DEFAULT_TENANT", "default"),
		SMTP: SMTPConfig{
			Host: envStr("SMTP_HOST", ""),
			Port: envInt("SMTP_PORT", 587),
			From: envStr("SMTP_FROM", "no-reply@sitebuilder.local"),
			User: envStr("SMTP_USER", ""),
			Pass: envStr("SMTP_PASS", ""),
		},
	}
}

// IsProd gates behavior that must never run outside production, like the
// default-tenant fallback being disabled.
func (c Config) IsProd() bool { return c.Env == "prod" }

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
