package config

import (
	"os"
	"strconv"
	"time"
)

// RateWindow is one fixed counting window with its ceiling.
type RateWindow struct {
	Max    int
	Window time.Duration
}

// RateLimitConfig drives the limiter on the credential endpoints. The three
// default windows (10/minute, 30/5 minutes, 100/hour) run concurrently and
// independently; a request must clear all of them.
type RateLimitConfig struct {
	Enabled bool
	Prefix  string
	Windows []RateWindow
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		Windows: []RateWindow{
			{Max: envInt("RATE_LIMIT_PER_MINUTE", 10), Window: time.Minute},
			{Max: envInt("RATE_LIMIT_PER_5_MINUTES", 30), Window: 5 * time.Minute},
			{Max: envInt("RATE_LIMIT_PER_HOUR", 100), Window: time.Hour},
		},
	}
	for i := range cfg.Windows {
		if cfg.Windows[i].Max < 1 {
			cfg.Windows[i].Max = 1
		}
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
