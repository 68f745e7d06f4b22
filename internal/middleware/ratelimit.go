package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/site-builder-auth/internal/cache"
	"github.com/iliyamo/site-builder-auth/internal/config"
)

// RateLimitAuth gates the credential endpoints (login, register, refresh)
// behind the configured fixed windows, keyed by client identity + request
// path. A request is rejected when any window already sits at its ceiling;
// otherwise every window's counter is incremented. The counters live in the
// shared store so the limit holds across instances. Counting is approximate
// at window boundaries: a burst straddling a boundary can transiently exceed
// the nominal rate.
func RateLimitAuth(cfg config.RateLimitConfig, counters cache.Counter, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || counters == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := clientIP(c.Request()) + ":" + c.Request().URL.Path

			for _, w := range cfg.Windows {
				n, err := counters.Get(ctx, windowKey(cfg.Prefix, key, w))
				if err != nil {
					// the limiter must not take auth down with it
					log.Warn().Err(err).Str("key", key).Msg("rate limit store unavailable, failing open")
					return next(c)
				}
				if n >= int64(w.Max) {
					log.Info().Str("key", key).Int64("hits", n).Dur("window", w.Window).Msg("rate limited")
					c.Response().Header().Set("Retry-After", "60")
					return c.JSON(http.StatusTooManyRequests, echo.Map{
						"success":    false,
						"message":    "Too many requests, please try again later",
						"retryAfter": 60,
					})
				}
			}
			for _, w := range cfg.Windows {
				if _, err := counters.Incr(ctx, windowKey(cfg.Prefix, key, w), w.Window); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("rate limit increment failed")
					break
				}
			}
			return next(c)
		}
	}
}

func windowKey(prefix, key string, w config.RateWindow) string {
	return fmt.Sprintf("%s:%s:%ds", prefix, key, int(w.Window.Seconds()))
}

// clientIP identifies the caller: forwarded-for header first (edge proxy),
// then real-ip, then the raw connection address.
func clientIP(r *http.Request) string {
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		return strings.TrimSpace(v)
	}
	if v := r.Header.Get("X-Real-IP"); v != "" {
		return strings.TrimSpace(v)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
