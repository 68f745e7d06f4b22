package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/site-builder-auth/internal/cache"
	"github.com/iliyamo/site-builder-auth/internal/config"
	"github.com/iliyamo/site-builder-auth/internal/database"
	"github.com/iliyamo/site-builder-auth/internal/queue"
	"github.com/iliyamo/site-builder-auth/internal/repository/mysql"
	"github.com/iliyamo/site-builder-auth/internal/router"
	"github.com/iliyamo/site-builder-auth/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional, real env always wins

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	rateCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	users := mysql.NewUserRepo(db)
	tenants := mysql.NewTenantRepo(db)
	refresh := mysql.NewRefreshTokenRepo(db)
	resets := mysql.NewPasswordResetRepo(db)

	// Counters back the rate limiter. Redis keeps limits consistent across
	// instances; without it a per-process counter still protects a single
	// node.
	var counter cache.Counter
	if rdb := config.NewRedisClient(); rdb != nil {
		counter = cache.NewRedisCounter(rdb)
		log.Info().Msg("rate limit counters: redis")
	} else {
		counter = cache.NewMemoryCounter()
		log.Warn().Msg("redis unavailable, rate limit counters are per-process")
	}

	// Reset emails go out over SMTP when configured; otherwise they are
	// logged, which is what dev and test environments want. With a broker
	// URL set, delivery is decoupled through the queue and a consumer
	// goroutine drains it.
	var delivery service.Mailer
	if cfg.SMTP.Host != "" {
		delivery = service.NewSMTPMailer(cfg.SMTP)
	} else {
		delivery = &service.LogMailer{Log: log}
	}
	var mailer service.Mailer = delivery
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		mailer = service.NewQueueMailer()
		go func() {
			if err := queue.StartResetEmailConsumer(delivery, log); err != nil {
				log.Error().Err(err).Msg("reset email consumer stopped")
			}
		}()
		log.Info().Msg("reset email delivery: rabbitmq queue")
	}

	auth := service.NewAuthService(users, refresh, resets, mailer, log,
		cfg.JWTSecret, cfg.RefreshTTLDays, cfg.BcryptCost)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Deps{
		Cfg:     &cfg,
		RateCfg: rateCfg,
		Auth:    auth,
		Tenants: tenants,
		Counter: counter,
		Log:     log,
	})

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
