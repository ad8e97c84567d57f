package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/meridianpress/meridian-backend/api/routes"
	"github.com/meridianpress/meridian-backend/internal/cart"
	"github.com/meridianpress/meridian-backend/internal/checkout"
	"github.com/meridianpress/meridian-backend/internal/consent"
	"github.com/meridianpress/meridian-backend/internal/content"
	"github.com/meridianpress/meridian-backend/internal/member"
	"github.com/meridianpress/meridian-backend/internal/waitlist"
	"github.com/meridianpress/meridian-backend/pkg/config"
	"github.com/meridianpress/meridian-backend/pkg/db"
	"github.com/meridianpress/meridian-backend/pkg/logger"
	"github.com/meridianpress/meridian-backend/pkg/metrics"
	"github.com/meridianpress/meridian-backend/pkg/migrate"
	"github.com/meridianpress/meridian-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	defer func() {
		closeErr := multierr.Combine(dbClient.Close(), redisClient.Close())
		if closeErr != nil {
			logg.Error(context.Background(), "error closing clients", closeErr)
		}
	}()

	contentClient, err := content.NewClient(cfg.Content)
	if err != nil {
		logg.Error(context.Background(), "failed to build content client", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	memberService, err := member.NewService(redisClient, contentClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create member service", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(cartService, cfg.Checkout.FallbackURL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}
	consentService, err := consent.NewService(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create consent service", err)
		os.Exit(1)
	}
	waitlistService, err := waitlist.NewService(waitlist.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create waitlist service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			DB:          dbClient,
			Content:     contentClient,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Carts:       cartService,
			Members:     memberService,
			Checkout:    checkoutService,
			Consent:     consentService,
			Waitlist:    waitlistService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
