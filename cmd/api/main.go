package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/smartinv/inventory-backend/api/routes"
	"github.com/smartinv/inventory-backend/internal/ai"
	"github.com/smartinv/inventory-backend/internal/auth"
	"github.com/smartinv/inventory-backend/internal/catalog"
	"github.com/smartinv/inventory-backend/internal/ledger"
	"github.com/smartinv/inventory-backend/internal/seed"
	"github.com/smartinv/inventory-backend/internal/users"
	"github.com/smartinv/inventory-backend/pkg/config"
	"github.com/smartinv/inventory-backend/pkg/db"
	"github.com/smartinv/inventory-backend/pkg/logger"
	"github.com/smartinv/inventory-backend/pkg/metrics"
	"github.com/smartinv/inventory-backend/pkg/migrate"
	"github.com/smartinv/inventory-backend/pkg/redis"
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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

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
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	if cfg.FeatureFlags.AutoSeed {
		seeder, err := seed.New(dbClient, cfg.Password, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create seeder", err)
			os.Exit(1)
		}
		if err := seeder.Run(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed initial data", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	inventoryMetrics := metrics.NewInventoryMetrics(registry)

	listCache := catalog.NewListCache(redisClient, cfg.Catalog.ListTTL, inventoryMetrics, logg)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), listCache, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(
		ledger.NewRepository(dbClient.DB()),
		dbClient,
		listCache,
		inventoryMetrics,
		logg,
		cfg.DB.LockTimeout,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	var aiService ai.Service
	if cfg.Gemini.Configured() {
		geminiClient, err := ai.NewGeminiClient(context.Background(), cfg.Gemini)
		if err != nil {
			logg.Error(context.Background(), "failed to create gemini client", err)
			os.Exit(1)
		}
		aiService, err = ai.NewService(geminiClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create ai service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "gemini api key missing, ai insights disabled")
	}

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			catalogService,
			ledgerService,
			aiService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
