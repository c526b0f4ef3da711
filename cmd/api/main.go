package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mlefebvre/parcinfo-backend/api/routes"
	"github.com/mlefebvre/parcinfo-backend/internal/audit"
	"github.com/mlefebvre/parcinfo-backend/internal/cache"
	"github.com/mlefebvre/parcinfo-backend/internal/employees"
	"github.com/mlefebvre/parcinfo-backend/internal/inventory"
	"github.com/mlefebvre/parcinfo-backend/internal/loans"
	"github.com/mlefebvre/parcinfo-backend/pkg/config"
	"github.com/mlefebvre/parcinfo-backend/pkg/db"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
	"github.com/mlefebvre/parcinfo-backend/pkg/metrics"
	"github.com/mlefebvre/parcinfo-backend/pkg/migrate"
	"github.com/mlefebvre/parcinfo-backend/pkg/redis"
	"github.com/mlefebvre/parcinfo-backend/pkg/storage/signatures"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	transitionMetrics := metrics.NewTransitionMetrics(registry)

	invalidator := cache.NewInvalidator(redisClient)
	recorder := audit.NewRecorder(dbClient.DB())

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:     inventory.NewRepository(dbClient.DB()),
		DBClient: dbClient,
		Cache:    invalidator,
		Audit:    recorder,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	employeeService, err := employees.NewService(employees.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create employee service", err)
		os.Exit(1)
	}

	signatureStore, err := signatures.NewDiskStore(cfg.Signatures, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create signature store", err)
		os.Exit(1)
	}

	loanService, err := loans.NewService(loans.ServiceParams{
		Repo:       loans.NewRepository(dbClient.DB()),
		DBClient:   dbClient,
		Ledger:     inventoryService,
		Employees:  employees.NewRepository(dbClient.DB()),
		Cache:      invalidator,
		Audit:      recorder,
		Signatures: signatureStore,
		Metrics:    transitionMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create loan service", err)
		os.Exit(1)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Cache:     redisClient,
			Inventory: inventoryService,
			Employees: employeeService,
			Loans:     loanService,
			Registry:  registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
