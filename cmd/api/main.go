package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quickpour/quickpour-backend/api/routes"
	"github.com/quickpour/quickpour-backend/internal/checkout"
	"github.com/quickpour/quickpour-backend/internal/dispatch"
	"github.com/quickpour/quickpour-backend/internal/drivers"
	"github.com/quickpour/quickpour-backend/internal/fulfillment"
	"github.com/quickpour/quickpour-backend/internal/notifications"
	"github.com/quickpour/quickpour-backend/internal/orders"
	"github.com/quickpour/quickpour-backend/internal/stores"
	"github.com/quickpour/quickpour-backend/pkg/config"
	"github.com/quickpour/quickpour-backend/pkg/db"
	"github.com/quickpour/quickpour-backend/pkg/logger"
	"github.com/quickpour/quickpour-backend/pkg/metrics"
	"github.com/quickpour/quickpour-backend/pkg/migrate"
	"github.com/quickpour/quickpour-backend/pkg/outbox"
	"github.com/quickpour/quickpour-backend/pkg/procs"
	"github.com/quickpour/quickpour-backend/pkg/redis"
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

	procsClient, err := procs.NewClient(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create procedure client", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	storeService, err := stores.NewService(stores.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	resolver, err := fulfillment.NewResolver(stores.NewRepository(dbClient.DB()), procsClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create fulfillment resolver", err)
		os.Exit(1)
	}

	dispatchService, err := dispatch.NewService(dbClient, dispatch.NewRepository(dbClient.DB()), procsClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(dbClient, ordersRepo, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	checkoutService, err := checkout.NewService(
		dbClient,
		ordersRepo,
		storeService,
		resolver,
		dispatchService,
		procsClient,
		outboxService,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	driversService, err := drivers.NewService(procsClient, redisClient, cfg.Drivers.LocationCacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create drivers service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Gatherer:      prometheus.DefaultGatherer,
			Checkout:      checkoutService,
			Orders:        ordersService,
			Stores:        storeService,
			Notifications: notificationsService,
			Drivers:       driversService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
