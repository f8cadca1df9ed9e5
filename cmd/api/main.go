package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/rohankarki/utsavhub-backend/api/routes"
	"github.com/rohankarki/utsavhub-backend/internal/bookings"
	"github.com/rohankarki/utsavhub-backend/internal/catalog"
	"github.com/rohankarki/utsavhub-backend/internal/media"
	"github.com/rohankarki/utsavhub-backend/internal/principals"
	"github.com/rohankarki/utsavhub-backend/internal/storefronts"
	"github.com/rohankarki/utsavhub-backend/internal/views"
	"github.com/rohankarki/utsavhub-backend/pkg/auth/session"
	"github.com/rohankarki/utsavhub-backend/pkg/config"
	"github.com/rohankarki/utsavhub-backend/pkg/db"
	"github.com/rohankarki/utsavhub-backend/pkg/env"
	"github.com/rohankarki/utsavhub-backend/pkg/logger"
	"github.com/rohankarki/utsavhub-backend/pkg/metrics"
	"github.com/rohankarki/utsavhub-backend/pkg/migrate"
	"github.com/rohankarki/utsavhub-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	principalsRepo := principals.NewRepository(dbClient.DB())
	storefrontsRepo := storefronts.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	bookingsRepo := bookings.NewRepository(dbClient.DB())
	viewsRepo := views.NewRepository(dbClient.DB())
	mediaRepo := media.NewRepository(dbClient.DB())

	principalsService, err := principals.NewService(principals.ServiceParams{
		Repo:            principalsRepo,
		StorefrontsRepo: storefrontsRepo,
		Tx:              dbClient,
		Sessions:        sessionManager,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create principals service", err)
		os.Exit(1)
	}

	storefrontsService, err := storefronts.NewService(storefrontsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create storefronts service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(mediaRepo, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, storefrontsRepo, mediaService)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		Repo:        bookingsRepo,
		Listings:    catalogRepo,
		Storefronts: storefrontsRepo,
		Tx:          dbClient,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	viewsService, err := views.NewService(viewsRepo, storefrontsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create views service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	addr := ":" + env.Get("PORT", cfg.App.Port)
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
			httpMetrics,
			sessionManager,
			redisClient,
			principalsService,
			storefrontsService,
			catalogService,
			bookingsService,
			viewsService,
			mediaService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
