package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jimengapi/internal/catalog"
	"jimengapi/internal/http/handlers"
	"jimengapi/internal/http/httpapi"
	"jimengapi/internal/infra"
	"jimengapi/internal/infra/geoip"
	"jimengapi/internal/middleware"
	"jimengapi/internal/providers/jimeng"
	"jimengapi/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Snapshot store: Postgres when configured, local file otherwise.
	var snapshots catalog.SnapshotStore
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		pg := storage.NewPGStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare snapshot table")
		}
		snapshots = pg
	} else {
		fileStore, err := storage.NewFileStore(cfg.SnapshotPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open snapshot file store")
		}
		snapshots = fileStore
	}

	fetcher := jimeng.NewClient(jimeng.Options{
		Logger:         &logger,
		RequestTimeout: cfg.VendorTimeout,
	})

	store := catalog.NewStore(catalog.StoreOptions{
		Snapshots: snapshots,
		Fetcher:   fetcher,
		Logger:    logger,
	})
	// The catalog must be complete before traffic is served.
	if err := store.Initialize(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize model catalog")
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(store, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		CountryLookup:  lookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
