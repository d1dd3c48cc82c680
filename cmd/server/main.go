package main

import (
	"cargo-fleet-service/internal/adapters/cache"
	"cargo-fleet-service/internal/adapters/maps"
	"cargo-fleet-service/internal/adapters/repositories"
	"cargo-fleet-service/internal/api"
	"cargo-fleet-service/internal/config"
	"cargo-fleet-service/internal/platform/db"
	"cargo-fleet-service/internal/platform/logging"
	"cargo-fleet-service/internal/ports"
	"cargo-fleet-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires concrete adapters (SQL storage, ORS, Redis) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if cfg.ORSAPIKey == "" {
		return errors.New("ORS_API_KEY is required")
	}

	conn, err := db.OpenDriver(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, cfg.SeedPath, log); err != nil {
		return err
	}

	geocodeCache, closeCache, err := openGeocodeCache(cfg, conn, log)
	if err != nil {
		return err
	}
	defer closeCache()

	ors, err := maps.NewORSClient(maps.Options{
		APIKey:  cfg.ORSAPIKey,
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
		Cache:   geocodeCache,
	})
	if err != nil {
		return err
	}

	vehicles := repositories.NewSQLVehicleRepository(conn)
	cargo := repositories.NewSQLCargoRepository(conn)
	routes := repositories.NewSQLRouteRepository(conn)
	activity := repositories.NewSQLActivityRepository(conn)

	persister := services.NewPersister(cargo, log, cfg.PersistQueue)
	sessions := services.NewPlacementSessions(vehicles, cargo, persister.Enqueue)

	router := api.NewRouter(api.Deps{
		DB:       conn,
		Logger:   log,
		Vehicles: vehicles,
		Cargo:    cargo,
		Routes:   routes,
		Activity: activity,
		Catalog: &services.Catalog{
			Vehicles: vehicles,
			Cargo:    cargo,
			Activity: activity,
			Sessions: sessions,
		},
		Sessions: sessions,
		Planner: &services.RoutePlanner{
			Vehicles: vehicles,
			Cargo:    cargo,
			Routes:   routes,
			Activity: activity,
			Geocoder: ors,
			Planner:  ors,
			Paths:    ors,
		},
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("db_driver", cfg.DBDriver).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Flush placement changes that are still queued.
	if err := persister.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("persister drain failed")
	}
	written, dropped, failed := persister.Stats()
	log.Info().
		Int64("written", written).
		Int64("dropped", dropped).
		Int64("failed", failed).
		Msg("placement persister stopped")

	return nil
}

func initAndSeed(conn *sql.DB, seedPath string, log zerolog.Logger) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", seedPath).Msg("no seed file, skipping")
		return nil
	}
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// openGeocodeCache prefers Redis when REDIS_URL is set and falls back to the
// geocode_cache table otherwise.
func openGeocodeCache(cfg *config.Config, conn *sql.DB, log zerolog.Logger) (ports.GeocodeCache, func(), error) {
	if cfg.RedisURL == "" {
		return cache.NewSQLGeocodeCache(conn), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Dur("ttl", cfg.GeocodeTTL).Msg("geocode cache: redis")

	return cache.NewRedisGeocodeCache(client, cfg.GeocodeTTL), func() { _ = client.Close() }, nil
}
