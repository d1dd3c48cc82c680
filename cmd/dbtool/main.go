package main

import (
	"cargo-fleet-service/internal/adapters/repositories"
	"cargo-fleet-service/internal/config"
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/platform/db"
	"cargo-fleet-service/internal/platform/logging"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

const usage = `usage: dbtool [command]

commands:
  init      create the schema and load SEED_PATH (default)
  vehicles  list vehicles with their current load`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)

	cmd := "init"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	conn, err := db.OpenDriver(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	switch cmd {
	case "init":
		err = initAndSeed(conn, cfg.SeedPath, log)
	case "vehicles":
		err = listVehicles(context.Background(), conn)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("dbtool failed")
	}
}

func initAndSeed(conn *sql.DB, seedPath string, log zerolog.Logger) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")

	log.Info().Str("path", seedPath).Msg("seeding database")
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Msg("seeding complete")

	return nil
}

func listVehicles(ctx context.Context, conn *sql.DB) error {
	vehicles, err := repositories.NewSQLVehicleRepository(conn).ListVehicles(ctx)
	if err != nil {
		return err
	}
	cargo := repositories.NewSQLCargoRepository(conn)

	for _, v := range vehicles {
		items, err := cargo.ListCargo(ctx, v.ID)
		if err != nil {
			return err
		}
		s := placement.Summarize(v, items)
		fmt.Printf("%-24s %-20s items=%-3d weight=%.0f/%.0fkg (%.0f%%) volume=%.1f/%.1fm3\n",
			v.ID, v.Name, s.ItemCount, s.TotalWeight, s.MaxWeight, s.WeightPercent, s.UsedVolume, s.MaxVolume)
	}

	return nil
}
