package repositories

import (
	"cargo-fleet-service/internal/domain"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// The schema is written in the subset of SQL shared by PostgreSQL and SQLite.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		model_number TEXT NOT NULL,
		seats INTEGER NOT NULL DEFAULT 0,
		mode TEXT NOT NULL,
		width DOUBLE PRECISION NOT NULL,
		length DOUBLE PRECISION NOT NULL,
		height DOUBLE PRECISION NOT NULL,
		max_weight DOUBLE PRECISION NOT NULL,
		max_volume DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS cargos (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		length DOUBLE PRECISION NOT NULL,
		width DOUBLE PRECISION NOT NULL,
		height DOUBLE PRECISION NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		stackable BOOLEAN NOT NULL DEFAULT FALSE,
		rotatable BOOLEAN NOT NULL DEFAULT FALSE,
		pos_x DOUBLE PRECISION NOT NULL DEFAULT 0,
		pos_y DOUBLE PRECISION NOT NULL DEFAULT 0,
		pos_z INTEGER NOT NULL DEFAULT 0,
		rotation INTEGER NOT NULL DEFAULT 0,
		destination TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_cargos_vehicle_id
	ON cargos(vehicle_id);
	`,
	`
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		waypoints TEXT NOT NULL,
		stops TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS activity_logs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at
	ON activity_logs(created_at);
	`,
	`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`,
}

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CargoSeed struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	Stackable   bool    `json:"stackable"`
	Rotatable   bool    `json:"rotatable"`
	Destination string  `json:"destination"`
	// Position in display units; omitted items start at the origin.
	Position SeedPosition `json:"position"`
}

type SeedPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z int     `json:"z"`
}

type VehicleSeed struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand"`
	ModelNumber string      `json:"model_number"`
	Seats       int         `json:"seats"`
	Mode        string      `json:"mode"`
	Width       float64     `json:"width"`
	Length      float64     `json:"length"`
	Height      float64     `json:"height"`
	MaxWeight   float64     `json:"max_weight"`
	MaxVolume   float64     `json:"max_volume"`
	Cargo       []CargoSeed `json:"cargo"`
}

// Populate the database with demo vehicles and cargo from a JSON file.
// Existing rows with the same id are left untouched.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed vehicles: read %q: %w", jsonPath, err)
	}

	var data []VehicleSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed vehicles: parse json: %w", err)
	}

	now := time.Now().UTC()
	vehicles := make([]*domain.Vehicle, 0, len(data))
	cargo := make([]*domain.CargoItem, 0)
	for i, item := range data {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("seed vehicles: vehicle at index %d: id cannot be empty", i+1)
		}

		v, err := domain.NewVehicle(domain.Vehicle{
			ID:          item.ID,
			Name:        item.Name,
			Brand:       item.Brand,
			ModelNumber: item.ModelNumber,
			Seats:       item.Seats,
			Mode:        item.Mode,
			Width:       item.Width,
			Length:      item.Length,
			Height:      item.Height,
			MaxWeight:   item.MaxWeight,
			MaxVolume:   item.MaxVolume,
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("seed vehicles: vehicle at index %d: %w", i+1, err)
		}
		vehicles = append(vehicles, v)

		for j, cs := range item.Cargo {
			if strings.TrimSpace(cs.ID) == "" {
				return fmt.Errorf("seed vehicles: cargo %d of vehicle %q: id cannot be empty", j+1, item.ID)
			}
			c, err := domain.NewCargoItem(domain.CargoItem{
				ID:          cs.ID,
				VehicleID:   v.ID,
				Name:        cs.Name,
				Length:      cs.Length,
				Width:       cs.Width,
				Height:      cs.Height,
				Weight:      cs.Weight,
				Stackable:   cs.Stackable,
				Rotatable:   cs.Rotatable,
				Position:    domain.Position{X: cs.Position.X, Y: cs.Position.Y, Z: cs.Position.Z},
				Destination: cs.Destination,
				CreatedAt:   now,
			})
			if err != nil {
				return fmt.Errorf("seed vehicles: cargo %d of vehicle %q: %w", j+1, item.ID, err)
			}
			cargo = append(cargo, c)
		}
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed vehicles: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, v := range vehicles {
		if _, err := tx.ExecContext(ctx, insertVehicleQuery+` ON CONFLICT (id) DO NOTHING;`, vehicleArgs(v)...); err != nil {
			return fmt.Errorf("seed vehicles: insert vehicle id=%s: %w", v.ID, err)
		}
	}
	for _, c := range cargo {
		if _, err := tx.ExecContext(ctx, insertCargoQuery+` ON CONFLICT (id) DO NOTHING;`, cargoArgs(c)...); err != nil {
			return fmt.Errorf("seed vehicles: insert cargo id=%s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed vehicles: commit tx: %w", err)
	}

	return nil
}
