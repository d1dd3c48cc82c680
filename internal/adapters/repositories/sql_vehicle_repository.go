package repositories

import (
	"cargo-fleet-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const insertVehicleQuery = `
	INSERT INTO vehicles (
		id, name, brand, model_number, seats, mode,
		width, length, height, max_weight, max_volume, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const selectVehicleColumns = `
	SELECT
		id, name, brand, model_number, seats, mode,
		width, length, height, max_weight, max_volume, created_at
	FROM vehicles`

func vehicleArgs(v *domain.Vehicle) []any {
	return []any{
		v.ID, v.Name, v.Brand, v.ModelNumber, v.Seats, v.Mode,
		v.Width, v.Length, v.Height, v.MaxWeight, v.MaxVolume, v.CreatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(
		&v.ID, &v.Name, &v.Brand, &v.ModelNumber, &v.Seats, &v.Mode,
		&v.Width, &v.Length, &v.Height, &v.MaxWeight, &v.MaxVolume, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return &v, nil
}

// SQL-backed implementation of the VehicleRepository port.
type SQLVehicleRepository struct{ DB *sql.DB }

func NewSQLVehicleRepository(db *sql.DB) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: db}
}

// Insert a vehicle, assigning an id and creation time when missing.
func (s *SQLVehicleRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	if s.DB == nil {
		return errors.New("vehicle repository: DB is nil")
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	if _, err := s.DB.ExecContext(ctx, insertVehicleQuery+";", vehicleArgs(v)...); err != nil {
		return fmt.Errorf("create vehicle: insert id=%s: %w", v.ID, err)
	}

	return nil
}

func (s *SQLVehicleRepository) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, selectVehicleColumns+` WHERE id = $1;`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get vehicle %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle %q: scan row: %w", id, err)
	}

	return v, nil
}

// Return all vehicles, oldest first.
func (s *SQLVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, selectVehicleColumns+` ORDER BY created_at, id;`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
