package repositories

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const insertCargoQuery = `
	INSERT INTO cargos (
		id, vehicle_id, name, length, width, height, weight,
		stackable, rotatable, pos_x, pos_y, pos_z, rotation,
		destination, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const selectCargoColumns = `
	SELECT
		id, vehicle_id, name, length, width, height, weight,
		stackable, rotatable, pos_x, pos_y, pos_z, rotation,
		destination, created_at
	FROM cargos`

func cargoArgs(c *domain.CargoItem) []any {
	return []any{
		c.ID, c.VehicleID, c.Name, c.Length, c.Width, c.Height, c.Weight,
		c.Stackable, c.Rotatable, c.Position.X, c.Position.Y, c.Position.Z, c.Rotation,
		c.Destination, c.CreatedAt,
	}
}

func scanCargo(row rowScanner) (*domain.CargoItem, error) {
	var c domain.CargoItem
	err := row.Scan(
		&c.ID, &c.VehicleID, &c.Name, &c.Length, &c.Width, &c.Height, &c.Weight,
		&c.Stackable, &c.Rotatable, &c.Position.X, &c.Position.Y, &c.Position.Z, &c.Rotation,
		&c.Destination, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// SQL-backed implementation of the CargoRepository port.
type SQLCargoRepository struct{ DB *sql.DB }

func NewSQLCargoRepository(db *sql.DB) *SQLCargoRepository {
	return &SQLCargoRepository{DB: db}
}

// Insert a cargo item. The owning vehicle must exist.
func (s *SQLCargoRepository) CreateCargo(ctx context.Context, c *domain.CargoItem) error {
	if s.DB == nil {
		return errors.New("cargo repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create cargo: begin tx: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE id = $1;`, c.VehicleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("create cargo: vehicle %q: %w", c.VehicleID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("create cargo: lookup vehicle %q: %w", c.VehicleID, err)
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, insertCargoQuery+";", cargoArgs(c)...); err != nil {
		return fmt.Errorf("create cargo: insert id=%s: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create cargo: commit tx: %w", err)
	}

	return nil
}

func (s *SQLCargoRepository) GetCargo(ctx context.Context, id string) (*domain.CargoItem, error) {
	if s.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	c, err := scanCargo(s.DB.QueryRowContext(ctx, selectCargoColumns+` WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cargo %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cargo %q: scan row: %w", id, err)
	}

	return c, nil
}

// Return cargo items in insertion order, optionally filtered by vehicle.
func (s *SQLCargoRepository) ListCargo(ctx context.Context, vehicleID string) ([]*domain.CargoItem, error) {
	if s.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	var (
		rows *sql.Rows
		err  error
	)
	if vehicleID == "" {
		rows, err = s.DB.QueryContext(ctx, selectCargoColumns+` ORDER BY created_at, id;`)
	} else {
		rows, err = s.DB.QueryContext(ctx, selectCargoColumns+` WHERE vehicle_id = $1 ORDER BY created_at, id;`, vehicleID)
	}
	if err != nil {
		return nil, fmt.Errorf("list cargo: query cargos table: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.CargoItem, 0, 32)
	for rows.Next() {
		c, err := scanCargo(rows)
		if err != nil {
			return nil, fmt.Errorf("list cargo: scan row: %w", err)
		}
		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cargo: row iteration: %w", err)
	}

	return items, nil
}

// Apply a partial update and return the stored result. The merged item is
// re-validated before it is written. Placement columns are left alone: they
// belong to UpdatePlacement.
func (s *SQLCargoRepository) UpdateCargo(ctx context.Context, id string, patch ports.CargoPatch) (*domain.CargoItem, error) {
	if s.DB == nil {
		return nil, errors.New("cargo repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update cargo: begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := scanCargo(tx.QueryRowContext(ctx, selectCargoColumns+` WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update cargo %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update cargo %q: scan row: %w", id, err)
	}

	merged, err := domain.NewCargoItem(applyCargoPatch(*current, patch))
	if err != nil {
		return nil, fmt.Errorf("update cargo %q: %w", id, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cargos SET
			name = $1, length = $2, width = $3, height = $4, weight = $5,
			stackable = $6, rotatable = $7, destination = $8
		WHERE id = $9;`,
		merged.Name, merged.Length, merged.Width, merged.Height, merged.Weight,
		merged.Stackable, merged.Rotatable, merged.Destination, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update cargo %q: exec update: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update cargo %q: commit tx: %w", id, err)
	}

	return merged, nil
}

func applyCargoPatch(c domain.CargoItem, p ports.CargoPatch) domain.CargoItem {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Length != nil {
		c.Length = *p.Length
	}
	if p.Width != nil {
		c.Width = *p.Width
	}
	if p.Height != nil {
		c.Height = *p.Height
	}
	if p.Weight != nil {
		c.Weight = *p.Weight
	}
	if p.Stackable != nil {
		c.Stackable = *p.Stackable
	}
	if p.Rotatable != nil {
		c.Rotatable = *p.Rotatable
	}
	if p.Destination != nil {
		c.Destination = *p.Destination
	}
	return c
}

func (s *SQLCargoRepository) UpdatePlacement(ctx context.Context, id string, pos domain.Position, rotation int) error {
	if s.DB == nil {
		return errors.New("cargo repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE cargos SET pos_x = $1, pos_y = $2, pos_z = $3, rotation = $4 WHERE id = $5;`,
		pos.X, pos.Y, pos.Z, domain.NormalizeRotation(rotation), id,
	)
	if err != nil {
		return fmt.Errorf("update placement %q: exec update: %w", id, err)
	}

	return requireAffected(res, fmt.Sprintf("update placement %q", id))
}

func (s *SQLCargoRepository) DeleteCargo(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("cargo repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM cargos WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete cargo %q: exec delete: %w", id, err)
	}

	return requireAffected(res, fmt.Sprintf("delete cargo %q", id))
}

func (s *SQLCargoRepository) DeleteCargoByVehicle(ctx context.Context, vehicleID string) (int, error) {
	if s.DB == nil {
		return 0, errors.New("cargo repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM cargos WHERE vehicle_id = $1;`, vehicleID)
	if err != nil {
		return 0, fmt.Errorf("delete cargo of vehicle %q: exec delete: %w", vehicleID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete cargo of vehicle %q: rows affected: %w", vehicleID, err)
	}

	return int(n), nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
