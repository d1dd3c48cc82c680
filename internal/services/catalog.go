package services

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Catalog is the write path for vehicles and cargo. It keeps loaded
// placement sessions in step with storage and records activity.
type Catalog struct {
	Vehicles ports.VehicleRepository
	Cargo    ports.CargoRepository
	Activity ports.ActivityRepository
	Sessions *PlacementSessions
}

func (c *Catalog) CreateVehicle(ctx context.Context, in domain.Vehicle) (*domain.Vehicle, error) {
	v, err := domain.NewVehicle(in)
	if err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	if err := c.Vehicles.CreateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	recordActivity(ctx, c.Activity, domain.ActionVehicleCreated, "vehicle", v.ID,
		fmt.Sprintf("%s (%gx%gx%g m, %g kg)", v.Name, v.Length, v.Width, v.Height, v.MaxWeight))

	return v, nil
}

func (c *Catalog) CreateCargo(ctx context.Context, in domain.CargoItem) (*domain.CargoItem, error) {
	item, err := domain.NewCargoItem(in)
	if err != nil {
		return nil, fmt.Errorf("create cargo: %w", err)
	}

	if err := c.Cargo.CreateCargo(ctx, item); err != nil {
		return nil, fmt.Errorf("create cargo: %w", err)
	}

	if c.Sessions != nil {
		if err := c.Sessions.AddItem(item); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("cargo_id", item.ID).Msg("session add failed, reloading")
			c.Sessions.Forget(item.VehicleID)
		}
	}

	recordActivity(ctx, c.Activity, domain.ActionCargoCreated, "cargo", item.ID,
		fmt.Sprintf("%s (%g kg) added to vehicle %s", item.Name, item.Weight, item.VehicleID))

	return item, nil
}

func (c *Catalog) UpdateCargo(ctx context.Context, id string, patch ports.CargoPatch) (*domain.CargoItem, error) {
	item, err := c.Cargo.UpdateCargo(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update cargo: %w", err)
	}

	if c.Sessions != nil {
		live, err := c.Sessions.UpdateItem(item)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("cargo_id", item.ID).Msg("session update failed, reloading")
			c.Sessions.Forget(item.VehicleID)
		} else {
			item = live
		}
	}

	recordActivity(ctx, c.Activity, domain.ActionCargoUpdated, "cargo", item.ID, item.Name)

	return item, nil
}

func (c *Catalog) DeleteCargo(ctx context.Context, id string) error {
	item, err := c.Cargo.GetCargo(ctx, id)
	if err != nil {
		return fmt.Errorf("delete cargo: %w", err)
	}

	if err := c.Cargo.DeleteCargo(ctx, id); err != nil {
		return fmt.Errorf("delete cargo: %w", err)
	}

	if c.Sessions != nil {
		if err := c.Sessions.RemoveItem(item.VehicleID, id); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("cargo_id", id).Msg("session remove failed, reloading")
			c.Sessions.Forget(item.VehicleID)
		}
	}

	recordActivity(ctx, c.Activity, domain.ActionCargoDeleted, "cargo", id, item.Name)

	return nil
}
