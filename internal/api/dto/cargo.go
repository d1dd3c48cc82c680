package dto

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"time"
)

type CargoRequest struct {
	VehicleID   string    `json:"vehicle_id"`
	Name        string    `json:"name"`
	Length      float64   `json:"length"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Weight      float64   `json:"weight"`
	Stackable   bool      `json:"stackable"`
	Rotatable   bool      `json:"rotatable"`
	Position    *Position `json:"position"`
	Rotation    int       `json:"rotation"`
	Destination string    `json:"destination"`
}

func (r CargoRequest) Domain() domain.CargoItem {
	c := domain.CargoItem{
		VehicleID:   r.VehicleID,
		Name:        r.Name,
		Length:      r.Length,
		Width:       r.Width,
		Height:      r.Height,
		Weight:      r.Weight,
		Stackable:   r.Stackable,
		Rotatable:   r.Rotatable,
		Rotation:    r.Rotation,
		Destination: r.Destination,
	}
	if r.Position != nil {
		c.Position = r.Position.Domain()
	}
	return c
}

// CargoPatchRequest: omitted fields stay unchanged. Position and rotation are
// changed through placement events only, so they are unknown fields here.
type CargoPatchRequest struct {
	Name        *string  `json:"name"`
	Length      *float64 `json:"length"`
	Width       *float64 `json:"width"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	Stackable   *bool    `json:"stackable"`
	Rotatable   *bool    `json:"rotatable"`
	Destination *string  `json:"destination"`
}

func (r CargoPatchRequest) Patch() ports.CargoPatch {
	return ports.CargoPatch{
		Name:        r.Name,
		Length:      r.Length,
		Width:       r.Width,
		Height:      r.Height,
		Weight:      r.Weight,
		Stackable:   r.Stackable,
		Rotatable:   r.Rotatable,
		Destination: r.Destination,
	}
}

type CargoResponse struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicle_id"`
	Name        string    `json:"name"`
	Length      float64   `json:"length"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Weight      float64   `json:"weight"`
	Volume      float64   `json:"volume"`
	Stackable   bool      `json:"stackable"`
	Rotatable   bool      `json:"rotatable"`
	Position    Position  `json:"position"`
	Rotation    int       `json:"rotation"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromCargo(c *domain.CargoItem) CargoResponse {
	return CargoResponse{
		ID:          c.ID,
		VehicleID:   c.VehicleID,
		Name:        c.Name,
		Length:      c.Length,
		Width:       c.Width,
		Height:      c.Height,
		Weight:      c.Weight,
		Volume:      c.Volume(),
		Stackable:   c.Stackable,
		Rotatable:   c.Rotatable,
		Position:    FromPosition(c.Position),
		Rotation:    c.Rotation,
		Destination: c.Destination,
		CreatedAt:   c.CreatedAt,
	}
}

func FromCargoList(items []*domain.CargoItem) []CargoResponse {
	out := make([]CargoResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCargo(c))
	}
	return out
}

type ListCargoResponse struct {
	Cargos []CargoResponse `json:"cargos"`
}
