package dto

import "cargo-fleet-service/internal/domain"

// Position is a placement in display units; z is the stacking level.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z int     `json:"z"`
}

func FromPosition(p domain.Position) Position { return Position{X: p.X, Y: p.Y, Z: p.Z} }

func (p Position) Domain() domain.Position { return domain.Position{X: p.X, Y: p.Y, Z: p.Z} }
