package domain

import (
	"fmt"
	"strings"
	"time"
)

// Represents a single cargo item loaded into a vehicle.
// A CargoItem belongs to exactly one vehicle. Its position and rotation are
// only changed by the placement controller during a session.
type CargoItem struct {
	ID          string
	VehicleID   string
	Name        string
	Length      float64 // meters
	Width       float64 // meters
	Height      float64 // meters
	Weight      float64 // kg
	Stackable   bool
	Rotatable   bool
	Position    Position
	Rotation    int // degrees
	Destination string
	CreatedAt   time.Time
}

func NewCargoItem(c CargoItem) (*CargoItem, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("new cargo: name is required: %w", ErrInvalid)
	}

	if strings.TrimSpace(c.VehicleID) == "" {
		return nil, fmt.Errorf("new cargo: vehicle id is required: %w", ErrInvalid)
	}

	if c.Length <= 0 || c.Width <= 0 || c.Height <= 0 || c.Weight <= 0 {
		return nil, fmt.Errorf("new cargo: invalid cargo dimensions or weight: %w", ErrInvalid)
	}

	pos, err := NewPosition(c.Position.X, c.Position.Y, c.Position.Z)
	if err != nil {
		return nil, fmt.Errorf("new cargo: %w", err)
	}
	c.Position = pos
	c.Rotation = NormalizeRotation(c.Rotation)
	c.Destination = strings.TrimSpace(c.Destination)

	return &c, nil
}

// Volume of the item in m³.
func (c *CargoItem) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// Clone returns a copy that can be handed out without exposing registry state.
func (c *CargoItem) Clone() *CargoItem {
	cp := *c
	return &cp
}
