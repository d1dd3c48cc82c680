package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTransportMode = "road"

// Vehicle describes the loading area and limits of a single transport unit.
// It is immutable for the duration of a placement session.
type Vehicle struct {
	ID          string
	Name        string
	Brand       string
	ModelNumber string
	Seats       int
	Mode        string
	Width       float64 // meters
	Length      float64 // meters
	Height      float64 // meters
	MaxWeight   float64 // kg
	MaxVolume   float64 // m³
	CreatedAt   time.Time
}

// NewVehicle validates the vehicle and fills in derived defaults.
// MaxVolume falls back to the box volume of the cargo area.
func NewVehicle(v Vehicle) (*Vehicle, error) {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return nil, fmt.Errorf("new vehicle: name is required: %w", ErrInvalid)
	}

	if v.Width <= 0 || v.Length <= 0 || v.Height <= 0 {
		return nil, fmt.Errorf(
			"new vehicle: dimensions must be positive (w=%g l=%g h=%g): %w",
			v.Width, v.Length, v.Height, ErrInvalid,
		)
	}

	if v.MaxWeight <= 0 {
		return nil, fmt.Errorf("new vehicle: max weight must be positive: %w", ErrInvalid)
	}

	if v.MaxVolume < 0 {
		return nil, fmt.Errorf("new vehicle: max volume must not be negative: %w", ErrInvalid)
	}
	if v.MaxVolume == 0 {
		v.MaxVolume = v.Volume()
	}

	if v.Seats < 0 {
		return nil, fmt.Errorf("new vehicle: seats must not be negative: %w", ErrInvalid)
	}

	v.Mode = strings.TrimSpace(v.Mode)
	if v.Mode == "" {
		v.Mode = DefaultTransportMode
	}
	if v.ModelNumber == "" {
		v.ModelNumber = "default-model"
	}

	return &v, nil
}

// Volume of the cargo area in m³.
func (v *Vehicle) Volume() float64 {
	return v.Width * v.Length * v.Height
}
