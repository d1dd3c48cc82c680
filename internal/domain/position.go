package domain

import (
	"fmt"
	"math"
)

// Position of a cargo item on the loading-area plane, in display units.
// X and Y are the top-left corner of the footprint; Z is the stacking index.
type Position struct {
	X float64
	Y float64
	Z int
}

func NewPosition(x, y float64, z int) (Position, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return Position{}, fmt.Errorf("new position: x and y must be finite: %w", ErrInvalid)
	}
	if z < 0 {
		return Position{}, fmt.Errorf("new position: z=%d must not be negative: %w", z, ErrInvalid)
	}

	return Position{X: x, Y: y, Z: z}, nil
}

// Stacked reports whether the item sits on top of another one.
func (p Position) Stacked() bool { return p.Z > 0 }

// NormalizeRotation maps any angle in degrees into [0, 360).
func NormalizeRotation(deg int) int {
	r := deg % 360
	if r < 0 {
		r += 360
	}
	return r
}
