// Package placement holds the cargo placement model for a single vehicle:
// the loading-area bounds, the registry of placed items, the collision
// validator and the drag-driven placement controller.
//
// Everything in this package is synchronous and unsynchronised. A controller
// is owned by exactly one caller at a time; services serialise access.
package placement

import "cargo-fleet-service/internal/domain"

const (
	// ScaleFactor converts meters to display units.
	ScaleFactor = 20.0
	// GridSize is the snapping step in display units.
	GridSize = 10.0
)

// Footprint is the axis-aligned rectangle an item covers on the loading plane.
type Footprint struct {
	X, Y, W, H float64
}

// Overlaps uses the separating-axis test. Rectangles that only touch along an
// edge are not overlapping.
func (f Footprint) Overlaps(o Footprint) bool {
	return !(f.X+f.W <= o.X ||
		f.X >= o.X+o.W ||
		f.Y+f.H <= o.Y ||
		f.Y >= o.Y+o.H)
}

// Bounds is the loading area of a vehicle in display units.
type Bounds struct {
	Width  float64
	Length float64
}

func NewBounds(v *domain.Vehicle) Bounds {
	return Bounds{
		Width:  v.Width * ScaleFactor,
		Length: v.Length * ScaleFactor,
	}
}

func (b Bounds) Contains(f Footprint) bool {
	return f.X >= 0 &&
		f.Y >= 0 &&
		f.X+f.W <= b.Width &&
		f.Y+f.H <= b.Length
}

// FootprintAt returns the footprint of item if its top-left corner were at (x, y).
// Width maps to the x axis and length to the y axis; rotation is not applied.
func FootprintAt(item *domain.CargoItem, x, y float64) Footprint {
	return Footprint{
		X: x,
		Y: y,
		W: item.Width * ScaleFactor,
		H: item.Length * ScaleFactor,
	}
}
