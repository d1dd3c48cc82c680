package placement

import (
	"cargo-fleet-service/internal/domain"
	"math"
)

// Snap rounds a raw coordinate to the nearest grid line.
func Snap(raw float64) float64 {
	return math.Round(raw/GridSize) * GridSize
}

type Reason string

const (
	ReasonOK          Reason = "ok"
	ReasonOutOfBounds Reason = "out_of_bounds"
	ReasonOverlap     Reason = "overlap"
)

// Verdict explains the outcome of a placement check.
type Verdict struct {
	Reason    Reason
	BlockedBy string
}

func (v Verdict) OK() bool { return v.Reason == ReasonOK }

// Validator checks candidate positions against the bounds and the registry.
type Validator struct {
	bounds   Bounds
	registry *Registry
}

func NewValidator(bounds Bounds, registry *Registry) *Validator {
	return &Validator{bounds: bounds, registry: registry}
}

func (v *Validator) IsValid(candidate *domain.CargoItem, proposedX, proposedY float64) bool {
	return v.Check(candidate, proposedX, proposedY).OK()
}

// Check validates placing candidate with its top-left corner at (proposedX, proposedY).
// Overlap with stacked items is allowed, as is overlap while the candidate itself
// is stacked.
func (v *Validator) Check(candidate *domain.CargoItem, proposedX, proposedY float64) Verdict {
	fp := FootprintAt(candidate, proposedX, proposedY)
	if !v.bounds.Contains(fp) {
		return Verdict{Reason: ReasonOutOfBounds}
	}

	if candidate.Position.Stacked() {
		return Verdict{Reason: ReasonOK}
	}

	verdict := Verdict{Reason: ReasonOK}
	v.registry.each(func(other *domain.CargoItem) bool {
		if other.ID == candidate.ID || other.Position.Stacked() {
			return true
		}

		otherFp := FootprintAt(other, other.Position.X, other.Position.Y)
		if fp.Overlaps(otherFp) {
			verdict = Verdict{Reason: ReasonOverlap, BlockedBy: other.ID}
			return false
		}
		return true
	})

	return verdict
}
