package placement

import (
	"cargo-fleet-service/internal/domain"
	"errors"
	"fmt"
)

var (
	ErrNoCargo    = errors.New("add at least one cargo item before continuing")
	ErrOverweight = errors.New("vehicle is overweight, remove some cargo before continuing")
)

// LoadSummary aggregates weight and volume usage for a vehicle.
type LoadSummary struct {
	ItemCount     int
	TotalWeight   float64
	MaxWeight     float64
	WeightPercent float64
	UsedVolume    float64
	MaxVolume     float64
	VolumePercent float64
	Overweight    bool
	OverVolume    bool
	Advisories    []string
}

func Summarize(v *domain.Vehicle, items []*domain.CargoItem) LoadSummary {
	s := LoadSummary{
		ItemCount:  len(items),
		MaxWeight:  v.MaxWeight,
		MaxVolume:  v.MaxVolume,
		Advisories: []string{},
	}

	for _, it := range items {
		s.TotalWeight += it.Weight
		s.UsedVolume += it.Volume()
	}

	if s.MaxWeight > 0 {
		s.WeightPercent = s.TotalWeight / s.MaxWeight * 100
	}
	if s.MaxVolume > 0 {
		s.VolumePercent = s.UsedVolume / s.MaxVolume * 100
	}

	s.Overweight = s.TotalWeight > s.MaxWeight
	s.OverVolume = s.MaxVolume > 0 && s.UsedVolume > s.MaxVolume

	if s.Overweight {
		s.Advisories = append(s.Advisories, fmt.Sprintf(
			"total weight %.1fkg exceeds vehicle limit %.1fkg", s.TotalWeight, s.MaxWeight,
		))
	}
	if s.OverVolume {
		s.Advisories = append(s.Advisories, fmt.Sprintf(
			"cargo volume %.2fm³ exceeds vehicle capacity %.2fm³", s.UsedVolume, s.MaxVolume,
		))
	}

	return s
}

// CheckContinue is the gate before route planning. Volume is advisory only.
func CheckContinue(s LoadSummary) error {
	if s.ItemCount == 0 {
		return ErrNoCargo
	}
	if s.Overweight {
		return ErrOverweight
	}
	return nil
}
