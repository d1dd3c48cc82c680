package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}

var latLngPattern = regexp.MustCompile(`^-?\d+(\.\d+)?,\s*-?\d+(\.\d+)?$`)

// ParseLatLng recognises a "lat,lng" location string.
// ok is false when s is an address rather than a coordinate pair.
func ParseLatLng(s string) (_ Coordinates, ok bool, err error) {
	s = strings.TrimSpace(s)
	if !latLngPattern.MatchString(s) {
		return Coordinates{}, false, nil
	}

	parts := strings.SplitN(s, ",", 2)
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, true, fmt.Errorf("parse latitude %q: %w", parts[0], ErrInvalid)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, true, fmt.Errorf("parse longitude %q: %w", parts[1], ErrInvalid)
	}

	if math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return Coordinates{}, true, fmt.Errorf("coordinates %q out of range: %w", s, ErrInvalid)
	}

	return Coordinates{Lat: lat, Lng: lng}, true, nil
}
