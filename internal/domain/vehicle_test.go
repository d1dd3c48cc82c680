package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewVehicleDefaults(t *testing.T) {
	v, err := NewVehicle(Vehicle{Name: " Van ", Width: 2, Length: 3, Height: 2, MaxWeight: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Name != "Van" {
		t.Errorf("name = %q, want %q", v.Name, "Van")
	}
	if v.MaxVolume != 12 {
		t.Errorf("max volume = %g, want 12", v.MaxVolume)
	}
	if v.Mode != DefaultTransportMode {
		t.Errorf("mode = %q, want %q", v.Mode, DefaultTransportMode)
	}
	if v.ModelNumber != "default-model" {
		t.Errorf("model number = %q, want default-model", v.ModelNumber)
	}
}

func TestNewVehicleRejectsInvalid(t *testing.T) {
	cases := map[string]Vehicle{
		"missing name":    {Width: 1, Length: 1, Height: 1, MaxWeight: 1},
		"zero width":      {Name: "a", Length: 1, Height: 1, MaxWeight: 1},
		"negative height": {Name: "a", Width: 1, Length: 1, Height: -1, MaxWeight: 1},
		"no max weight":   {Name: "a", Width: 1, Length: 1, Height: 1},
		"negative volume": {Name: "a", Width: 1, Length: 1, Height: 1, MaxWeight: 1, MaxVolume: -2},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewVehicle(in); !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestNewPosition(t *testing.T) {
	if _, err := NewPosition(math.NaN(), 0, 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("NaN x: err = %v, want ErrInvalid", err)
	}
	if _, err := NewPosition(0, math.Inf(1), 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("Inf y: err = %v, want ErrInvalid", err)
	}
	if _, err := NewPosition(0, 0, -1); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative z: err = %v, want ErrInvalid", err)
	}

	p, err := NewPosition(10, 20, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Stacked() {
		t.Errorf("z=1 should be stacked")
	}
}

func TestNormalizeRotation(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0}, {90, 90}, {360, 0}, {450, 90}, {-90, 270}, {-450, 270},
	}
	for _, c := range cases {
		if got := NormalizeRotation(c.in); got != c.want {
			t.Errorf("NormalizeRotation(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestNewCargoItem(t *testing.T) {
	c, err := NewCargoItem(CargoItem{
		Name: "Crate", VehicleID: "v1",
		Length: 1, Width: 0.5, Height: 2, Weight: 40,
		Rotation: -90,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Rotation != 270 {
		t.Errorf("rotation = %d, want 270", c.Rotation)
	}
	if c.Volume() != 1 {
		t.Errorf("volume = %g, want 1", c.Volume())
	}

	if _, err := NewCargoItem(CargoItem{Name: "x", VehicleID: "v1", Length: 1, Width: 1, Height: 1}); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero weight: err = %v, want ErrInvalid", err)
	}
	if _, err := NewCargoItem(CargoItem{Name: "x", Length: 1, Width: 1, Height: 1, Weight: 1}); !errors.Is(err, ErrInvalid) {
		t.Errorf("missing vehicle: err = %v, want ErrInvalid", err)
	}
}

func TestParseLatLng(t *testing.T) {
	c, ok, err := ParseLatLng(" 12.931423, 77.616484 ")
	if err != nil || !ok {
		t.Fatalf("ParseLatLng: ok=%v err=%v", ok, err)
	}
	if c.Lat != 12.931423 || c.Lng != 77.616484 {
		t.Errorf("got %+v", c)
	}

	if _, ok, _ := ParseLatLng("1901 W Madison St, Phoenix"); ok {
		t.Errorf("address should not parse as coordinates")
	}

	if _, ok, err := ParseLatLng("91,10"); !ok || !errors.Is(err, ErrInvalid) {
		t.Errorf("out of range: ok=%v err=%v", ok, err)
	}
}
