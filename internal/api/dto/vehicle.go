package dto

import (
	"cargo-fleet-service/internal/domain"
	"time"
)

type VehicleRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	ModelNumber string  `json:"model_number"`
	Seats       int     `json:"seats"`
	Mode        string  `json:"mode"`
	Width       float64 `json:"width"`
	Length      float64 `json:"length"`
	Height      float64 `json:"height"`
	MaxWeight   float64 `json:"max_weight"`
	MaxVolume   float64 `json:"max_volume"`
}

func (r VehicleRequest) Domain() domain.Vehicle {
	return domain.Vehicle{
		Name:        r.Name,
		Brand:       r.Brand,
		ModelNumber: r.ModelNumber,
		Seats:       r.Seats,
		Mode:        r.Mode,
		Width:       r.Width,
		Length:      r.Length,
		Height:      r.Height,
		MaxWeight:   r.MaxWeight,
		MaxVolume:   r.MaxVolume,
	}
}

type VehicleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	ModelNumber string    `json:"model_number"`
	Seats       int       `json:"seats"`
	Mode        string    `json:"mode"`
	Width       float64   `json:"width"`
	Length      float64   `json:"length"`
	Height      float64   `json:"height"`
	MaxWeight   float64   `json:"max_weight"`
	MaxVolume   float64   `json:"max_volume"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromVehicle(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		Name:        v.Name,
		Brand:       v.Brand,
		ModelNumber: v.ModelNumber,
		Seats:       v.Seats,
		Mode:        v.Mode,
		Width:       v.Width,
		Length:      v.Length,
		Height:      v.Height,
		MaxWeight:   v.MaxWeight,
		MaxVolume:   v.MaxVolume,
		CreatedAt:   v.CreatedAt,
	}
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
