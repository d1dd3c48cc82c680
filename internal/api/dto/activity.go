package dto

import (
	"cargo-fleet-service/internal/domain"
	"time"
)

type ActivityRequest struct {
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Details    string `json:"details"`
}

type ActivityResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromActivity(a *domain.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Details:    a.Details,
		CreatedAt:  a.CreatedAt,
	}
}

type ListActivityResponse struct {
	Logs []ActivityResponse `json:"logs"`
}
