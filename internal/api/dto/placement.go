package dto

import (
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/services"
)

// PlacementEventRequest is used both by POST .../placement/events and by
// every message on the placement WebSocket.
type PlacementEventRequest struct {
	Type    string  `json:"type"`
	CargoID string  `json:"cargo_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Angle   int     `json:"angle"`
}

func (r PlacementEventRequest) Event() services.PlacementEvent {
	return services.PlacementEvent{
		Type:    services.EventType(r.Type),
		CargoID: r.CargoID,
		X:       r.X,
		Y:       r.Y,
		Angle:   r.Angle,
	}
}

type FeedbackResponse struct {
	CargoID   string   `json:"cargo_id"`
	State     string   `json:"state"`
	Proposed  Position `json:"proposed"`
	Displayed Position `json:"displayed"`
	Committed Position `json:"committed"`
	Rotation  int      `json:"rotation"`
	Valid     bool     `json:"valid"`
	Conflict  bool     `json:"conflict"`
	Reason    string   `json:"reason"`
	BlockedBy string   `json:"blocked_by,omitempty"`
	Changed   bool     `json:"changed"`
}

func FromFeedback(fb placement.Feedback) FeedbackResponse {
	reason := string(fb.Verdict.Reason)
	if reason == "" {
		reason = string(placement.ReasonOK)
	}
	return FeedbackResponse{
		CargoID:   fb.ItemID,
		State:     fb.State.String(),
		Proposed:  FromPosition(fb.Proposed),
		Displayed: FromPosition(fb.Displayed),
		Committed: FromPosition(fb.Committed),
		Rotation:  fb.Rotation,
		Valid:     fb.Valid,
		Conflict:  fb.Conflict,
		Reason:    reason,
		BlockedBy: fb.Verdict.BlockedBy,
		Changed:   fb.Changed,
	}
}

type LoadSummaryResponse struct {
	ItemCount     int      `json:"item_count"`
	TotalWeight   float64  `json:"total_weight"`
	MaxWeight     float64  `json:"max_weight"`
	WeightPercent float64  `json:"weight_percent"`
	UsedVolume    float64  `json:"used_volume"`
	MaxVolume     float64  `json:"max_volume"`
	VolumePercent float64  `json:"volume_percent"`
	Overweight    bool     `json:"overweight"`
	OverVolume    bool     `json:"over_volume"`
	Advisories    []string `json:"advisories"`
}

func FromSummary(s placement.LoadSummary) LoadSummaryResponse {
	return LoadSummaryResponse{
		ItemCount:     s.ItemCount,
		TotalWeight:   s.TotalWeight,
		MaxWeight:     s.MaxWeight,
		WeightPercent: s.WeightPercent,
		UsedVolume:    s.UsedVolume,
		MaxVolume:     s.MaxVolume,
		VolumePercent: s.VolumePercent,
		Overweight:    s.Overweight,
		OverVolume:    s.OverVolume,
		Advisories:    s.Advisories,
	}
}

type SnapshotResponse struct {
	Vehicle    VehicleResponse     `json:"vehicle"`
	Cargos     []CargoResponse     `json:"cargos"`
	State      string              `json:"state"`
	ActiveItem string              `json:"active_item,omitempty"`
	Conflict   bool                `json:"conflict"`
	Summary    LoadSummaryResponse `json:"summary"`
}

func FromSnapshot(s services.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Vehicle:    FromVehicle(s.Vehicle),
		Cargos:     FromCargoList(s.Items),
		State:      s.State.String(),
		ActiveItem: s.ActiveItem,
		Conflict:   s.Conflict,
		Summary:    FromSummary(s.Summary),
	}
}

type ContinueResponse struct {
	Ready   bool                `json:"ready"`
	Error   string              `json:"error,omitempty"`
	Summary LoadSummaryResponse `json:"summary"`
}

type ResetResponse struct {
	Removed int `json:"removed"`
}
