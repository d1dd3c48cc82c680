package services

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/ports"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// recordActivity appends an activity entry. A failed write is logged only;
// the action it describes has already happened.
func recordActivity(
	ctx context.Context,
	repo ports.ActivityRepository,
	action, entityType, entityID, details string,
) {
	if repo == nil {
		return
	}

	entry := &domain.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := repo.AppendActivity(ctx, entry); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("action", action).
			Str("entity_id", entityID).
			Msg("activity log write failed")
	}
}

// AppendActivity validates and stores a client-supplied activity entry.
func AppendActivity(ctx context.Context, repo ports.ActivityRepository, a *domain.ActivityLog) error {
	a.Action = strings.TrimSpace(a.Action)
	a.EntityType = strings.TrimSpace(a.EntityType)
	if a.Action == "" || a.EntityType == "" {
		return fmt.Errorf("append activity: action and entity_type are required: %w", domain.ErrInvalid)
	}

	if err := repo.AppendActivity(ctx, a); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}
