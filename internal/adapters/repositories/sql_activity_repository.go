package repositories

import (
	"cargo-fleet-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultActivityLimit = 100

// SQL-backed implementation of the ActivityRepository port.
type SQLActivityRepository struct{ DB *sql.DB }

func NewSQLActivityRepository(db *sql.DB) *SQLActivityRepository {
	return &SQLActivityRepository{DB: db}
}

func (s *SQLActivityRepository) AppendActivity(ctx context.Context, a *domain.ActivityLog) error {
	if s.DB == nil {
		return errors.New("activity repository: DB is nil")
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO activity_logs (id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		a.ID, a.Action, a.EntityType, a.EntityID, a.Details, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append activity: insert id=%s: %w", a.ID, err)
	}

	return nil
}

// Return at most limit entries, newest first. A non-positive limit uses
// the default of 100.
func (s *SQLActivityRepository) ListActivity(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	if s.DB == nil {
		return nil, errors.New("activity repository: DB is nil")
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, action, entity_type, entity_id, details, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: query activity_logs table: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.ActivityLog, 0, limit)
	for rows.Next() {
		var a domain.ActivityLog
		if err := rows.Scan(&a.ID, &a.Action, &a.EntityType, &a.EntityID, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("list activity: scan row: %w", err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		logs = append(logs, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activity: row iteration: %w", err)
	}

	return logs, nil
}
