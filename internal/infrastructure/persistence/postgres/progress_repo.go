// Package postgres implements the PostgreSQL persistence layer for the
// LevelUp Learning Hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const progressColumns = `
	id, user_id, entity_type, entity_id, status, total_items, completed_items,
	percentage, reading_time_seconds, started_at, last_accessed_at, completed_at, updated_at
`

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// Create creates a new progress record. The (user_id, entity_type, entity_id)
// unique constraint surfaces as ErrProgressAlreadyExists.
func (r *ProgressRepository) Create(ctx context.Context, p *progress.Progress) error {
	query := `
		INSERT INTO learning_progress (
			id, user_id, entity_type, entity_id, status, total_items,
			completed_items, percentage, reading_time_seconds,
			started_at, last_accessed_at, completed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.UserID,
		string(p.EntityType),
		p.EntityID,
		string(p.Status),
		p.TotalItems,
		p.CompletedItems,
		p.Percentage,
		p.ReadingTimeSeconds,
		p.StartedAt,
		p.LastAccessedAt,
		p.CompletedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrProgressAlreadyExists
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}

	return nil
}

// Update updates a progress record.
func (r *ProgressRepository) Update(ctx context.Context, p *progress.Progress) error {
	query := `
		UPDATE learning_progress SET
			status = $1,
			total_items = $2,
			completed_items = $3,
			percentage = $4,
			reading_time_seconds = $5,
			last_accessed_at = $6,
			completed_at = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		string(p.Status),
		p.TotalItems,
		p.CompletedItems,
		p.Percentage,
		p.ReadingTimeSeconds,
		p.LastAccessedAt,
		p.CompletedAt,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrProgressNotFound
	}

	return nil
}

// GetByID returns a progress record by ID.
func (r *ProgressRepository) GetByID(ctx context.Context, id string) (*progress.Progress, error) {
	query := fmt.Sprintf(`SELECT %s FROM learning_progress WHERE id = $1`, progressColumns)
	return r.scanProgress(r.conn.QueryRow(ctx, query, id))
}

// GetByUserAndEntity returns a user's progress on a specific entity.
func (r *ProgressRepository) GetByUserAndEntity(ctx context.Context, userID string, entityType progress.EntityType, entityID string) (*progress.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM learning_progress
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
	`, progressColumns)

	return r.scanProgress(r.conn.QueryRow(ctx, query, userID, string(entityType), entityID))
}

// ListByUser returns a user's progress records, optionally filtered by
// entity type.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string, entityType progress.EntityType) ([]*progress.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM learning_progress
		WHERE user_id = $1 AND ($2 = '' OR entity_type = $2)
		ORDER BY last_accessed_at DESC
	`, progressColumns)

	rows, err := r.conn.Query(ctx, query, userID, string(entityType))
	if err != nil {
		return nil, fmt.Errorf("failed to query user progress: %w", err)
	}
	defer rows.Close()

	return r.scanProgressRows(rows)
}

// ListByEntity returns every user's progress on one entity.
func (r *ProgressRepository) ListByEntity(ctx context.Context, entityType progress.EntityType, entityID string) ([]*progress.Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM learning_progress
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY last_accessed_at DESC
	`, progressColumns)

	rows, err := r.conn.Query(ctx, query, string(entityType), entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity progress: %w", err)
	}
	defer rows.Close()

	return r.scanProgressRows(rows)
}

func (r *ProgressRepository) scanProgress(row pgx.Row) (*progress.Progress, error) {
	var p progress.Progress
	var entityType, status string
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&entityType,
		&p.EntityID,
		&status,
		&p.TotalItems,
		&p.CompletedItems,
		&p.Percentage,
		&p.ReadingTimeSeconds,
		&p.StartedAt,
		&p.LastAccessedAt,
		&p.CompletedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to scan progress: %w", err)
	}
	p.EntityType = progress.EntityType(entityType)
	p.Status = progress.Status(status)
	return &p, nil
}

func (r *ProgressRepository) scanProgressRows(rows pgx.Rows) ([]*progress.Progress, error) {
	records := make([]*progress.Progress, 0)
	for rows.Next() {
		p, err := r.scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
