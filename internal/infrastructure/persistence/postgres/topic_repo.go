// Package postgres implements the PostgreSQL persistence layer for the
// LevelUp Learning Hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TopicRepository implements topic.Repository for PostgreSQL.
type TopicRepository struct {
	conn *Connection
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(conn *Connection) *TopicRepository {
	return &TopicRepository{conn: conn}
}

// Create creates a new topic.
func (r *TopicRepository) Create(ctx context.Context, t *topic.Topic) error {
	query := `
		INSERT INTO topics (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, t.ID, t.Name, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrTopicNameTaken
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}

	return nil
}

// Update updates a topic.
func (r *TopicRepository) Update(ctx context.Context, t *topic.Topic) error {
	query := `
		UPDATE topics SET name = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query, t.Name, t.UpdatedAt, t.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrTopicNameTaken
		}
		return fmt.Errorf("failed to update topic: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrTopicNotFound
	}

	return nil
}

// Delete deletes a topic. Guide and course associations cascade.
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrTopicNotFound
	}

	return nil
}

// GetByID returns a topic by ID.
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*topic.Topic, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM topics
		WHERE id = $1
	`

	return r.scanTopic(r.conn.QueryRow(ctx, query, id))
}

// GetByName returns a topic by exact name.
func (r *TopicRepository) GetByName(ctx context.Context, name string) (*topic.Topic, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM topics
		WHERE name = $1
	`

	return r.scanTopic(r.conn.QueryRow(ctx, query, name))
}

// GetByIDs returns topics by a list of IDs. Missing IDs are skipped.
func (r *TopicRepository) GetByIDs(ctx context.Context, ids []string) ([]*topic.Topic, error) {
	if len(ids) == 0 {
		return []*topic.Topic{}, nil
	}

	query := `
		SELECT id, name, created_at, updated_at
		FROM topics
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	return r.scanTopics(rows)
}

// List returns all topics in alphabetical order.
func (r *TopicRepository) List(ctx context.Context) ([]*topic.Topic, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM topics
		ORDER BY name
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	return r.scanTopics(rows)
}

func (r *TopicRepository) scanTopic(row pgx.Row) (*topic.Topic, error) {
	var t topic.Topic
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to scan topic: %w", err)
	}
	return &t, nil
}

func (r *TopicRepository) scanTopics(rows pgx.Rows) ([]*topic.Topic, error) {
	topics := make([]*topic.Topic, 0)
	for rows.Next() {
		var t topic.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, &t)
	}
	return topics, rows.Err()
}
