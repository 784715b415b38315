// Package postgres implements the PostgreSQL persistence layer for the
// LevelUp Learning Hub.
package postgres

import (
	"context"
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a database migration.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator handles database migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a new migrator with embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the migration tracking table if it doesn't exist.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns all applied migrations.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time

		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}

		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}

		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		// Apply migration in transaction
		err := m.conn.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := m.conn.Exec(txCtx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}

			insertQuery := fmt.Sprintf(
				"INSERT INTO %s (version, name) VALUES ($1, $2)",
				m.tableName,
			)
			_, err := m.conn.Exec(txCtx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

// Rollback rolls back the last applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var lastVersion int
	for v := range applied {
		if v > lastVersion {
			lastVersion = v
		}
	}

	if lastVersion == 0 {
		return nil // Nothing to rollback
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == lastVersion {
			migration = &m.migrations[i]
			break
		}
	}

	if migration == nil || migration.DownSQL == "" {
		return fmt.Errorf("%w: missing down SQL for migration %d", ErrMigrationFailed, lastVersion)
	}

	return m.conn.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := m.conn.Exec(txCtx, migration.DownSQL); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", lastVersion, err)
		}

		deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE version = $1", m.tableName)
		_, err := m.conn.Exec(txCtx, deleteQuery, lastVersion)
		return err
	})
}

// Status returns the migration status.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Migration, len(m.migrations))
	copy(result, m.migrations)

	for i := range result {
		if appliedAt, ok := applied[result[i].Version]; ok {
			result[i].IsApplied = true
			result[i].AppliedAt = appliedAt
		}
	}

	return result, nil
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_topics",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_guides",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_courses",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
		{
			Version: 4,
			Name:    "create_enrollments_and_progress",
			UpSQL:   migration004Up,
			DownSQL: migration004Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE TOPICS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create topics table
-- Version: 001

CREATE TABLE IF NOT EXISTS topics (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_topics_name ON topics(name);
`

const migration001Down = `
DROP TABLE IF EXISTS topics;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE GUIDES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create guides, pages and likes
-- Version: 002

CREATE TABLE IF NOT EXISTS guides (
    id UUID PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    cover_image TEXT NOT NULL DEFAULT '',
    author_ids TEXT[] NOT NULL,
    challenge_ids TEXT[] NOT NULL DEFAULT '{}',
    course_id UUID,
    status VARCHAR(30) NOT NULL DEFAULT 'DRAFT',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_guide_status CHECK (status IN ('DRAFT', 'PUBLISHED', 'ASSOCIATED_WITH_COURSE', 'DELETED'))
);

CREATE INDEX IF NOT EXISTS idx_guides_status ON guides(status);
CREATE INDEX IF NOT EXISTS idx_guides_course_id ON guides(course_id) WHERE course_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_guides_author_ids ON guides USING GIN(author_ids);
CREATE INDEX IF NOT EXISTS idx_guides_title ON guides(LOWER(title));

-- Topic labels attached to guides
CREATE TABLE IF NOT EXISTS guide_topics (
    guide_id UUID NOT NULL REFERENCES guides(id) ON DELETE CASCADE,
    topic_id UUID NOT NULL REFERENCES topics(id) ON DELETE CASCADE,

    PRIMARY KEY (guide_id, topic_id)
);

CREATE INDEX IF NOT EXISTS idx_guide_topics_topic_id ON guide_topics(topic_id);

-- Ordered guide pages; order numbers are unique per guide, gaps allowed
CREATE TABLE IF NOT EXISTS pages (
    id UUID PRIMARY KEY,
    guide_id UUID NOT NULL REFERENCES guides(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    order_number INTEGER NOT NULL CHECK (order_number >= 1),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT pages_guide_order_key UNIQUE (guide_id, order_number)
);

CREATE INDEX IF NOT EXISTS idx_pages_guide_id ON pages(guide_id, order_number);

-- One like per user per guide
CREATE TABLE IF NOT EXISTS guide_likes (
    id UUID PRIMARY KEY,
    guide_id UUID NOT NULL REFERENCES guides(id) ON DELETE CASCADE,
    user_id UUID NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT guide_likes_guide_user_key UNIQUE (guide_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_guide_likes_user_id ON guide_likes(user_id);
`

const migration002Down = `
DROP TABLE IF EXISTS guide_likes;
DROP TABLE IF EXISTS pages;
DROP TABLE IF EXISTS guide_topics;
DROP TABLE IF EXISTS guides;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE COURSES
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create courses and their guide ordering
-- Version: 003

CREATE TABLE IF NOT EXISTS courses (
    id UUID PRIMARY KEY,
    title VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    cover_image TEXT NOT NULL DEFAULT '',
    difficulty VARCHAR(20) NOT NULL,
    author_ids TEXT[] NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_course_status CHECK (status IN ('DRAFT', 'PUBLISHED', 'DELETED')),
    CONSTRAINT valid_course_difficulty CHECK (difficulty IN ('BEGINNER', 'INTERMEDIATE', 'ADVANCED'))
);

CREATE INDEX IF NOT EXISTS idx_courses_status ON courses(status);
CREATE INDEX IF NOT EXISTS idx_courses_difficulty ON courses(difficulty);
CREATE INDEX IF NOT EXISTS idx_courses_author_ids ON courses USING GIN(author_ids);
CREATE INDEX IF NOT EXISTS idx_courses_title ON courses(LOWER(title));

CREATE TABLE IF NOT EXISTS course_topics (
    course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    topic_id UUID NOT NULL REFERENCES topics(id) ON DELETE CASCADE,

    PRIMARY KEY (course_id, topic_id)
);

CREATE INDEX IF NOT EXISTS idx_course_topics_topic_id ON course_topics(topic_id);

-- Ordered membership of guides in a course
CREATE TABLE IF NOT EXISTS course_guides (
    course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    guide_id UUID NOT NULL REFERENCES guides(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,

    PRIMARY KEY (course_id, guide_id),
    CONSTRAINT course_guides_guide_key UNIQUE (guide_id)
);

CREATE INDEX IF NOT EXISTS idx_course_guides_course ON course_guides(course_id, position);
`

const migration003Down = `
DROP TABLE IF EXISTS course_guides;
DROP TABLE IF EXISTS course_topics;
DROP TABLE IF EXISTS courses;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ENROLLMENTS AND LEARNING PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create enrollments and learning progress
-- Version: 004

CREATE TABLE IF NOT EXISTS enrollments (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
    enrolled_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMP WITH TIME ZONE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_enrollment_status CHECK (status IN ('ACTIVE', 'COMPLETED', 'CANCELLED')),
    CONSTRAINT enrollments_user_course_key UNIQUE (user_id, course_id)
);

CREATE INDEX IF NOT EXISTS idx_enrollments_user_id ON enrollments(user_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments(course_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_course_status ON enrollments(course_id, status);

CREATE TABLE IF NOT EXISTS learning_progress (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL,
    entity_type VARCHAR(10) NOT NULL,
    entity_id UUID NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'IN_PROGRESS',
    total_items INTEGER NOT NULL DEFAULT 0 CHECK (total_items >= 0),
    completed_items INTEGER NOT NULL DEFAULT 0 CHECK (completed_items >= 0),
    percentage INTEGER NOT NULL DEFAULT 0 CHECK (percentage >= 0 AND percentage <= 100),
    reading_time_seconds BIGINT NOT NULL DEFAULT 0,
    started_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    last_accessed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMP WITH TIME ZONE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_progress_entity_type CHECK (entity_type IN ('GUIDE', 'COURSE')),
    CONSTRAINT valid_progress_status CHECK (status IN ('IN_PROGRESS', 'COMPLETED')),
    CONSTRAINT progress_user_entity_key UNIQUE (user_id, entity_type, entity_id)
);

CREATE INDEX IF NOT EXISTS idx_progress_user_id ON learning_progress(user_id);
CREATE INDEX IF NOT EXISTS idx_progress_entity ON learning_progress(entity_type, entity_id);
`

const migration004Down = `
DROP TABLE IF EXISTS learning_progress;
DROP TABLE IF EXISTS enrollments;
`
