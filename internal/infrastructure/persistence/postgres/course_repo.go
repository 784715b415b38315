// Package postgres implements the PostgreSQL persistence layer for the
// LevelUp Learning Hub.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// courseColumns lists the columns every course query selects. Topic labels
// and the ordered guide list come from aggregating subqueries.
const courseColumns = `
	c.id, c.title, c.description, c.cover_image, c.difficulty, c.author_ids, c.status,
	COALESCE((SELECT array_agg(ct.topic_id::text) FROM course_topics ct WHERE ct.course_id = c.id), '{}'),
	COALESCE((SELECT array_agg(cg.guide_id::text ORDER BY cg.position) FROM course_guides cg WHERE cg.course_id = c.id), '{}'),
	c.created_at, c.updated_at
`

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

// Create creates a new course with its topics and guide ordering.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	return r.conn.WithTx(ctx, func(txCtx context.Context) error {
		query := `
			INSERT INTO courses (
				id, title, description, cover_image, difficulty, author_ids, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := r.conn.Exec(txCtx, query,
			c.ID,
			c.Title,
			c.Description,
			c.CoverImage,
			string(c.Difficulty),
			c.AuthorIDs,
			string(c.Status),
			c.CreatedAt,
			c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}

		if err := r.replaceTopics(txCtx, c.ID, c.TopicIDs); err != nil {
			return err
		}
		return r.replaceGuides(txCtx, c.ID, c.GuideIDs)
	})
}

// Update updates a course, its topics and its guide ordering.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	return r.conn.WithTx(ctx, func(txCtx context.Context) error {
		query := `
			UPDATE courses SET
				title = $1,
				description = $2,
				cover_image = $3,
				difficulty = $4,
				author_ids = $5,
				status = $6,
				updated_at = $7
			WHERE id = $8
		`

		result, err := r.conn.Exec(txCtx, query,
			c.Title,
			c.Description,
			c.CoverImage,
			string(c.Difficulty),
			c.AuthorIDs,
			string(c.Status),
			c.UpdatedAt,
			c.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update course: %w", err)
		}
		if result.RowsAffected() == 0 {
			return shared.ErrCourseNotFound
		}

		if err := r.replaceTopics(txCtx, c.ID, c.TopicIDs); err != nil {
			return err
		}
		return r.replaceGuides(txCtx, c.ID, c.GuideIDs)
	})
}

// GetByID returns a course by ID, including deleted ones.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses c WHERE c.id = $1`, courseColumns)

	c, err := r.scanCourse(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByIDs returns courses by a list of IDs.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string) ([]*course.Course, error) {
	if len(ids) == 0 {
		return []*course.Course{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM courses c WHERE c.id = ANY($1)`, courseColumns)

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	return r.scanCourses(rows)
}

// Search returns courses matching the filter, newest first.
func (r *CourseRepository) Search(ctx context.Context, filter course.SearchFilter, limit, offset int) ([]*course.Course, error) {
	var sb strings.Builder
	args := make([]interface{}, 0, 6)

	sb.WriteString(fmt.Sprintf(`SELECT %s FROM courses c WHERE 1=1`, courseColumns))

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []course.Status{course.StatusPublished}
	}
	statusStrings := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrings = append(statusStrings, string(s))
	}
	args = append(args, statusStrings)
	sb.WriteString(fmt.Sprintf(" AND c.status = ANY($%d)", len(args)))

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		sb.WriteString(fmt.Sprintf(" AND c.title ILIKE $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		sb.WriteString(fmt.Sprintf(" AND $%d = ANY(c.author_ids)", len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, string(filter.Difficulty))
		sb.WriteString(fmt.Sprintf(" AND c.difficulty = $%d", len(args)))
	}
	if len(filter.TopicIDs) > 0 {
		args = append(args, filter.TopicIDs)
		sb.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM course_topics ct WHERE ct.course_id = c.id AND ct.topic_id::text = ANY($%d))",
			len(args),
		))
	}

	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d", len(args)))
	args = append(args, offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	defer rows.Close()

	return r.scanCourses(rows)
}

// ListByAuthor returns all courses of an author, drafts included.
func (r *CourseRepository) ListByAuthor(ctx context.Context, authorID string) ([]*course.Course, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM courses c
		WHERE $1 = ANY(c.author_ids)
		ORDER BY c.created_at DESC
	`, courseColumns)

	rows, err := r.conn.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query author courses: %w", err)
	}
	defer rows.Close()

	return r.scanCourses(rows)
}

// replaceTopics rewrites the course_topics junction rows for a course.
func (r *CourseRepository) replaceTopics(ctx context.Context, courseID string, topicIDs []string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM course_topics WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("failed to clear course topics: %w", err)
	}
	for _, topicID := range topicIDs {
		_, err := r.conn.Exec(ctx,
			`INSERT INTO course_topics (course_id, topic_id) VALUES ($1, $2)`,
			courseID, topicID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach topic %s: %w", topicID, err)
		}
	}
	return nil
}

// replaceGuides rewrites the ordered course_guides rows for a course.
func (r *CourseRepository) replaceGuides(ctx context.Context, courseID string, guideIDs []string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM course_guides WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("failed to clear course guides: %w", err)
	}
	for position, guideID := range guideIDs {
		_, err := r.conn.Exec(ctx,
			`INSERT INTO course_guides (course_id, guide_id, position) VALUES ($1, $2, $3)`,
			courseID, guideID, position,
		)
		if err != nil {
			return fmt.Errorf("failed to attach guide %s: %w", guideID, err)
		}
	}
	return nil
}

func (r *CourseRepository) scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	var difficulty, status string
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.CoverImage,
		&difficulty,
		&c.AuthorIDs,
		&status,
		&c.TopicIDs,
		&c.GuideIDs,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Difficulty = course.Difficulty(difficulty)
	c.Status = course.Status(status)
	return &c, nil
}

func (r *CourseRepository) scanCourses(rows pgx.Rows) ([]*course.Course, error) {
	courses := make([]*course.Course, 0)
	for rows.Next() {
		c, err := r.scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
