// Package postgres implements the PostgreSQL persistence layer for the
// LevelUp Learning Hub.
package postgres

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const enrollmentColumns = `id, user_id, course_id, status, enrolled_at, completed_at, updated_at`

// EnrollmentRepository implements enrollment.Repository for PostgreSQL.
type EnrollmentRepository struct {
	conn *Connection
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(conn *Connection) *EnrollmentRepository {
	return &EnrollmentRepository{conn: conn}
}

// Create creates a new enrollment. The (user_id, course_id) unique
// constraint surfaces as ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.CourseID,
		string(e.Status),
		e.EnrolledAt,
		e.CompletedAt,
		e.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	return nil
}

// Update updates an enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	query := `
		UPDATE enrollments SET status = $1, completed_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.conn.Exec(ctx, query, string(e.Status), e.CompletedAt, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrEnrollmentNotFound
	}

	return nil
}

// GetByID returns an enrollment by ID.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE id = $1`, enrollmentColumns)
	return r.scanEnrollment(r.conn.QueryRow(ctx, query, id))
}

// GetByUserAndCourse returns a user's enrollment on a course in any status.
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*enrollment.Enrollment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM enrollments WHERE user_id = $1 AND course_id = $2`,
		enrollmentColumns,
	)
	return r.scanEnrollment(r.conn.QueryRow(ctx, query, userID, courseID))
}

// ListByUser returns a user's enrollments, optionally filtered by status.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string, status enrollment.Status) ([]*enrollment.Enrollment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM enrollments
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY enrolled_at DESC
	`, enrollmentColumns)

	rows, err := r.conn.Query(ctx, query, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query user enrollments: %w", err)
	}
	defer rows.Close()

	return r.scanEnrollments(rows)
}

// ListByCourse returns a course's enrollments, optionally filtered by status.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string, status enrollment.Status) ([]*enrollment.Enrollment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM enrollments
		WHERE course_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY enrolled_at DESC
	`, enrollmentColumns)

	rows, err := r.conn.Query(ctx, query, courseID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query course enrollments: %w", err)
	}
	defer rows.Close()

	return r.scanEnrollments(rows)
}

// CountActiveByCourse returns the number of active enrollments on a course.
func (r *EnrollmentRepository) CountActiveByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = 'ACTIVE'`,
		courseID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

func (r *EnrollmentRepository) scanEnrollment(row pgx.Row) (*enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	var status string
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CourseID,
		&status,
		&e.EnrolledAt,
		&e.CompletedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}
	e.Status = enrollment.Status(status)
	return &e, nil
}

func (r *EnrollmentRepository) scanEnrollments(rows pgx.Rows) ([]*enrollment.Enrollment, error) {
	enrollments := make([]*enrollment.Enrollment, 0)
	for rows.Next() {
		var e enrollment.Enrollment
		var status string
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CourseID,
			&status,
			&e.EnrolledAt,
			&e.CompletedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		e.Status = enrollment.Status(status)
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}
