// Package postgres implements the PostgreSQL persistence layer for the
// LevelUp Learning Hub.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// GUIDE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// guideColumns lists the columns every guide query selects. Topic labels
// and the like counter come from aggregating subqueries so a single scan
// rebuilds the whole aggregate.
const guideColumns = `
	g.id, g.title, g.description, g.cover_image, g.author_ids, g.challenge_ids,
	COALESCE(g.course_id::text, ''), g.status,
	COALESCE((SELECT array_agg(gt.topic_id::text) FROM guide_topics gt WHERE gt.guide_id = g.id), '{}'),
	(SELECT COUNT(*) FROM guide_likes gl WHERE gl.guide_id = g.id),
	g.created_at, g.updated_at
`

// GuideRepository implements guide.Repository for PostgreSQL.
type GuideRepository struct {
	conn *Connection
}

// NewGuideRepository creates a new GuideRepository.
func NewGuideRepository(conn *Connection) *GuideRepository {
	return &GuideRepository{conn: conn}
}

// Create creates a new guide with its topic labels.
func (r *GuideRepository) Create(ctx context.Context, g *guide.Guide) error {
	return r.conn.WithTx(ctx, func(txCtx context.Context) error {
		query := `
			INSERT INTO guides (
				id, title, description, cover_image, author_ids, challenge_ids,
				course_id, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10)
		`

		_, err := r.conn.Exec(txCtx, query,
			g.ID,
			g.Title,
			g.Description,
			g.CoverImage,
			g.AuthorIDs,
			g.ChallengeIDs,
			g.CourseID,
			string(g.Status),
			g.CreatedAt,
			g.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create guide: %w", err)
		}

		return r.replaceTopics(txCtx, g.ID, g.TopicIDs)
	})
}

// Update updates a guide and replaces its topic labels.
func (r *GuideRepository) Update(ctx context.Context, g *guide.Guide) error {
	return r.conn.WithTx(ctx, func(txCtx context.Context) error {
		query := `
			UPDATE guides SET
				title = $1,
				description = $2,
				cover_image = $3,
				author_ids = $4,
				challenge_ids = $5,
				course_id = NULLIF($6, '')::uuid,
				status = $7,
				updated_at = $8
			WHERE id = $9
		`

		result, err := r.conn.Exec(txCtx, query,
			g.Title,
			g.Description,
			g.CoverImage,
			g.AuthorIDs,
			g.ChallengeIDs,
			g.CourseID,
			string(g.Status),
			g.UpdatedAt,
			g.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update guide: %w", err)
		}
		if result.RowsAffected() == 0 {
			return shared.ErrGuideNotFound
		}

		return r.replaceTopics(txCtx, g.ID, g.TopicIDs)
	})
}

// GetByID returns a guide by ID, including deleted ones.
func (r *GuideRepository) GetByID(ctx context.Context, id string) (*guide.Guide, error) {
	query := fmt.Sprintf(`SELECT %s FROM guides g WHERE g.id = $1`, guideColumns)

	g, err := r.scanGuide(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrGuideNotFound
		}
		return nil, err
	}
	return g, nil
}

// GetByIDs returns guides by a list of IDs.
func (r *GuideRepository) GetByIDs(ctx context.Context, ids []string) ([]*guide.Guide, error) {
	if len(ids) == 0 {
		return []*guide.Guide{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM guides g WHERE g.id = ANY($1)`, guideColumns)

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query guides: %w", err)
	}
	defer rows.Close()

	return r.scanGuides(rows)
}

// Search returns guides matching the filter, newest first.
func (r *GuideRepository) Search(ctx context.Context, filter guide.SearchFilter, limit, offset int) ([]*guide.Guide, error) {
	var sb strings.Builder
	args := make([]interface{}, 0, 6)

	sb.WriteString(fmt.Sprintf(`SELECT %s FROM guides g WHERE 1=1`, guideColumns))

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []guide.Status{guide.StatusPublished}
	}
	statusStrings := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrings = append(statusStrings, string(s))
	}
	args = append(args, statusStrings)
	sb.WriteString(fmt.Sprintf(" AND g.status = ANY($%d)", len(args)))

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		sb.WriteString(fmt.Sprintf(" AND g.title ILIKE $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		sb.WriteString(fmt.Sprintf(" AND $%d = ANY(g.author_ids)", len(args)))
	}
	if len(filter.TopicIDs) > 0 {
		args = append(args, filter.TopicIDs)
		sb.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM guide_topics gt WHERE gt.guide_id = g.id AND gt.topic_id::text = ANY($%d))",
			len(args),
		))
	}
	if filter.MinLikes > 0 {
		args = append(args, filter.MinLikes)
		sb.WriteString(fmt.Sprintf(
			" AND (SELECT COUNT(*) FROM guide_likes gl WHERE gl.guide_id = g.id) >= $%d",
			len(args),
		))
	}

	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY g.created_at DESC LIMIT $%d", len(args)))
	args = append(args, offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search guides: %w", err)
	}
	defer rows.Close()

	return r.scanGuides(rows)
}

// ListByAuthor returns all guides of an author, drafts included.
func (r *GuideRepository) ListByAuthor(ctx context.Context, authorID string) ([]*guide.Guide, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM guides g
		WHERE $1 = ANY(g.author_ids)
		ORDER BY g.created_at DESC
	`, guideColumns)

	rows, err := r.conn.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query author guides: %w", err)
	}
	defer rows.Close()

	return r.scanGuides(rows)
}

// ListByCourse returns the guides associated with a course.
func (r *GuideRepository) ListByCourse(ctx context.Context, courseID string) ([]*guide.Guide, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM guides g
		WHERE g.course_id = $1
		ORDER BY g.created_at
	`, guideColumns)

	rows, err := r.conn.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query course guides: %w", err)
	}
	defer rows.Close()

	return r.scanGuides(rows)
}

// replaceTopics rewrites the guide_topics junction rows for a guide.
func (r *GuideRepository) replaceTopics(ctx context.Context, guideID string, topicIDs []string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM guide_topics WHERE guide_id = $1`, guideID); err != nil {
		return fmt.Errorf("failed to clear guide topics: %w", err)
	}
	for _, topicID := range topicIDs {
		_, err := r.conn.Exec(ctx,
			`INSERT INTO guide_topics (guide_id, topic_id) VALUES ($1, $2)`,
			guideID, topicID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach topic %s: %w", topicID, err)
		}
	}
	return nil
}

func (r *GuideRepository) scanGuide(row pgx.Row) (*guide.Guide, error) {
	var g guide.Guide
	var status string
	err := row.Scan(
		&g.ID,
		&g.Title,
		&g.Description,
		&g.CoverImage,
		&g.AuthorIDs,
		&g.ChallengeIDs,
		&g.CourseID,
		&status,
		&g.TopicIDs,
		&g.Likes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Status = guide.Status(status)
	return &g, nil
}

func (r *GuideRepository) scanGuides(rows pgx.Rows) ([]*guide.Guide, error) {
	guides := make([]*guide.Guide, 0)
	for rows.Next() {
		g, err := r.scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guide row: %w", err)
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// PAGE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PageRepository implements guide.PageRepository for PostgreSQL.
type PageRepository struct {
	conn *Connection
}

// NewPageRepository creates a new PageRepository.
func NewPageRepository(conn *Connection) *PageRepository {
	return &PageRepository{conn: conn}
}

// Create creates a new page. The (guide_id, order_number) unique
// constraint surfaces as ErrPageOrderTaken.
func (r *PageRepository) Create(ctx context.Context, p *guide.Page) error {
	query := `
		INSERT INTO pages (id, guide_id, content, order_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		p.ID, p.GuideID, p.Content, p.OrderNumber, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPageOrderTaken
		}
		return fmt.Errorf("failed to create page: %w", err)
	}

	return nil
}

// Update updates a page.
func (r *PageRepository) Update(ctx context.Context, p *guide.Page) error {
	query := `
		UPDATE pages SET content = $1, order_number = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.conn.Exec(ctx, query, p.Content, p.OrderNumber, p.UpdatedAt, p.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPageOrderTaken
		}
		return fmt.Errorf("failed to update page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrPageNotFound
	}

	return nil
}

// Delete deletes a page. Remaining order numbers keep their gaps.
func (r *PageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrPageNotFound
	}

	return nil
}

// GetByID returns a page by ID.
func (r *PageRepository) GetByID(ctx context.Context, id string) (*guide.Page, error) {
	query := `
		SELECT id, guide_id, content, order_number, created_at, updated_at
		FROM pages
		WHERE id = $1
	`

	var p guide.Page
	err := r.conn.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.GuideID, &p.Content, &p.OrderNumber, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}
	return &p, nil
}

// ListByGuide returns the pages of a guide in ascending order.
func (r *PageRepository) ListByGuide(ctx context.Context, guideID string) ([]*guide.Page, error) {
	query := `
		SELECT id, guide_id, content, order_number, created_at, updated_at
		FROM pages
		WHERE guide_id = $1
		ORDER BY order_number
	`

	rows, err := r.conn.Query(ctx, query, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	pages := make([]*guide.Page, 0)
	for rows.Next() {
		var p guide.Page
		if err := rows.Scan(&p.ID, &p.GuideID, &p.Content, &p.OrderNumber, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LikeRepository implements guide.LikeRepository for PostgreSQL.
type LikeRepository struct {
	conn *Connection
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(conn *Connection) *LikeRepository {
	return &LikeRepository{conn: conn}
}

// Create stores a like. Repeats surface as ErrAlreadyLiked.
func (r *LikeRepository) Create(ctx context.Context, l *guide.Like) error {
	query := `
		INSERT INTO guide_likes (id, guide_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, l.ID, l.GuideID, l.UserID, l.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyLiked
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	return nil
}

// Delete removes a user's like from a guide.
func (r *LikeRepository) Delete(ctx context.Context, guideID, userID string) error {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM guide_likes WHERE guide_id = $1 AND user_id = $2`,
		guideID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotLiked
	}

	return nil
}

// CountByGuide returns the number of likes on a guide.
func (r *LikeRepository) CountByGuide(ctx context.Context, guideID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM guide_likes WHERE guide_id = $1`,
		guideID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// ListGuideIDsByUser returns the IDs of guides liked by a user.
func (r *LikeRepository) ListGuideIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT guide_id FROM guide_likes WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether a user has liked a guide.
func (r *LikeRepository) Exists(ctx context.Context, guideID, userID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM guide_likes WHERE guide_id = $1 AND user_id = $2)`,
		guideID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}
