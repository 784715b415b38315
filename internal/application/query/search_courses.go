package query

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH COURSES QUERY
// Поиск по каталогу курсов. Фильтр по неопубликованным статусам
// требует аутентификации.
// ══════════════════════════════════════════════════════════════════════════════

// SearchCoursesQuery содержит критерии поиска курсов.
type SearchCoursesQuery struct {
	// Actor - вызывающий.
	Actor shared.Actor

	// Title - подстрока названия, без учёта регистра.
	Title string

	// AuthorID - курсы данного автора.
	AuthorID string

	// TopicIDs - курсы, имеющие хотя бы одну из тем.
	TopicIDs []string

	// Difficulty - фильтр по уровню сложности.
	Difficulty course.Difficulty

	// Statuses - фильтр по статусам. Пустой фильтр означает PUBLISHED.
	Statuses []course.Status

	// Пагинация.
	Limit  int
	Offset int
}

// Validate проверяет корректность параметров.
func (q *SearchCoursesQuery) Validate() error {
	if q.Difficulty != "" && !q.Difficulty.IsValid() {
		return shared.ErrInvalidDifficulty
	}
	for _, s := range q.Statuses {
		if !s.IsValid() {
			return shared.NewDomainError("course", "Search", shared.ErrInvalidInput, "unknown course status")
		}
		if s != course.StatusPublished {
			if err := q.Actor.RequireAuthenticated(); err != nil {
				return err
			}
		}
	}
	return nil
}

// CourseSummaryDTO - краткое представление курса в списках.
type CourseSummaryDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Difficulty  string    `json:"difficulty"`
	AuthorIDs   []string  `json:"author_ids"`
	TopicIDs    []string  `json:"topic_ids"`
	GuideCount  int       `json:"guide_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchCoursesResult - страница результатов поиска.
type SearchCoursesResult struct {
	Courses []CourseSummaryDTO `json:"courses"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

// SearchCoursesHandler обрабатывает SearchCoursesQuery.
type SearchCoursesHandler struct {
	courseRepo course.Repository
}

// NewSearchCoursesHandler создаёт новый SearchCoursesHandler.
func NewSearchCoursesHandler(courseRepo course.Repository) *SearchCoursesHandler {
	return &SearchCoursesHandler{courseRepo: courseRepo}
}

// Handle выполняет поиск курсов.
func (h *SearchCoursesHandler) Handle(ctx context.Context, q SearchCoursesQuery) (*SearchCoursesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	opts := shared.ListOptions{Limit: q.Limit, Offset: q.Offset}.Normalize()
	filter := course.SearchFilter{
		Title:      shared.NormalizeTitle(q.Title),
		AuthorID:   q.AuthorID,
		TopicIDs:   q.TopicIDs,
		Difficulty: q.Difficulty,
		Statuses:   q.Statuses,
	}

	courses, err := h.courseRepo.Search(ctx, filter, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	result := &SearchCoursesResult{
		Courses: make([]CourseSummaryDTO, 0, len(courses)),
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}
	for _, c := range courses {
		if !c.IsVisibleTo(q.Actor) {
			continue
		}
		result.Courses = append(result.Courses, toCourseSummary(c))
	}
	return result, nil
}

func toCourseSummary(c *course.Course) CourseSummaryDTO {
	return CourseSummaryDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		Difficulty:  string(c.Difficulty),
		AuthorIDs:   c.AuthorIDs,
		TopicIDs:    c.TopicIDs,
		GuideCount:  len(c.GuideIDs),
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHOR COURSES QUERY
// Все курсы автора, включая черновики. Доступен автору и администраторам.
// ══════════════════════════════════════════════════════════════════════════════

// ListAuthorCoursesQuery содержит параметры запроса курсов автора.
type ListAuthorCoursesQuery struct {
	Actor    shared.Actor
	AuthorID string
}

// Validate проверяет корректность параметров.
func (q *ListAuthorCoursesQuery) Validate() error {
	if err := q.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if q.AuthorID == "" {
		q.AuthorID = q.Actor.UserID
	}
	if !q.Actor.Is(q.AuthorID) && !q.Actor.IsAdmin() {
		return shared.ErrNotOwner
	}
	return nil
}

// ListAuthorCoursesHandler обрабатывает ListAuthorCoursesQuery.
type ListAuthorCoursesHandler struct {
	courseRepo course.Repository
}

// NewListAuthorCoursesHandler создаёт новый ListAuthorCoursesHandler.
func NewListAuthorCoursesHandler(courseRepo course.Repository) *ListAuthorCoursesHandler {
	return &ListAuthorCoursesHandler{courseRepo: courseRepo}
}

// Handle выполняет запрос курсов автора.
func (h *ListAuthorCoursesHandler) Handle(ctx context.Context, q ListAuthorCoursesQuery) ([]CourseSummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	courses, err := h.courseRepo.ListByAuthor(ctx, q.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("list author courses: %w", err)
	}

	summaries := make([]CourseSummaryDTO, 0, len(courses))
	for _, c := range courses {
		if c.IsDeleted() {
			continue
		}
		summaries = append(summaries, toCourseSummary(c))
	}
	return summaries, nil
}
