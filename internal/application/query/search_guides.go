package query

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH GUIDES QUERY
// Поиск по каталогу гайдов. Анонимный вызывающий видит только опубликованные
// гайды; фильтр по неопубликованным статусам требует аутентификации,
// а черновики в выдаче дополнительно фильтруются по правам.
// ══════════════════════════════════════════════════════════════════════════════

// SearchGuidesQuery содержит критерии поиска гайдов.
type SearchGuidesQuery struct {
	// Actor - вызывающий.
	Actor shared.Actor

	// Title - подстрока названия, без учёта регистра.
	Title string

	// AuthorID - гайды данного автора.
	AuthorID string

	// TopicIDs - гайды, имеющие хотя бы одну из тем.
	TopicIDs []string

	// MinLikes - минимальное число отметок «нравится».
	MinLikes int

	// Statuses - фильтр по статусам. Пустой фильтр означает PUBLISHED.
	Statuses []guide.Status

	// Пагинация.
	Limit  int
	Offset int
}

// Validate проверяет корректность параметров.
func (q *SearchGuidesQuery) Validate() error {
	if q.MinLikes < 0 {
		return shared.NewDomainError("guide", "Search", shared.ErrValueOutOfRange, "min likes cannot be negative")
	}
	// Фильтр по неопубликованным статусам доступен
	// только аутентифицированным пользователям.
	for _, s := range q.Statuses {
		if !s.IsValid() {
			return shared.NewDomainError("guide", "Search", shared.ErrInvalidInput, "unknown guide status")
		}
		if s != guide.StatusPublished {
			if err := q.Actor.RequireAuthenticated(); err != nil {
				return err
			}
		}
	}
	return nil
}

// GuideSummaryDTO - краткое представление гайда в списках.
type GuideSummaryDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	AuthorIDs   []string  `json:"author_ids"`
	TopicIDs    []string  `json:"topic_ids"`
	CourseID    string    `json:"course_id,omitempty"`
	Status      string    `json:"status"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchGuidesResult - страница результатов поиска.
type SearchGuidesResult struct {
	Guides []GuideSummaryDTO `json:"guides"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// SearchGuidesHandler обрабатывает SearchGuidesQuery.
type SearchGuidesHandler struct {
	guideRepo guide.Repository
	likeRepo  guide.LikeRepository
}

// NewSearchGuidesHandler создаёт новый SearchGuidesHandler.
func NewSearchGuidesHandler(guideRepo guide.Repository, likeRepo guide.LikeRepository) *SearchGuidesHandler {
	return &SearchGuidesHandler{guideRepo: guideRepo, likeRepo: likeRepo}
}

// Handle выполняет поиск гайдов.
func (h *SearchGuidesHandler) Handle(ctx context.Context, q SearchGuidesQuery) (*SearchGuidesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	opts := shared.ListOptions{Limit: q.Limit, Offset: q.Offset}.Normalize()
	filter := guide.SearchFilter{
		Title:    shared.NormalizeTitle(q.Title),
		AuthorID: q.AuthorID,
		TopicIDs: q.TopicIDs,
		MinLikes: q.MinLikes,
		Statuses: q.Statuses,
	}

	guides, err := h.guideRepo.Search(ctx, filter, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("search guides: %w", err)
	}

	result := &SearchGuidesResult{
		Guides: make([]GuideSummaryDTO, 0, len(guides)),
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	for _, g := range guides {
		// Невидимые для вызывающего гайды не попадают в выдачу.
		if !g.IsVisibleTo(q.Actor) {
			continue
		}
		dto, err := h.toSummary(ctx, g)
		if err != nil {
			return nil, err
		}
		result.Guides = append(result.Guides, dto)
	}
	return result, nil
}

func (h *SearchGuidesHandler) toSummary(ctx context.Context, g *guide.Guide) (GuideSummaryDTO, error) {
	likes, err := h.likeRepo.CountByGuide(ctx, g.ID)
	if err != nil {
		return GuideSummaryDTO{}, fmt.Errorf("count likes: %w", err)
	}
	return GuideSummaryDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		CoverImage:  g.CoverImage,
		AuthorIDs:   g.AuthorIDs,
		TopicIDs:    g.TopicIDs,
		CourseID:    g.CourseID,
		Status:      string(g.Status),
		Likes:       likes,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHOR DASHBOARD QUERY
// Список всех гайдов автора, включая черновики. Доступен самому автору
// и администраторам.
// ══════════════════════════════════════════════════════════════════════════════

// ListAuthorGuidesQuery содержит параметры запроса гайдов автора.
type ListAuthorGuidesQuery struct {
	Actor    shared.Actor
	AuthorID string
}

// Validate проверяет корректность параметров.
func (q *ListAuthorGuidesQuery) Validate() error {
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

// ListAuthorGuidesHandler обрабатывает ListAuthorGuidesQuery.
type ListAuthorGuidesHandler struct {
	guideRepo guide.Repository
	likeRepo  guide.LikeRepository
}

// NewListAuthorGuidesHandler создаёт новый ListAuthorGuidesHandler.
func NewListAuthorGuidesHandler(guideRepo guide.Repository, likeRepo guide.LikeRepository) *ListAuthorGuidesHandler {
	return &ListAuthorGuidesHandler{guideRepo: guideRepo, likeRepo: likeRepo}
}

// Handle выполняет запрос гайдов автора.
func (h *ListAuthorGuidesHandler) Handle(ctx context.Context, q ListAuthorGuidesQuery) ([]GuideSummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	guides, err := h.guideRepo.ListByAuthor(ctx, q.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("list author guides: %w", err)
	}

	summaries := make([]GuideSummaryDTO, 0, len(guides))
	for _, g := range guides {
		if g.IsDeleted() {
			continue
		}
		likes, err := h.likeRepo.CountByGuide(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("count likes: %w", err)
		}
		summaries = append(summaries, GuideSummaryDTO{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			CoverImage:  g.CoverImage,
			AuthorIDs:   g.AuthorIDs,
			TopicIDs:    g.TopicIDs,
			CourseID:    g.CourseID,
			Status:      string(g.Status),
			Likes:       likes,
			CreatedAt:   g.CreatedAt,
			UpdatedAt:   g.UpdatedAt,
		})
	}
	return summaries, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKED GUIDES QUERY
// Гайды, отмеченные вызывающим. Удалённые и невидимые гайды
// из выдачи исключаются.
// ══════════════════════════════════════════════════════════════════════════════

// ListLikedGuidesQuery содержит параметры запроса отмеченных гайдов.
type ListLikedGuidesQuery struct {
	Actor shared.Actor
}

// Validate проверяет корректность параметров.
func (q *ListLikedGuidesQuery) Validate() error {
	return q.Actor.RequireAuthenticated()
}

// ListLikedGuidesHandler обрабатывает ListLikedGuidesQuery.
type ListLikedGuidesHandler struct {
	guideRepo guide.Repository
	likeRepo  guide.LikeRepository
}

// NewListLikedGuidesHandler создаёт новый ListLikedGuidesHandler.
func NewListLikedGuidesHandler(guideRepo guide.Repository, likeRepo guide.LikeRepository) *ListLikedGuidesHandler {
	return &ListLikedGuidesHandler{guideRepo: guideRepo, likeRepo: likeRepo}
}

// Handle выполняет запрос отмеченных гайдов.
func (h *ListLikedGuidesHandler) Handle(ctx context.Context, q ListLikedGuidesQuery) ([]GuideSummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ids, err := h.likeRepo.ListGuideIDsByUser(ctx, q.Actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list liked guides: %w", err)
	}
	if len(ids) == 0 {
		return []GuideSummaryDTO{}, nil
	}

	guides, err := h.guideRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load guides: %w", err)
	}

	summaries := make([]GuideSummaryDTO, 0, len(guides))
	for _, g := range guides {
		if !g.IsVisibleTo(q.Actor) {
			continue
		}
		likes, err := h.likeRepo.CountByGuide(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("count likes: %w", err)
		}
		summaries = append(summaries, GuideSummaryDTO{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			CoverImage:  g.CoverImage,
			AuthorIDs:   g.AuthorIDs,
			TopicIDs:    g.TopicIDs,
			CourseID:    g.CourseID,
			Status:      string(g.Status),
			Likes:       likes,
			CreatedAt:   g.CreatedAt,
			UpdatedAt:   g.UpdatedAt,
		})
	}
	return summaries, nil
}
