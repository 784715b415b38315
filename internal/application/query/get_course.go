package query

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE QUERY
// Возвращает курс с темами и гайдами в порядке курса. Правила видимости
// те же, что и у гайдов: невидимый курс — «не найдено».
// ══════════════════════════════════════════════════════════════════════════════

// GetCourseQuery содержит параметры запроса курса.
type GetCourseQuery struct {
	// Actor - вызывающий.
	Actor shared.Actor

	// CourseID - идентификатор курса.
	CourseID string

	// IncludeGuides - включить краткие карточки гайдов курса.
	IncludeGuides bool
}

// Validate проверяет корректность параметров.
func (q *GetCourseQuery) Validate() error {
	if q.CourseID == "" {
		return shared.NewDomainError("course", "Get", shared.ErrInvalidID, "course ID is required")
	}
	return nil
}

// CourseDTO - DTO курса для выдачи наружу.
type CourseDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	CoverImage  string            `json:"cover_image,omitempty"`
	Difficulty  string            `json:"difficulty"`
	AuthorIDs   []string          `json:"author_ids"`
	Topics      []TopicDTO        `json:"topics"`
	GuideIDs    []string          `json:"guide_ids"`
	Status      string            `json:"status"`
	Guides      []GuideSummaryDTO `json:"guides,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// GetCourseHandler обрабатывает GetCourseQuery.
type GetCourseHandler struct {
	courseRepo course.Repository
	guideRepo  guide.Repository
	likeRepo   guide.LikeRepository
	topicRepo  topic.Repository
	cache      CourseCache
}

// NewGetCourseHandler создаёт новый GetCourseHandler. Кеш может быть nil.
func NewGetCourseHandler(
	courseRepo course.Repository,
	guideRepo guide.Repository,
	likeRepo guide.LikeRepository,
	topicRepo topic.Repository,
	cache CourseCache,
) *GetCourseHandler {
	return &GetCourseHandler{
		courseRepo: courseRepo,
		guideRepo:  guideRepo,
		likeRepo:   likeRepo,
		topicRepo:  topicRepo,
		cache:      cache,
	}
}

// cacheable сообщает, можно ли обслужить запрос из кеша.
// Кешируется только полная анонимная выдача.
func (h *GetCourseHandler) cacheable(q GetCourseQuery) bool {
	return h.cache != nil && !q.Actor.IsAuthenticated() && q.IncludeGuides
}

// Handle выполняет запрос курса.
func (h *GetCourseHandler) Handle(ctx context.Context, q GetCourseQuery) (*CourseDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cacheable(q) {
		if dto, err := h.cache.GetCourse(ctx, q.CourseID); err == nil && dto != nil {
			return dto, nil
		}
	}

	c, err := h.courseRepo.GetByID(ctx, q.CourseID)
	if err != nil {
		return nil, err
	}
	if !c.IsVisibleTo(q.Actor) {
		return nil, shared.ErrCourseNotFound
	}

	topics, err := h.topicRepo.GetByIDs(ctx, c.TopicIDs)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	dto := &CourseDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		Difficulty:  string(c.Difficulty),
		AuthorIDs:   c.AuthorIDs,
		Topics:      toTopicDTOs(topics),
		GuideIDs:    c.GuideIDs,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if q.IncludeGuides && len(c.GuideIDs) > 0 {
		guides, err := h.guideRepo.GetByIDs(ctx, c.GuideIDs)
		if err != nil {
			return nil, fmt.Errorf("load course guides: %w", err)
		}
		byID := make(map[string]*guide.Guide, len(guides))
		for _, g := range guides {
			byID[g.ID] = g
		}
		// Выдача повторяет порядок гайдов в курсе.
		dto.Guides = make([]GuideSummaryDTO, 0, len(c.GuideIDs))
		for _, id := range c.GuideIDs {
			g, ok := byID[id]
			if !ok || g.IsDeleted() {
				continue
			}
			likes, err := h.likeRepo.CountByGuide(ctx, g.ID)
			if err != nil {
				return nil, fmt.Errorf("count likes: %w", err)
			}
			dto.Guides = append(dto.Guides, GuideSummaryDTO{
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
	}

	if h.cacheable(q) && c.Status == course.StatusPublished {
		// Ошибка записи в кеш не прерывает выдачу.
		_ = h.cache.SetCourse(ctx, dto)
	}
	return dto, nil
}
