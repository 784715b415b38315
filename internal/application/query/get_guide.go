// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET GUIDE QUERY
// Возвращает гайд со страницами, темами и числом отметок «нравится».
// Невидимый для вызывающего гайд неотличим от несуществующего:
// в обоих случаях возвращается «не найдено».
// ══════════════════════════════════════════════════════════════════════════════

// GetGuideQuery содержит параметры запроса гайда.
type GetGuideQuery struct {
	// Actor - вызывающий; определяет видимость черновиков.
	Actor shared.Actor

	// GuideID - идентификатор гайда.
	GuideID string

	// IncludePages - включить страницы гайда.
	IncludePages bool
}

// Validate проверяет корректность параметров.
func (q *GetGuideQuery) Validate() error {
	if q.GuideID == "" {
		return shared.NewDomainError("guide", "Get", shared.ErrInvalidID, "guide ID is required")
	}
	return nil
}

// PageDTO - DTO страницы гайда.
type PageDTO struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	OrderNumber int       `json:"order_number"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TopicDTO - DTO тематической метки.
type TopicDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GuideDTO - DTO гайда для выдачи наружу.
type GuideDTO struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	CoverImage   string     `json:"cover_image,omitempty"`
	AuthorIDs    []string   `json:"author_ids"`
	Topics       []TopicDTO `json:"topics"`
	ChallengeIDs []string   `json:"challenge_ids"`
	CourseID     string     `json:"course_id,omitempty"`
	Status       string     `json:"status"`
	Likes        int        `json:"likes"`
	LikedByMe    bool       `json:"liked_by_me"`
	PageCount    int        `json:"page_count"`
	Pages        []PageDTO  `json:"pages,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GetGuideHandler обрабатывает GetGuideQuery.
type GetGuideHandler struct {
	guideRepo guide.Repository
	pageRepo  guide.PageRepository
	likeRepo  guide.LikeRepository
	topicRepo topic.Repository
	cache     GuideCache
}

// NewGetGuideHandler создаёт новый GetGuideHandler. Кеш может быть nil.
func NewGetGuideHandler(
	guideRepo guide.Repository,
	pageRepo guide.PageRepository,
	likeRepo guide.LikeRepository,
	topicRepo topic.Repository,
	cache GuideCache,
) *GetGuideHandler {
	return &GetGuideHandler{
		guideRepo: guideRepo,
		pageRepo:  pageRepo,
		likeRepo:  likeRepo,
		topicRepo: topicRepo,
		cache:     cache,
	}
}

// cacheable сообщает, можно ли обслужить запрос из кеша.
// Кешируется только полная анонимная выдача.
func (h *GetGuideHandler) cacheable(q GetGuideQuery) bool {
	return h.cache != nil && !q.Actor.IsAuthenticated() && q.IncludePages
}

// Handle выполняет запрос гайда.
func (h *GetGuideHandler) Handle(ctx context.Context, q GetGuideQuery) (*GuideDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cacheable(q) {
		if dto, err := h.cache.GetGuide(ctx, q.GuideID); err == nil && dto != nil {
			return dto, nil
		}
	}

	g, err := h.guideRepo.GetByID(ctx, q.GuideID)
	if err != nil {
		return nil, err
	}
	if !g.IsVisibleTo(q.Actor) {
		return nil, shared.ErrGuideNotFound
	}

	pages, err := h.pageRepo.ListByGuide(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	dto, err := h.toDTO(ctx, g, len(pages), q.Actor)
	if err != nil {
		return nil, err
	}
	if q.IncludePages {
		guide.SortPages(pages)
		dto.Pages = make([]PageDTO, 0, len(pages))
		for _, p := range pages {
			dto.Pages = append(dto.Pages, PageDTO{
				ID:          p.ID,
				Content:     p.Content,
				OrderNumber: p.OrderNumber,
				UpdatedAt:   p.UpdatedAt,
			})
		}
	}

	if h.cacheable(q) && g.Status == guide.StatusPublished {
		// Ошибка записи в кеш не прерывает выдачу.
		_ = h.cache.SetGuide(ctx, dto)
	}
	return dto, nil
}

// toDTO собирает DTO гайда с темами и отметками «нравится».
func (h *GetGuideHandler) toDTO(ctx context.Context, g *guide.Guide, pageCount int, actor shared.Actor) (*GuideDTO, error) {
	likes, err := h.likeRepo.CountByGuide(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	likedByMe := false
	if actor.IsAuthenticated() {
		likedByMe, err = h.likeRepo.Exists(ctx, g.ID, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("check like: %w", err)
		}
	}

	topics, err := h.topicRepo.GetByIDs(ctx, g.TopicIDs)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	return &GuideDTO{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		CoverImage:   g.CoverImage,
		AuthorIDs:    g.AuthorIDs,
		Topics:       toTopicDTOs(topics),
		ChallengeIDs: g.ChallengeIDs,
		CourseID:     g.CourseID,
		Status:       string(g.Status),
		Likes:        likes,
		LikedByMe:    likedByMe,
		PageCount:    pageCount,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}, nil
}

func toTopicDTOs(topics []*topic.Topic) []TopicDTO {
	dtos := make([]TopicDTO, 0, len(topics))
	for _, t := range topics {
		dtos = append(dtos, TopicDTO{ID: t.ID, Name: t.Name})
	}
	return dtos
}
