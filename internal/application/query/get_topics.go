package query

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC QUERIES
// Словарь тем публичен: аутентификация не требуется.
// ══════════════════════════════════════════════════════════════════════════════

// ListTopicsHandler возвращает все темы каталога.
type ListTopicsHandler struct {
	topicRepo topic.Repository
	cache     TopicCache
}

// NewListTopicsHandler создаёт новый ListTopicsHandler. Кеш может быть nil.
func NewListTopicsHandler(topicRepo topic.Repository, cache TopicCache) *ListTopicsHandler {
	return &ListTopicsHandler{topicRepo: topicRepo, cache: cache}
}

// Handle выполняет запрос списка тем.
func (h *ListTopicsHandler) Handle(ctx context.Context) ([]TopicDTO, error) {
	if h.cache != nil {
		if dtos, err := h.cache.GetTopics(ctx); err == nil && len(dtos) > 0 {
			return dtos, nil
		}
	}

	topics, err := h.topicRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	dtos := toTopicDTOs(topics)
	if h.cache != nil && len(dtos) > 0 {
		// Ошибка записи в кеш не прерывает выдачу.
		_ = h.cache.SetTopics(ctx, dtos, topicsCacheTTL)
	}
	return dtos, nil
}

// GetTopicHandler возвращает одну тему по идентификатору.
type GetTopicHandler struct {
	topicRepo topic.Repository
}

// NewGetTopicHandler создаёт новый GetTopicHandler.
func NewGetTopicHandler(topicRepo topic.Repository) *GetTopicHandler {
	return &GetTopicHandler{topicRepo: topicRepo}
}

// Handle выполняет запрос темы.
func (h *GetTopicHandler) Handle(ctx context.Context, topicID string) (*TopicDTO, error) {
	t, err := h.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return &TopicDTO{ID: t.ID, Name: t.Name}, nil
}
