package query

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS QUERIES
// Прогресс — приватные данные: их видит только владелец и администратор.
// Чужой прогресс неотличим от несуществующего.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressDTO - DTO учебного прогресса.
type ProgressDTO struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	EntityType         string     `json:"entity_type"`
	EntityID           string     `json:"entity_id"`
	Status             string     `json:"status"`
	TotalItems         int        `json:"total_items"`
	CompletedItems     int        `json:"completed_items"`
	Percentage         int        `json:"percentage"`
	ReadingTimeSeconds int64      `json:"reading_time_seconds"`
	StartedAt          time.Time  `json:"started_at"`
	LastAccessedAt     time.Time  `json:"last_accessed_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

func toProgressDTO(p *progress.Progress) ProgressDTO {
	return ProgressDTO{
		ID:                 p.ID,
		UserID:             p.UserID,
		EntityType:         string(p.EntityType),
		EntityID:           p.EntityID,
		Status:             string(p.Status),
		TotalItems:         p.TotalItems,
		CompletedItems:     p.CompletedItems,
		Percentage:         p.Percentage,
		ReadingTimeSeconds: p.ReadingTimeSeconds,
		StartedAt:          p.StartedAt,
		LastAccessedAt:     p.LastAccessedAt,
		CompletedAt:        p.CompletedAt,
	}
}

// GetProgressQuery содержит параметры запроса прогресса по сущности.
type GetProgressQuery struct {
	Actor      shared.Actor
	UserID     string
	EntityType progress.EntityType
	EntityID   string
}

// Validate проверяет корректность параметров.
func (q *GetProgressQuery) Validate() error {
	if err := q.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if q.UserID == "" {
		q.UserID = q.Actor.UserID
	}
	if !q.Actor.Is(q.UserID) && !q.Actor.IsAdmin() {
		return shared.ErrProgressNotFound
	}
	if !q.EntityType.IsValid() {
		return shared.ErrInvalidEntityType
	}
	if q.EntityID == "" {
		return shared.NewDomainError("progress", "Get", shared.ErrInvalidID, "entity ID is required")
	}
	return nil
}

// GetProgressHandler обрабатывает GetProgressQuery.
type GetProgressHandler struct {
	progressRepo progress.Repository
}

// NewGetProgressHandler создаёт новый GetProgressHandler.
func NewGetProgressHandler(progressRepo progress.Repository) *GetProgressHandler {
	return &GetProgressHandler{progressRepo: progressRepo}
}

// Handle выполняет запрос прогресса.
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (*ProgressDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	p, err := h.progressRepo.GetByUserAndEntity(ctx, q.UserID, q.EntityType, q.EntityID)
	if err != nil {
		return nil, err
	}
	dto := toProgressDTO(p)
	return &dto, nil
}

// ListUserProgressQuery содержит параметры запроса всего прогресса пользователя.
type ListUserProgressQuery struct {
	Actor  shared.Actor
	UserID string

	// EntityType - опциональный фильтр по типу сущности.
	EntityType progress.EntityType
}

// Validate проверяет корректность параметров.
func (q *ListUserProgressQuery) Validate() error {
	if err := q.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if q.UserID == "" {
		q.UserID = q.Actor.UserID
	}
	if !q.Actor.Is(q.UserID) && !q.Actor.IsAdmin() {
		return shared.ErrNotOwner
	}
	if q.EntityType != "" && !q.EntityType.IsValid() {
		return shared.ErrInvalidEntityType
	}
	return nil
}

// ListUserProgressHandler обрабатывает ListUserProgressQuery.
type ListUserProgressHandler struct {
	progressRepo progress.Repository
}

// NewListUserProgressHandler создаёт новый ListUserProgressHandler.
func NewListUserProgressHandler(progressRepo progress.Repository) *ListUserProgressHandler {
	return &ListUserProgressHandler{progressRepo: progressRepo}
}

// Handle выполняет запрос прогресса пользователя.
func (h *ListUserProgressHandler) Handle(ctx context.Context, q ListUserProgressQuery) ([]ProgressDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := h.progressRepo.ListByUser(ctx, q.UserID, q.EntityType)
	if err != nil {
		return nil, fmt.Errorf("list user progress: %w", err)
	}

	dtos := make([]ProgressDTO, 0, len(records))
	for _, p := range records {
		dtos = append(dtos, toProgressDTO(p))
	}
	return dtos, nil
}
