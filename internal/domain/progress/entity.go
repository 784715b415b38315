// Package progress содержит доменную модель учебного прогресса
// пользователя по гайдам и курсам.
package progress

import (
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// EntityType — тип учебной сущности, по которой ведётся прогресс.
type EntityType string

const (
	EntityGuide  EntityType = "GUIDE"
	EntityCourse EntityType = "COURSE"
)

// IsValid проверяет корректность типа сущности.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityGuide, EntityCourse:
		return true
	}
	return false
}

// Status — статус прохождения.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Progress представляет учебный прогресс пользователя по одной сущности.
// Тройка (UserID, EntityType, EntityID) уникальна.
type Progress struct {
	ID                 string
	UserID             string
	EntityType         EntityType
	EntityID           string
	Status             Status
	TotalItems         int
	CompletedItems     int
	Percentage         int // целочисленный процент, округление вниз
	ReadingTimeSeconds int64
	StartedAt          time.Time
	LastAccessedAt     time.Time
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

// NewProgressParams — параметры для начала прохождения.
type NewProgressParams struct {
	ID         string
	UserID     string
	EntityType EntityType
	EntityID   string
	TotalItems int
}

// NewProgress создаёт новую запись прогресса в статусе IN_PROGRESS.
func NewProgress(params NewProgressParams) (*Progress, error) {
	if params.ID == "" || params.UserID == "" || params.EntityID == "" {
		return nil, shared.NewDomainError("progress", "New", shared.ErrInvalidID, "progress requires id, user ID and entity ID")
	}
	if !params.EntityType.IsValid() {
		return nil, shared.ErrInvalidEntityType
	}
	if params.TotalItems < 0 {
		return nil, shared.NewDomainError("progress", "New", shared.ErrValueOutOfRange, "total items cannot be negative")
	}

	now := time.Now().UTC()
	return &Progress{
		ID:             params.ID,
		UserID:         params.UserID,
		EntityType:     params.EntityType,
		EntityID:       params.EntityID,
		Status:         StatusInProgress,
		TotalItems:     params.TotalItems,
		Percentage:     calculatePercentage(0, params.TotalItems),
		StartedAt:      now,
		LastAccessedAt: now,
		UpdatedAt:      now,
	}, nil
}

// IsCompleted проверяет, завершено ли прохождение.
func (p *Progress) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// Update обновляет счётчики прогресса и время чтения. Итог элементов
// зафиксирован при старте и не меняется. Когда выполнены все элементы,
// прохождение завершается автоматически; статус COMPLETED терминален и
// последующими обновлениями не сбрасывается.
func (p *Progress) Update(completedItems int, readingTimeSeconds int64) error {
	if completedItems < 0 || completedItems > p.TotalItems {
		return shared.ErrCompletedItemsOutOfRange
	}
	if readingTimeSeconds < 0 {
		return shared.ErrNegativeReadingTime
	}

	now := time.Now().UTC()
	p.CompletedItems = completedItems
	p.Percentage = calculatePercentage(completedItems, p.TotalItems)
	p.ReadingTimeSeconds += readingTimeSeconds
	p.LastAccessedAt = now
	p.UpdatedAt = now

	if p.TotalItems > 0 && completedItems == p.TotalItems && p.Status != StatusCompleted {
		p.Status = StatusCompleted
		p.CompletedAt = &now
	}
	return nil
}

// Complete принудительно завершает прохождение: все элементы считаются
// выполненными, процент выставляется в 100 независимо от счётчиков.
func (p *Progress) Complete() {
	now := time.Now().UTC()
	p.CompletedItems = p.TotalItems
	p.Percentage = 100
	p.Status = StatusCompleted
	p.CompletedAt = &now
	p.LastAccessedAt = now
	p.UpdatedAt = now
}

// Touch обновляет момент последнего обращения.
func (p *Progress) Touch() {
	now := time.Now().UTC()
	p.LastAccessedAt = now
	p.UpdatedAt = now
}

// calculatePercentage возвращает целочисленный процент с округлением вниз:
// 1 из 3 — 33, 2 из 3 — 66. При нулевом итоге — 0.
func calculatePercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return completed * 100 / total
}
