// Package enrollment содержит доменную модель записи
// пользователей на курсы.
package enrollment

import (
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// Status — статус записи на курс.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Enrollment представляет запись пользователя на курс.
// Пара (UserID, CourseID) уникальна: повторная запись после отмены
// реактивирует существующую запись, а не создаёт новую.
type Enrollment struct {
	ID          string
	UserID      string
	CourseID    string
	Status      Status
	EnrolledAt  time.Time
	CompletedAt *time.Time
	UpdatedAt   time.Time
}

// NewEnrollmentParams — параметры для создания новой записи.
type NewEnrollmentParams struct {
	ID       string
	UserID   string
	CourseID string
}

// NewEnrollment создаёт новую активную запись.
func NewEnrollment(params NewEnrollmentParams) (*Enrollment, error) {
	if params.ID == "" || params.UserID == "" || params.CourseID == "" {
		return nil, shared.NewDomainError("enrollment", "New", shared.ErrInvalidID, "enrollment requires id, user ID and course ID")
	}

	now := time.Now().UTC()
	return &Enrollment{
		ID:         params.ID,
		UserID:     params.UserID,
		CourseID:   params.CourseID,
		Status:     StatusActive,
		EnrolledAt: now,
		UpdatedAt:  now,
	}, nil
}

// IsActive проверяет, активна ли запись.
func (e *Enrollment) IsActive() bool {
	return e.Status == StatusActive
}

// Cancel отменяет запись. Повторная отмена — no-op.
// Завершённую запись отменить нельзя.
func (e *Enrollment) Cancel() error {
	switch e.Status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		return shared.NewDomainError("enrollment", "Cancel", shared.ErrInvalidState, "completed enrollment cannot be cancelled")
	}
	e.Status = StatusCancelled
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete помечает запись завершённой.
func (e *Enrollment) Complete() error {
	if e.Status != StatusActive {
		return shared.NewDomainError("enrollment", "Complete", shared.ErrInvalidState, "only active enrollment can be completed")
	}
	now := time.Now().UTC()
	e.Status = StatusCompleted
	e.CompletedAt = &now
	e.UpdatedAt = now
	return nil
}

// Reactivate возвращает отменённую запись в активное состояние.
// Момент первичной записи сохраняется.
func (e *Enrollment) Reactivate() error {
	if e.Status != StatusCancelled {
		return shared.NewDomainError("enrollment", "Reactivate", shared.ErrInvalidState, "only cancelled enrollment can be reactivated")
	}
	e.Status = StatusActive
	e.CompletedAt = nil
	e.UpdatedAt = time.Now().UTC()
	return nil
}
