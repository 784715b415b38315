package query

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT QUERIES
// Свои записи видит сам пользователь и администратор. Список записей
// на курс доступен авторам курса и администраторам.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentDTO - DTO записи на курс.
type EnrollmentDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CourseID    string     `json:"course_id"`
	Status      string     `json:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toEnrollmentDTO(e *enrollment.Enrollment) EnrollmentDTO {
	return EnrollmentDTO{
		ID:          e.ID,
		UserID:      e.UserID,
		CourseID:    e.CourseID,
		Status:      string(e.Status),
		EnrolledAt:  e.EnrolledAt,
		CompletedAt: e.CompletedAt,
	}
}

// ListUserEnrollmentsQuery содержит параметры запроса записей пользователя.
type ListUserEnrollmentsQuery struct {
	Actor  shared.Actor
	UserID string

	// Status - опциональный фильтр по статусу записи.
	Status enrollment.Status
}

// Validate проверяет корректность параметров.
func (q *ListUserEnrollmentsQuery) Validate() error {
	if err := q.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if q.UserID == "" {
		q.UserID = q.Actor.UserID
	}
	if !q.Actor.Is(q.UserID) && !q.Actor.IsAdmin() {
		return shared.ErrNotOwner
	}
	if q.Status != "" && !q.Status.IsValid() {
		return shared.NewDomainError("enrollment", "List", shared.ErrInvalidInput, "unknown enrollment status")
	}
	return nil
}

// ListUserEnrollmentsHandler обрабатывает ListUserEnrollmentsQuery.
type ListUserEnrollmentsHandler struct {
	enrollmentRepo enrollment.Repository
}

// NewListUserEnrollmentsHandler создаёт новый ListUserEnrollmentsHandler.
func NewListUserEnrollmentsHandler(enrollmentRepo enrollment.Repository) *ListUserEnrollmentsHandler {
	return &ListUserEnrollmentsHandler{enrollmentRepo: enrollmentRepo}
}

// Handle выполняет запрос записей пользователя.
func (h *ListUserEnrollmentsHandler) Handle(ctx context.Context, q ListUserEnrollmentsQuery) ([]EnrollmentDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	enrollments, err := h.enrollmentRepo.ListByUser(ctx, q.UserID, q.Status)
	if err != nil {
		return nil, fmt.Errorf("list user enrollments: %w", err)
	}

	dtos := make([]EnrollmentDTO, 0, len(enrollments))
	for _, e := range enrollments {
		dtos = append(dtos, toEnrollmentDTO(e))
	}
	return dtos, nil
}

// ListCourseEnrollmentsQuery содержит параметры запроса записей на курс.
type ListCourseEnrollmentsQuery struct {
	Actor    shared.Actor
	CourseID string

	// Status - опциональный фильтр по статусу записи.
	Status enrollment.Status
}

// Validate проверяет корректность параметров.
func (q *ListCourseEnrollmentsQuery) Validate() error {
	if err := q.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if q.CourseID == "" {
		return shared.NewDomainError("enrollment", "ListByCourse", shared.ErrInvalidID, "course ID is required")
	}
	if q.Status != "" && !q.Status.IsValid() {
		return shared.NewDomainError("enrollment", "ListByCourse", shared.ErrInvalidInput, "unknown enrollment status")
	}
	return nil
}

// ListCourseEnrollmentsHandler обрабатывает ListCourseEnrollmentsQuery.
type ListCourseEnrollmentsHandler struct {
	enrollmentRepo enrollment.Repository
	courseRepo     course.Repository
}

// NewListCourseEnrollmentsHandler создаёт новый ListCourseEnrollmentsHandler.
func NewListCourseEnrollmentsHandler(enrollmentRepo enrollment.Repository, courseRepo course.Repository) *ListCourseEnrollmentsHandler {
	return &ListCourseEnrollmentsHandler{enrollmentRepo: enrollmentRepo, courseRepo: courseRepo}
}

// Handle выполняет запрос записей на курс.
func (h *ListCourseEnrollmentsHandler) Handle(ctx context.Context, q ListCourseEnrollmentsQuery) ([]EnrollmentDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	c, err := h.courseRepo.GetByID(ctx, q.CourseID)
	if err != nil {
		return nil, err
	}
	if !c.IsVisibleTo(q.Actor) {
		return nil, shared.ErrCourseNotFound
	}
	// Список записавшихся видят только авторы курса и администраторы.
	if !c.CanEdit(q.Actor) {
		return nil, shared.ErrNotOwner
	}

	enrollments, err := h.enrollmentRepo.ListByCourse(ctx, q.CourseID, q.Status)
	if err != nil {
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}

	dtos := make([]EnrollmentDTO, 0, len(enrollments))
	for _, e := range enrollments {
		dtos = append(dtos, toEnrollmentDTO(e))
	}
	return dtos, nil
}
