package http

import (
	"net/http"
	"time"

	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/application/query"
	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT RESPONSES
// ══════════════════════════════════════════════════════════════════════════════

type enrollmentResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CourseID    string     `json:"course_id"`
	Status      string     `json:"status"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toEnrollmentResponse(e *enrollment.Enrollment) enrollmentResponse {
	return enrollmentResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		CourseID:    e.CourseID,
		Status:      string(e.Status),
		EnrolledAt:  e.EnrolledAt,
		CompletedAt: e.CompletedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/enrollments
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CourseID string `json:"course_id"`
		UserID   string `json:"user_id"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	result, err := s.deps.EnrollUser.Handle(r.Context(), command.EnrollUserCommand{
		Actor:    actorFrom(r),
		UserID:   body.UserID,
		CourseID: body.CourseID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"enrollment_id": result.EnrollmentID,
		"status":        string(result.Status),
		"reactivated":   result.Reactivated,
	})
}

// GET /api/v1/enrollments
func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := s.deps.ListUserEnrollments.Handle(r.Context(), query.ListUserEnrollmentsQuery{
		Actor:  actorFrom(r),
		UserID: getQueryParam(r, "user_id", ""),
		Status: enrollment.Status(getQueryParam(r, "status", "")),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, enrollments, &ResponseMeta{TotalCount: len(enrollments)})
}

// GET /api/v1/courses/{id}/enrollments
func (s *Server) handleListCourseEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := s.deps.ListCourseEnrollments.Handle(r.Context(), query.ListCourseEnrollmentsQuery{
		Actor:    actorFrom(r),
		CourseID: r.PathValue("id"),
		Status:   enrollment.Status(getQueryParam(r, "status", "")),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, enrollments, &ResponseMeta{TotalCount: len(enrollments)})
}

// POST /api/v1/enrollments/{id}/cancel
func (s *Server) handleCancelEnrollment(w http.ResponseWriter, r *http.Request) {
	updated, err := s.deps.CancelEnrollment.Handle(r.Context(), command.CancelEnrollmentCommand{
		Actor:        actorFrom(r),
		EnrollmentID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEnrollmentResponse(updated))
}

// POST /api/v1/enrollments/{id}/complete
func (s *Server) handleCompleteEnrollment(w http.ResponseWriter, r *http.Request) {
	updated, err := s.deps.CompleteEnrollment.Handle(r.Context(), command.CompleteEnrollmentCommand{
		Actor:        actorFrom(r),
		EnrollmentID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEnrollmentResponse(updated))
}
