package http

import (
	"net/http"
	"time"

	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/application/query"
	"github.com/levelup-hub/learning-hub/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS RESPONSES
// ══════════════════════════════════════════════════════════════════════════════

type progressResponse struct {
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
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toProgressResponse(p *progress.Progress) progressResponse {
	return progressResponse{
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
		UpdatedAt:          p.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/progress
func (s *Server) handleStartLearning(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EntityType string `json:"entity_type"`
		EntityID   string `json:"entity_id"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	created, err := s.deps.StartLearning.Handle(r.Context(), command.StartLearningCommand{
		Actor:      actorFrom(r),
		EntityType: progress.EntityType(body.EntityType),
		EntityID:   body.EntityID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProgressResponse(created))
}

// GET /api/v1/progress
func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.ListUserProgress.Handle(r.Context(), query.ListUserProgressQuery{
		Actor:      actorFrom(r),
		UserID:     getQueryParam(r, "user_id", ""),
		EntityType: progress.EntityType(getQueryParam(r, "entity_type", "")),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, records, &ResponseMeta{TotalCount: len(records)})
}

// GET /api/v1/progress/{entityType}/{entityID}
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetProgress.Handle(r.Context(), query.GetProgressQuery{
		Actor:      actorFrom(r),
		UserID:     getQueryParam(r, "user_id", ""),
		EntityType: progress.EntityType(r.PathValue("entityType")),
		EntityID:   r.PathValue("entityID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// PUT /api/v1/progress/{id}
func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompletedItems     int   `json:"completed_items"`
		ReadingTimeSeconds int64 `json:"reading_time_seconds"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.UpdateProgress.Handle(r.Context(), command.UpdateProgressCommand{
		Actor:              actorFrom(r),
		ProgressID:         r.PathValue("id"),
		CompletedItems:     body.CompletedItems,
		ReadingTimeSeconds: body.ReadingTimeSeconds,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(updated))
}

// POST /api/v1/progress/{id}/complete
func (s *Server) handleCompleteProgress(w http.ResponseWriter, r *http.Request) {
	updated, err := s.deps.CompleteProgress.Handle(r.Context(), command.CompleteProgressCommand{
		Actor:      actorFrom(r),
		ProgressID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProgressResponse(updated))
}
