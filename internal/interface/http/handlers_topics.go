package http

import (
	"net/http"

	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type topicResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toTopicResponse(t *topic.Topic) topicResponse {
	return topicResponse{ID: t.ID, Name: t.Name}
}

// GET /api/v1/topics
func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.deps.ListTopics.Handle(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, topics, &ResponseMeta{TotalCount: len(topics)})
}

// GET /api/v1/topics/{id}
func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetTopic.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// POST /api/v1/topics
func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	created, err := s.deps.CreateTopic.Handle(r.Context(), command.CreateTopicCommand{
		Actor: actorFrom(r),
		Name:  body.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTopicResponse(created))
}

// PUT /api/v1/topics/{id}
func (s *Server) handleRenameTopic(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	renamed, err := s.deps.RenameTopic.Handle(r.Context(), command.RenameTopicCommand{
		Actor:   actorFrom(r),
		TopicID: r.PathValue("id"),
		Name:    body.Name,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTopicResponse(renamed))
}

// DELETE /api/v1/topics/{id}
func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteTopic.Handle(r.Context(), command.DeleteTopicCommand{
		Actor:   actorFrom(r),
		TopicID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
