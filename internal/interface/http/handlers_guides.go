package http

import (
	"net/http"
	"time"

	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/application/query"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
)

// ══════════════════════════════════════════════════════════════════════════════
// GUIDE RESPONSES
// ══════════════════════════════════════════════════════════════════════════════

type guideResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	CoverImage   string    `json:"cover_image,omitempty"`
	AuthorIDs    []string  `json:"author_ids"`
	TopicIDs     []string  `json:"topic_ids"`
	ChallengeIDs []string  `json:"challenge_ids"`
	CourseID     string    `json:"course_id,omitempty"`
	Status       string    `json:"status"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toGuideResponse(g *guide.Guide) guideResponse {
	return guideResponse{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		CoverImage:   g.CoverImage,
		AuthorIDs:    g.AuthorIDs,
		TopicIDs:     g.TopicIDs,
		ChallengeIDs: g.ChallengeIDs,
		CourseID:     g.CourseID,
		Status:       string(g.Status),
		Likes:        g.Likes,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

type pageResponse struct {
	ID          string `json:"id"`
	GuideID     string `json:"guide_id"`
	Content     string `json:"content"`
	OrderNumber int    `json:"order_number"`
}

func toPageResponse(p *guide.Page) pageResponse {
	return pageResponse{
		ID:          p.ID,
		GuideID:     p.GuideID,
		Content:     p.Content,
		OrderNumber: p.OrderNumber,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// GUIDE QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GET /api/v1/guides
func (s *Server) handleSearchGuides(w http.ResponseWriter, r *http.Request) {
	q := query.SearchGuidesQuery{
		Actor:    actorFrom(r),
		Title:    getQueryParam(r, "title", ""),
		AuthorID: getQueryParam(r, "author_id", ""),
		MinLikes: getQueryParamInt(r, "min_likes", 0),
		Limit:    getQueryParamInt(r, "limit", 0),
		Offset:   getQueryParamInt(r, "offset", 0),
	}
	if topics, ok := r.URL.Query()["topic_id"]; ok {
		q.TopicIDs = topics
	}
	for _, status := range r.URL.Query()["status"] {
		q.Statuses = append(q.Statuses, guide.Status(status))
	}

	result, err := s.deps.SearchGuides.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, result.Guides, &ResponseMeta{
		TotalCount: len(result.Guides),
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GET /api/v1/guides/{id}
func (s *Server) handleGetGuide(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetGuide.Handle(r.Context(), query.GetGuideQuery{
		Actor:        actorFrom(r),
		GuideID:      r.PathValue("id"),
		IncludePages: !getQueryParamBool(r, "summary"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// GET /api/v1/authors/{id}/guides
func (s *Server) handleListAuthorGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := s.deps.ListAuthorGuides.Handle(r.Context(), query.ListAuthorGuidesQuery{
		Actor:    actorFrom(r),
		AuthorID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, guides, &ResponseMeta{TotalCount: len(guides)})
}

// GET /api/v1/guides/liked
func (s *Server) handleListLikedGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := s.deps.ListLikedGuides.Handle(r.Context(), query.ListLikedGuidesQuery{
		Actor: actorFrom(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, guides, &ResponseMeta{TotalCount: len(guides)})
}

// ══════════════════════════════════════════════════════════════════════════════
// GUIDE COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/guides
func (s *Server) handleCreateGuide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		CoverImage  string   `json:"cover_image"`
		AuthorIDs   []string `json:"author_ids"`
		TopicIDs    []string `json:"topic_ids"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	result, err := s.deps.CreateGuide.Handle(r.Context(), command.CreateGuideCommand{
		Actor:       actorFrom(r),
		Title:       body.Title,
		Description: body.Description,
		CoverImage:  body.CoverImage,
		AuthorIDs:   body.AuthorIDs,
		TopicIDs:    body.TopicIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"guide_id": result.GuideID,
		"status":   string(result.Status),
	})
}

// PUT /api/v1/guides/{id}
// Omitted fields keep their current value.
func (s *Server) handleUpdateGuide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		CoverImage  *string  `json:"cover_image"`
		TopicIDs    []string `json:"topic_ids"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.UpdateGuide.Handle(r.Context(), command.UpdateGuideCommand{
		Actor:       actorFrom(r),
		GuideID:     r.PathValue("id"),
		Title:       body.Title,
		Description: body.Description,
		CoverImage:  body.CoverImage,
		TopicIDs:    body.TopicIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGuideResponse(updated))
}

// PUT /api/v1/guides/{id}/authors
func (s *Server) handleUpdateGuideAuthors(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AuthorIDs []string `json:"author_ids"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.UpdateGuideAuthors.Handle(r.Context(), command.UpdateGuideAuthorsCommand{
		Actor:     actorFrom(r),
		GuideID:   r.PathValue("id"),
		AuthorIDs: body.AuthorIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGuideResponse(updated))
}

// PUT /api/v1/guides/{id}/status
func (s *Server) handleChangeGuideStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.ChangeGuideStatus.Handle(r.Context(), command.ChangeGuideStatusCommand{
		Actor:   actorFrom(r),
		GuideID: r.PathValue("id"),
		Status:  guide.Status(body.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGuideResponse(updated))
}

// DELETE /api/v1/guides/{id}
func (s *Server) handleDeleteGuide(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteGuide.Handle(r.Context(), command.DeleteGuideCommand{
		Actor:   actorFrom(r),
		GuideID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// PAGE COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/guides/{id}/pages
func (s *Server) handleAddPage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content     string `json:"content"`
		OrderNumber int    `json:"order_number"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	page, err := s.deps.AddPage.Handle(r.Context(), command.AddPageCommand{
		Actor:       actorFrom(r),
		GuideID:     r.PathValue("id"),
		Content:     body.Content,
		OrderNumber: body.OrderNumber,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPageResponse(page))
}

// PUT /api/v1/guides/{id}/pages/{pageID}
func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content     string `json:"content"`
		OrderNumber int    `json:"order_number"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	page, err := s.deps.UpdatePage.Handle(r.Context(), command.UpdatePageCommand{
		Actor:       actorFrom(r),
		GuideID:     r.PathValue("id"),
		PageID:      r.PathValue("pageID"),
		Content:     body.Content,
		OrderNumber: body.OrderNumber,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page))
}

// DELETE /api/v1/guides/{id}/pages/{pageID}
func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeletePage.Handle(r.Context(), command.DeletePageCommand{
		Actor:   actorFrom(r),
		GuideID: r.PathValue("id"),
		PageID:  r.PathValue("pageID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// LIKES
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/guides/{id}/like
func (s *Server) handleLikeGuide(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.LikeGuide.Handle(r.Context(), command.LikeGuideCommand{
		Actor:   actorFrom(r),
		GuideID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DELETE /api/v1/guides/{id}/like
func (s *Server) handleUnlikeGuide(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.UnlikeGuide.Handle(r.Context(), command.UnlikeGuideCommand{
		Actor:   actorFrom(r),
		GuideID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGES
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/guides/{id}/challenges
func (s *Server) handleAddChallenge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChallengeID string `json:"challenge_id"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.AddChallenge.Handle(r.Context(), command.AddChallengeCommand{
		Actor:       actorFrom(r),
		GuideID:     r.PathValue("id"),
		ChallengeID: body.ChallengeID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGuideResponse(updated))
}

// DELETE /api/v1/guides/{id}/challenges/{challengeID}
func (s *Server) handleRemoveChallenge(w http.ResponseWriter, r *http.Request) {
	updated, err := s.deps.RemoveChallenge.Handle(r.Context(), command.RemoveChallengeCommand{
		Actor:       actorFrom(r),
		GuideID:     r.PathValue("id"),
		ChallengeID: r.PathValue("challengeID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGuideResponse(updated))
}
