package http

import (
	"net/http"
	"time"

	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/application/query"
	"github.com/levelup-hub/learning-hub/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE RESPONSES
// ══════════════════════════════════════════════════════════════════════════════

type courseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Difficulty  string    `json:"difficulty"`
	AuthorIDs   []string  `json:"author_ids"`
	TopicIDs    []string  `json:"topic_ids"`
	GuideIDs    []string  `json:"guide_ids"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCourseResponse(c *course.Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		Difficulty:  string(c.Difficulty),
		AuthorIDs:   c.AuthorIDs,
		TopicIDs:    c.TopicIDs,
		GuideIDs:    c.GuideIDs,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GET /api/v1/courses
func (s *Server) handleSearchCourses(w http.ResponseWriter, r *http.Request) {
	q := query.SearchCoursesQuery{
		Actor:      actorFrom(r),
		Title:      getQueryParam(r, "title", ""),
		AuthorID:   getQueryParam(r, "author_id", ""),
		Difficulty: course.Difficulty(getQueryParam(r, "difficulty", "")),
		Limit:      getQueryParamInt(r, "limit", 0),
		Offset:     getQueryParamInt(r, "offset", 0),
	}
	if topics, ok := r.URL.Query()["topic_id"]; ok {
		q.TopicIDs = topics
	}
	for _, status := range r.URL.Query()["status"] {
		q.Statuses = append(q.Statuses, course.Status(status))
	}

	result, err := s.deps.SearchCourses.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, result.Courses, &ResponseMeta{
		TotalCount: len(result.Courses),
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GET /api/v1/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetCourse.Handle(r.Context(), query.GetCourseQuery{
		Actor:         actorFrom(r),
		CourseID:      r.PathValue("id"),
		IncludeGuides: !getQueryParamBool(r, "summary"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// GET /api/v1/authors/{id}/courses
func (s *Server) handleListAuthorCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.deps.ListAuthorCourses.Handle(r.Context(), query.ListAuthorCoursesQuery{
		Actor:    actorFrom(r),
		AuthorID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, http.StatusOK, courses, &ResponseMeta{TotalCount: len(courses)})
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		CoverImage  string   `json:"cover_image"`
		Difficulty  string   `json:"difficulty"`
		AuthorIDs   []string `json:"author_ids"`
		TopicIDs    []string `json:"topic_ids"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	result, err := s.deps.CreateCourse.Handle(r.Context(), command.CreateCourseCommand{
		Actor:       actorFrom(r),
		Title:       body.Title,
		Description: body.Description,
		CoverImage:  body.CoverImage,
		Difficulty:  course.Difficulty(body.Difficulty),
		AuthorIDs:   body.AuthorIDs,
		TopicIDs:    body.TopicIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"course_id": result.CourseID,
		"status":    string(result.Status),
	})
}

// PUT /api/v1/courses/{id}
// Omitted fields keep their current value.
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		CoverImage  *string  `json:"cover_image"`
		Difficulty  *string  `json:"difficulty"`
		TopicIDs    []string `json:"topic_ids"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	cmd := command.UpdateCourseCommand{
		Actor:       actorFrom(r),
		CourseID:    r.PathValue("id"),
		Title:       body.Title,
		Description: body.Description,
		CoverImage:  body.CoverImage,
		TopicIDs:    body.TopicIDs,
	}
	if body.Difficulty != nil {
		d := course.Difficulty(*body.Difficulty)
		cmd.Difficulty = &d
	}

	updated, err := s.deps.UpdateCourse.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(updated))
}

// PUT /api/v1/courses/{id}/authors
func (s *Server) handleUpdateCourseAuthors(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AuthorIDs []string `json:"author_ids"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.UpdateCourseAuthors.Handle(r.Context(), command.UpdateCourseAuthorsCommand{
		Actor:     actorFrom(r),
		CourseID:  r.PathValue("id"),
		AuthorIDs: body.AuthorIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(updated))
}

// PUT /api/v1/courses/{id}/status
func (s *Server) handleChangeCourseStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSONBody(w, r, &body) {
		return
	}

	updated, err := s.deps.ChangeCourseStatus.Handle(r.Context(), command.ChangeCourseStatusCommand{
		Actor:    actorFrom(r),
		CourseID: r.PathValue("id"),
		Status:   course.Status(body.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(updated))
}

// DELETE /api/v1/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	err := s.deps.DeleteCourse.Handle(r.Context(), command.DeleteCourseCommand{
		Actor:    actorFrom(r),
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE COMPOSITION
// ══════════════════════════════════════════════════════════════════════════════

// POST /api/v1/courses/{id}/guides/{guideID}
func (s *Server) handleAddGuideToCourse(w http.ResponseWriter, r *http.Request) {
	err := s.deps.AddGuideToCourse.Handle(r.Context(), command.AddGuideToCourseCommand{
		Actor:    actorFrom(r),
		CourseID: r.PathValue("id"),
		GuideID:  r.PathValue("guideID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/courses/{id}/guides/{guideID}
func (s *Server) handleRemoveGuideFromCourse(w http.ResponseWriter, r *http.Request) {
	err := s.deps.RemoveGuideFromCourse.Handle(r.Context(), command.RemoveGuideFromCourseCommand{
		Actor:    actorFrom(r),
		CourseID: r.PathValue("id"),
		GuideID:  r.PathValue("guideID"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
