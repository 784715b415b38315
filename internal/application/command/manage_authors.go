package command

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE AUTHORS
// Replaces the author set of a guide or course. Only a current author or an
// admin may change authorship; the resulting set must be non-empty and stay
// within the configured limit.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateGuideAuthorsCommand replaces the author set of a guide.
type UpdateGuideAuthorsCommand struct {
	Actor     shared.Actor
	GuideID   string
	AuthorIDs []string
}

// Validate validates the command.
func (c UpdateGuideAuthorsCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "UpdateAuthors", shared.ErrInvalidID, "guide ID is required")
	}
	return nil
}

// UpdateGuideAuthorsHandler handles the UpdateGuideAuthorsCommand.
type UpdateGuideAuthorsHandler struct {
	guideRepo  guide.Repository
	publisher  shared.EventPublisher
	maxAuthors int
}

// NewUpdateGuideAuthorsHandler creates a new UpdateGuideAuthorsHandler.
// The maxAuthors limit comes from configuration; zero means the built-in
// default.
func NewUpdateGuideAuthorsHandler(guideRepo guide.Repository, publisher shared.EventPublisher, maxAuthors int) *UpdateGuideAuthorsHandler {
	return &UpdateGuideAuthorsHandler{guideRepo: guideRepo, publisher: publisher, maxAuthors: maxAuthors}
}

// Handle executes the update guide authors command.
func (h *UpdateGuideAuthorsHandler) Handle(ctx context.Context, cmd UpdateGuideAuthorsCommand) (*guide.Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}
	if err := g.UpdateAuthors(cmd.AuthorIDs, h.maxAuthors); err != nil {
		return nil, err
	}
	if err := h.guideRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update guide authors: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return g, nil
}

// UpdateCourseAuthorsCommand replaces the author set of a course.
type UpdateCourseAuthorsCommand struct {
	Actor     shared.Actor
	CourseID  string
	AuthorIDs []string
}

// Validate validates the command.
func (c UpdateCourseAuthorsCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" {
		return shared.NewDomainError("course", "UpdateAuthors", shared.ErrInvalidID, "course ID is required")
	}
	return nil
}

// UpdateCourseAuthorsHandler handles the UpdateCourseAuthorsCommand.
type UpdateCourseAuthorsHandler struct {
	courseRepo course.Repository
	publisher  shared.EventPublisher
	maxAuthors int
}

// NewUpdateCourseAuthorsHandler creates a new UpdateCourseAuthorsHandler.
// The maxAuthors limit comes from configuration; zero means the built-in
// default.
func NewUpdateCourseAuthorsHandler(courseRepo course.Repository, publisher shared.EventPublisher, maxAuthors int) *UpdateCourseAuthorsHandler {
	return &UpdateCourseAuthorsHandler{courseRepo: courseRepo, publisher: publisher, maxAuthors: maxAuthors}
}

// Handle executes the update course authors command.
func (h *UpdateCourseAuthorsHandler) Handle(ctx context.Context, cmd UpdateCourseAuthorsCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := loadEditableCourse(ctx, h.courseRepo, cmd.Actor, cmd.CourseID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateAuthors(cmd.AuthorIDs, h.maxAuthors); err != nil {
		return nil, err
	}
	if err := h.courseRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update course authors: %w", err)
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	return c, nil
}
