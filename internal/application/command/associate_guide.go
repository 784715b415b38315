package command

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE-GUIDE ASSOCIATION
// Adding a guide to a course touches two aggregates: the course gains the
// guide, the guide switches to ASSOCIATED_WITH_COURSE. Both writes happen in
// one transaction so the link can never be half-applied.
// ══════════════════════════════════════════════════════════════════════════════

// guideWriter is the subset of the guide repository course commands need.
type guideWriter interface {
	GetByID(ctx context.Context, id string) (*guide.Guide, error)
	Update(ctx context.Context, g *guide.Guide) error
	ListByCourse(ctx context.Context, courseID string) ([]*guide.Guide, error)
}

// AddGuideToCourseCommand associates a guide with a course.
type AddGuideToCourseCommand struct {
	Actor    shared.Actor
	CourseID string
	GuideID  string
}

// Validate validates the command.
func (c AddGuideToCourseCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" || c.GuideID == "" {
		return shared.NewDomainError("course", "AddGuide", shared.ErrInvalidID, "course ID and guide ID are required")
	}
	return nil
}

// AddGuideToCourseHandler handles the AddGuideToCourseCommand.
type AddGuideToCourseHandler struct {
	courseRepo course.Repository
	guideRepo  guideWriter
	uow        shared.UnitOfWork
	publisher  shared.EventPublisher
}

// NewAddGuideToCourseHandler creates a new AddGuideToCourseHandler.
func NewAddGuideToCourseHandler(courseRepo course.Repository, guideRepo guideWriter, uow shared.UnitOfWork, publisher shared.EventPublisher) *AddGuideToCourseHandler {
	return &AddGuideToCourseHandler{courseRepo: courseRepo, guideRepo: guideRepo, uow: uow, publisher: publisher}
}

// Handle executes the add guide to course command.
func (h *AddGuideToCourseHandler) Handle(ctx context.Context, cmd AddGuideToCourseCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c, err := loadEditableCourse(ctx, h.courseRepo, cmd.Actor, cmd.CourseID)
	if err != nil {
		return err
	}

	g, err := h.guideRepo.GetByID(ctx, cmd.GuideID)
	if err != nil {
		return err
	}
	if !g.IsVisibleTo(cmd.Actor) {
		return shared.ErrGuideNotFound
	}

	if err := c.AddGuide(g.ID); err != nil {
		return err
	}
	if err := g.AssociateWithCourse(c.ID); err != nil {
		return err
	}

	err = h.uow.WithTx(ctx, func(ctx context.Context) error {
		if err := h.courseRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("update course: %w", err)
		}
		if err := h.guideRepo.Update(ctx, g); err != nil {
			return fmt.Errorf("update guide: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return nil
}

// RemoveGuideFromCourseCommand dissolves the association.
// The guide returns to DRAFT.
type RemoveGuideFromCourseCommand struct {
	Actor    shared.Actor
	CourseID string
	GuideID  string
}

// Validate validates the command.
func (c RemoveGuideFromCourseCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" || c.GuideID == "" {
		return shared.NewDomainError("course", "RemoveGuide", shared.ErrInvalidID, "course ID and guide ID are required")
	}
	return nil
}

// RemoveGuideFromCourseHandler handles the RemoveGuideFromCourseCommand.
type RemoveGuideFromCourseHandler struct {
	courseRepo course.Repository
	guideRepo  guideWriter
	uow        shared.UnitOfWork
	publisher  shared.EventPublisher
}

// NewRemoveGuideFromCourseHandler creates a new RemoveGuideFromCourseHandler.
func NewRemoveGuideFromCourseHandler(courseRepo course.Repository, guideRepo guideWriter, uow shared.UnitOfWork, publisher shared.EventPublisher) *RemoveGuideFromCourseHandler {
	return &RemoveGuideFromCourseHandler{courseRepo: courseRepo, guideRepo: guideRepo, uow: uow, publisher: publisher}
}

// Handle executes the remove guide from course command.
func (h *RemoveGuideFromCourseHandler) Handle(ctx context.Context, cmd RemoveGuideFromCourseCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c, err := loadEditableCourse(ctx, h.courseRepo, cmd.Actor, cmd.CourseID)
	if err != nil {
		return err
	}

	g, err := h.guideRepo.GetByID(ctx, cmd.GuideID)
	if err != nil {
		return err
	}

	if err := c.RemoveGuide(g.ID); err != nil {
		return err
	}
	if err := g.DisassociateFromCourse(); err != nil {
		return err
	}

	err = h.uow.WithTx(ctx, func(ctx context.Context) error {
		if err := h.courseRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("update course: %w", err)
		}
		if err := h.guideRepo.Update(ctx, g); err != nil {
			return fmt.Errorf("update guide: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return nil
}
