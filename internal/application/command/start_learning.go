package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// START LEARNING
// Opens a progress record for the caller on a guide or course. At most one
// record exists per (user, entity type, entity): starting twice is a
// conflict. The total item count is derived from the entity itself -
// page count for guides, guide count for courses.
// ══════════════════════════════════════════════════════════════════════════════

// StartLearningCommand opens a progress record.
type StartLearningCommand struct {
	Actor      shared.Actor
	EntityType progress.EntityType
	EntityID   string
}

// Validate validates the command.
func (c StartLearningCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if !c.EntityType.IsValid() {
		return shared.ErrInvalidEntityType
	}
	if c.EntityID == "" {
		return shared.NewDomainError("progress", "Start", shared.ErrInvalidID, "entity ID is required")
	}
	return nil
}

// StartLearningHandler handles the StartLearningCommand.
type StartLearningHandler struct {
	progressRepo progress.Repository
	guideRepo    guide.Repository
	pageRepo     guide.PageRepository
	courseRepo   course.Repository
}

// NewStartLearningHandler creates a new StartLearningHandler.
func NewStartLearningHandler(
	progressRepo progress.Repository,
	guideRepo guide.Repository,
	pageRepo guide.PageRepository,
	courseRepo course.Repository,
) *StartLearningHandler {
	return &StartLearningHandler{
		progressRepo: progressRepo,
		guideRepo:    guideRepo,
		pageRepo:     pageRepo,
		courseRepo:   courseRepo,
	}
}

// Handle executes the start learning command.
func (h *StartLearningHandler) Handle(ctx context.Context, cmd StartLearningCommand) (*progress.Progress, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	totalItems, err := h.resolveTotalItems(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if _, err := h.progressRepo.GetByUserAndEntity(ctx, cmd.Actor.UserID, cmd.EntityType, cmd.EntityID); err == nil {
		return nil, shared.ErrProgressAlreadyExists
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	p, err := progress.NewProgress(progress.NewProgressParams{
		ID:         uuid.NewString(),
		UserID:     cmd.Actor.UserID,
		EntityType: cmd.EntityType,
		EntityID:   cmd.EntityID,
		TotalItems: totalItems,
	})
	if err != nil {
		return nil, err
	}
	if err := h.progressRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveTotalItems confirms the entity is visible to the caller and
// returns its item count.
func (h *StartLearningHandler) resolveTotalItems(ctx context.Context, cmd StartLearningCommand) (int, error) {
	switch cmd.EntityType {
	case progress.EntityGuide:
		g, err := h.guideRepo.GetByID(ctx, cmd.EntityID)
		if err != nil {
			return 0, err
		}
		if !g.IsVisibleTo(cmd.Actor) {
			return 0, shared.ErrGuideNotFound
		}
		pages, err := h.pageRepo.ListByGuide(ctx, g.ID)
		if err != nil {
			return 0, fmt.Errorf("list pages: %w", err)
		}
		return len(pages), nil

	case progress.EntityCourse:
		c, err := h.courseRepo.GetByID(ctx, cmd.EntityID)
		if err != nil {
			return 0, err
		}
		if !c.IsVisibleTo(cmd.Actor) {
			return 0, shared.ErrCourseNotFound
		}
		return len(c.GuideIDs), nil
	}
	return 0, shared.ErrInvalidEntityType
}
