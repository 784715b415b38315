package command

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE GUIDE / CHANGE STATUS / DELETE GUIDE
// All three require edit rights: guide author or admin. Writing to someone
// else's guide is an authorization failure; the 404-for-privacy rule is a
// read-path concern only. Deleted guides stay hidden from everyone.
// ══════════════════════════════════════════════════════════════════════════════

// loadEditableGuide fetches a guide and checks the caller may modify it.
func loadEditableGuide(ctx context.Context, repo guide.Repository, actor shared.Actor, guideID string) (*guide.Guide, error) {
	g, err := repo.GetByID(ctx, guideID)
	if err != nil {
		return nil, err
	}
	if g.IsDeleted() {
		return nil, shared.ErrGuideNotFound
	}
	if !g.CanEdit(actor) {
		return nil, shared.ErrNotOwner
	}
	return g, nil
}

// UpdateGuideCommand contains the data to update a guide.
// Nil fields keep their current value; a provided blank title is rejected.
type UpdateGuideCommand struct {
	Actor       shared.Actor
	GuideID     string
	Title       *string
	Description *string
	CoverImage  *string
	TopicIDs    []string
}

// Validate validates the command.
func (c UpdateGuideCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "Update", shared.ErrInvalidID, "guide ID is required")
	}
	return nil
}

// UpdateGuideHandler handles the UpdateGuideCommand.
type UpdateGuideHandler struct {
	guideRepo guide.Repository
	topicRepo topicReader
	publisher shared.EventPublisher
}

// NewUpdateGuideHandler creates a new UpdateGuideHandler.
func NewUpdateGuideHandler(guideRepo guide.Repository, topicRepo topicReader, publisher shared.EventPublisher) *UpdateGuideHandler {
	return &UpdateGuideHandler{guideRepo: guideRepo, topicRepo: topicRepo, publisher: publisher}
}

// Handle executes the update guide command.
func (h *UpdateGuideHandler) Handle(ctx context.Context, cmd UpdateGuideCommand) (*guide.Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}

	if len(cmd.TopicIDs) > 0 {
		topics, err := h.topicRepo.GetByIDs(ctx, cmd.TopicIDs)
		if err != nil {
			return nil, fmt.Errorf("verify topics: %w", err)
		}
		if len(topics) != len(dedupeStrings(cmd.TopicIDs)) {
			return nil, shared.ErrTopicNotFound
		}
	}

	if err := g.Update(guide.UpdateParams{
		Title:       cmd.Title,
		Description: cmd.Description,
		CoverImage:  cmd.CoverImage,
		TopicIDs:    cmd.TopicIDs,
	}); err != nil {
		return nil, err
	}
	if err := h.guideRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update guide: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return g, nil
}

// ChangeGuideStatusCommand publishes or unpublishes a guide.
type ChangeGuideStatusCommand struct {
	Actor   shared.Actor
	GuideID string
	Status  guide.Status
}

// Validate validates the command.
func (c ChangeGuideStatusCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "ChangeStatus", shared.ErrInvalidID, "guide ID is required")
	}
	if !c.Status.IsValid() {
		return shared.ErrGuideStatusTransition
	}
	return nil
}

// ChangeGuideStatusHandler handles the ChangeGuideStatusCommand.
type ChangeGuideStatusHandler struct {
	guideRepo guide.Repository
	publisher shared.EventPublisher
}

// NewChangeGuideStatusHandler creates a new ChangeGuideStatusHandler.
func NewChangeGuideStatusHandler(guideRepo guide.Repository, publisher shared.EventPublisher) *ChangeGuideStatusHandler {
	return &ChangeGuideStatusHandler{guideRepo: guideRepo, publisher: publisher}
}

// Handle executes the change guide status command.
func (h *ChangeGuideStatusHandler) Handle(ctx context.Context, cmd ChangeGuideStatusCommand) (*guide.Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}
	if err := g.ChangeStatus(cmd.Status); err != nil {
		return nil, err
	}
	if err := h.guideRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("change guide status: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return g, nil
}

// DeleteGuideCommand soft-deletes a guide.
type DeleteGuideCommand struct {
	Actor   shared.Actor
	GuideID string
}

// Validate validates the command.
func (c DeleteGuideCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "Delete", shared.ErrInvalidID, "guide ID is required")
	}
	return nil
}

// DeleteGuideHandler handles the DeleteGuideCommand.
type DeleteGuideHandler struct {
	guideRepo guide.Repository
	publisher shared.EventPublisher
}

// NewDeleteGuideHandler creates a new DeleteGuideHandler.
func NewDeleteGuideHandler(guideRepo guide.Repository, publisher shared.EventPublisher) *DeleteGuideHandler {
	return &DeleteGuideHandler{guideRepo: guideRepo, publisher: publisher}
}

// Handle executes the delete guide command.
func (h *DeleteGuideHandler) Handle(ctx context.Context, cmd DeleteGuideCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return err
	}
	if err := g.Delete(); err != nil {
		return err
	}
	if err := h.guideRepo.Update(ctx, g); err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return nil
}
