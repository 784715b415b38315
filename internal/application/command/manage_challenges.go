package command

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHALLENGE COMMANDS
// Links coding challenges (owned by another service) to a guide. Linking emits
// an integration event so downstream consumers learn about the association.
// ══════════════════════════════════════════════════════════════════════════════

// AddChallengeCommand links a challenge to a guide.
type AddChallengeCommand struct {
	Actor       shared.Actor
	GuideID     string
	ChallengeID string
}

// Validate validates the command.
func (c AddChallengeCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" || c.ChallengeID == "" {
		return shared.NewDomainError("guide", "AddChallenge", shared.ErrInvalidID, "guide ID and challenge ID are required")
	}
	return nil
}

// AddChallengeHandler handles the AddChallengeCommand.
type AddChallengeHandler struct {
	guideRepo guide.Repository
	publisher shared.EventPublisher
}

// NewAddChallengeHandler creates a new AddChallengeHandler.
func NewAddChallengeHandler(guideRepo guide.Repository, publisher shared.EventPublisher) *AddChallengeHandler {
	return &AddChallengeHandler{guideRepo: guideRepo, publisher: publisher}
}

// Handle executes the add challenge command.
func (h *AddChallengeHandler) Handle(ctx context.Context, cmd AddChallengeCommand) (*guide.Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}
	if err := g.AddChallenge(cmd.ChallengeID); err != nil {
		return nil, err
	}
	if err := h.guideRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("add challenge: %w", err)
	}

	// The challenge-added event crosses the service boundary.
	_ = h.publisher.Publish(shared.NewGuideChallengeAddedEvent(g.ID, cmd.ChallengeID))
	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return g, nil
}

// RemoveChallengeCommand unlinks a challenge from a guide.
type RemoveChallengeCommand struct {
	Actor       shared.Actor
	GuideID     string
	ChallengeID string
}

// Validate validates the command.
func (c RemoveChallengeCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" || c.ChallengeID == "" {
		return shared.NewDomainError("guide", "RemoveChallenge", shared.ErrInvalidID, "guide ID and challenge ID are required")
	}
	return nil
}

// RemoveChallengeHandler handles the RemoveChallengeCommand.
type RemoveChallengeHandler struct {
	guideRepo guide.Repository
	publisher shared.EventPublisher
}

// NewRemoveChallengeHandler creates a new RemoveChallengeHandler.
func NewRemoveChallengeHandler(guideRepo guide.Repository, publisher shared.EventPublisher) *RemoveChallengeHandler {
	return &RemoveChallengeHandler{guideRepo: guideRepo, publisher: publisher}
}

// Handle executes the remove challenge command.
func (h *RemoveChallengeHandler) Handle(ctx context.Context, cmd RemoveChallengeCommand) (*guide.Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}
	if err := g.RemoveChallenge(cmd.ChallengeID); err != nil {
		return nil, err
	}
	if err := h.guideRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("remove challenge: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return g, nil
}
