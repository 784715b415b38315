package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIKE / UNLIKE GUIDE
// Any authenticated user may like a guide they can see. A user likes a guide
// at most once; liking again is a conflict, unliking a guide that was never
// liked is not found.
// ══════════════════════════════════════════════════════════════════════════════

// LikeGuideCommand records a like from the caller.
type LikeGuideCommand struct {
	Actor   shared.Actor
	GuideID string
}

// Validate validates the command.
func (c LikeGuideCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "Like", shared.ErrInvalidID, "guide ID is required")
	}
	return nil
}

// LikeGuideResult contains the result of liking a guide.
type LikeGuideResult struct {
	GuideID string
	Likes   int
}

// LikeGuideHandler handles the LikeGuideCommand.
type LikeGuideHandler struct {
	guideRepo guide.Repository
	likeRepo  guide.LikeRepository
}

// NewLikeGuideHandler creates a new LikeGuideHandler.
func NewLikeGuideHandler(guideRepo guide.Repository, likeRepo guide.LikeRepository) *LikeGuideHandler {
	return &LikeGuideHandler{guideRepo: guideRepo, likeRepo: likeRepo}
}

// Handle executes the like guide command.
func (h *LikeGuideHandler) Handle(ctx context.Context, cmd LikeGuideCommand) (*LikeGuideResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := h.guideRepo.GetByID(ctx, cmd.GuideID)
	if err != nil {
		return nil, err
	}
	if !g.IsVisibleTo(cmd.Actor) {
		return nil, shared.ErrGuideNotFound
	}

	l, err := guide.NewLike(uuid.NewString(), g.ID, cmd.Actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := h.likeRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	count, err := h.likeRepo.CountByGuide(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	return &LikeGuideResult{GuideID: g.ID, Likes: count}, nil
}

// UnlikeGuideCommand removes the caller's like.
type UnlikeGuideCommand struct {
	Actor   shared.Actor
	GuideID string
}

// Validate validates the command.
func (c UnlikeGuideCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "Unlike", shared.ErrInvalidID, "guide ID is required")
	}
	return nil
}

// UnlikeGuideHandler handles the UnlikeGuideCommand.
type UnlikeGuideHandler struct {
	guideRepo guide.Repository
	likeRepo  guide.LikeRepository
}

// NewUnlikeGuideHandler creates a new UnlikeGuideHandler.
func NewUnlikeGuideHandler(guideRepo guide.Repository, likeRepo guide.LikeRepository) *UnlikeGuideHandler {
	return &UnlikeGuideHandler{guideRepo: guideRepo, likeRepo: likeRepo}
}

// Handle executes the unlike guide command.
func (h *UnlikeGuideHandler) Handle(ctx context.Context, cmd UnlikeGuideCommand) (*LikeGuideResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := h.guideRepo.GetByID(ctx, cmd.GuideID)
	if err != nil {
		return nil, err
	}
	if !g.IsVisibleTo(cmd.Actor) {
		return nil, shared.ErrGuideNotFound
	}

	if err := h.likeRepo.Delete(ctx, g.ID, cmd.Actor.UserID); err != nil {
		return nil, err
	}

	count, err := h.likeRepo.CountByGuide(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	return &LikeGuideResult{GuideID: g.ID, Likes: count}, nil
}
