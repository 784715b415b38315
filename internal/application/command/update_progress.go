package command

import (
	"context"
	"fmt"

	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE / COMPLETE PROGRESS
// Progress belongs to its user: only the owner or an admin may touch it.
// Reaching the last item completes the record automatically; Complete forces
// completion regardless of the counters.
// ══════════════════════════════════════════════════════════════════════════════

// loadOwnedProgress fetches a progress record and checks ownership.
// Foreign records surface as not found.
func loadOwnedProgress(ctx context.Context, repo progress.Repository, actor shared.Actor, progressID string) (*progress.Progress, error) {
	p, err := repo.GetByID(ctx, progressID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(p.UserID) && !actor.IsAdmin() {
		return nil, shared.ErrProgressNotFound
	}
	return p, nil
}

// UpdateProgressCommand updates the counters of a progress record.
type UpdateProgressCommand struct {
	Actor          shared.Actor
	ProgressID     string
	CompletedItems int

	// ReadingTimeSeconds is added to the accumulated reading time.
	ReadingTimeSeconds int64
}

// Validate validates the command.
func (c UpdateProgressCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.ProgressID == "" {
		return shared.NewDomainError("progress", "Update", shared.ErrInvalidID, "progress ID is required")
	}
	return nil
}

// UpdateProgressHandler handles the UpdateProgressCommand.
type UpdateProgressHandler struct {
	progressRepo progress.Repository
}

// NewUpdateProgressHandler creates a new UpdateProgressHandler.
func NewUpdateProgressHandler(progressRepo progress.Repository) *UpdateProgressHandler {
	return &UpdateProgressHandler{progressRepo: progressRepo}
}

// Handle executes the update progress command.
func (h *UpdateProgressHandler) Handle(ctx context.Context, cmd UpdateProgressCommand) (*progress.Progress, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := loadOwnedProgress(ctx, h.progressRepo, cmd.Actor, cmd.ProgressID)
	if err != nil {
		return nil, err
	}
	if err := p.Update(cmd.CompletedItems, cmd.ReadingTimeSeconds); err != nil {
		return nil, err
	}
	if err := h.progressRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return p, nil
}

// CompleteProgressCommand forces completion of a progress record.
type CompleteProgressCommand struct {
	Actor      shared.Actor
	ProgressID string
}

// Validate validates the command.
func (c CompleteProgressCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.ProgressID == "" {
		return shared.NewDomainError("progress", "Complete", shared.ErrInvalidID, "progress ID is required")
	}
	return nil
}

// CompleteProgressHandler handles the CompleteProgressCommand.
type CompleteProgressHandler struct {
	progressRepo progress.Repository
}

// NewCompleteProgressHandler creates a new CompleteProgressHandler.
func NewCompleteProgressHandler(progressRepo progress.Repository) *CompleteProgressHandler {
	return &CompleteProgressHandler{progressRepo: progressRepo}
}

// Handle executes the complete progress command.
func (h *CompleteProgressHandler) Handle(ctx context.Context, cmd CompleteProgressCommand) (*progress.Progress, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p, err := loadOwnedProgress(ctx, h.progressRepo, cmd.Actor, cmd.ProgressID)
	if err != nil {
		return nil, err
	}
	p.Complete()
	if err := h.progressRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("complete progress: %w", err)
	}
	return p, nil
}
