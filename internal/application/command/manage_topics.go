package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOPIC COMMANDS
// Topics form the shared vocabulary of the catalog. Teachers and admins may
// create and rename them; only admins may delete.
// ══════════════════════════════════════════════════════════════════════════════

// CreateTopicCommand creates a new topic.
type CreateTopicCommand struct {
	Actor shared.Actor
	Name  string
}

// Validate validates the command.
func (c CreateTopicCommand) Validate() error {
	return c.Actor.RequireAnyRole(shared.RoleTeacher, shared.RoleAdmin)
}

// CreateTopicHandler handles the CreateTopicCommand.
type CreateTopicHandler struct {
	topicRepo topic.Repository
}

// NewCreateTopicHandler creates a new CreateTopicHandler.
func NewCreateTopicHandler(topicRepo topic.Repository) *CreateTopicHandler {
	return &CreateTopicHandler{topicRepo: topicRepo}
}

// Handle executes the create topic command.
func (h *CreateTopicHandler) Handle(ctx context.Context, cmd CreateTopicCommand) (*topic.Topic, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, err := topic.NewTopic(topic.NewTopicParams{
		ID:   uuid.NewString(),
		Name: cmd.Name,
	})
	if err != nil {
		return nil, err
	}

	if err := h.topicRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RenameTopicCommand renames an existing topic.
type RenameTopicCommand struct {
	Actor   shared.Actor
	TopicID string
	Name    string
}

// Validate validates the command.
func (c RenameTopicCommand) Validate() error {
	if err := c.Actor.RequireAnyRole(shared.RoleTeacher, shared.RoleAdmin); err != nil {
		return err
	}
	if c.TopicID == "" {
		return shared.NewDomainError("topic", "Rename", shared.ErrInvalidID, "topic ID is required")
	}
	return nil
}

// RenameTopicHandler handles the RenameTopicCommand.
type RenameTopicHandler struct {
	topicRepo topic.Repository
}

// NewRenameTopicHandler creates a new RenameTopicHandler.
func NewRenameTopicHandler(topicRepo topic.Repository) *RenameTopicHandler {
	return &RenameTopicHandler{topicRepo: topicRepo}
}

// Handle executes the rename topic command.
func (h *RenameTopicHandler) Handle(ctx context.Context, cmd RenameTopicCommand) (*topic.Topic, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, err := h.topicRepo.GetByID(ctx, cmd.TopicID)
	if err != nil {
		return nil, err
	}
	if err := t.Rename(cmd.Name); err != nil {
		return nil, err
	}
	if err := h.topicRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTopicCommand removes a topic from the vocabulary.
type DeleteTopicCommand struct {
	Actor   shared.Actor
	TopicID string
}

// Validate validates the command.
func (c DeleteTopicCommand) Validate() error {
	if err := c.Actor.RequireRole(shared.RoleAdmin); err != nil {
		return err
	}
	if c.TopicID == "" {
		return shared.NewDomainError("topic", "Delete", shared.ErrInvalidID, "topic ID is required")
	}
	return nil
}

// DeleteTopicHandler handles the DeleteTopicCommand.
type DeleteTopicHandler struct {
	topicRepo topic.Repository
}

// NewDeleteTopicHandler creates a new DeleteTopicHandler.
func NewDeleteTopicHandler(topicRepo topic.Repository) *DeleteTopicHandler {
	return &DeleteTopicHandler{topicRepo: topicRepo}
}

// Handle executes the delete topic command.
func (h *DeleteTopicHandler) Handle(ctx context.Context, cmd DeleteTopicCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Confirm the topic exists before deleting so the caller gets
	// a proper not-found instead of a silent no-op.
	if _, err := h.topicRepo.GetByID(ctx, cmd.TopicID); err != nil {
		return err
	}
	if err := h.topicRepo.Delete(ctx, cmd.TopicID); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}
