// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE GUIDE COMMAND
// Creates a new guide in DRAFT status. The caller becomes an author unless
// they are an admin creating a guide on behalf of other authors.
// ══════════════════════════════════════════════════════════════════════════════

// CreateGuideCommand contains the data to create a guide.
type CreateGuideCommand struct {
	Actor       shared.Actor
	Title       string
	Description string
	CoverImage  string

	// AuthorIDs lists the authors. If empty, the caller is the sole author.
	AuthorIDs []string

	// TopicIDs classifies the guide. All topics must exist.
	TopicIDs []string
}

// Validate validates the command.
func (c CreateGuideCommand) Validate() error {
	if err := c.Actor.RequireAnyRole(shared.RoleTeacher, shared.RoleAdmin); err != nil {
		return err
	}
	return nil
}

// CreateGuideResult contains the result of creating a guide.
type CreateGuideResult struct {
	GuideID string
	Status  guide.Status
}

// CreateGuideHandler handles the CreateGuideCommand.
type CreateGuideHandler struct {
	guideRepo  guide.Repository
	topicRepo  topicReader
	publisher  shared.EventPublisher
	maxAuthors int
}

// topicReader is the subset of the topic repository commands need.
type topicReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]*topic.Topic, error)
}

// NewCreateGuideHandler creates a new CreateGuideHandler. The maxAuthors
// limit comes from configuration; zero means the built-in default.
func NewCreateGuideHandler(guideRepo guide.Repository, topicRepo topicReader, publisher shared.EventPublisher, maxAuthors int) *CreateGuideHandler {
	return &CreateGuideHandler{
		guideRepo:  guideRepo,
		topicRepo:  topicRepo,
		publisher:  publisher,
		maxAuthors: maxAuthors,
	}
}

// Handle executes the create guide command.
func (h *CreateGuideHandler) Handle(ctx context.Context, cmd CreateGuideCommand) (*CreateGuideResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	authors := cmd.AuthorIDs
	if len(authors) == 0 {
		authors = []string{cmd.Actor.UserID}
	}
	// A non-admin must be among the authors of the guide they create.
	if !cmd.Actor.IsAdmin() && !containsString(authors, cmd.Actor.UserID) {
		return nil, shared.ErrNotOwner
	}

	if err := h.verifyTopics(ctx, cmd.TopicIDs); err != nil {
		return nil, err
	}

	g, err := guide.NewGuide(guide.NewGuideParams{
		ID:          uuid.NewString(),
		Title:       cmd.Title,
		Description: cmd.Description,
		CoverImage:  cmd.CoverImage,
		AuthorIDs:   authors,
		TopicIDs:    cmd.TopicIDs,
		MaxAuthors:  h.maxAuthors,
	})
	if err != nil {
		return nil, err
	}

	if err := h.guideRepo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create guide: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))

	return &CreateGuideResult{GuideID: g.ID, Status: g.Status}, nil
}

func (h *CreateGuideHandler) verifyTopics(ctx context.Context, topicIDs []string) error {
	if len(topicIDs) == 0 {
		return nil
	}
	topics, err := h.topicRepo.GetByIDs(ctx, topicIDs)
	if err != nil {
		return fmt.Errorf("verify topics: %w", err)
	}
	if len(topics) != len(dedupeStrings(topicIDs)) {
		return shared.ErrTopicNotFound
	}
	return nil
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func dedupeStrings(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
