package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PAGE COMMANDS
// Pages belong to a guide; every page operation requires edit rights on the
// owning guide. Order numbers are unique per guide and never renumbered:
// deleting page 2 of (1,2,3) leaves (1,3).
// ══════════════════════════════════════════════════════════════════════════════

// AddPageCommand appends or inserts a page into a guide.
type AddPageCommand struct {
	Actor   shared.Actor
	GuideID string
	Content string

	// OrderNumber of the new page. Zero means "append after the last page".
	OrderNumber int
}

// Validate validates the command.
func (c AddPageCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" {
		return shared.NewDomainError("guide", "AddPage", shared.ErrInvalidID, "guide ID is required")
	}
	if c.OrderNumber < 0 {
		return shared.ErrInvalidPageOrder
	}
	return nil
}

// AddPageHandler handles the AddPageCommand.
type AddPageHandler struct {
	guideRepo guide.Repository
	pageRepo  guide.PageRepository
	publisher shared.EventPublisher
}

// NewAddPageHandler creates a new AddPageHandler.
func NewAddPageHandler(guideRepo guide.Repository, pageRepo guide.PageRepository, publisher shared.EventPublisher) *AddPageHandler {
	return &AddPageHandler{guideRepo: guideRepo, pageRepo: pageRepo, publisher: publisher}
}

// Handle executes the add page command.
func (h *AddPageHandler) Handle(ctx context.Context, cmd AddPageCommand) (*guide.Page, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}

	order := cmd.OrderNumber
	if order == 0 {
		pages, err := h.pageRepo.ListByGuide(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}
		order = guide.NextOrderNumber(pages)
	}

	p, err := guide.NewPage(guide.NewPageParams{
		ID:          uuid.NewString(),
		GuideID:     g.ID,
		Content:     cmd.Content,
		OrderNumber: order,
	})
	if err != nil {
		return nil, err
	}

	if err := h.pageRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("add page: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return p, nil
}

// UpdatePageCommand replaces a page's content and optionally its order.
type UpdatePageCommand struct {
	Actor   shared.Actor
	GuideID string
	PageID  string
	Content string

	// OrderNumber of zero keeps the current position.
	OrderNumber int
}

// Validate validates the command.
func (c UpdatePageCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" || c.PageID == "" {
		return shared.NewDomainError("guide", "UpdatePage", shared.ErrInvalidID, "guide ID and page ID are required")
	}
	if c.OrderNumber < 0 {
		return shared.ErrInvalidPageOrder
	}
	return nil
}

// UpdatePageHandler handles the UpdatePageCommand.
type UpdatePageHandler struct {
	guideRepo guide.Repository
	pageRepo  guide.PageRepository
	publisher shared.EventPublisher
}

// NewUpdatePageHandler creates a new UpdatePageHandler.
func NewUpdatePageHandler(guideRepo guide.Repository, pageRepo guide.PageRepository, publisher shared.EventPublisher) *UpdatePageHandler {
	return &UpdatePageHandler{guideRepo: guideRepo, pageRepo: pageRepo, publisher: publisher}
}

// Handle executes the update page command.
func (h *UpdatePageHandler) Handle(ctx context.Context, cmd UpdatePageCommand) (*guide.Page, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return nil, err
	}

	p, err := h.pageRepo.GetByID(ctx, cmd.PageID)
	if err != nil {
		return nil, err
	}
	if p.GuideID != g.ID {
		return nil, shared.ErrPageNotFound
	}

	if err := p.UpdateContent(cmd.Content); err != nil {
		return nil, err
	}
	if cmd.OrderNumber > 0 {
		if err := p.Reorder(cmd.OrderNumber); err != nil {
			return nil, err
		}
	}

	if err := h.pageRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return p, nil
}

// DeletePageCommand removes a page from a guide.
// Remaining pages keep their order numbers.
type DeletePageCommand struct {
	Actor   shared.Actor
	GuideID string
	PageID  string
}

// Validate validates the command.
func (c DeletePageCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.GuideID == "" || c.PageID == "" {
		return shared.NewDomainError("guide", "DeletePage", shared.ErrInvalidID, "guide ID and page ID are required")
	}
	return nil
}

// DeletePageHandler handles the DeletePageCommand.
type DeletePageHandler struct {
	guideRepo guide.Repository
	pageRepo  guide.PageRepository
	publisher shared.EventPublisher
}

// NewDeletePageHandler creates a new DeletePageHandler.
func NewDeletePageHandler(guideRepo guide.Repository, pageRepo guide.PageRepository, publisher shared.EventPublisher) *DeletePageHandler {
	return &DeletePageHandler{guideRepo: guideRepo, pageRepo: pageRepo, publisher: publisher}
}

// Handle executes the delete page command.
func (h *DeletePageHandler) Handle(ctx context.Context, cmd DeletePageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	g, err := loadEditableGuide(ctx, h.guideRepo, cmd.Actor, cmd.GuideID)
	if err != nil {
		return err
	}

	p, err := h.pageRepo.GetByID(ctx, cmd.PageID)
	if err != nil {
		return err
	}
	if p.GuideID != g.ID {
		return shared.ErrPageNotFound
	}

	if err := h.pageRepo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	_ = h.publisher.Publish(shared.NewGuideChangedEvent(g.ID))
	return nil
}
