package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE COMMANDS
// Create, update, publish/unpublish and soft-delete courses. The same
// write rule applies as for guides: mutating someone else's course is an
// authorization failure, deleted courses surface as not found.
// ══════════════════════════════════════════════════════════════════════════════

// loadEditableCourse fetches a course and checks the caller may modify it.
func loadEditableCourse(ctx context.Context, repo course.Repository, actor shared.Actor, courseID string) (*course.Course, error) {
	c, err := repo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, shared.ErrCourseNotFound
	}
	if !c.CanEdit(actor) {
		return nil, shared.ErrNotOwner
	}
	return c, nil
}

// CreateCourseCommand contains the data to create a course.
type CreateCourseCommand struct {
	Actor       shared.Actor
	Title       string
	Description string
	CoverImage  string
	Difficulty  course.Difficulty
	AuthorIDs   []string
	TopicIDs    []string
}

// Validate validates the command.
func (c CreateCourseCommand) Validate() error {
	return c.Actor.RequireAnyRole(shared.RoleTeacher, shared.RoleAdmin)
}

// CreateCourseResult contains the result of creating a course.
type CreateCourseResult struct {
	CourseID string
	Status   course.Status
}

// CreateCourseHandler handles the CreateCourseCommand.
type CreateCourseHandler struct {
	courseRepo course.Repository
	topicRepo  topicReader
	publisher  shared.EventPublisher
	maxAuthors int
}

// NewCreateCourseHandler creates a new CreateCourseHandler. The maxAuthors
// limit comes from configuration; zero means the built-in default.
func NewCreateCourseHandler(courseRepo course.Repository, topicRepo topicReader, publisher shared.EventPublisher, maxAuthors int) *CreateCourseHandler {
	return &CreateCourseHandler{courseRepo: courseRepo, topicRepo: topicRepo, publisher: publisher, maxAuthors: maxAuthors}
}

// Handle executes the create course command.
func (h *CreateCourseHandler) Handle(ctx context.Context, cmd CreateCourseCommand) (*CreateCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	authors := cmd.AuthorIDs
	if len(authors) == 0 {
		authors = []string{cmd.Actor.UserID}
	}
	if !cmd.Actor.IsAdmin() && !containsString(authors, cmd.Actor.UserID) {
		return nil, shared.ErrNotOwner
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

	c, err := course.NewCourse(course.NewCourseParams{
		ID:          uuid.NewString(),
		Title:       cmd.Title,
		Description: cmd.Description,
		CoverImage:  cmd.CoverImage,
		Difficulty:  cmd.Difficulty,
		AuthorIDs:   authors,
		TopicIDs:    cmd.TopicIDs,
		MaxAuthors:  h.maxAuthors,
	})
	if err != nil {
		return nil, err
	}

	if err := h.courseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	return &CreateCourseResult{CourseID: c.ID, Status: c.Status}, nil
}

// UpdateCourseCommand contains the data to update a course.
// Nil fields keep their current value; a provided blank title is rejected.
type UpdateCourseCommand struct {
	Actor       shared.Actor
	CourseID    string
	Title       *string
	Description *string
	CoverImage  *string
	Difficulty  *course.Difficulty
	TopicIDs    []string
}

// Validate validates the command.
func (c UpdateCourseCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" {
		return shared.NewDomainError("course", "Update", shared.ErrInvalidID, "course ID is required")
	}
	return nil
}

// UpdateCourseHandler handles the UpdateCourseCommand.
type UpdateCourseHandler struct {
	courseRepo course.Repository
	topicRepo  topicReader
	publisher  shared.EventPublisher
}

// NewUpdateCourseHandler creates a new UpdateCourseHandler.
func NewUpdateCourseHandler(courseRepo course.Repository, topicRepo topicReader, publisher shared.EventPublisher) *UpdateCourseHandler {
	return &UpdateCourseHandler{courseRepo: courseRepo, topicRepo: topicRepo, publisher: publisher}
}

// Handle executes the update course command.
func (h *UpdateCourseHandler) Handle(ctx context.Context, cmd UpdateCourseCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := loadEditableCourse(ctx, h.courseRepo, cmd.Actor, cmd.CourseID)
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

	if err := c.Update(course.UpdateParams{
		Title:       cmd.Title,
		Description: cmd.Description,
		CoverImage:  cmd.CoverImage,
		Difficulty:  cmd.Difficulty,
		TopicIDs:    cmd.TopicIDs,
	}); err != nil {
		return nil, err
	}
	if err := h.courseRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	return c, nil
}

// ChangeCourseStatusCommand publishes or unpublishes a course.
type ChangeCourseStatusCommand struct {
	Actor    shared.Actor
	CourseID string
	Status   course.Status
}

// Validate validates the command.
func (c ChangeCourseStatusCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" {
		return shared.NewDomainError("course", "ChangeStatus", shared.ErrInvalidID, "course ID is required")
	}
	if !c.Status.IsValid() {
		return shared.ErrCourseStatusTransition
	}
	return nil
}

// ChangeCourseStatusHandler handles the ChangeCourseStatusCommand.
type ChangeCourseStatusHandler struct {
	courseRepo course.Repository
	publisher  shared.EventPublisher
}

// NewChangeCourseStatusHandler creates a new ChangeCourseStatusHandler.
func NewChangeCourseStatusHandler(courseRepo course.Repository, publisher shared.EventPublisher) *ChangeCourseStatusHandler {
	return &ChangeCourseStatusHandler{courseRepo: courseRepo, publisher: publisher}
}

// Handle executes the change course status command.
func (h *ChangeCourseStatusHandler) Handle(ctx context.Context, cmd ChangeCourseStatusCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := loadEditableCourse(ctx, h.courseRepo, cmd.Actor, cmd.CourseID)
	if err != nil {
		return nil, err
	}
	if err := c.ChangeStatus(cmd.Status); err != nil {
		return nil, err
	}
	if err := h.courseRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("change course status: %w", err)
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	return c, nil
}

// DeleteCourseCommand soft-deletes a course. Guides associated with the
// course are released back to DRAFT in the same transaction.
type DeleteCourseCommand struct {
	Actor    shared.Actor
	CourseID string
}

// Validate validates the command.
func (c DeleteCourseCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" {
		return shared.NewDomainError("course", "Delete", shared.ErrInvalidID, "course ID is required")
	}
	return nil
}

// DeleteCourseHandler handles the DeleteCourseCommand.
type DeleteCourseHandler struct {
	courseRepo course.Repository
	guideRepo  guideWriter
	uow        shared.UnitOfWork
	publisher  shared.EventPublisher
}

// NewDeleteCourseHandler creates a new DeleteCourseHandler.
func NewDeleteCourseHandler(courseRepo course.Repository, guideRepo guideWriter, uow shared.UnitOfWork, publisher shared.EventPublisher) *DeleteCourseHandler {
	return &DeleteCourseHandler{courseRepo: courseRepo, guideRepo: guideRepo, uow: uow, publisher: publisher}
}

// Handle executes the delete course command.
func (h *DeleteCourseHandler) Handle(ctx context.Context, cmd DeleteCourseCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c, err := loadEditableCourse(ctx, h.courseRepo, cmd.Actor, cmd.CourseID)
	if err != nil {
		return err
	}

	var released []string
	err = h.uow.WithTx(ctx, func(ctx context.Context) error {
		guides, err := h.guideRepo.ListByCourse(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("list course guides: %w", err)
		}
		for _, g := range guides {
			if err := g.DisassociateFromCourse(); err != nil {
				return err
			}
			if err := h.guideRepo.Update(ctx, g); err != nil {
				return fmt.Errorf("release guide %s: %w", g.ID, err)
			}
			released = append(released, g.ID)
		}

		if err := c.Delete(); err != nil {
			return err
		}
		if err := h.courseRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = h.publisher.Publish(shared.NewCourseChangedEvent(c.ID))
	for _, id := range released {
		_ = h.publisher.Publish(shared.NewGuideChangedEvent(id))
	}
	return nil
}
