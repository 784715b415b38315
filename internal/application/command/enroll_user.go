package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT COMMANDS
// A user enrolls themselves; an admin may enroll anyone. The (user, course)
// pair is unique: enrolling again while ACTIVE is a conflict, enrolling after
// cancellation reactivates the existing record.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollUserCommand enrolls a user in a course.
type EnrollUserCommand struct {
	Actor    shared.Actor
	UserID   string // defaults to the caller
	CourseID string
}

// Validate validates the command.
func (c EnrollUserCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.CourseID == "" {
		return shared.NewDomainError("enrollment", "Enroll", shared.ErrInvalidID, "course ID is required")
	}
	return nil
}

// EnrollUserResult contains the result of enrolling a user.
type EnrollUserResult struct {
	EnrollmentID string
	Status       enrollment.Status
	Reactivated  bool
}

// EnrollUserHandler handles the EnrollUserCommand.
type EnrollUserHandler struct {
	enrollmentRepo enrollment.Repository
	courseRepo     course.Repository
}

// NewEnrollUserHandler creates a new EnrollUserHandler.
func NewEnrollUserHandler(enrollmentRepo enrollment.Repository, courseRepo course.Repository) *EnrollUserHandler {
	return &EnrollUserHandler{enrollmentRepo: enrollmentRepo, courseRepo: courseRepo}
}

// Handle executes the enroll user command.
func (h *EnrollUserHandler) Handle(ctx context.Context, cmd EnrollUserCommand) (*EnrollUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	userID := cmd.UserID
	if userID == "" {
		userID = cmd.Actor.UserID
	}
	// Only admins may enroll someone other than themselves.
	if userID != cmd.Actor.UserID && !cmd.Actor.IsAdmin() {
		return nil, shared.ErrNotOwner
	}

	c, err := h.courseRepo.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}
	if !c.IsVisibleTo(cmd.Actor) {
		return nil, shared.ErrCourseNotFound
	}
	if c.Status != course.StatusPublished {
		return nil, shared.NewDomainError("enrollment", "Enroll", shared.ErrInvalidState, "course is not open for enrollment")
	}

	existing, err := h.enrollmentRepo.GetByUserAndCourse(ctx, userID, cmd.CourseID)
	switch {
	case err == nil:
		switch existing.Status {
		case enrollment.StatusActive, enrollment.StatusCompleted:
			return nil, shared.ErrAlreadyEnrolled
		case enrollment.StatusCancelled:
			if err := existing.Reactivate(); err != nil {
				return nil, err
			}
			if err := h.enrollmentRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("reactivate enrollment: %w", err)
			}
			return &EnrollUserResult{EnrollmentID: existing.ID, Status: existing.Status, Reactivated: true}, nil
		}
	case !shared.IsNotFound(err):
		return nil, err
	}

	e, err := enrollment.NewEnrollment(enrollment.NewEnrollmentParams{
		ID:       uuid.NewString(),
		UserID:   userID,
		CourseID: cmd.CourseID,
	})
	if err != nil {
		return nil, err
	}
	if err := h.enrollmentRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return &EnrollUserResult{EnrollmentID: e.ID, Status: e.Status}, nil
}

// loadOwnedEnrollment fetches an enrollment and checks the caller owns it
// or is an admin. Foreign enrollments surface as not found.
func loadOwnedEnrollment(ctx context.Context, repo enrollment.Repository, actor shared.Actor, enrollmentID string) (*enrollment.Enrollment, error) {
	e, err := repo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if !actor.Is(e.UserID) && !actor.IsAdmin() {
		return nil, shared.ErrEnrollmentNotFound
	}
	return e, nil
}

// CancelEnrollmentCommand cancels an enrollment.
type CancelEnrollmentCommand struct {
	Actor        shared.Actor
	EnrollmentID string
}

// Validate validates the command.
func (c CancelEnrollmentCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.EnrollmentID == "" {
		return shared.NewDomainError("enrollment", "Cancel", shared.ErrInvalidID, "enrollment ID is required")
	}
	return nil
}

// CancelEnrollmentHandler handles the CancelEnrollmentCommand.
type CancelEnrollmentHandler struct {
	enrollmentRepo enrollment.Repository
}

// NewCancelEnrollmentHandler creates a new CancelEnrollmentHandler.
func NewCancelEnrollmentHandler(enrollmentRepo enrollment.Repository) *CancelEnrollmentHandler {
	return &CancelEnrollmentHandler{enrollmentRepo: enrollmentRepo}
}

// Handle executes the cancel enrollment command.
func (h *CancelEnrollmentHandler) Handle(ctx context.Context, cmd CancelEnrollmentCommand) (*enrollment.Enrollment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	e, err := loadOwnedEnrollment(ctx, h.enrollmentRepo, cmd.Actor, cmd.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if err := e.Cancel(); err != nil {
		return nil, err
	}
	if err := h.enrollmentRepo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("cancel enrollment: %w", err)
	}
	return e, nil
}

// CompleteEnrollmentCommand marks an enrollment as completed.
type CompleteEnrollmentCommand struct {
	Actor        shared.Actor
	EnrollmentID string
}

// Validate validates the command.
func (c CompleteEnrollmentCommand) Validate() error {
	if err := c.Actor.RequireAuthenticated(); err != nil {
		return err
	}
	if c.EnrollmentID == "" {
		return shared.NewDomainError("enrollment", "Complete", shared.ErrInvalidID, "enrollment ID is required")
	}
	return nil
}

// CompleteEnrollmentHandler handles the CompleteEnrollmentCommand.
type CompleteEnrollmentHandler struct {
	enrollmentRepo enrollment.Repository
}

// NewCompleteEnrollmentHandler creates a new CompleteEnrollmentHandler.
func NewCompleteEnrollmentHandler(enrollmentRepo enrollment.Repository) *CompleteEnrollmentHandler {
	return &CompleteEnrollmentHandler{enrollmentRepo: enrollmentRepo}
}

// Handle executes the complete enrollment command.
func (h *CompleteEnrollmentHandler) Handle(ctx context.Context, cmd CompleteEnrollmentCommand) (*enrollment.Enrollment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	e, err := loadOwnedEnrollment(ctx, h.enrollmentRepo, cmd.Actor, cmd.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if err := e.Complete(); err != nil {
		return nil, err
	}
	if err := h.enrollmentRepo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("complete enrollment: %w", err)
	}
	return e, nil
}
