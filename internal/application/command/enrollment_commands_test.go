package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func setupEnrollment(t *testing.T) (*fakeEnrollmentRepo, *fakeCourseRepo, *EnrollUserHandler) {
	t.Helper()
	courses := newFakeCourseRepo()
	c := seedCourse(t, courses, "teacher-1")
	require.NoError(t, c.ChangeStatus(course.StatusPublished))
	require.NoError(t, courses.Update(context.Background(), c))

	enrollments := newFakeEnrollmentRepo()
	return enrollments, courses, NewEnrollUserHandler(enrollments, courses)
}

func TestEnrollUser(t *testing.T) {
	ctx := context.Background()

	t.Run("student enrolls themselves", func(t *testing.T) {
		_, _, h := setupEnrollment(t)
		res, err := h.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		require.NoError(t, err)
		assert.Equal(t, enrollment.StatusActive, res.Status)
		assert.False(t, res.Reactivated)
	})

	t.Run("double enrollment conflicts", func(t *testing.T) {
		_, _, h := setupEnrollment(t)
		_, err := h.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		require.NoError(t, err)
		_, err = h.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("enrolling after cancellation reactivates", func(t *testing.T) {
		enrollments, _, h := setupEnrollment(t)
		first, err := h.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		require.NoError(t, err)

		cancel := NewCancelEnrollmentHandler(enrollments)
		_, err = cancel.Handle(ctx, CancelEnrollmentCommand{Actor: studentActor, EnrollmentID: first.EnrollmentID})
		require.NoError(t, err)

		second, err := h.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		require.NoError(t, err)
		assert.True(t, second.Reactivated)
		assert.Equal(t, first.EnrollmentID, second.EnrollmentID)
		assert.Equal(t, enrollment.StatusActive, second.Status)
	})

	t.Run("student cannot enroll someone else", func(t *testing.T) {
		_, _, h := setupEnrollment(t)
		_, err := h.Handle(ctx, EnrollUserCommand{Actor: studentActor, UserID: "other-user", CourseID: "course-1"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("admin enrolls another user", func(t *testing.T) {
		_, _, h := setupEnrollment(t)
		res, err := h.Handle(ctx, EnrollUserCommand{Actor: adminActor, UserID: "other-user", CourseID: "course-1"})
		require.NoError(t, err)
		assert.Equal(t, enrollment.StatusActive, res.Status)
	})

	t.Run("draft course not enrollable and invisible", func(t *testing.T) {
		courses := newFakeCourseRepo()
		seedCourse(t, courses, "teacher-1") // остаётся черновиком
		h := NewEnrollUserHandler(newFakeEnrollmentRepo(), courses)

		_, err := h.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCancelEnrollment(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated cancel is idempotent", func(t *testing.T) {
		enrollments, _, enroll := setupEnrollment(t)
		res, err := enroll.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		require.NoError(t, err)

		cancel := NewCancelEnrollmentHandler(enrollments)
		e1, err := cancel.Handle(ctx, CancelEnrollmentCommand{Actor: studentActor, EnrollmentID: res.EnrollmentID})
		require.NoError(t, err)
		e2, err := cancel.Handle(ctx, CancelEnrollmentCommand{Actor: studentActor, EnrollmentID: res.EnrollmentID})
		require.NoError(t, err)
		assert.Equal(t, e1.Status, e2.Status)
	})

	t.Run("foreign enrollment is invisible", func(t *testing.T) {
		enrollments, _, enroll := setupEnrollment(t)
		res, err := enroll.Handle(ctx, EnrollUserCommand{Actor: studentActor, CourseID: "course-1"})
		require.NoError(t, err)

		other := shared.Actor{UserID: "other-user", Roles: []shared.Role{shared.RoleStudent}}
		cancel := NewCancelEnrollmentHandler(enrollments)
		_, err = cancel.Handle(ctx, CancelEnrollmentCommand{Actor: other, EnrollmentID: res.EnrollmentID})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
