package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func newTestEnrollment(t *testing.T) *Enrollment {
	t.Helper()
	e, err := NewEnrollment(NewEnrollmentParams{
		ID:       "enr-1",
		UserID:   "user-1",
		CourseID: "course-1",
	})
	require.NoError(t, err)
	return e
}

func TestNewEnrollment(t *testing.T) {
	e := newTestEnrollment(t)
	assert.Equal(t, StatusActive, e.Status)
	assert.True(t, e.IsActive())
	assert.Nil(t, e.CompletedAt)
}

func TestEnrollmentCancel(t *testing.T) {
	t.Run("cancel active enrollment", func(t *testing.T) {
		e := newTestEnrollment(t)
		require.NoError(t, e.Cancel())
		assert.Equal(t, StatusCancelled, e.Status)
	})

	t.Run("repeated cancel is a no-op", func(t *testing.T) {
		e := newTestEnrollment(t)
		require.NoError(t, e.Cancel())
		require.NoError(t, e.Cancel())
		assert.Equal(t, StatusCancelled, e.Status)
	})

	t.Run("completed enrollment cannot be cancelled", func(t *testing.T) {
		e := newTestEnrollment(t)
		require.NoError(t, e.Complete())
		assert.ErrorIs(t, e.Cancel(), shared.ErrInvalidState)
	})
}

func TestEnrollmentComplete(t *testing.T) {
	t.Run("complete active enrollment", func(t *testing.T) {
		e := newTestEnrollment(t)
		require.NoError(t, e.Complete())
		assert.Equal(t, StatusCompleted, e.Status)
		assert.NotNil(t, e.CompletedAt)
	})

	t.Run("cancelled enrollment cannot be completed", func(t *testing.T) {
		e := newTestEnrollment(t)
		require.NoError(t, e.Cancel())
		assert.ErrorIs(t, e.Complete(), shared.ErrInvalidState)
	})
}

func TestEnrollmentReactivate(t *testing.T) {
	t.Run("reactivate cancelled enrollment", func(t *testing.T) {
		e := newTestEnrollment(t)
		enrolledAt := e.EnrolledAt
		require.NoError(t, e.Cancel())
		require.NoError(t, e.Reactivate())
		assert.True(t, e.IsActive())
		assert.Equal(t, enrolledAt, e.EnrolledAt)
	})

	t.Run("active enrollment cannot be reactivated", func(t *testing.T) {
		e := newTestEnrollment(t)
		assert.ErrorIs(t, e.Reactivate(), shared.ErrInvalidState)
	})
}
