package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func newTestProgress(t *testing.T, total int) *Progress {
	t.Helper()
	p, err := NewProgress(NewProgressParams{
		ID:         "prog-1",
		UserID:     "user-1",
		EntityType: EntityGuide,
		EntityID:   "guide-1",
		TotalItems: total,
	})
	require.NoError(t, err)
	return p
}

func TestNewProgress(t *testing.T) {
	t.Run("starts in progress with zero percentage", func(t *testing.T) {
		p := newTestProgress(t, 3)
		assert.Equal(t, StatusInProgress, p.Status)
		assert.Equal(t, 0, p.Percentage)
		assert.Nil(t, p.CompletedAt)
	})

	t.Run("rejects unknown entity type", func(t *testing.T) {
		_, err := NewProgress(NewProgressParams{
			ID:         "prog-1",
			UserID:     "user-1",
			EntityType: EntityType("BOOK"),
			EntityID:   "x",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestProgressPercentage(t *testing.T) {
	// Округление всегда вниз: 1/3 -> 33, 2/3 -> 66.
	p := newTestProgress(t, 3)

	require.NoError(t, p.Update(1, 60))
	assert.Equal(t, 33, p.Percentage)
	assert.Equal(t, StatusInProgress, p.Status)

	require.NoError(t, p.Update(2, 60))
	assert.Equal(t, 66, p.Percentage)
	assert.Equal(t, int64(120), p.ReadingTimeSeconds)

	require.NoError(t, p.Update(3, 60))
	assert.Equal(t, 100, p.Percentage)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.NotNil(t, p.CompletedAt)
}

func TestProgressUpdate(t *testing.T) {
	t.Run("rejects completed above snapshotted total", func(t *testing.T) {
		p := newTestProgress(t, 3)
		err := p.Update(5, 0)
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
		assert.Equal(t, 3, p.TotalItems)
		assert.Equal(t, StatusInProgress, p.Status)
	})

	t.Run("rejects negative reading time", func(t *testing.T) {
		p := newTestProgress(t, 3)
		assert.ErrorIs(t, p.Update(1, -5), shared.ErrValueOutOfRange)
	})

	t.Run("zero total stays at zero percent", func(t *testing.T) {
		p := newTestProgress(t, 0)
		require.NoError(t, p.Update(0, 10))
		assert.Equal(t, 0, p.Percentage)
		assert.Equal(t, StatusInProgress, p.Status)
	})

	t.Run("completed status is terminal", func(t *testing.T) {
		p := newTestProgress(t, 3)
		require.NoError(t, p.Update(3, 0))
		require.True(t, p.IsCompleted())
		first := *p.CompletedAt

		// Откат счётчиков не снимает завершение.
		require.NoError(t, p.Update(1, 0))
		assert.Equal(t, StatusCompleted, p.Status)
		require.NotNil(t, p.CompletedAt)
		assert.Equal(t, first, *p.CompletedAt)
	})
}

func TestProgressComplete(t *testing.T) {
	t.Run("forces full completion", func(t *testing.T) {
		p := newTestProgress(t, 5)
		require.NoError(t, p.Update(2, 30))

		p.Complete()
		assert.Equal(t, StatusCompleted, p.Status)
		assert.Equal(t, 5, p.CompletedItems)
		assert.Equal(t, 100, p.Percentage)
		assert.NotNil(t, p.CompletedAt)
	})

	t.Run("zero total still completes at one hundred percent", func(t *testing.T) {
		p := newTestProgress(t, 0)
		p.Complete()
		assert.Equal(t, StatusCompleted, p.Status)
		assert.Equal(t, 100, p.Percentage)
	})

	t.Run("repeated completion refreshes the timestamp", func(t *testing.T) {
		p := newTestProgress(t, 1)
		p.Complete()
		first := *p.CompletedAt
		p.Complete()
		assert.False(t, p.CompletedAt.Before(first))
	})
}
