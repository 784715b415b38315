package topic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func TestNewTopic(t *testing.T) {
	t.Run("creates topic with trimmed name", func(t *testing.T) {
		tp, err := NewTopic(NewTopicParams{ID: "t-1", Name: "  Concurrency  "})
		require.NoError(t, err)
		assert.Equal(t, "Concurrency", tp.Name)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewTopic(NewTopicParams{ID: "t-1", Name: "   "})
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewTopic(NewTopicParams{ID: "t-1", Name: strings.Repeat("x", 101)})
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
	})
}

func TestTopicRename(t *testing.T) {
	tp, err := NewTopic(NewTopicParams{ID: "t-1", Name: "Concurrency"})
	require.NoError(t, err)

	require.NoError(t, tp.Rename("Channels"))
	assert.Equal(t, "Channels", tp.Name)

	assert.ErrorIs(t, tp.Rename(""), shared.ErrEmptyValue)
}
