package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

func seedProgress(t *testing.T, repo *fakeProgressRepo, id, userID string, entityType progress.EntityType, entityID string) *progress.Progress {
	t.Helper()
	p, err := progress.NewProgress(progress.NewProgressParams{
		ID:         id,
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		TotalItems: 4,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestGetProgress(t *testing.T) {
	ctx := context.Background()

	records := newFakeProgressRepo()
	h := NewGetProgressHandler(records)
	seedProgress(t, records, "pr-1", "student-1", progress.EntityGuide, "guide-1")

	t.Run("owner reads own progress", func(t *testing.T) {
		dto, err := h.Handle(ctx, GetProgressQuery{
			Actor:      studentActor,
			EntityType: progress.EntityGuide,
			EntityID:   "guide-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "pr-1", dto.ID)
		assert.Equal(t, 4, dto.TotalItems)
		assert.Equal(t, 0, dto.Percentage)
	})

	t.Run("foreign progress is indistinguishable from missing", func(t *testing.T) {
		_, err := h.Handle(ctx, GetProgressQuery{
			Actor:      teacherActor,
			UserID:     "student-1",
			EntityType: progress.EntityGuide,
			EntityID:   "guide-1",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("admin reads any progress", func(t *testing.T) {
		dto, err := h.Handle(ctx, GetProgressQuery{
			Actor:      adminActor,
			UserID:     "student-1",
			EntityType: progress.EntityGuide,
			EntityID:   "guide-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "pr-1", dto.ID)
	})

	t.Run("entity without progress", func(t *testing.T) {
		_, err := h.Handle(ctx, GetProgressQuery{
			Actor:      studentActor,
			EntityType: progress.EntityCourse,
			EntityID:   "course-1",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestListUserProgress(t *testing.T) {
	ctx := context.Background()

	records := newFakeProgressRepo()
	h := NewListUserProgressHandler(records)
	seedProgress(t, records, "pr-1", "student-1", progress.EntityGuide, "guide-1")
	seedProgress(t, records, "pr-2", "student-1", progress.EntityCourse, "course-1")
	seedProgress(t, records, "pr-3", "teacher-1", progress.EntityGuide, "guide-1")

	t.Run("lists all records of the caller", func(t *testing.T) {
		out, err := h.Handle(ctx, ListUserProgressQuery{Actor: studentActor})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("entity type filter", func(t *testing.T) {
		out, err := h.Handle(ctx, ListUserProgressQuery{Actor: studentActor, EntityType: progress.EntityCourse})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "pr-2", out[0].ID)
	})

	t.Run("stranger may not list another user", func(t *testing.T) {
		_, err := h.Handle(ctx, ListUserProgressQuery{Actor: studentActor, UserID: "teacher-1"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestTopicQueries(t *testing.T) {
	ctx := context.Background()

	topics := newFakeTopicRepo()
	for i, name := range []string{"Go", "Databases"} {
		tp, err := topic.NewTopic(topic.NewTopicParams{ID: string(rune('a' + i)), Name: name})
		require.NoError(t, err)
		require.NoError(t, topics.Create(ctx, tp))
	}

	t.Run("list is public", func(t *testing.T) {
		h := NewListTopicsHandler(topics, nil)
		out, err := h.Handle(ctx)
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("get by id", func(t *testing.T) {
		h := NewGetTopicHandler(topics)
		dto, err := h.Handle(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "Go", dto.Name)

		_, err = h.Handle(ctx, "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
