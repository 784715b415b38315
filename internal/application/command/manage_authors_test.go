package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func TestUpdateGuideAuthors(t *testing.T) {
	ctx := context.Background()

	t.Run("author replaces the author set", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		pub := &recordingPublisher{}
		h := NewUpdateGuideAuthorsHandler(guides, pub, 5)

		g, err := h.Handle(ctx, UpdateGuideAuthorsCommand{
			Actor:     teacherActor,
			GuideID:   "guide-1",
			AuthorIDs: []string{"teacher-2", "teacher-3"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"teacher-2", "teacher-3"}, g.AuthorIDs)
		assert.Len(t, pub.eventsOfType(shared.EventGuideChanged), 1)
	})

	t.Run("empty author set is rejected", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideAuthorsHandler(guides, &recordingPublisher{}, 5)

		_, err := h.Handle(ctx, UpdateGuideAuthorsCommand{
			Actor:   teacherActor,
			GuideID: "guide-1",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		g, getErr := guides.GetByID(ctx, "guide-1")
		require.NoError(t, getErr)
		assert.Equal(t, []string{"teacher-1"}, g.AuthorIDs)
	})

	t.Run("configured limit is enforced", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideAuthorsHandler(guides, &recordingPublisher{}, 2)

		_, err := h.Handle(ctx, UpdateGuideAuthorsCommand{
			Actor:     teacherActor,
			GuideID:   "guide-1",
			AuthorIDs: []string{"a", "b", "c"},
		})
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
	})

	t.Run("duplicates collapse before the limit check", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideAuthorsHandler(guides, &recordingPublisher{}, 2)

		g, err := h.Handle(ctx, UpdateGuideAuthorsCommand{
			Actor:     teacherActor,
			GuideID:   "guide-1",
			AuthorIDs: []string{"teacher-1", "teacher-1", "teacher-2"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"teacher-1", "teacher-2"}, g.AuthorIDs)
	})

	t.Run("stranger cannot change authorship", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideAuthorsHandler(guides, &recordingPublisher{}, 5)

		_, err := h.Handle(ctx, UpdateGuideAuthorsCommand{
			Actor:     studentActor,
			GuideID:   "guide-1",
			AuthorIDs: []string{"student-1"},
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestUpdateCourseAuthors(t *testing.T) {
	ctx := context.Background()

	t.Run("admin replaces the author set", func(t *testing.T) {
		courses := newFakeCourseRepo()
		seedCourse(t, courses, "teacher-1")
		pub := &recordingPublisher{}
		h := NewUpdateCourseAuthorsHandler(courses, pub, 5)

		c, err := h.Handle(ctx, UpdateCourseAuthorsCommand{
			Actor:     adminActor,
			CourseID:  "course-1",
			AuthorIDs: []string{"teacher-2"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"teacher-2"}, c.AuthorIDs)
		assert.Len(t, pub.eventsOfType(shared.EventCourseChanged), 1)
	})

	t.Run("limit applies to courses as well", func(t *testing.T) {
		courses := newFakeCourseRepo()
		seedCourse(t, courses, "teacher-1")
		h := NewUpdateCourseAuthorsHandler(courses, &recordingPublisher{}, 1)

		_, err := h.Handle(ctx, UpdateCourseAuthorsCommand{
			Actor:     teacherActor,
			CourseID:  "course-1",
			AuthorIDs: []string{"teacher-1", "teacher-2"},
		})
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
	})
}
