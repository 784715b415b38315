package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func seedCourse(t *testing.T, repo *fakeCourseRepo, id, authorID string, status course.Status) *course.Course {
	t.Helper()
	c, err := course.NewCourse(course.NewCourseParams{
		ID:         id,
		Title:      "Course " + id,
		Difficulty: course.DifficultyBeginner,
		AuthorIDs:  []string{authorID},
	})
	require.NoError(t, err)
	if status != course.StatusDraft {
		require.NoError(t, c.ChangeStatus(status))
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestGetCourse(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeCourseRepo, *fakeGuideRepo, *GetCourseHandler) {
		courses := newFakeCourseRepo()
		guides := newFakeGuideRepo()
		h := NewGetCourseHandler(courses, guides, newFakeLikeRepo(), newFakeTopicRepo(), nil)
		return courses, guides, h
	}

	t.Run("guides follow course order", func(t *testing.T) {
		courses, guides, h := setup(t)
		c := seedCourse(t, courses, "course-1", "teacher-1", course.StatusDraft)
		for _, id := range []string{"g-b", "g-a"} {
			g := seedGuide(t, guides, id, "teacher-1", guide.StatusPublished)
			require.NoError(t, g.AssociateWithCourse(c.ID))
			require.NoError(t, guides.Update(ctx, g))
			require.NoError(t, c.AddGuide(g.ID))
		}
		require.NoError(t, c.ChangeStatus(course.StatusPublished))
		require.NoError(t, courses.Update(ctx, c))

		dto, err := h.Handle(ctx, GetCourseQuery{Actor: shared.Anonymous(), CourseID: "course-1", IncludeGuides: true})
		require.NoError(t, err)
		require.Len(t, dto.Guides, 2)
		assert.Equal(t, "g-b", dto.Guides[0].ID)
		assert.Equal(t, "g-a", dto.Guides[1].ID)
	})

	t.Run("deleted guides drop out of the listing", func(t *testing.T) {
		courses, guides, h := setup(t)
		c := seedCourse(t, courses, "course-1", "teacher-1", course.StatusDraft)
		g := seedGuide(t, guides, "g-1", "teacher-1", guide.StatusDraft)
		require.NoError(t, g.Delete())
		require.NoError(t, guides.Update(ctx, g))
		require.NoError(t, c.AddGuide(g.ID))
		require.NoError(t, c.ChangeStatus(course.StatusPublished))
		require.NoError(t, courses.Update(ctx, c))

		dto, err := h.Handle(ctx, GetCourseQuery{Actor: shared.Anonymous(), CourseID: "course-1", IncludeGuides: true})
		require.NoError(t, err)
		assert.Empty(t, dto.Guides)
		assert.Equal(t, []string{"g-1"}, dto.GuideIDs)
	})

	t.Run("draft course is invisible to strangers", func(t *testing.T) {
		courses, _, h := setup(t)
		seedCourse(t, courses, "course-1", "teacher-1", course.StatusDraft)

		_, err := h.Handle(ctx, GetCourseQuery{Actor: studentActor, CourseID: "course-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = h.Handle(ctx, GetCourseQuery{Actor: teacherActor, CourseID: "course-1"})
		assert.NoError(t, err)
	})
}

func TestSearchCourses(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeCourseRepo, *SearchCoursesHandler) {
		courses := newFakeCourseRepo()
		return courses, NewSearchCoursesHandler(courses)
	}

	t.Run("empty filter returns published only", func(t *testing.T) {
		courses, h := setup(t)
		seedCourse(t, courses, "pub", "teacher-1", course.StatusPublished)
		seedCourse(t, courses, "draft", "teacher-1", course.StatusDraft)

		res, err := h.Handle(ctx, SearchCoursesQuery{Actor: shared.Anonymous()})
		require.NoError(t, err)
		require.Len(t, res.Courses, 1)
		assert.Equal(t, "pub", res.Courses[0].ID)
	})

	t.Run("draft filter requires authentication", func(t *testing.T) {
		_, h := setup(t)
		_, err := h.Handle(ctx, SearchCoursesQuery{
			Actor:    shared.Anonymous(),
			Statuses: []course.Status{course.StatusDraft},
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("difficulty filter", func(t *testing.T) {
		courses, h := setup(t)
		seedCourse(t, courses, "easy", "teacher-1", course.StatusPublished)
		hard, err := course.NewCourse(course.NewCourseParams{
			ID:         "hard",
			Title:      "Advanced Course",
			Difficulty: course.DifficultyAdvanced,
			AuthorIDs:  []string{"teacher-1"},
		})
		require.NoError(t, err)
		require.NoError(t, hard.ChangeStatus(course.StatusPublished))
		require.NoError(t, courses.Create(ctx, hard))

		res, err := h.Handle(ctx, SearchCoursesQuery{
			Actor:      shared.Anonymous(),
			Difficulty: course.DifficultyAdvanced,
		})
		require.NoError(t, err)
		require.Len(t, res.Courses, 1)
		assert.Equal(t, "hard", res.Courses[0].ID)
	})
}

func TestListAuthorCourses(t *testing.T) {
	ctx := context.Background()

	courses := newFakeCourseRepo()
	h := NewListAuthorCoursesHandler(courses)
	seedCourse(t, courses, "draft", "teacher-1", course.StatusDraft)
	seedCourse(t, courses, "pub", "teacher-1", course.StatusPublished)

	t.Run("author sees drafts", func(t *testing.T) {
		out, err := h.Handle(ctx, ListAuthorCoursesQuery{Actor: teacherActor})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("stranger may not list another author", func(t *testing.T) {
		_, err := h.Handle(ctx, ListAuthorCoursesQuery{Actor: studentActor, AuthorID: "teacher-1"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
