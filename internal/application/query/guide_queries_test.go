package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

var (
	studentActor = shared.Actor{UserID: "student-1", Roles: []shared.Role{shared.RoleStudent}}
	teacherActor = shared.Actor{UserID: "teacher-1", Roles: []shared.Role{shared.RoleTeacher}}
	adminActor   = shared.Actor{UserID: "admin-1", Roles: []shared.Role{shared.RoleAdmin}}
)

func seedGuide(t *testing.T, repo *fakeGuideRepo, id, authorID string, status guide.Status) *guide.Guide {
	t.Helper()
	g, err := guide.NewGuide(guide.NewGuideParams{
		ID:        id,
		Title:     "Guide " + id,
		AuthorIDs: []string{authorID},
	})
	require.NoError(t, err)
	if status != guide.StatusDraft {
		require.NoError(t, g.ChangeStatus(status))
	}
	require.NoError(t, repo.Create(context.Background(), g))
	return g
}

func seedPage(t *testing.T, repo *fakePageRepo, id, guideID string, order int) {
	t.Helper()
	p, err := guide.NewPage(guide.NewPageParams{
		ID:          id,
		GuideID:     guideID,
		Content:     "content " + id,
		OrderNumber: order,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
}

func TestGetGuide(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeGuideRepo, *fakePageRepo, *fakeLikeRepo, *fakeTopicRepo, *GetGuideHandler) {
		guides := newFakeGuideRepo()
		pages := newFakePageRepo()
		likes := newFakeLikeRepo()
		topics := newFakeTopicRepo()
		return guides, pages, likes, topics, NewGetGuideHandler(guides, pages, likes, topics, nil)
	}

	t.Run("published guide with pages in order", func(t *testing.T) {
		guides, pages, likes, topics, h := setup(t)
		seedGuide(t, guides, "guide-1", "teacher-1", guide.StatusPublished)
		seedPage(t, pages, "p3", "guide-1", 3)
		seedPage(t, pages, "p1", "guide-1", 1)
		tp, err := topic.NewTopic(topic.NewTopicParams{ID: "topic-1", Name: "Go"})
		require.NoError(t, err)
		require.NoError(t, topics.Create(ctx, tp))

		l, err := guide.NewLike("like-1", "guide-1", "student-1")
		require.NoError(t, err)
		require.NoError(t, likes.Create(ctx, l))

		dto, err := h.Handle(ctx, GetGuideQuery{Actor: studentActor, GuideID: "guide-1", IncludePages: true})
		require.NoError(t, err)
		assert.Equal(t, "guide-1", dto.ID)
		assert.Equal(t, 1, dto.Likes)
		assert.True(t, dto.LikedByMe)
		assert.Equal(t, 2, dto.PageCount)
		require.Len(t, dto.Pages, 2)
		assert.Equal(t, 1, dto.Pages[0].OrderNumber)
		assert.Equal(t, 3, dto.Pages[1].OrderNumber)
	})

	t.Run("pages omitted by default", func(t *testing.T) {
		guides, pages, _, _, h := setup(t)
		seedGuide(t, guides, "guide-1", "teacher-1", guide.StatusPublished)
		seedPage(t, pages, "p1", "guide-1", 1)

		dto, err := h.Handle(ctx, GetGuideQuery{Actor: studentActor, GuideID: "guide-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, dto.PageCount)
		assert.Empty(t, dto.Pages)
	})

	t.Run("draft is invisible to strangers", func(t *testing.T) {
		guides, _, _, _, h := setup(t)
		seedGuide(t, guides, "guide-1", "teacher-1", guide.StatusDraft)

		_, err := h.Handle(ctx, GetGuideQuery{Actor: studentActor, GuideID: "guide-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = h.Handle(ctx, GetGuideQuery{Actor: shared.Anonymous(), GuideID: "guide-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("author and admin see the draft", func(t *testing.T) {
		guides, _, _, _, h := setup(t)
		seedGuide(t, guides, "guide-1", "teacher-1", guide.StatusDraft)

		dto, err := h.Handle(ctx, GetGuideQuery{Actor: teacherActor, GuideID: "guide-1"})
		require.NoError(t, err)
		assert.Equal(t, string(guide.StatusDraft), dto.Status)

		_, err = h.Handle(ctx, GetGuideQuery{Actor: adminActor, GuideID: "guide-1"})
		assert.NoError(t, err)
	})

	t.Run("anonymous caller never counts as liked", func(t *testing.T) {
		guides, _, _, _, h := setup(t)
		seedGuide(t, guides, "guide-1", "teacher-1", guide.StatusPublished)

		dto, err := h.Handle(ctx, GetGuideQuery{Actor: shared.Anonymous(), GuideID: "guide-1"})
		require.NoError(t, err)
		assert.False(t, dto.LikedByMe)
	})
}

func TestSearchGuides(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeGuideRepo, *SearchGuidesHandler) {
		guides := newFakeGuideRepo()
		return guides, NewSearchGuidesHandler(guides, newFakeLikeRepo())
	}

	t.Run("empty filter returns published only", func(t *testing.T) {
		guides, h := setup(t)
		seedGuide(t, guides, "pub", "teacher-1", guide.StatusPublished)
		seedGuide(t, guides, "draft", "teacher-1", guide.StatusDraft)

		res, err := h.Handle(ctx, SearchGuidesQuery{Actor: shared.Anonymous()})
		require.NoError(t, err)
		require.Len(t, res.Guides, 1)
		assert.Equal(t, "pub", res.Guides[0].ID)
	})

	t.Run("course-bound guides are hidden from the catalog", func(t *testing.T) {
		guides, h := setup(t)
		seedGuide(t, guides, "pub", "teacher-1", guide.StatusPublished)
		bound := seedGuide(t, guides, "bound", "teacher-1", guide.StatusPublished)
		require.NoError(t, bound.AssociateWithCourse("course-1"))
		require.NoError(t, guides.Update(ctx, bound))

		res, err := h.Handle(ctx, SearchGuidesQuery{Actor: shared.Anonymous()})
		require.NoError(t, err)
		require.Len(t, res.Guides, 1)
		assert.Equal(t, "pub", res.Guides[0].ID)

		// Автор видит свой связанный гайд через явный фильтр по статусу.
		mine, err := h.Handle(ctx, SearchGuidesQuery{
			Actor:    teacherActor,
			Statuses: []guide.Status{guide.StatusAssociated},
		})
		require.NoError(t, err)
		require.Len(t, mine.Guides, 1)
		assert.Equal(t, "bound", mine.Guides[0].ID)
	})

	t.Run("draft filter requires authentication", func(t *testing.T) {
		_, h := setup(t)
		_, err := h.Handle(ctx, SearchGuidesQuery{
			Actor:    shared.Anonymous(),
			Statuses: []guide.Status{guide.StatusDraft},
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("foreign drafts are filtered from results", func(t *testing.T) {
		guides, h := setup(t)
		seedGuide(t, guides, "mine", "student-1", guide.StatusDraft)
		seedGuide(t, guides, "foreign", "teacher-1", guide.StatusDraft)

		res, err := h.Handle(ctx, SearchGuidesQuery{
			Actor:    studentActor,
			Statuses: []guide.Status{guide.StatusDraft},
		})
		require.NoError(t, err)
		require.Len(t, res.Guides, 1)
		assert.Equal(t, "mine", res.Guides[0].ID)
	})

	t.Run("title filter matches case-insensitive substring", func(t *testing.T) {
		guides, h := setup(t)
		seedGuide(t, guides, "go-basics", "teacher-1", guide.StatusPublished)
		seedGuide(t, guides, "rust-intro", "teacher-1", guide.StatusPublished)

		res, err := h.Handle(ctx, SearchGuidesQuery{Actor: shared.Anonymous(), Title: "GO-BAS"})
		require.NoError(t, err)
		require.Len(t, res.Guides, 1)
		assert.Equal(t, "go-basics", res.Guides[0].ID)
	})

	t.Run("negative min likes is rejected", func(t *testing.T) {
		_, h := setup(t)
		_, err := h.Handle(ctx, SearchGuidesQuery{Actor: shared.Anonymous(), MinLikes: -1})
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
	})
}

func TestListAuthorGuides(t *testing.T) {
	ctx := context.Background()

	guides := newFakeGuideRepo()
	h := NewListAuthorGuidesHandler(guides, newFakeLikeRepo())
	seedGuide(t, guides, "draft", "teacher-1", guide.StatusDraft)
	seedGuide(t, guides, "pub", "teacher-1", guide.StatusPublished)
	deleted := seedGuide(t, guides, "gone", "teacher-1", guide.StatusDraft)
	require.NoError(t, deleted.Delete())
	require.NoError(t, guides.Update(ctx, deleted))

	t.Run("author sees own drafts but not deleted", func(t *testing.T) {
		out, err := h.Handle(ctx, ListAuthorGuidesQuery{Actor: teacherActor})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("stranger may not list another author", func(t *testing.T) {
		_, err := h.Handle(ctx, ListAuthorGuidesQuery{Actor: studentActor, AuthorID: "teacher-1"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("admin may list any author", func(t *testing.T) {
		out, err := h.Handle(ctx, ListAuthorGuidesQuery{Actor: adminActor, AuthorID: "teacher-1"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}

func TestListLikedGuides(t *testing.T) {
	ctx := context.Background()

	guides := newFakeGuideRepo()
	likes := newFakeLikeRepo()
	h := NewListLikedGuidesHandler(guides, likes)

	seedGuide(t, guides, "pub", "teacher-1", guide.StatusPublished)
	seedGuide(t, guides, "draft", "teacher-1", guide.StatusDraft)
	for i, guideID := range []string{"pub", "draft"} {
		l, err := guide.NewLike(string(rune('a'+i)), guideID, "student-1")
		require.NoError(t, err)
		require.NoError(t, likes.Create(ctx, l))
	}

	t.Run("invisible liked guides are excluded", func(t *testing.T) {
		out, err := h.Handle(ctx, ListLikedGuidesQuery{Actor: studentActor})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "pub", out[0].ID)
	})

	t.Run("no likes yields empty list", func(t *testing.T) {
		out, err := h.Handle(ctx, ListLikedGuidesQuery{Actor: teacherActor})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, err := h.Handle(ctx, ListLikedGuidesQuery{Actor: shared.Anonymous()})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}
