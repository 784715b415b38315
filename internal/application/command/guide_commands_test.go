package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

var (
	teacherActor = shared.Actor{UserID: "teacher-1", Roles: []shared.Role{shared.RoleTeacher}}
	adminActor   = shared.Actor{UserID: "admin-1", Roles: []shared.Role{shared.RoleAdmin}}
	studentActor = shared.Actor{UserID: "student-1", Roles: []shared.Role{shared.RoleStudent}}
)

func TestCreateGuide(t *testing.T) {
	ctx := context.Background()

	t.Run("teacher creates own guide", func(t *testing.T) {
		guides := newFakeGuideRepo()
		pub := &recordingPublisher{}
		h := NewCreateGuideHandler(guides, newFakeTopicRepo(), pub, 5)

		res, err := h.Handle(ctx, CreateGuideCommand{
			Actor: teacherActor,
			Title: "Go Basics",
		})
		require.NoError(t, err)

		g, err := guides.GetByID(ctx, res.GuideID)
		require.NoError(t, err)
		assert.Equal(t, guide.StatusDraft, g.Status)
		assert.Equal(t, []string{"teacher-1"}, g.AuthorIDs)
		assert.Len(t, pub.eventsOfType(shared.EventGuideChanged), 1)
	})

	t.Run("student cannot create guides", func(t *testing.T) {
		h := NewCreateGuideHandler(newFakeGuideRepo(), newFakeTopicRepo(), &recordingPublisher{}, 5)
		_, err := h.Handle(ctx, CreateGuideCommand{Actor: studentActor, Title: "Nope"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		h := NewCreateGuideHandler(newFakeGuideRepo(), newFakeTopicRepo(), &recordingPublisher{}, 5)
		_, err := h.Handle(ctx, CreateGuideCommand{Actor: shared.Anonymous(), Title: "Nope"})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("teacher must be among authors", func(t *testing.T) {
		h := NewCreateGuideHandler(newFakeGuideRepo(), newFakeTopicRepo(), &recordingPublisher{}, 5)
		_, err := h.Handle(ctx, CreateGuideCommand{
			Actor:     teacherActor,
			Title:     "Ghostwritten",
			AuthorIDs: []string{"someone-else"},
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown topic is rejected", func(t *testing.T) {
		h := NewCreateGuideHandler(newFakeGuideRepo(), newFakeTopicRepo(), &recordingPublisher{}, 5)
		_, err := h.Handle(ctx, CreateGuideCommand{
			Actor:    teacherActor,
			Title:    "Go Basics",
			TopicIDs: []string{"missing-topic"},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func seedGuide(t *testing.T, repo *fakeGuideRepo, authorID string) *guide.Guide {
	t.Helper()
	g, err := guide.NewGuide(guide.NewGuideParams{
		ID:        "guide-1",
		Title:     "Seeded Guide",
		AuthorIDs: []string{authorID},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), g))
	return g
}

func TestUpdateGuideAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("non-author cannot edit the draft", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideHandler(guides, newFakeTopicRepo(), &recordingPublisher{})

		_, err := h.Handle(ctx, UpdateGuideCommand{
			Actor:   studentActor,
			GuideID: "guide-1",
			Title:   strPtr("Hijacked"),
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("deleted guide reads as not found", func(t *testing.T) {
		guides := newFakeGuideRepo()
		g := seedGuide(t, guides, "teacher-1")
		require.NoError(t, g.Delete())
		require.NoError(t, guides.Update(ctx, g))

		h := NewUpdateGuideHandler(guides, newFakeTopicRepo(), &recordingPublisher{})
		_, err := h.Handle(ctx, UpdateGuideCommand{
			Actor:   teacherActor,
			GuideID: "guide-1",
			Title:   strPtr("Back from the dead"),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("published guide visible but not editable by stranger", func(t *testing.T) {
		guides := newFakeGuideRepo()
		g := seedGuide(t, guides, "teacher-1")
		require.NoError(t, g.ChangeStatus(guide.StatusPublished))
		require.NoError(t, guides.Update(ctx, g))

		h := NewUpdateGuideHandler(guides, newFakeTopicRepo(), &recordingPublisher{})
		_, err := h.Handle(ctx, UpdateGuideCommand{
			Actor:   studentActor,
			GuideID: "guide-1",
			Title:   strPtr("Hijacked"),
		})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("omitted fields survive the update", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideHandler(guides, newFakeTopicRepo(), &recordingPublisher{})

		updated, err := h.Handle(ctx, UpdateGuideCommand{
			Actor:       teacherActor,
			GuideID:     "guide-1",
			Description: strPtr("Now with details"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Seeded Guide", updated.Title)
		assert.Equal(t, "Now with details", updated.Description)
	})

	t.Run("admin can edit any guide", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewUpdateGuideHandler(guides, newFakeTopicRepo(), &recordingPublisher{})

		updated, err := h.Handle(ctx, UpdateGuideCommand{
			Actor:   adminActor,
			GuideID: "guide-1",
			Title:   strPtr("Admin Edit"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Admin Edit", updated.Title)
	})
}

func TestPageCommands(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeGuideRepo, *fakePageRepo, *AddPageHandler) {
		guides := newFakeGuideRepo()
		pages := newFakePageRepo()
		seedGuide(t, guides, "teacher-1")
		return guides, pages, NewAddPageHandler(guides, pages, &recordingPublisher{})
	}

	t.Run("append assigns next order number", func(t *testing.T) {
		_, pages, add := setup(t)

		p1, err := add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: "one"})
		require.NoError(t, err)
		p2, err := add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: "two"})
		require.NoError(t, err)

		assert.Equal(t, 1, p1.OrderNumber)
		assert.Equal(t, 2, p2.OrderNumber)

		listed, err := pages.ListByGuide(ctx, "guide-1")
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("explicit duplicate order conflicts", func(t *testing.T) {
		_, _, add := setup(t)

		_, err := add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: "one", OrderNumber: 1})
		require.NoError(t, err)
		_, err = add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: "clash", OrderNumber: 1})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("delete preserves gaps, append continues after highest", func(t *testing.T) {
		guides, pages, add := setup(t)

		var ids []string
		for _, content := range []string{"one", "two", "three"} {
			p, err := add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: content})
			require.NoError(t, err)
			ids = append(ids, p.ID)
		}

		del := NewDeletePageHandler(guides, pages, &recordingPublisher{})
		require.NoError(t, del.Handle(ctx, DeletePageCommand{Actor: teacherActor, GuideID: "guide-1", PageID: ids[1]}))

		listed, err := pages.ListByGuide(ctx, "guide-1")
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, 1, listed[0].OrderNumber)
		assert.Equal(t, 3, listed[1].OrderNumber)

		p4, err := add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: "four"})
		require.NoError(t, err)
		assert.Equal(t, 4, p4.OrderNumber)
	})

	t.Run("page of another guide is not reachable", func(t *testing.T) {
		guides, pages, add := setup(t)

		other, err := guide.NewGuide(guide.NewGuideParams{ID: "guide-2", Title: "Other", AuthorIDs: []string{"teacher-1"}})
		require.NoError(t, err)
		require.NoError(t, guides.Create(ctx, other))

		p, err := add.Handle(ctx, AddPageCommand{Actor: teacherActor, GuideID: "guide-1", Content: "one"})
		require.NoError(t, err)

		upd := NewUpdatePageHandler(guides, pages, &recordingPublisher{})
		_, err = upd.Handle(ctx, UpdatePageCommand{Actor: teacherActor, GuideID: "guide-2", PageID: p.ID, Content: "moved?"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLikeGuide(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeGuideRepo, *fakeLikeRepo) {
		guides := newFakeGuideRepo()
		g := seedGuide(t, guides, "teacher-1")
		require.NoError(t, g.ChangeStatus(guide.StatusPublished))
		require.NoError(t, guides.Update(ctx, g))
		return guides, newFakeLikeRepo()
	}

	t.Run("like then duplicate like conflicts", func(t *testing.T) {
		guides, likes := setup(t)
		h := NewLikeGuideHandler(guides, likes)

		res, err := h.Handle(ctx, LikeGuideCommand{Actor: studentActor, GuideID: "guide-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Likes)

		_, err = h.Handle(ctx, LikeGuideCommand{Actor: studentActor, GuideID: "guide-1"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unlike without like is not found", func(t *testing.T) {
		guides, likes := setup(t)
		h := NewUnlikeGuideHandler(guides, likes)

		_, err := h.Handle(ctx, UnlikeGuideCommand{Actor: studentActor, GuideID: "guide-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("draft guide cannot be liked by stranger", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewLikeGuideHandler(guides, newFakeLikeRepo())

		_, err := h.Handle(ctx, LikeGuideCommand{Actor: studentActor, GuideID: "guide-1"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestChallengeCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("adding challenge emits integration event", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		pub := &recordingPublisher{}
		h := NewAddChallengeHandler(guides, pub)

		g, err := h.Handle(ctx, AddChallengeCommand{Actor: teacherActor, GuideID: "guide-1", ChallengeID: "ch-9"})
		require.NoError(t, err)
		assert.Contains(t, g.ChallengeIDs, "ch-9")

		events := pub.eventsOfType(shared.EventGuideChallengeAdded)
		require.Len(t, events, 1)
		assert.Equal(t, "guide-1", events[0].AggregateID())
		assert.Equal(t, "ch-9", events[0].Payload()["challenge_id"])
	})

	t.Run("duplicate challenge conflicts", func(t *testing.T) {
		guides := newFakeGuideRepo()
		seedGuide(t, guides, "teacher-1")
		h := NewAddChallengeHandler(guides, &recordingPublisher{})

		_, err := h.Handle(ctx, AddChallengeCommand{Actor: teacherActor, GuideID: "guide-1", ChallengeID: "ch-9"})
		require.NoError(t, err)
		_, err = h.Handle(ctx, AddChallengeCommand{Actor: teacherActor, GuideID: "guide-1", ChallengeID: "ch-9"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}
