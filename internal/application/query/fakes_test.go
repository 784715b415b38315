package query

import (
	"context"
	"strings"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// In-memory repository fakes for read-side tests. Queries never write,
// so only the lookup methods carry real logic.

type fakeGuideRepo struct {
	guides map[string]*guide.Guide
}

func newFakeGuideRepo() *fakeGuideRepo {
	return &fakeGuideRepo{guides: make(map[string]*guide.Guide)}
}

func (r *fakeGuideRepo) Create(_ context.Context, g *guide.Guide) error {
	cp := *g
	r.guides[g.ID] = &cp
	return nil
}

func (r *fakeGuideRepo) Update(_ context.Context, g *guide.Guide) error {
	if _, ok := r.guides[g.ID]; !ok {
		return shared.ErrGuideNotFound
	}
	cp := *g
	r.guides[g.ID] = &cp
	return nil
}

func (r *fakeGuideRepo) GetByID(_ context.Context, id string) (*guide.Guide, error) {
	g, ok := r.guides[id]
	if !ok {
		return nil, shared.ErrGuideNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGuideRepo) GetByIDs(_ context.Context, ids []string) ([]*guide.Guide, error) {
	out := make([]*guide.Guide, 0, len(ids))
	for _, id := range ids {
		if g, ok := r.guides[id]; ok {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGuideRepo) Search(_ context.Context, filter guide.SearchFilter, limit, offset int) ([]*guide.Guide, error) {
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []guide.Status{guide.StatusPublished}
	}
	matched := make([]*guide.Guide, 0)
	for _, g := range r.guides {
		if filter.Title != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.AuthorID != "" && !containsString(g.AuthorIDs, filter.AuthorID) {
			continue
		}
		ok := false
		for _, s := range statuses {
			if g.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			continue
		}
		cp := *g
		matched = append(matched, &cp)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeGuideRepo) ListByAuthor(_ context.Context, authorID string) ([]*guide.Guide, error) {
	out := make([]*guide.Guide, 0)
	for _, g := range r.guides {
		if containsString(g.AuthorIDs, authorID) {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGuideRepo) ListByCourse(_ context.Context, courseID string) ([]*guide.Guide, error) {
	out := make([]*guide.Guide, 0)
	for _, g := range r.guides {
		if g.CourseID == courseID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

type fakePageRepo struct {
	pages map[string]*guide.Page
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{pages: make(map[string]*guide.Page)}
}

func (r *fakePageRepo) Create(_ context.Context, p *guide.Page) error {
	cp := *p
	r.pages[p.ID] = &cp
	return nil
}

func (r *fakePageRepo) Update(_ context.Context, p *guide.Page) error {
	cp := *p
	r.pages[p.ID] = &cp
	return nil
}

func (r *fakePageRepo) Delete(_ context.Context, id string) error {
	delete(r.pages, id)
	return nil
}

func (r *fakePageRepo) GetByID(_ context.Context, id string) (*guide.Page, error) {
	p, ok := r.pages[id]
	if !ok {
		return nil, shared.ErrPageNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePageRepo) ListByGuide(_ context.Context, guideID string) ([]*guide.Page, error) {
	out := make([]*guide.Page, 0)
	for _, p := range r.pages {
		if p.GuideID == guideID {
			cp := *p
			out = append(out, &cp)
		}
	}
	guide.SortPages(out)
	return out, nil
}

type fakeLikeRepo struct {
	// guideID -> userID -> like
	likes map[string]map[string]*guide.Like
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]map[string]*guide.Like)}
}

func (r *fakeLikeRepo) Create(_ context.Context, l *guide.Like) error {
	byUser, ok := r.likes[l.GuideID]
	if !ok {
		byUser = make(map[string]*guide.Like)
		r.likes[l.GuideID] = byUser
	}
	if _, exists := byUser[l.UserID]; exists {
		return shared.ErrAlreadyLiked
	}
	cp := *l
	byUser[l.UserID] = &cp
	return nil
}

func (r *fakeLikeRepo) Delete(_ context.Context, guideID, userID string) error {
	byUser := r.likes[guideID]
	if _, ok := byUser[userID]; !ok {
		return shared.ErrNotLiked
	}
	delete(byUser, userID)
	return nil
}

func (r *fakeLikeRepo) CountByGuide(_ context.Context, guideID string) (int, error) {
	return len(r.likes[guideID]), nil
}

func (r *fakeLikeRepo) ListGuideIDsByUser(_ context.Context, userID string) ([]string, error) {
	out := make([]string, 0)
	for guideID, byUser := range r.likes {
		if _, ok := byUser[userID]; ok {
			out = append(out, guideID)
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, guideID, userID string) (bool, error) {
	_, ok := r.likes[guideID][userID]
	return ok, nil
}

type fakeTopicRepo struct {
	topics map[string]*topic.Topic
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[string]*topic.Topic)}
}

func (r *fakeTopicRepo) Create(_ context.Context, t *topic.Topic) error {
	cp := *t
	r.topics[t.ID] = &cp
	return nil
}

func (r *fakeTopicRepo) Update(_ context.Context, t *topic.Topic) error {
	cp := *t
	r.topics[t.ID] = &cp
	return nil
}

func (r *fakeTopicRepo) Delete(_ context.Context, id string) error {
	delete(r.topics, id)
	return nil
}

func (r *fakeTopicRepo) GetByID(_ context.Context, id string) (*topic.Topic, error) {
	t, ok := r.topics[id]
	if !ok {
		return nil, shared.ErrTopicNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTopicRepo) GetByName(_ context.Context, name string) (*topic.Topic, error) {
	for _, t := range r.topics {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, shared.ErrTopicNotFound
}

func (r *fakeTopicRepo) GetByIDs(_ context.Context, ids []string) ([]*topic.Topic, error) {
	out := make([]*topic.Topic, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.topics[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTopicRepo) List(_ context.Context) ([]*topic.Topic, error) {
	out := make([]*topic.Topic, 0, len(r.topics))
	for _, t := range r.topics {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type fakeCourseRepo struct {
	courses map[string]*course.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*course.Course)}
}

func (r *fakeCourseRepo) Create(_ context.Context, c *course.Course) error {
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *course.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return shared.ErrCourseNotFound
	}
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*course.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) GetByIDs(_ context.Context, ids []string) ([]*course.Course, error) {
	out := make([]*course.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Search(_ context.Context, filter course.SearchFilter, limit, offset int) ([]*course.Course, error) {
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []course.Status{course.StatusPublished}
	}
	matched := make([]*course.Course, 0)
	for _, c := range r.courses {
		if filter.Title != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.AuthorID != "" && !containsString(c.AuthorIDs, filter.AuthorID) {
			continue
		}
		if filter.Difficulty != "" && c.Difficulty != filter.Difficulty {
			continue
		}
		ok := false
		for _, s := range statuses {
			if c.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeCourseRepo) ListByAuthor(_ context.Context, authorID string) ([]*course.Course, error) {
	out := make([]*course.Course, 0)
	for _, c := range r.courses {
		if containsString(c.AuthorIDs, authorID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	enrollments map[string]*enrollment.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[string]*enrollment.Enrollment)}
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, e *enrollment.Enrollment) error {
	cp := *e
	r.enrollments[e.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) Update(_ context.Context, e *enrollment.Enrollment) error {
	cp := *e
	r.enrollments[e.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(_ context.Context, id string) (*enrollment.Enrollment, error) {
	e, ok := r.enrollments[id]
	if !ok {
		return nil, shared.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID string) (*enrollment.Enrollment, error) {
	for _, e := range r.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, shared.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) ListByUser(_ context.Context, userID string, status enrollment.Status) ([]*enrollment.Enrollment, error) {
	out := make([]*enrollment.Enrollment, 0)
	for _, e := range r.enrollments {
		if e.UserID != userID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) ListByCourse(_ context.Context, courseID string, status enrollment.Status) ([]*enrollment.Enrollment, error) {
	out := make([]*enrollment.Enrollment, 0)
	for _, e := range r.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) CountActiveByCourse(_ context.Context, courseID string) (int, error) {
	n := 0
	for _, e := range r.enrollments {
		if e.CourseID == courseID && e.Status == enrollment.StatusActive {
			n++
		}
	}
	return n, nil
}

type fakeProgressRepo struct {
	records map[string]*progress.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*progress.Progress)}
}

func (r *fakeProgressRepo) Create(_ context.Context, p *progress.Progress) error {
	cp := *p
	r.records[p.ID] = &cp
	return nil
}

func (r *fakeProgressRepo) Update(_ context.Context, p *progress.Progress) error {
	cp := *p
	r.records[p.ID] = &cp
	return nil
}

func (r *fakeProgressRepo) GetByID(_ context.Context, id string) (*progress.Progress, error) {
	p, ok := r.records[id]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) GetByUserAndEntity(_ context.Context, userID string, entityType progress.EntityType, entityID string) (*progress.Progress, error) {
	for _, p := range r.records {
		if p.UserID == userID && p.EntityType == entityType && p.EntityID == entityID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, shared.ErrProgressNotFound
}

func (r *fakeProgressRepo) ListByUser(_ context.Context, userID string, entityType progress.EntityType) ([]*progress.Progress, error) {
	out := make([]*progress.Progress, 0)
	for _, p := range r.records {
		if p.UserID != userID {
			continue
		}
		if entityType != "" && p.EntityType != entityType {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProgressRepo) ListByEntity(_ context.Context, entityType progress.EntityType, entityID string) ([]*progress.Progress, error) {
	out := make([]*progress.Progress, 0)
	for _, p := range r.records {
		if p.EntityType == entityType && p.EntityID == entityID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
