package command

import (
	"context"
	"strings"
	"sync"

	"github.com/levelup-hub/learning-hub/internal/domain/course"
	"github.com/levelup-hub/learning-hub/internal/domain/enrollment"
	"github.com/levelup-hub/learning-hub/internal/domain/guide"
	"github.com/levelup-hub/learning-hub/internal/domain/progress"
	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/internal/domain/topic"
)

// In-memory fakes backing the command handler tests. They mirror the
// conflict and not-found semantics of the Postgres repositories.

type fakeGuideRepo struct {
	mu     sync.Mutex
	guides map[string]*guide.Guide
}

func newFakeGuideRepo() *fakeGuideRepo {
	return &fakeGuideRepo{guides: make(map[string]*guide.Guide)}
}

func (r *fakeGuideRepo) Create(ctx context.Context, g *guide.Guide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guides[g.ID]; ok {
		return shared.ErrGuideNotFound
	}
	cp := *g
	r.guides[g.ID] = &cp
	return nil
}

func (r *fakeGuideRepo) Update(ctx context.Context, g *guide.Guide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guides[g.ID]; !ok {
		return shared.ErrGuideNotFound
	}
	cp := *g
	r.guides[g.ID] = &cp
	return nil
}

func (r *fakeGuideRepo) GetByID(ctx context.Context, id string) (*guide.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guides[id]
	if !ok {
		return nil, shared.ErrGuideNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGuideRepo) GetByIDs(ctx context.Context, ids []string) ([]*guide.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*guide.Guide
	for _, id := range ids {
		if g, ok := r.guides[id]; ok {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGuideRepo) Search(ctx context.Context, filter guide.SearchFilter, limit, offset int) ([]*guide.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []guide.Status{guide.StatusPublished}
	}
	var out []*guide.Guide
	for _, g := range r.guides {
		matched := false
		for _, s := range statuses {
			if g.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.AuthorID != "" && !g.IsAuthor(filter.AuthorID) {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeGuideRepo) ListByAuthor(ctx context.Context, authorID string) ([]*guide.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*guide.Guide
	for _, g := range r.guides {
		if g.IsAuthor(authorID) {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGuideRepo) ListByCourse(ctx context.Context, courseID string) ([]*guide.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*guide.Guide
	for _, g := range r.guides {
		if g.CourseID == courseID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePageRepo struct {
	mu    sync.Mutex
	pages map[string]*guide.Page
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{pages: make(map[string]*guide.Page)}
}

func (r *fakePageRepo) Create(ctx context.Context, p *guide.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pages {
		if existing.GuideID == p.GuideID && existing.OrderNumber == p.OrderNumber {
			return shared.ErrPageOrderTaken
		}
	}
	cp := *p
	r.pages[p.ID] = &cp
	return nil
}

func (r *fakePageRepo) Update(ctx context.Context, p *guide.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[p.ID]; !ok {
		return shared.ErrPageNotFound
	}
	for _, existing := range r.pages {
		if existing.ID != p.ID && existing.GuideID == p.GuideID && existing.OrderNumber == p.OrderNumber {
			return shared.ErrPageOrderTaken
		}
	}
	cp := *p
	r.pages[p.ID] = &cp
	return nil
}

func (r *fakePageRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[id]; !ok {
		return shared.ErrPageNotFound
	}
	delete(r.pages, id)
	return nil
}

func (r *fakePageRepo) GetByID(ctx context.Context, id string) (*guide.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[id]
	if !ok {
		return nil, shared.ErrPageNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePageRepo) ListByGuide(ctx context.Context, guideID string) ([]*guide.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*guide.Page
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
	mu    sync.Mutex
	likes map[string]map[string]*guide.Like // guideID -> userID -> like
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]map[string]*guide.Like)}
}

func (r *fakeLikeRepo) Create(ctx context.Context, l *guide.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *fakeLikeRepo) Delete(ctx context.Context, guideID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := r.likes[guideID]
	if _, ok := byUser[userID]; !ok {
		return shared.ErrNotLiked
	}
	delete(byUser, userID)
	return nil
}

func (r *fakeLikeRepo) CountByGuide(ctx context.Context, guideID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.likes[guideID]), nil
}

func (r *fakeLikeRepo) ListGuideIDsByUser(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for guideID, byUser := range r.likes {
		if _, ok := byUser[userID]; ok {
			out = append(out, guideID)
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) Exists(ctx context.Context, guideID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[guideID][userID]
	return ok, nil
}

type fakeTopicRepo struct {
	mu     sync.Mutex
	topics map[string]*topic.Topic
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: make(map[string]*topic.Topic)}
}

func (r *fakeTopicRepo) Create(ctx context.Context, t *topic.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.topics {
		if existing.Name == t.Name {
			return shared.ErrTopicNameTaken
		}
	}
	cp := *t
	r.topics[t.ID] = &cp
	return nil
}

func (r *fakeTopicRepo) Update(ctx context.Context, t *topic.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[t.ID]; !ok {
		return shared.ErrTopicNotFound
	}
	for _, existing := range r.topics {
		if existing.ID != t.ID && existing.Name == t.Name {
			return shared.ErrTopicNameTaken
		}
	}
	cp := *t
	r.topics[t.ID] = &cp
	return nil
}

func (r *fakeTopicRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.topics[id]; !ok {
		return shared.ErrTopicNotFound
	}
	delete(r.topics, id)
	return nil
}

func (r *fakeTopicRepo) GetByID(ctx context.Context, id string) (*topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.topics[id]
	if !ok {
		return nil, shared.ErrTopicNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTopicRepo) GetByName(ctx context.Context, name string) (*topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.topics {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, shared.ErrTopicNotFound
}

func (r *fakeTopicRepo) GetByIDs(ctx context.Context, ids []string) ([]*topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*topic.Topic
	for _, id := range ids {
		if t, ok := r.topics[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTopicRepo) List(ctx context.Context) ([]*topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*topic.Topic
	for _, t := range r.topics {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*course.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*course.Course)}
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[c.ID]; !ok {
		return shared.ErrCourseNotFound
	}
	cp := *c
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCourseRepo) GetByIDs(ctx context.Context, ids []string) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCourseRepo) Search(ctx context.Context, filter course.SearchFilter, limit, offset int) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []course.Status{course.StatusPublished}
	}
	var out []*course.Course
	for _, c := range r.courses {
		matched := false
		for _, s := range statuses {
			if c.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCourseRepo) ListByAuthor(ctx context.Context, authorID string) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.Course
	for _, c := range r.courses {
		if c.IsAuthor(authorID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	enrollments map[string]*enrollment.Enrollment
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{enrollments: make(map[string]*enrollment.Enrollment)}
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, e *enrollment.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return shared.ErrAlreadyEnrolled
		}
	}
	cp := *e
	r.enrollments[e.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, e *enrollment.Enrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.enrollments[e.ID]; !ok {
		return shared.ErrEnrollmentNotFound
	}
	cp := *e
	r.enrollments[e.ID] = &cp
	return nil
}

func (r *fakeEnrollmentRepo) GetByID(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.enrollments[id]
	if !ok {
		return nil, shared.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*enrollment.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, shared.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) ListByUser(ctx context.Context, userID string, status enrollment.Status) ([]*enrollment.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*enrollment.Enrollment
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

func (r *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID string, status enrollment.Status) ([]*enrollment.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*enrollment.Enrollment
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

func (r *fakeEnrollmentRepo) CountActiveByCourse(ctx context.Context, courseID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, e := range r.enrollments {
		if e.CourseID == courseID && e.Status == enrollment.StatusActive {
			count++
		}
	}
	return count, nil
}

type fakeProgressRepo struct {
	mu      sync.Mutex
	records map[string]*progress.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[string]*progress.Progress)}
}

func (r *fakeProgressRepo) Create(ctx context.Context, p *progress.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.UserID == p.UserID && existing.EntityType == p.EntityType && existing.EntityID == p.EntityID {
			return shared.ErrProgressAlreadyExists
		}
	}
	cp := *p
	r.records[p.ID] = &cp
	return nil
}

func (r *fakeProgressRepo) Update(ctx context.Context, p *progress.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[p.ID]; !ok {
		return shared.ErrProgressNotFound
	}
	cp := *p
	r.records[p.ID] = &cp
	return nil
}

func (r *fakeProgressRepo) GetByID(ctx context.Context, id string) (*progress.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[id]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgressRepo) GetByUserAndEntity(ctx context.Context, userID string, entityType progress.EntityType, entityID string) (*progress.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.records {
		if p.UserID == userID && p.EntityType == entityType && p.EntityID == entityID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, shared.ErrProgressNotFound
}

func (r *fakeProgressRepo) ListByUser(ctx context.Context, userID string, entityType progress.EntityType) ([]*progress.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*progress.Progress
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

func (r *fakeProgressRepo) ListByEntity(ctx context.Context, entityType progress.EntityType, entityID string) ([]*progress.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*progress.Progress
	for _, p := range r.records {
		if p.EntityType == entityType && p.EntityID == entityID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventsOfType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }
