package redis

import (
	"context"
	"time"

	"github.com/levelup-hub/learning-hub/internal/application/query"
)

// CatalogCache caches guide and course read models and the topic dictionary.
// It is invalidated by the content-change event handlers, so readers may
// observe slightly stale data between a write and the invalidation.
type CatalogCache struct {
	cache *Cache
}

// NewCatalogCache creates a new CatalogCache.
func NewCatalogCache(cache *Cache) *CatalogCache {
	return &CatalogCache{
		cache: cache,
	}
}

// GetGuide returns a cached guide read model, or ErrCacheMiss.
func (c *CatalogCache) GetGuide(ctx context.Context, guideID string) (*query.GuideDTO, error) {
	var dto query.GuideDTO
	if err := c.cache.Get(ctx, GuideKey(guideID), &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// SetGuide stores a guide read model.
func (c *CatalogCache) SetGuide(ctx context.Context, dto *query.GuideDTO) error {
	if dto == nil {
		return nil
	}
	return c.cache.Set(ctx, GuideKey(dto.ID), dto, TTLGuideCache)
}

// InvalidateGuide removes a guide read model together with any cached
// guide search pages that might contain it.
func (c *CatalogCache) InvalidateGuide(ctx context.Context, guideID string) error {
	if err := c.cache.Delete(ctx, GuideKey(guideID)); err != nil {
		return err
	}
	return c.cache.DeleteByPattern(ctx, PrefixSearch+"guides:*")
}

// GetCourse returns a cached course read model, or ErrCacheMiss.
func (c *CatalogCache) GetCourse(ctx context.Context, courseID string) (*query.CourseDTO, error) {
	var dto query.CourseDTO
	if err := c.cache.Get(ctx, CourseKey(courseID), &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// SetCourse stores a course read model.
func (c *CatalogCache) SetCourse(ctx context.Context, dto *query.CourseDTO) error {
	if dto == nil {
		return nil
	}
	return c.cache.Set(ctx, CourseKey(dto.ID), dto, TTLCourseCache)
}

// InvalidateCourse removes a course read model together with any cached
// course search pages.
func (c *CatalogCache) InvalidateCourse(ctx context.Context, courseID string) error {
	if err := c.cache.Delete(ctx, CourseKey(courseID)); err != nil {
		return err
	}
	return c.cache.DeleteByPattern(ctx, PrefixSearch+"courses:*")
}

// GetTopics returns the cached topic dictionary, or ErrCacheMiss.
func (c *CatalogCache) GetTopics(ctx context.Context) ([]query.TopicDTO, error) {
	var topics []query.TopicDTO
	if err := c.cache.Get(ctx, TopicListKey(), &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// SetTopics stores the topic dictionary.
func (c *CatalogCache) SetTopics(ctx context.Context, topics []query.TopicDTO, ttl time.Duration) error {
	return c.cache.Set(ctx, TopicListKey(), topics, ttl)
}

// InvalidateTopics drops the topic dictionary.
func (c *CatalogCache) InvalidateTopics(ctx context.Context) error {
	return c.cache.Delete(ctx, TopicListKey())
}

// InvalidateAll clears every catalog key. Used by the seeding tool.
func (c *CatalogCache) InvalidateAll(ctx context.Context) error {
	for _, pattern := range []string{PrefixGuide + "*", PrefixCourse + "*", PrefixTopic + "*", PrefixSearch + "*"} {
		if err := c.cache.DeleteByPattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}
