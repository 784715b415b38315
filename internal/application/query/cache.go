package query

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG CACHE PORTS
// Кеш каталога необязателен: обработчики принимают nil и тогда всегда
// читают из репозиториев. Кешируется только опубликованный контент в
// анонимной выдаче, поэтому персональные поля (например liked_by_me)
// в кеш не попадают.
// ══════════════════════════════════════════════════════════════════════════════

// topicsCacheTTL - время жизни словаря тем. События по темам не
// публикуются, устаревание ограничено только этим TTL.
const topicsCacheTTL = 10 * time.Minute

// GuideCache кеширует DTO опубликованных гайдов.
type GuideCache interface {
	GetGuide(ctx context.Context, guideID string) (*GuideDTO, error)
	SetGuide(ctx context.Context, dto *GuideDTO) error
}

// CourseCache кеширует DTO опубликованных курсов.
type CourseCache interface {
	GetCourse(ctx context.Context, courseID string) (*CourseDTO, error)
	SetCourse(ctx context.Context, dto *CourseDTO) error
}

// TopicCache кеширует словарь тем.
type TopicCache interface {
	GetTopics(ctx context.Context) ([]TopicDTO, error)
	SetTopics(ctx context.Context, topics []TopicDTO, ttl time.Duration) error
}
