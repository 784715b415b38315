// Package eventhandler содержит обработчики доменных событий.
// Обработчики связывают команды с побочными эффектами: инвалидацией
// кеша каталога и публикацией интеграционных событий во внешний поток.
package eventhandler

import (
	"context"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON CONTENT CHANGED HANDLER
// Обрабатывает события guide.changed и course.changed.
//
// Команды меняют данные в Postgres, а кеш каталога в Redis узнаёт об
// изменении через событие. Читатели могут видеть устаревшие данные только
// в окне между записью и инвалидацией.
// ═══════════════════════════════════════════════════════════════════════════

// ContentCache — интерфейс инвалидации кеша каталога.
// Реализуется redis.CatalogCache.
type ContentCache interface {
	InvalidateGuide(ctx context.Context, guideID string) error
	InvalidateCourse(ctx context.Context, courseID string) error
}

// OnContentChangedHandler сбрасывает кеш каталога при изменении контента.
type OnContentChangedHandler struct {
	cache  ContentCache
	logger *logger.Logger

	// Timeout — предельное время одной инвалидации.
	timeout time.Duration
}

// NewOnContentChangedHandler создаёт новый обработчик изменения контента.
func NewOnContentChangedHandler(cache ContentCache, log *logger.Logger) *OnContentChangedHandler {
	if log == nil {
		log = logger.Default()
	}

	return &OnContentChangedHandler{
		cache:   cache,
		logger:  log.With(logger.String("handler", "on_content_changed")),
		timeout: 5 * time.Second,
	}
}

// Handle обрабатывает событие изменения контента.
// Реализует интерфейс shared.EventHandler.
func (h *OnContentChangedHandler) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	switch event.EventType() {
	case shared.EventGuideChanged:
		guideID := payloadString(event, "guide_id")
		if guideID == "" {
			guideID = event.AggregateID()
		}

		h.logger.Debug("invalidating guide cache", logger.String("guide_id", guideID))
		return h.cache.InvalidateGuide(ctx, guideID)

	case shared.EventCourseChanged:
		courseID := payloadString(event, "course_id")
		if courseID == "" {
			courseID = event.AggregateID()
		}

		h.logger.Debug("invalidating course cache", logger.String("course_id", courseID))
		return h.cache.InvalidateCourse(ctx, courseID)

	default:
		h.logger.Warn("received unexpected event",
			logger.String("event_type", string(event.EventType())),
		)
		return nil
	}
}

// payloadString извлекает строковое поле из полезной нагрузки события.
func payloadString(event shared.Event, key string) string {
	payload := event.Payload()
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
