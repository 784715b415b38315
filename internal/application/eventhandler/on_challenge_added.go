package eventhandler

import (
	"context"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
	"github.com/levelup-hub/learning-hub/pkg/logger"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON CHALLENGE ADDED HANDLER
// Обрабатывает событие guide.challenge_added.
//
// Привязка задачи к гайду — интеграционное событие: внешние сервисы
// (проверка решений, трекинг активности) подписаны на поток и реагируют
// на появление новой задачи. Обработчик пересылает событие в Redis Stream.
// ═══════════════════════════════════════════════════════════════════════════

// TopicGuideChallengeAdded — имя потока интеграционных событий о задачах.
const TopicGuideChallengeAdded = "guides.challenge.added.v1"

// OnChallengeAddedHandler пересылает событие привязки задачи во внешний поток.
type OnChallengeAddedHandler struct {
	publisher shared.IntegrationPublisher
	logger    *logger.Logger
	timeout   time.Duration
}

// NewOnChallengeAddedHandler создаёт новый обработчик привязки задачи.
func NewOnChallengeAddedHandler(publisher shared.IntegrationPublisher, log *logger.Logger) *OnChallengeAddedHandler {
	if log == nil {
		log = logger.Default()
	}

	return &OnChallengeAddedHandler{
		publisher: publisher,
		logger:    log.With(logger.String("handler", "on_challenge_added")),
		timeout:   10 * time.Second,
	}
}

// Handle обрабатывает событие привязки задачи.
// Реализует интерфейс shared.EventHandler.
func (h *OnChallengeAddedHandler) Handle(event shared.Event) error {
	if event.EventType() != shared.EventGuideChallengeAdded {
		h.logger.Warn("received unexpected event",
			logger.String("event_type", string(event.EventType())),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	// Ключ — идентификатор гайда: события одного гайда читаются по порядку.
	key := event.AggregateID()

	if err := h.publisher.Publish(ctx, TopicGuideChallengeAdded, key, event); err != nil {
		h.logger.Error("failed to forward challenge event",
			logger.String("guide_id", event.AggregateID()),
			logger.String("challenge_id", payloadString(event, "challenge_id")),
			logger.Err(err),
		)
		return err
	}

	h.logger.Info("challenge event forwarded",
		logger.String("guide_id", event.AggregateID()),
		logger.String("challenge_id", payloadString(event, "challenge_id")),
	)

	return nil
}
