// Package topic содержит доменную модель тематических меток,
// которыми классифицируются гайды и курсы.
package topic

import (
	"strings"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

const maxNameLength = 100

// Topic представляет тематическую метку каталога.
// Имя уникально в рамках всего сервиса.
type Topic struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTopicParams — параметры для создания новой метки.
type NewTopicParams struct {
	ID   string
	Name string
}

// NewTopic создаёт новую метку с валидацией имени.
func NewTopic(params NewTopicParams) (*Topic, error) {
	name, err := normalizeName(params.Name)
	if err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, shared.NewDomainError("topic", "New", shared.ErrInvalidID, "topic ID cannot be empty")
	}

	now := time.Now().UTC()
	return &Topic{
		ID:        params.ID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename меняет имя метки. Проверка уникальности выполняется
// на уровне хранилища.
func (t *Topic) Rename(name string) error {
	normalized, err := normalizeName(name)
	if err != nil {
		return err
	}
	t.Name = normalized
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", shared.ErrInvalidTopicName
	}
	if len(trimmed) > maxNameLength {
		return "", shared.NewDomainError("topic", "Validate", shared.ErrValueOutOfRange, "topic name exceeds 100 characters")
	}
	return trimmed, nil
}
