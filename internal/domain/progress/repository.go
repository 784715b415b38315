package progress

import "context"

// Repository определяет контракт хранилища учебного прогресса.
type Repository interface {
	// Create сохраняет новую запись прогресса.
	// Возвращает ErrProgressAlreadyExists при конфликте
	// тройки (user, entity type, entity).
	Create(ctx context.Context, p *Progress) error

	// Update сохраняет изменения существующей записи.
	Update(ctx context.Context, p *Progress) error

	// GetByID возвращает запись по идентификатору.
	GetByID(ctx context.Context, id string) (*Progress, error)

	// GetByUserAndEntity возвращает запись прогресса пользователя
	// по конкретной сущности.
	GetByUserAndEntity(ctx context.Context, userID string, entityType EntityType, entityID string) (*Progress, error)

	// ListByUser возвращает записи пользователя,
	// опционально отфильтрованные по типу сущности.
	ListByUser(ctx context.Context, userID string, entityType EntityType) ([]*Progress, error)

	// ListByEntity возвращает записи всех пользователей по сущности.
	ListByEntity(ctx context.Context, entityType EntityType, entityID string) ([]*Progress, error)
}
