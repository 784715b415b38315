package topic

import "context"

// Repository определяет контракт хранилища тематических меток.
type Repository interface {
	// Create сохраняет новую метку.
	// Возвращает ErrTopicNameTaken при конфликте имени.
	Create(ctx context.Context, t *Topic) error

	// Update сохраняет изменения существующей метки.
	Update(ctx context.Context, t *Topic) error

	// Delete удаляет метку. Связи с гайдами и курсами
	// снимаются каскадно на уровне схемы.
	Delete(ctx context.Context, id string) error

	// GetByID возвращает метку по идентификатору.
	GetByID(ctx context.Context, id string) (*Topic, error)

	// GetByName возвращает метку по точному имени.
	GetByName(ctx context.Context, name string) (*Topic, error)

	// GetByIDs возвращает метки по списку идентификаторов.
	// Отсутствующие идентификаторы молча пропускаются.
	GetByIDs(ctx context.Context, ids []string) ([]*Topic, error)

	// List возвращает все метки в алфавитном порядке.
	List(ctx context.Context) ([]*Topic, error)
}
