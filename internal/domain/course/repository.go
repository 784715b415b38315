package course

import "context"

// SearchFilter — критерии поиска курсов в каталоге.
// Пустые поля не участвуют в фильтрации.
type SearchFilter struct {
	Title      string
	AuthorID   string
	TopicIDs   []string
	Difficulty Difficulty
	Statuses   []Status // пусто — только PUBLISHED
}

// Repository определяет контракт хранилища курсов.
type Repository interface {
	// Create сохраняет новый курс.
	Create(ctx context.Context, c *Course) error

	// Update сохраняет изменения существующего курса,
	// включая состав и порядок гайдов.
	Update(ctx context.Context, c *Course) error

	// GetByID возвращает курс по идентификатору, включая удалённые.
	// Фильтрация по видимости — обязанность вызывающего.
	GetByID(ctx context.Context, id string) (*Course, error)

	// GetByIDs возвращает курсы по списку идентификаторов.
	GetByIDs(ctx context.Context, ids []string) ([]*Course, error)

	// Search возвращает курсы по фильтру с пагинацией.
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Course, error)

	// ListByAuthor возвращает все курсы автора, включая черновики.
	ListByAuthor(ctx context.Context, authorID string) ([]*Course, error)
}
