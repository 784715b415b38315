package guide

import "context"

// SearchFilter — критерии поиска гайдов в каталоге.
// Пустые поля не участвуют в фильтрации.
type SearchFilter struct {
	Title    string   // подстрока названия, без учёта регистра
	AuthorID string   // гайды данного автора
	TopicIDs []string // гайды, имеющие хотя бы одну из тем
	MinLikes int      // минимальное число отметок «нравится»
	Statuses []Status // допустимые статусы; пусто — только PUBLISHED и ASSOCIATED
}

// Repository определяет контракт хранилища гайдов.
type Repository interface {
	// Create сохраняет новый гайд.
	Create(ctx context.Context, g *Guide) error

	// Update сохраняет изменения существующего гайда.
	Update(ctx context.Context, g *Guide) error

	// GetByID возвращает гайд по идентификатору, включая удалённые.
	// Фильтрация по видимости — обязанность вызывающего.
	GetByID(ctx context.Context, id string) (*Guide, error)

	// GetByIDs возвращает гайды по списку идентификаторов.
	GetByIDs(ctx context.Context, ids []string) ([]*Guide, error)

	// Search возвращает гайды по фильтру с пагинацией.
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Guide, error)

	// ListByAuthor возвращает все гайды автора, включая черновики.
	ListByAuthor(ctx context.Context, authorID string) ([]*Guide, error)

	// ListByCourse возвращает гайды, привязанные к курсу.
	ListByCourse(ctx context.Context, courseID string) ([]*Guide, error)
}

// PageRepository определяет контракт хранилища страниц.
type PageRepository interface {
	// Create сохраняет новую страницу.
	// Возвращает ErrPageOrderTaken при конфликте порядкового номера.
	Create(ctx context.Context, p *Page) error

	// Update сохраняет изменения существующей страницы.
	Update(ctx context.Context, p *Page) error

	// Delete удаляет страницу.
	Delete(ctx context.Context, id string) error

	// GetByID возвращает страницу по идентификатору.
	GetByID(ctx context.Context, id string) (*Page, error)

	// ListByGuide возвращает страницы гайда по возрастанию номера.
	ListByGuide(ctx context.Context, guideID string) ([]*Page, error)
}

// LikeRepository определяет контракт хранилища отметок «нравится».
type LikeRepository interface {
	// Create сохраняет отметку. Возвращает ErrAlreadyLiked при повторе.
	Create(ctx context.Context, l *Like) error

	// Delete снимает отметку пользователя с гайда.
	// Возвращает ErrNotLiked, если отметки не было.
	Delete(ctx context.Context, guideID, userID string) error

	// CountByGuide возвращает число отметок у гайда.
	CountByGuide(ctx context.Context, guideID string) (int, error)

	// ListGuideIDsByUser возвращает идентификаторы гайдов,
	// отмеченных пользователем.
	ListGuideIDsByUser(ctx context.Context, userID string) ([]string, error)

	// Exists проверяет наличие отметки пользователя на гайде.
	Exists(ctx context.Context, guideID, userID string) (bool, error)
}
