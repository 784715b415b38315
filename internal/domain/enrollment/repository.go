package enrollment

import "context"

// Repository определяет контракт хранилища записей на курсы.
type Repository interface {
	// Create сохраняет новую запись.
	// Возвращает ErrAlreadyEnrolled при конфликте пары (user, course).
	Create(ctx context.Context, e *Enrollment) error

	// Update сохраняет изменения существующей записи.
	Update(ctx context.Context, e *Enrollment) error

	// GetByID возвращает запись по идентификатору.
	GetByID(ctx context.Context, id string) (*Enrollment, error)

	// GetByUserAndCourse возвращает запись пользователя на курс
	// независимо от её статуса.
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*Enrollment, error)

	// ListByUser возвращает записи пользователя,
	// опционально отфильтрованные по статусу.
	ListByUser(ctx context.Context, userID string, status Status) ([]*Enrollment, error)

	// ListByCourse возвращает записи на курс,
	// опционально отфильтрованные по статусу.
	ListByCourse(ctx context.Context, courseID string, status Status) ([]*Enrollment, error)

	// CountActiveByCourse возвращает число активных записей на курс.
	CountActiveByCourse(ctx context.Context, courseID string) (int, error)
}
