// Package course содержит доменную модель курсов —
// упорядоченных подборок гайдов с уровнем сложности.
package course

import (
	"strings"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// Status — статус жизненного цикла курса.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusDeleted   Status = "DELETED"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода между статусами.
// DELETED достижим только через операцию удаления.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusPublished
	case StatusPublished:
		return target == StatusDraft
	default:
		return false
	}
}

// Difficulty — уровень сложности курса.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

// IsValid проверяет корректность уровня сложности.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

const (
	maxTitleLength    = 200
	defaultMaxAuthors = 5
)

// Course представляет курс — упорядоченную подборку гайдов.
type Course struct {
	ID          string
	Title       string
	Description string
	CoverImage  string
	Difficulty  Difficulty
	AuthorIDs   []string
	TopicIDs    []string
	GuideIDs    []string // порядок элементов — порядок гайдов в курсе
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCourseParams — параметры для создания нового курса.
type NewCourseParams struct {
	ID          string
	Title       string
	Description string
	CoverImage  string
	Difficulty  Difficulty
	AuthorIDs   []string
	TopicIDs    []string

	// MaxAuthors — настраиваемый предел числа авторов.
	// Нулевое значение означает предел по умолчанию.
	MaxAuthors int
}

// maxAuthorsOrDefault возвращает действующий предел числа авторов.
func maxAuthorsOrDefault(limit int) int {
	if limit <= 0 {
		return defaultMaxAuthors
	}
	return limit
}

// NewCourse создаёт новый курс в статусе DRAFT.
func NewCourse(params NewCourseParams) (*Course, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, shared.NewDomainError("course", "New", shared.ErrInvalidID, "course ID cannot be empty")
	}
	if !params.Difficulty.IsValid() {
		return nil, shared.ErrInvalidDifficulty
	}
	authors := dedupe(params.AuthorIDs)
	if len(authors) == 0 {
		return nil, shared.NewDomainError("course", "New", shared.ErrInvalidInput, "at least one author is required")
	}
	if len(authors) > maxAuthorsOrDefault(params.MaxAuthors) {
		return nil, shared.NewDomainError("course", "New", shared.ErrValueOutOfRange, "maximum number of authors exceeded")
	}

	now := time.Now().UTC()
	return &Course{
		ID:          params.ID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		CoverImage:  strings.TrimSpace(params.CoverImage),
		Difficulty:  params.Difficulty,
		AuthorIDs:   authors,
		TopicIDs:    dedupe(params.TopicIDs),
		GuideIDs:    []string{},
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsDeleted проверяет, удалён ли курс.
func (c *Course) IsDeleted() bool {
	return c.Status == StatusDeleted
}

// IsAuthor проверяет, является ли пользователь автором курса.
func (c *Course) IsAuthor(userID string) bool {
	for _, id := range c.AuthorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanEdit проверяет право изменять курс: автор или администратор.
func (c *Course) CanEdit(actor shared.Actor) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	return actor.IsAdmin() || c.IsAuthor(actor.UserID)
}

// IsVisibleTo проверяет видимость курса для вызывающего.
// PUBLISHED виден всем, DRAFT — только авторам и администраторам.
func (c *Course) IsVisibleTo(actor shared.Actor) bool {
	switch c.Status {
	case StatusDeleted:
		return false
	case StatusPublished:
		return true
	default:
		return c.CanEdit(actor)
	}
}

// UpdateParams — частичное обновление курса: nil-поля не меняются.
type UpdateParams struct {
	Title       *string
	Description *string
	CoverImage  *string
	Difficulty  *Difficulty
	TopicIDs    []string
}

// Update обновляет название, описание, обложку, сложность и темы курса.
// Пустое название отклоняется, непереданные поля сохраняют значение.
func (c *Course) Update(params UpdateParams) error {
	if c.IsDeleted() {
		return shared.ErrCourseDeleted
	}
	if params.Title != nil {
		validated, err := validateTitle(*params.Title)
		if err != nil {
			return err
		}
		c.Title = validated
	}
	if params.Description != nil {
		c.Description = strings.TrimSpace(*params.Description)
	}
	if params.CoverImage != nil {
		c.CoverImage = strings.TrimSpace(*params.CoverImage)
	}
	if params.Difficulty != nil {
		if !params.Difficulty.IsValid() {
			return shared.ErrInvalidDifficulty
		}
		c.Difficulty = *params.Difficulty
	}
	if params.TopicIDs != nil {
		c.TopicIDs = dedupe(params.TopicIDs)
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateAuthors заменяет набор авторов курса. Набор не может быть
// пустым и не может превышать действующий предел.
func (c *Course) UpdateAuthors(authorIDs []string, maxAuthors int) error {
	if c.IsDeleted() {
		return shared.ErrCourseDeleted
	}
	authors := dedupe(authorIDs)
	if len(authors) == 0 {
		return shared.NewDomainError("course", "UpdateAuthors", shared.ErrInvalidInput, "at least one author is required")
	}
	if len(authors) > maxAuthorsOrDefault(maxAuthors) {
		return shared.NewDomainError("course", "UpdateAuthors", shared.ErrValueOutOfRange, "maximum number of authors exceeded")
	}
	c.AuthorIDs = authors
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus выполняет переход статуса (publish/unpublish).
func (c *Course) ChangeStatus(target Status) error {
	if !target.IsValid() {
		return shared.ErrCourseStatusTransition
	}
	if !c.Status.CanTransitionTo(target) {
		return shared.ErrCourseStatusTransition
	}
	c.Status = target
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete помечает курс удалённым. Повторное удаление — ошибка.
func (c *Course) Delete() error {
	if c.IsDeleted() {
		return shared.ErrCourseDeleted
	}
	c.Status = StatusDeleted
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// AddGuide добавляет гайд в конец курса.
func (c *Course) AddGuide(guideID string) error {
	if c.IsDeleted() {
		return shared.ErrCourseDeleted
	}
	if guideID == "" {
		return shared.NewDomainError("course", "AddGuide", shared.ErrInvalidID, "guide ID cannot be empty")
	}
	for _, id := range c.GuideIDs {
		if id == guideID {
			return shared.ErrGuideAlreadyInCourse
		}
	}
	c.GuideIDs = append(c.GuideIDs, guideID)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveGuide убирает гайд из курса, сохраняя порядок остальных.
func (c *Course) RemoveGuide(guideID string) error {
	if c.IsDeleted() {
		return shared.ErrCourseDeleted
	}
	for i, id := range c.GuideIDs {
		if id == guideID {
			c.GuideIDs = append(c.GuideIDs[:i], c.GuideIDs[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return shared.ErrGuideNotInCourse
}

// ContainsGuide проверяет принадлежность гайда курсу.
func (c *Course) ContainsGuide(guideID string) bool {
	for _, id := range c.GuideIDs {
		if id == guideID {
			return true
		}
	}
	return false
}

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", shared.ErrInvalidCourseTitle
	}
	if len(trimmed) > maxTitleLength {
		return "", shared.NewDomainError("course", "Validate", shared.ErrValueOutOfRange, "course title exceeds 200 characters")
	}
	return trimmed, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
