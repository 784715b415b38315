// Package guide содержит доменную модель учебных гайдов:
// агрегат Guide со страницами, авторами, привязкой к курсу
// и прикреплёнными испытаниями.
package guide

import (
	"strings"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// Status — статус жизненного цикла гайда.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusPublished  Status = "PUBLISHED"
	StatusAssociated Status = "ASSOCIATED_WITH_COURSE"
	StatusDeleted    Status = "DELETED"
)

// IsValid проверяет корректность статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusAssociated, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo проверяет допустимость перехода между статусами.
// ASSOCIATED_WITH_COURSE и DELETED достижимы только через
// специализированные операции, а не через обычную смену статуса.
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

const (
	maxTitleLength    = 200
	defaultMaxAuthors = 5
)

// Guide представляет учебный гайд — упорядоченный набор страниц
// с авторами, темами и опциональной привязкой к курсу.
type Guide struct {
	ID           string
	Title        string
	Description  string
	CoverImage   string
	AuthorIDs    []string
	TopicIDs     []string
	ChallengeIDs []string
	CourseID     string // пусто, если гайд не привязан к курсу
	Status       Status
	Likes        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewGuideParams — параметры для создания нового гайда.
type NewGuideParams struct {
	ID          string
	Title       string
	Description string
	CoverImage  string
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

// NewGuide создаёт новый гайд в статусе DRAFT.
func NewGuide(params NewGuideParams) (*Guide, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, shared.NewDomainError("guide", "New", shared.ErrInvalidID, "guide ID cannot be empty")
	}
	authors := dedupe(params.AuthorIDs)
	if len(authors) == 0 {
		return nil, shared.ErrNoAuthors
	}
	if len(authors) > maxAuthorsOrDefault(params.MaxAuthors) {
		return nil, shared.ErrTooManyAuthors
	}

	now := time.Now().UTC()
	return &Guide{
		ID:           params.ID,
		Title:        title,
		Description:  strings.TrimSpace(params.Description),
		CoverImage:   strings.TrimSpace(params.CoverImage),
		AuthorIDs:    authors,
		TopicIDs:     dedupe(params.TopicIDs),
		ChallengeIDs: []string{},
		Status:       StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsDeleted проверяет, удалён ли гайд.
func (g *Guide) IsDeleted() bool {
	return g.Status == StatusDeleted
}

// IsAuthor проверяет, является ли пользователь автором гайда.
func (g *Guide) IsAuthor(userID string) bool {
	for _, id := range g.AuthorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CanEdit проверяет право изменять гайд: автор или администратор.
func (g *Guide) CanEdit(actor shared.Actor) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	return actor.IsAdmin() || g.IsAuthor(actor.UserID)
}

// IsVisibleTo проверяет видимость гайда для вызывающего.
// DELETED не виден никому, PUBLISHED виден всем; DRAFT и
// ASSOCIATED_WITH_COURSE видны только авторам и администраторам.
func (g *Guide) IsVisibleTo(actor shared.Actor) bool {
	switch g.Status {
	case StatusDeleted:
		return false
	case StatusPublished:
		return true
	default:
		return g.CanEdit(actor)
	}
}

// UpdateParams — частичное обновление гайда: nil-поля не меняются.
type UpdateParams struct {
	Title       *string
	Description *string
	CoverImage  *string
	TopicIDs    []string
}

// Update обновляет название, описание, обложку и темы гайда.
// Пустое название отклоняется, непереданные поля сохраняют значение.
func (g *Guide) Update(params UpdateParams) error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	if params.Title != nil {
		validated, err := validateTitle(*params.Title)
		if err != nil {
			return err
		}
		g.Title = validated
	}
	if params.Description != nil {
		g.Description = strings.TrimSpace(*params.Description)
	}
	if params.CoverImage != nil {
		g.CoverImage = strings.TrimSpace(*params.CoverImage)
	}
	if params.TopicIDs != nil {
		g.TopicIDs = dedupe(params.TopicIDs)
	}
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateAuthors заменяет набор авторов гайда. Набор не может быть
// пустым и не может превышать действующий предел.
func (g *Guide) UpdateAuthors(authorIDs []string, maxAuthors int) error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	authors := dedupe(authorIDs)
	if len(authors) == 0 {
		return shared.ErrNoAuthors
	}
	if len(authors) > maxAuthorsOrDefault(maxAuthors) {
		return shared.ErrTooManyAuthors
	}
	g.AuthorIDs = authors
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus выполняет обычный переход статуса (publish/unpublish).
func (g *Guide) ChangeStatus(target Status) error {
	if !target.IsValid() {
		return shared.ErrGuideStatusTransition
	}
	if !g.Status.CanTransitionTo(target) {
		return shared.ErrGuideStatusTransition
	}
	g.Status = target
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// AssociateWithCourse привязывает гайд к курсу.
// Привязать можно только непривязанный гайд в статусе DRAFT или PUBLISHED.
func (g *Guide) AssociateWithCourse(courseID string) error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	if g.Status == StatusAssociated || g.CourseID != "" {
		return shared.ErrGuideAlreadyAssociated
	}
	if courseID == "" {
		return shared.NewDomainError("guide", "Associate", shared.ErrInvalidID, "course ID cannot be empty")
	}
	g.CourseID = courseID
	g.Status = StatusAssociated
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// DisassociateFromCourse отвязывает гайд от курса и возвращает его в DRAFT.
func (g *Guide) DisassociateFromCourse() error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	if g.Status != StatusAssociated {
		return shared.ErrGuideNotAssociated
	}
	g.CourseID = ""
	g.Status = StatusDraft
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete помечает гайд удалённым. Повторное удаление — ошибка.
func (g *Guide) Delete() error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	g.Status = StatusDeleted
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// AddChallenge прикрепляет испытание к гайду.
func (g *Guide) AddChallenge(challengeID string) error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	if challengeID == "" {
		return shared.NewDomainError("guide", "AddChallenge", shared.ErrInvalidID, "challenge ID cannot be empty")
	}
	for _, id := range g.ChallengeIDs {
		if id == challengeID {
			return shared.ErrChallengeAlreadyLinked
		}
	}
	g.ChallengeIDs = append(g.ChallengeIDs, challengeID)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveChallenge открепляет испытание от гайда.
func (g *Guide) RemoveChallenge(challengeID string) error {
	if g.IsDeleted() {
		return shared.ErrGuideDeleted
	}
	for i, id := range g.ChallengeIDs {
		if id == challengeID {
			g.ChallengeIDs = append(g.ChallengeIDs[:i], g.ChallengeIDs[i+1:]...)
			g.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return shared.ErrChallengeNotLinked
}

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", shared.ErrInvalidGuideTitle
	}
	if len(trimmed) > maxTitleLength {
		return "", shared.ErrGuideTitleTooLong
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
