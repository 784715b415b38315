package guide

import (
	"sort"
	"strings"
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// Page — страница гайда с markdown-содержимым и порядковым номером.
// Порядковые номера начинаются с 1 и уникальны в рамках гайда;
// при удалении страницы остальные номера не сдвигаются.
type Page struct {
	ID          string
	GuideID     string
	Content     string
	OrderNumber int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPageParams — параметры для создания новой страницы.
type NewPageParams struct {
	ID          string
	GuideID     string
	Content     string
	OrderNumber int
}

// NewPage создаёт новую страницу с валидацией содержимого и номера.
func NewPage(params NewPageParams) (*Page, error) {
	content, err := validateContent(params.Content)
	if err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, shared.NewDomainError("guide", "NewPage", shared.ErrInvalidID, "page ID cannot be empty")
	}
	if params.GuideID == "" {
		return nil, shared.NewDomainError("guide", "NewPage", shared.ErrInvalidID, "guide ID cannot be empty")
	}
	if params.OrderNumber < 1 {
		return nil, shared.ErrInvalidPageOrder
	}

	now := time.Now().UTC()
	return &Page{
		ID:          params.ID,
		GuideID:     params.GuideID,
		Content:     content,
		OrderNumber: params.OrderNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateContent заменяет содержимое страницы.
func (p *Page) UpdateContent(content string) error {
	validated, err := validateContent(content)
	if err != nil {
		return err
	}
	p.Content = validated
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Reorder меняет порядковый номер страницы.
// Уникальность номера в рамках гайда проверяется на уровне хранилища.
func (p *Page) Reorder(orderNumber int) error {
	if orderNumber < 1 {
		return shared.ErrInvalidPageOrder
	}
	p.OrderNumber = orderNumber
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SortPages сортирует страницы по порядковому номеру по возрастанию.
func SortPages(pages []*Page) {
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].OrderNumber < pages[j].OrderNumber
	})
}

// NextOrderNumber возвращает номер для новой страницы в конце гайда.
func NextOrderNumber(pages []*Page) int {
	max := 0
	for _, p := range pages {
		if p.OrderNumber > max {
			max = p.OrderNumber
		}
	}
	return max + 1
}

func validateContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", shared.ErrInvalidPageContent
	}
	return content, nil
}
