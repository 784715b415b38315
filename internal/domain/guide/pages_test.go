package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

func TestNewPage(t *testing.T) {
	t.Run("creates page", func(t *testing.T) {
		p, err := NewPage(NewPageParams{
			ID:          "page-1",
			GuideID:     "guide-1",
			Content:     "# Intro",
			OrderNumber: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, p.OrderNumber)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		_, err := NewPage(NewPageParams{
			ID:          "page-1",
			GuideID:     "guide-1",
			Content:     "  \n ",
			OrderNumber: 1,
		})
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("rejects non-positive order", func(t *testing.T) {
		_, err := NewPage(NewPageParams{
			ID:          "page-1",
			GuideID:     "guide-1",
			Content:     "# Intro",
			OrderNumber: 0,
		})
		assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
	})
}

func TestPageOrdering(t *testing.T) {
	mustPage := func(id string, order int) *Page {
		p, err := NewPage(NewPageParams{ID: id, GuideID: "guide-1", Content: "x", OrderNumber: order})
		require.NoError(t, err)
		return p
	}

	t.Run("sort by order number", func(t *testing.T) {
		pages := []*Page{mustPage("c", 3), mustPage("a", 1), mustPage("b", 2)}
		SortPages(pages)
		assert.Equal(t, "a", pages[0].ID)
		assert.Equal(t, "b", pages[1].ID)
		assert.Equal(t, "c", pages[2].ID)
	})

	t.Run("gaps after removal are preserved", func(t *testing.T) {
		// Удаление страницы 2 из (1,2,3) оставляет номера 1 и 3.
		pages := []*Page{mustPage("a", 1), mustPage("c", 3)}
		SortPages(pages)
		assert.Equal(t, 1, pages[0].OrderNumber)
		assert.Equal(t, 3, pages[1].OrderNumber)
		assert.Equal(t, 4, NextOrderNumber(pages))
	})

	t.Run("next order for empty guide is 1", func(t *testing.T) {
		assert.Equal(t, 1, NextOrderNumber(nil))
	})

	t.Run("reorder validates number", func(t *testing.T) {
		p := mustPage("a", 1)
		assert.ErrorIs(t, p.Reorder(-1), shared.ErrValueOutOfRange)
		require.NoError(t, p.Reorder(5))
		assert.Equal(t, 5, p.OrderNumber)
	})
}
