package guide

import (
	"time"

	"github.com/levelup-hub/learning-hub/internal/domain/shared"
)

// Like — отметка «нравится» от пользователя.
// Пара (GuideID, UserID) уникальна.
type Like struct {
	ID        string
	GuideID   string
	UserID    string
	CreatedAt time.Time
}

// NewLike создаёт новую отметку «нравится».
func NewLike(id, guideID, userID string) (*Like, error) {
	if id == "" || guideID == "" || userID == "" {
		return nil, shared.NewDomainError("guide", "NewLike", shared.ErrInvalidID, "like requires id, guide ID and user ID")
	}
	return &Like{
		ID:        id,
		GuideID:   guideID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
