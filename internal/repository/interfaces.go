package repository

import (
	"context"

	"github.com/samlehman617/HeyImHungry/internal/domain"
)

// UserRepository exposes persistence for identity records. Create must be an
// atomic check-and-insert: of two concurrent registrations for the same
// username, exactly one succeeds and the other observes domain.ErrConflict.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, userID int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}
