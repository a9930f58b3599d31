package ports

import (
	"context"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create assigns the next id and stores the user. Returns domain.ErrEmailTaken
	// when the (normalized) email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces the stored record with the same id. Returns
	// domain.ErrEmailTaken when the email belongs to a different user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
