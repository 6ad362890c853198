package repository

import (
	"context"

	"github.com/polkiloo/userstore/internal/domain/model"
)

// UserRepository describes persistence operations for users.
// Every method runs inside its own transaction.
type UserRepository interface {
	// Create inserts login and password and returns the user with the generated ID.
	// On failure the input is returned unchanged together with the error.
	Create(ctx context.Context, user model.User) (model.User, error)
	// Update overwrites login and password of the row matching user.ID and reports affected rows.
	Update(ctx context.Context, user model.User) (int64, error)
	// Delete removes the row with the given id and reports affected rows.
	Delete(ctx context.Context, id int64) (int64, error)
	FindAllOrderByID(ctx context.Context) ([]model.User, error)
	// FindByID returns errors.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByLikeLogin returns users whose login contains key.
	FindByLikeLogin(ctx context.Context, key string) ([]model.User, error)
	// FindByLogin returns errors.ErrNotFound when no row matches.
	FindByLogin(ctx context.Context, login string) (*model.User, error)
}
