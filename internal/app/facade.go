package app

import (
	"context"

	"github.com/polkiloo/userstore/internal/domain/model"
	"github.com/polkiloo/userstore/internal/usecase"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// UserFacade is the application entry point used by transport layers.
type UserFacade struct {
	users  *usecase.UserUseCase
	health HealthChecker
}

func NewUserFacade(users *usecase.UserUseCase, health HealthChecker) *UserFacade {
	return &UserFacade{users: users, health: health}
}

func (f *UserFacade) CreateUser(ctx context.Context, login, password string) (model.User, error) {
	return f.users.Create(ctx, login, password)
}

func (f *UserFacade) UpdateUser(ctx context.Context, id int64, login, password string) error {
	return f.users.Update(ctx, id, login, password)
}

func (f *UserFacade) DeleteUser(ctx context.Context, id int64) error {
	return f.users.Delete(ctx, id)
}

func (f *UserFacade) Users(ctx context.Context) ([]model.User, error) {
	return f.users.List(ctx)
}

func (f *UserFacade) User(ctx context.Context, id int64) (*model.User, error) {
	return f.users.Get(ctx, id)
}

func (f *UserFacade) UserByLogin(ctx context.Context, login string) (*model.User, error) {
	return f.users.GetByLogin(ctx, login)
}

func (f *UserFacade) SearchUsers(ctx context.Context, key string) ([]model.User, error) {
	return f.users.Search(ctx, key)
}

func (f *UserFacade) VerifyCredentials(ctx context.Context, login, password string) error {
	_, err := f.users.VerifyCredentials(ctx, login, password)
	return err
}

// Ready reports storage availability.
func (f *UserFacade) Ready(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
