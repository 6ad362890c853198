package handlers

import (
	"context"

	"github.com/polkiloo/userstore/internal/domain/model"
)

// UserFacade describes user operations exposed via HTTP.
type UserFacade interface {
	CreateUser(ctx context.Context, login, password string) (model.User, error)
	UpdateUser(ctx context.Context, id int64, login, password string) error
	DeleteUser(ctx context.Context, id int64) error
	Users(ctx context.Context) ([]model.User, error)
	User(ctx context.Context, id int64) (*model.User, error)
	UserByLogin(ctx context.Context, login string) (*model.User, error)
	SearchUsers(ctx context.Context, key string) ([]model.User, error)
	VerifyCredentials(ctx context.Context, login, password string) error
}

// HealthFacade reports storage readiness.
type HealthFacade interface {
	Ready(ctx context.Context) error
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	UserFacade
	HealthFacade
}
