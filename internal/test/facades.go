package test

import (
	"context"

	"github.com/polkiloo/userstore/internal/domain/model"
)

// UserFacadeStub provides controllable behaviour for user endpoints.
type UserFacadeStub struct {
	CreateFn      func(context.Context, string, string) (model.User, error)
	UpdateFn      func(context.Context, int64, string, string) error
	DeleteFn      func(context.Context, int64) error
	UsersFn       func(context.Context) ([]model.User, error)
	UserFn        func(context.Context, int64) (*model.User, error)
	UserByLoginFn func(context.Context, string) (*model.User, error)
	SearchFn      func(context.Context, string) ([]model.User, error)
	VerifyFn      func(context.Context, string, string) error
	ReadyErr      error
}

// CreateUser delegates to provided function or echoes the login with id 1.
func (s UserFacadeStub) CreateUser(ctx context.Context, login, password string) (model.User, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, login, password)
	}
	return model.User{ID: 1, Login: login, Password: password}, nil
}

func (s UserFacadeStub) UpdateUser(ctx context.Context, id int64, login, password string) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, login, password)
	}
	return nil
}

func (s UserFacadeStub) DeleteUser(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// Users returns predefined users.
func (s UserFacadeStub) Users(ctx context.Context) ([]model.User, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx)
	}
	return []model.User{{ID: 1, Login: "alice", Password: "p1"}}, nil
}

func (s UserFacadeStub) User(ctx context.Context, id int64) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	return &model.User{ID: id, Login: "alice", Password: "p1"}, nil
}

func (s UserFacadeStub) UserByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.UserByLoginFn != nil {
		return s.UserByLoginFn(ctx, login)
	}
	return &model.User{ID: 1, Login: login, Password: "p1"}, nil
}

func (s UserFacadeStub) SearchUsers(ctx context.Context, key string) ([]model.User, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, key)
	}
	return []model.User{}, nil
}

func (s UserFacadeStub) VerifyCredentials(ctx context.Context, login, password string) error {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, login, password)
	}
	return nil
}

// Ready reports the configured readiness error.
func (s UserFacadeStub) Ready(context.Context) error {
	return s.ReadyErr
}
