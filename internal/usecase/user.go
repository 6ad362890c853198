package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/userstore/internal/domain/errors"
	"github.com/polkiloo/userstore/internal/domain/model"
	"github.com/polkiloo/userstore/internal/domain/repository"
	pkgAuth "github.com/polkiloo/userstore/internal/pkg/auth"
)

// UserUseCase validates user input and delegates persistence to the store.
type UserUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher) *UserUseCase {
	return &UserUseCase{users: users, hasher: hasher}
}

// Create stores a new user and returns it with the generated ID.
func (u *UserUseCase) Create(ctx context.Context, login, password string) (model.User, error) {
	usr, err := u.prepare(login, password)
	if err != nil {
		return model.User{}, err
	}
	return u.users.Create(ctx, usr)
}

// Update replaces login and password of an existing user.
func (u *UserUseCase) Update(ctx context.Context, id int64, login, password string) error {
	if id <= 0 {
		return domainErrors.ErrInvalidUser
	}
	usr, err := u.prepare(login, password)
	if err != nil {
		return err
	}
	usr.ID = id

	affected, err := u.users.Update(ctx, usr)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// Delete removes user by identifier.
func (u *UserUseCase) Delete(ctx context.Context, id int64) error {
	affected, err := u.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// List returns every user ordered by ID.
func (u *UserUseCase) List(ctx context.Context) ([]model.User, error) {
	return u.users.FindAllOrderByID(ctx)
}

// Get fetches user by identifier.
func (u *UserUseCase) Get(ctx context.Context, id int64) (*model.User, error) {
	return u.users.FindByID(ctx, id)
}

// GetByLogin fetches user by exact login.
func (u *UserUseCase) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return u.users.FindByLogin(ctx, strings.TrimSpace(login))
}

// Search returns users whose login contains key.
func (u *UserUseCase) Search(ctx context.Context, key string) ([]model.User, error) {
	if key == "" {
		return nil, domainErrors.ErrInvalidUser
	}
	return u.users.FindByLikeLogin(ctx, key)
}

// VerifyCredentials checks the password of the user with the given login.
func (u *UserUseCase) VerifyCredentials(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := u.hasher.Compare(usr.Password, password); err != nil {
		return nil, domainErrors.ErrInvalidCredentials
	}
	return usr, nil
}

func (u *UserUseCase) prepare(login, password string) (model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return model.User{}, domainErrors.ErrInvalidUser
	}

	stored, err := u.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}
	return model.User{Login: login, Password: stored}, nil
}
