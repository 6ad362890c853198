package test

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainErrors "github.com/polkiloo/userstore/internal/domain/errors"
	"github.com/polkiloo/userstore/internal/domain/model"
	"github.com/polkiloo/userstore/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByID map[int64]model.User
	Next int64
	Err  error

	mu sync.Mutex
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByID: make(map[int64]model.User),
		Next: 1,
	}
}

// Create assigns the next identifier unless stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return user, s.Err
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]model.User)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	s.ByID[user.ID] = user
	return user, nil
}

// Update overwrites login and password of a stored user.
func (s *UserRepositoryStub) Update(ctx context.Context, user model.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if _, ok := s.ByID[user.ID]; !ok {
		return 0, nil
	}
	s.ByID[user.ID] = user
	return 1, nil
}

// Delete removes user by identifier.
func (s *UserRepositoryStub) Delete(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if _, ok := s.ByID[id]; !ok {
		return 0, nil
	}
	delete(s.ByID, id)
	return 1, nil
}

// FindAllOrderByID returns all users sorted by identifier.
func (s *UserRepositoryStub) FindAllOrderByID(ctx context.Context) ([]model.User, error) {
	return s.filter(func(model.User) bool { return true })
}

// FindByLikeLogin returns users whose login contains key.
func (s *UserRepositoryStub) FindByLikeLogin(ctx context.Context, key string) ([]model.User, error) {
	return s.filter(func(u model.User) bool { return strings.Contains(u.Login, key) })
}

// FindByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) FindByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return &user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// FindByLogin fetches the lowest-id user with the login or returns not found.
func (s *UserRepositoryStub) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	users, err := s.filter(func(u model.User) bool { return u.Login == login })
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	return &users[0], nil
}

func (s *UserRepositoryStub) filter(keep func(model.User) bool) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		if keep(u) {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// BackendStub is a storage backend serving UserRepositoryStub.
type BackendStub struct {
	Repo      *UserRepositoryStub
	HealthErr error
	Closed    bool
}

// Users returns the in-memory repository.
func (b *BackendStub) Users() repository.UserRepository {
	if b.Repo == nil {
		b.Repo = NewUserRepositoryStub()
	}
	return b.Repo
}

// HealthCheck returns configured error.
func (b *BackendStub) HealthCheck(context.Context) error {
	return b.HealthErr
}

// Close records the call.
func (b *BackendStub) Close() {
	b.Closed = true
}

var _ repository.UserRepository = (*UserRepositoryStub)(nil)
