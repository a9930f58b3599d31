package memory

import (
	"context"
	"sync"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

type UserRepository struct {
	mu     sync.RWMutex
	users  []*domain.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if r.indexByEmail(email) >= 0 {
		return nil, domain.ErrEmailTaken
	}

	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.Email = email
	r.nextID++
	r.users = append(r.users, stored)

	return cloneUser(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.users[i]), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByEmail(domain.NormalizeEmail(email))
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.users[i]), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(user.ID)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	email := domain.NormalizeEmail(user.Email)
	if j := r.indexByEmail(email); j >= 0 && j != i {
		return nil, domain.ErrEmailTaken
	}

	stored := cloneUser(user)
	stored.Email = email
	r.users[i] = stored
	return cloneUser(stored), nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	r.users = append(r.users[:i], r.users[i+1:]...)
	return nil
}

func (r *UserRepository) indexByID(id int64) int {
	for i, u := range r.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) indexByEmail(email string) int {
	for i, u := range r.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}
