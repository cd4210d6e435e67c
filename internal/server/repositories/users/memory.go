package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/socialfeed/internal/common"
	"github.com/dmitrijs2005/socialfeed/internal/server/models"
)

// MemoryRepository keeps users in process memory. It enforces the same
// uniqueness rules as the database backends.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return nil, &common.UniqueViolation{}
	}
	for _, u := range r.users {
		if u.UserName == user.UserName {
			return nil, &common.UniqueViolation{Field: "username"}
		}
		if u.Email == user.Email {
			return nil, &common.UniqueViolation{Field: "email"}
		}
	}

	r.users[user.ID] = *user
	c := *user
	return &c, nil
}

func (r *MemoryRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetUserByLogin(_ context.Context, userName string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.UserName == userName })
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	return nil
}
