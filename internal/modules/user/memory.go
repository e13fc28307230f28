package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewMemoryRepository creates a process-local user repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[uuid.UUID]User)}
}

func (r *memoryRepository) CreateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %s is already registered", apperr.ErrConflict, user.Email)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *memoryRepository) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user", apperr.ErrNotFound)
	}
	return &u, nil
}
