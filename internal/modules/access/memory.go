package access

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type memoryRepo struct {
	mu        sync.RWMutex
	roles     map[uuid.UUID]*Role
	userRoles map[uuid.UUID]map[uuid.UUID]struct{}
}

// NewMemoryRepository returns a process-local Repository for tests and demo mode.
func NewMemoryRepository() Repository {
	return &memoryRepo{
		roles:     make(map[uuid.UUID]*Role),
		userRoles: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (r *memoryRepo) CreateRole(_ context.Context, role *Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.roles {
		if strings.EqualFold(existing.Name, role.Name) {
			return fmt.Errorf("%w: role %q already exists", apperr.ErrConflict, role.Name)
		}
	}
	now := time.Now().UTC()
	role.CreatedAt, role.UpdatedAt = now, now
	r.roles[role.ID] = cloneRole(role)
	return nil
}

func (r *memoryRepo) GetRole(_ context.Context, id uuid.UUID) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, fmt.Errorf("%w: role %s", apperr.ErrNotFound, id)
	}
	return cloneRole(role), nil
}

func (r *memoryRepo) ListRoles(_ context.Context) ([]*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roles := make([]*Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, cloneRole(role))
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

func (r *memoryRepo) SetRolePermissions(_ context.Context, roleID uuid.UUID, perms []Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return fmt.Errorf("%w: role %s", apperr.ErrNotFound, roleID)
	}
	role.Permissions = append([]Permission(nil), perms...)
	role.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepo) AssignRole(_ context.Context, userID, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.userRoles[userID]; !ok {
		r.userRoles[userID] = make(map[uuid.UUID]struct{})
	}
	r.userRoles[userID][roleID] = struct{}{}
	return nil
}

func (r *memoryRepo) RevokeRole(_ context.Context, userID, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.userRoles[userID], roleID)
	return nil
}

func (r *memoryRepo) PermissionsForUser(_ context.Context, userID uuid.UUID) ([]Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var lists [][]Permission
	for roleID := range r.userRoles[userID] {
		if role, ok := r.roles[roleID]; ok {
			lists = append(lists, role.Permissions)
		}
	}
	return NewCapabilitySet(lists...).Sorted(), nil
}

func cloneRole(role *Role) *Role {
	c := *role
	c.Permissions = append([]Permission(nil), role.Permissions...)
	return &c
}
