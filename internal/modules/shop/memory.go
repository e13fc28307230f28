package shop

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type memoryRepo struct {
	mu      sync.RWMutex
	shops   map[uuid.UUID]Shop
	members map[uuid.UUID]map[uuid.UUID]Member
}

// NewMemoryRepository returns a process-local Repository for tests and demo mode.
func NewMemoryRepository() Repository {
	return &memoryRepo{
		shops:   make(map[uuid.UUID]Shop),
		members: make(map[uuid.UUID]map[uuid.UUID]Member),
	}
}

func (r *memoryRepo) CreateShop(_ context.Context, s *Shop, owner *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	owner.CreatedAt = now
	r.shops[s.ID] = *s
	r.members[s.ID] = map[uuid.UUID]Member{owner.UserID: *owner}
	return nil
}

func (r *memoryRepo) GetShop(_ context.Context, id uuid.UUID) (*Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shops[id]
	if !ok {
		return nil, fmt.Errorf("%w: shop %s", apperr.ErrNotFound, id)
	}
	return &s, nil
}

func (r *memoryRepo) ListShopsForUser(_ context.Context, userID uuid.UUID) ([]*Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var shops []*Shop
	for id, members := range r.members {
		if _, ok := members[userID]; ok {
			s := r.shops[id]
			shops = append(shops, &s)
		}
	}
	sort.Slice(shops, func(i, j int) bool { return shops[i].Name < shops[j].Name })
	return shops, nil
}

func (r *memoryRepo) AddMember(_ context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shops[m.ShopID]; !ok {
		return fmt.Errorf("%w: shop %s", apperr.ErrNotFound, m.ShopID)
	}
	if _, dup := r.members[m.ShopID][m.UserID]; dup {
		return fmt.Errorf("%w: user %s is already a member", apperr.ErrConflict, m.UserID)
	}
	m.CreatedAt = time.Now().UTC()
	r.members[m.ShopID][m.UserID] = *m
	return nil
}

func (r *memoryRepo) RemoveMember(_ context.Context, shopID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[shopID][userID]; !ok {
		return fmt.Errorf("%w: member %s", apperr.ErrNotFound, userID)
	}
	delete(r.members[shopID], userID)
	return nil
}

func (r *memoryRepo) ListMembers(_ context.Context, shopID uuid.UUID) ([]*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]*Member, 0, len(r.members[shopID]))
	for _, m := range r.members[shopID] {
		m := m
		members = append(members, &m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].CreatedAt.Before(members[j].CreatedAt) })
	return members, nil
}

func (r *memoryRepo) IsMember(_ context.Context, shopID, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shops[shopID]
	if !ok || !s.IsActive {
		return false, nil
	}
	_, member := r.members[shopID][userID]
	return member, nil
}
