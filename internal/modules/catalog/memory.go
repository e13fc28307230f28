package catalog

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
	mu         sync.RWMutex
	categories map[uuid.UUID]Category
	items      map[uuid.UUID]Item
}

// NewMemoryRepository returns a process-local Repository.
func NewMemoryRepository() Repository {
	return &memoryRepo{
		categories: make(map[uuid.UUID]Category),
		items:      make(map[uuid.UUID]Item),
	}
}

func (r *memoryRepo) CreateCategory(_ context.Context, c *Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.ShopID == c.ShopID && strings.EqualFold(existing.Name, c.Name) {
			return fmt.Errorf("%w: category %q already exists", apperr.ErrConflict, c.Name)
		}
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.categories[c.ID] = *c
	return nil
}

func (r *memoryRepo) GetCategory(_ context.Context, shopID, id uuid.UUID) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok || c.ShopID != shopID {
		return nil, fmt.Errorf("%w: category %s", apperr.ErrNotFound, id)
	}
	return &c, nil
}

func (r *memoryRepo) ListCategories(_ context.Context, shopID uuid.UUID) ([]*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Category
	for _, c := range r.categories {
		if c.ShopID == shopID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) CreateItem(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now
	r.items[it.ID] = *it
	return nil
}

func (r *memoryRepo) GetItem(_ context.Context, shopID, id uuid.UUID) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok || it.ShopID != shopID {
		return nil, fmt.Errorf("%w: item %s", apperr.ErrNotFound, id)
	}
	return &it, nil
}

func (r *memoryRepo) ListItems(_ context.Context, shopID uuid.UUID, f ItemFilter) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Item
	for _, it := range r.items {
		if it.ShopID != shopID {
			continue
		}
		if f.CategoryID != uuid.Nil && it.CategoryID != f.CategoryID {
			continue
		}
		if f.ActiveOnly && !it.IsActive {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) UpdateItem(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[it.ID]
	if !ok || existing.ShopID != it.ShopID {
		return fmt.Errorf("%w: item %s", apperr.ErrNotFound, it.ID)
	}
	it.CreatedAt = existing.CreatedAt
	it.UpdatedAt = time.Now().UTC()
	r.items[it.ID] = *it
	return nil
}
