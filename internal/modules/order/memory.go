package order

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
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order
}

// NewMemoryRepository returns a process-local Repository. Status swaps are
// serialised by the repository mutex.
func NewMemoryRepository() Repository {
	return &memoryRepo{orders: make(map[uuid.UUID]*Order)}
}

func (r *memoryRepo) CreateOrder(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.orders[o.ID]; dup {
		return fmt.Errorf("%w: order %s", apperr.ErrConflict, o.ID)
	}
	r.orders[o.ID] = o.clone()
	return nil
}

func (r *memoryRepo) GetOrder(_ context.Context, shopID, id uuid.UUID) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok || o.ShopID != shopID {
		return nil, fmt.Errorf("%w: order", apperr.ErrNotFound)
	}
	return o.clone(), nil
}

func (r *memoryRepo) GetOrderByNumber(_ context.Context, shopID uuid.UUID, number string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ShopID == shopID && o.OrderNumber == number {
			return o.clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: order", apperr.ErrNotFound)
}

func (r *memoryRepo) ListOrders(_ context.Context, shopID uuid.UUID, status Status) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Order
	for _, o := range r.orders {
		if o.ShopID != shopID || (status != "" && o.Status != status) {
			continue
		}
		c := o.clone()
		c.Items = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderedAt.After(out[j].OrderedAt) })
	return out, nil
}

func (r *memoryRepo) CompareAndSwapStatus(_ context.Context, shopID, id uuid.UUID, from, to Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.ShopID != shopID {
		return fmt.Errorf("%w: order", apperr.ErrNotFound)
	}
	if o.Status != from {
		return fmt.Errorf("%w: order is no longer %s", apperr.ErrInvalidTransition, from)
	}
	o.Status = to
	o.UpdatedAt = at
	return nil
}
