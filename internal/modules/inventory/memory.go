package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type levelKey struct{ shop, item uuid.UUID }

type memoryRepo struct {
	mu        sync.RWMutex
	levels    map[levelKey]StockLevel
	movements map[levelKey][]Movement
}

// NewMemoryRepository returns a process-local Repository.
func NewMemoryRepository() Repository {
	return &memoryRepo{
		levels:    make(map[levelKey]StockLevel),
		movements: make(map[levelKey][]Movement),
	}
}

func (r *memoryRepo) SetLevel(_ context.Context, level *StockLevel, actorID uuid.UUID) (*Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := levelKey{level.ShopID, level.ItemID}
	previous := r.levels[key].Quantity

	now := time.Now().UTC()
	level.UpdatedAt = now
	r.levels[key] = *level

	m := Movement{
		ID:        uuid.New(),
		ShopID:    level.ShopID,
		ItemID:    level.ItemID,
		ActorID:   actorID,
		Delta:     level.Quantity - previous,
		Balance:   level.Quantity,
		Reason:    ReasonAdjustment,
		CreatedAt: now,
	}
	r.movements[key] = append(r.movements[key], m)
	return &m, nil
}

func (r *memoryRepo) GetLevel(_ context.Context, shopID, itemID uuid.UUID) (*StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.levels[levelKey{shopID, itemID}]
	if !ok {
		return nil, fmt.Errorf("%w: item %s is not stock tracked", apperr.ErrNotFound, itemID)
	}
	return &l, nil
}

func (r *memoryRepo) ListLevels(_ context.Context, shopID uuid.UUID) ([]*StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*StockLevel
	for key, l := range r.levels {
		if key.shop == shopID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID.String() < out[j].ItemID.String() })
	return out, nil
}

func (r *memoryRepo) ApplyMovements(_ context.Context, moves []*Movement) ([]*Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var applied []*Movement
	for _, m := range moves {
		key := levelKey{m.ShopID, m.ItemID}
		l, ok := r.levels[key]
		if !ok {
			continue
		}
		l.Quantity += m.Delta
		l.UpdatedAt = now
		r.levels[key] = l

		m.Balance, m.CreatedAt = l.Quantity, now
		r.movements[key] = append(r.movements[key], *m)
		applied = append(applied, m)
	}
	return applied, nil
}

func (r *memoryRepo) ListMovements(_ context.Context, shopID, itemID uuid.UUID) ([]*Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history := r.movements[levelKey{shopID, itemID}]
	out := make([]*Movement, len(history))
	for i := range history {
		m := history[i]
		out[i] = &m
	}
	return out, nil
}
