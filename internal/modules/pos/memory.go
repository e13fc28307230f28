package pos

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
	mu      sync.Mutex
	byOrder map[uuid.UUID]Transaction
}

// NewMemoryRepository returns a process-local Repository.
func NewMemoryRepository() Repository {
	return &memoryRepo{byOrder: make(map[uuid.UUID]Transaction)}
}

func (r *memoryRepo) Create(_ context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byOrder[tx.OrderID]; dup {
		return fmt.Errorf("%w: order %s already has a transaction", apperr.ErrConflict, tx.OrderID)
	}
	r.byOrder[tx.OrderID] = *tx
	return nil
}

func (r *memoryRepo) GetByOrderID(_ context.Context, shopID, orderID uuid.UUID) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.byOrder[orderID]
	if !ok || tx.ShopID != shopID {
		return nil, fmt.Errorf("%w: no transaction for order %s", apperr.ErrNotFound, orderID)
	}
	return &tx, nil
}

func (r *memoryRepo) ListByShop(_ context.Context, shopID uuid.UUID) ([]*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Transaction
	for _, tx := range r.byOrder {
		if tx.ShopID == shopID {
			tx := tx
			out = append(out, &tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactedAt.After(out[j].TransactedAt) })
	return out, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, shopID, id uuid.UUID, from, to TxStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for orderID, tx := range r.byOrder {
		if tx.ID != id || tx.ShopID != shopID {
			continue
		}
		if tx.Status != from {
			break
		}
		tx.Status, tx.UpdatedAt = to, at
		r.byOrder[orderID] = tx
		return nil
	}
	return fmt.Errorf("%w: transaction %s is no longer %s", apperr.ErrInvalidTransition, id, from)
}
