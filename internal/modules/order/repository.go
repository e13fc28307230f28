package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines data access for orders. Reads are always keyed by shop;
// an order of another shop is reported as apperr.ErrNotFound.
type Repository interface {
	// CreateOrder persists the order header and all its items atomically.
	CreateOrder(ctx context.Context, o *Order) error

	GetOrder(ctx context.Context, shopID, id uuid.UUID) (*Order, error)
	GetOrderByNumber(ctx context.Context, shopID uuid.UUID, number string) (*Order, error)

	// ListOrders returns the shop's orders newest first, without items. An empty status matches all.
	ListOrders(ctx context.Context, shopID uuid.UUID, status Status) ([]*Order, error)

	// CompareAndSwapStatus sets the status to `to` only if it is currently `from`,
	// atomically with the write. It returns apperr.ErrInvalidTransition when the
	// stored status no longer matches.
	CompareAndSwapStatus(ctx context.Context, shopID, id uuid.UUID, from, to Status, at time.Time) error
}
