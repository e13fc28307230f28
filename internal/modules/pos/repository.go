package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines data access for counter transactions.
type Repository interface {
	// Create returns apperr.ErrConflict if the order already has a transaction.
	Create(ctx context.Context, tx *Transaction) error
	GetByOrderID(ctx context.Context, shopID, orderID uuid.UUID) (*Transaction, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Transaction, error)
	// UpdateStatus moves a transaction from one status to another, failing
	// with apperr.ErrInvalidTransition if it is no longer in from.
	UpdateStatus(ctx context.Context, shopID, id uuid.UUID, from, to TxStatus, at time.Time) error
}
