package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores stock levels and their movement history.
type Repository interface {
	// SetLevel starts tracking an item or overwrites its level, recording the
	// difference as an adjustment movement.
	SetLevel(ctx context.Context, level *StockLevel, actorID uuid.UUID) (*Movement, error)
	GetLevel(ctx context.Context, shopID, itemID uuid.UUID) (*StockLevel, error)
	ListLevels(ctx context.Context, shopID uuid.UUID) ([]*StockLevel, error)
	// ApplyMovements adds each delta to its item's level in one transaction.
	// Movements for untracked items are dropped. Applied movements are returned
	// with their resulting balance.
	ApplyMovements(ctx context.Context, moves []*Movement) ([]*Movement, error)
	ListMovements(ctx context.Context, shopID, itemID uuid.UUID) ([]*Movement, error)
}
