package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Reason classifies a stock movement.
type Reason string

const (
	ReasonAdjustment Reason = "ADJUSTMENT"
	ReasonSale       Reason = "SALE"
	ReasonRefund     Reason = "REFUND"
)

// StockLevel is the on-hand quantity of a tracked catalog item. Items without
// a level are untracked (services, made-to-order work) and never move.
type StockLevel struct {
	ShopID    uuid.UUID `json:"shop_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Movement is one entry in an item's stock history.
type Movement struct {
	ID        uuid.UUID `json:"id"`
	ShopID    uuid.UUID `json:"shop_id"`
	ItemID    uuid.UUID `json:"item_id"`
	OrderID   uuid.UUID `json:"order_id,omitempty"`
	ActorID   uuid.UUID `json:"actor_id"`
	Delta     int       `json:"delta"`
	Balance   int       `json:"balance"`
	Reason    Reason    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// SetStockRequest is the payload for PUT /inventory/{item_id}.
type SetStockRequest struct {
	Quantity *int `json:"quantity"`
}
