package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a sale recorded against one shop. Only Status changes after creation.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	ShopID      uuid.UUID       `json:"shop_id"`
	OrderNumber string          `json:"order_number"`
	Status      Status          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	Items       []*OrderItem    `json:"items,omitempty"`
	OrderedAt   time.Time       `json:"ordered_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem is an immutable line. Name and unit price are copied from the
// catalog when the order is placed.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Position  int             `json:"position"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Totals recomputes the order's pricing from its line snapshots.
func (o *Order) Totals() (Totals, error) {
	lines := make([]Line, len(o.Items))
	for i, it := range o.Items {
		lines[i] = Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return ComputeTotals(lines, o.Discount)
}

// clone deep-copies o so stored orders cannot be mutated through returned pointers.
func (o *Order) clone() *Order {
	c := *o
	if o.Items != nil {
		c.Items = make([]*OrderItem, len(o.Items))
		for i, it := range o.Items {
			item := *it
			c.Items[i] = &item
		}
	}
	return &c
}

// LineRequest is one requested line: which catalog item and how many.
type LineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is the payload for POST /orders. ShopID is optional and
// only honoured after it validates for the caller.
type CreateOrderRequest struct {
	ShopID   string          `json:"shop_id,omitempty"`
	Items    []LineRequest   `json:"items"`
	Discount decimal.Decimal `json:"discount"`
	Notes    string          `json:"notes,omitempty"`
}

// TransitionRequest is the payload for POST /orders/{id}/status.
type TransitionRequest struct {
	Status string `json:"status"`
}
