package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money is an invoice amount. It always renders with two decimal places.
type Money struct{ decimal.Decimal }

func money(d decimal.Decimal) Money { return Money{d} }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// Header identifies the issuing shop.
type Header struct {
	ShopID   uuid.UUID `json:"shop_id"`
	ShopName string    `json:"shop_name"`
	ShopType string    `json:"shop_type"`
}

// LineItem represents a single line on an invoice.
type LineItem struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unit_price"`
	Amount      Money  `json:"amount"`
}

// View is the printable projection of an order. It is never stored.
type View struct {
	InvoiceNumber string     `json:"invoice_number"`
	OrderID       uuid.UUID  `json:"order_id"`
	Header        Header     `json:"header"`
	Lines         []LineItem `json:"lines"`
	Subtotal      Money      `json:"subtotal"`
	Discount      Money      `json:"discount"`
	FinalAmount   Money      `json:"final_amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	OrderedAt     time.Time  `json:"ordered_at"`
}
