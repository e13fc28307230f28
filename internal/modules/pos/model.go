package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an order was settled at the counter.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentCard        PaymentMethod = "CARD"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentVoucher     PaymentMethod = "VOUCHER"
)

func (m PaymentMethod) valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentVoucher:
		return true
	}
	return false
}

// TxStatus represents the state of a counter transaction.
type TxStatus string

const (
	TxCompleted TxStatus = "COMPLETED"
	TxRefunded  TxStatus = "REFUNDED"
)

// Transaction records how an order was paid. Each order has at most one.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	ShopID        uuid.UUID       `json:"shop_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	CashierID     uuid.UUID       `json:"cashier_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Tendered      decimal.Decimal `json:"tendered"`
	ChangeGiven   decimal.Decimal `json:"change_given"`
	Currency      string          `json:"currency"`
	Reference     string          `json:"reference,omitempty"`
	Status        TxStatus        `json:"status"`
	TransactedAt  time.Time       `json:"transacted_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CheckoutRequest is the payload for POST /pos/orders/{order_id}/checkout.
// Tendered defaults to the order total; only cash may exceed it.
type CheckoutRequest struct {
	PaymentMethod string           `json:"payment_method"`
	Tendered      *decimal.Decimal `json:"tendered,omitempty"`
	Reference     string           `json:"reference,omitempty"`
}
