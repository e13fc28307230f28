package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
)

// Ledger moves stock when orders are paid or refunded. Stock is taken at
// payment, so cancelling an unpaid order has nothing to return.
type Ledger struct {
	repo   Repository
	logger *zap.Logger
}

func NewLedger(repo Repository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{repo: repo, logger: logger.Named("inventory")}
}

// OrderTransitioned applies the stock movements for t. The status change is
// already committed, so failures are logged rather than returned.
func (l *Ledger) OrderTransitioned(ctx context.Context, t order.Transition) {
	moves := Movements(t)
	if len(moves) == 0 {
		return
	}
	applied, err := l.repo.ApplyMovements(ctx, moves)
	if err != nil {
		l.logger.Error("stock movement failed",
			zap.String("order_id", t.OrderID.String()),
			zap.String("to", string(t.To)),
			zap.Error(err))
		return
	}
	for _, m := range applied {
		if m.Balance < 0 {
			l.logger.Warn("stock below zero",
				zap.String("shop_id", m.ShopID.String()),
				zap.String("item_id", m.ItemID.String()),
				zap.Int("balance", m.Balance))
		}
	}
}

// Movements derives one movement per distinct item on the order, in line
// order. Transitions that do not touch stock yield none.
func Movements(t order.Transition) []*Movement {
	var (
		sign   int
		reason Reason
	)
	switch t.To {
	case order.StatusPaid:
		sign, reason = -1, ReasonSale
	case order.StatusRefunded:
		sign, reason = 1, ReasonRefund
	default:
		return nil
	}

	byItem := make(map[uuid.UUID]*Movement, len(t.Items))
	var out []*Movement
	for _, it := range t.Items {
		if m, ok := byItem[it.ItemID]; ok {
			m.Delta += sign * it.Quantity
			continue
		}
		m := &Movement{
			ID:      uuid.New(),
			ShopID:  t.ShopID,
			ItemID:  it.ItemID,
			OrderID: t.OrderID,
			ActorID: t.ActorID,
			Delta:   sign * it.Quantity,
			Reason:  reason,
		}
		byItem[it.ItemID] = m
		out = append(out, m)
	}
	return out
}
