package pos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Reconciler keeps counter transactions in step with their orders. A refund
// applied through any path marks the order's transaction REFUNDED.
type Reconciler struct {
	repo   Repository
	logger *zap.Logger
}

func NewReconciler(repo Repository, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{repo: repo, logger: logger.Named("pos")}
}

func (r *Reconciler) OrderTransitioned(ctx context.Context, t order.Transition) {
	if t.To != order.StatusRefunded {
		return
	}
	if err := markRefunded(ctx, r.repo, t.ShopID, t.OrderID, t.At); err != nil {
		r.logger.Error("transaction not marked refunded",
			zap.String("order_id", t.OrderID.String()),
			zap.String("order_number", t.OrderNumber),
			zap.Error(err))
	}
}

// markRefunded moves the order's transaction from COMPLETED to REFUNDED.
// Orders without a counter transaction and transactions already refunded
// are left alone.
func markRefunded(ctx context.Context, repo Repository, shopID, orderID uuid.UUID, at time.Time) error {
	tx, err := repo.GetByOrderID(ctx, shopID, orderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if tx.Status != TxCompleted {
		return nil
	}
	err = repo.UpdateStatus(ctx, shopID, tx.ID, TxCompleted, TxRefunded, at)
	if errors.Is(err, apperr.ErrInvalidTransition) {
		return nil
	}
	return err
}
