package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Orders is the part of the order service the counter drives.
type Orders interface {
	GetOrder(ctx context.Context, scope shop.Scope, id uuid.UUID) (*order.Order, error)
	TransitionStatus(ctx context.Context, scope shop.Scope, id uuid.UUID, target order.Status) (*order.Order, error)
}

type Authorizer interface {
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// Receipt is the outcome of a checkout or refund.
type Receipt struct {
	Order       *order.Order `json:"order"`
	Transaction *Transaction `json:"transaction"`
}

// Service settles orders at the counter.
type Service interface {
	// Checkout takes payment for a CREATED order and moves it to PAID. A PAID
	// order with no transaction gets its tender recorded without a transition.
	Checkout(ctx context.Context, scope shop.Scope, orderID uuid.UUID, req CheckoutRequest) (*Receipt, error)
	// Refund moves a checked-out order to REFUNDED and marks its transaction.
	Refund(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*Receipt, error)
	GetTransaction(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, scope shop.Scope) ([]*Transaction, error)
}

type service struct {
	repo   Repository
	orders Orders
	authz  Authorizer
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, orders Orders, authz Authorizer, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, orders: orders, authz: authz, logger: logger.Named("pos"), now: time.Now}
}

// settle works out tendered and change for total. Only cash can be overpaid.
func settle(method PaymentMethod, total decimal.Decimal, tendered *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if tendered == nil {
		return total, decimal.Zero, nil
	}
	if tendered.LessThan(total) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: tendered %s is less than total %s",
			apperr.ErrValidation, tendered.StringFixed(2), total.StringFixed(2))
	}
	if method != PaymentCash && !tendered.Equal(total) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s payments must match the total exactly", apperr.ErrValidation, method)
	}
	return *tendered, tendered.Sub(total), nil
}

func (s *service) Checkout(ctx context.Context, scope shop.Scope, orderID uuid.UUID, req CheckoutRequest) (*Receipt, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod)))
	if !method.valid() {
		return nil, fmt.Errorf("%w: invalid payment_method %q (allowed: CASH, CARD, MOBILE_MONEY, VOUCHER)",
			apperr.ErrValidation, req.PaymentMethod)
	}

	o, err := s.orders.GetOrder(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}
	recording, err := s.recordingOnly(ctx, scope, o)
	if err != nil {
		return nil, err
	}
	tendered, change, err := settle(method, o.Total, req.Tendered)
	if err != nil {
		return nil, err
	}

	paid := o
	if !recording {
		if paid, err = s.orders.TransitionStatus(ctx, scope, orderID, order.StatusPaid); err != nil {
			return nil, err
		}
	}

	at := s.now().UTC()
	tx := &Transaction{
		ID:            uuid.New(),
		ShopID:        scope.ShopID,
		OrderID:       paid.ID,
		CashierID:     scope.UserID,
		PaymentMethod: method,
		Amount:        paid.Total,
		Tendered:      tendered,
		ChangeGiven:   change,
		Currency:      paid.Currency,
		Reference:     strings.TrimSpace(req.Reference),
		Status:        TxCompleted,
		TransactedAt:  at,
		UpdatedAt:     at,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.Error("order paid without a recorded transaction",
			zap.String("order_id", paid.ID.String()),
			zap.String("order_number", paid.OrderNumber),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout completed",
		zap.String("order_number", paid.OrderNumber),
		zap.String("method", string(method)),
		zap.String("amount", paid.Total.StringFixed(2)),
		zap.String("change", change.StringFixed(2)))
	return &Receipt{Order: paid, Transaction: tx}, nil
}

func (s *service) Refund(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*Receipt, error) {
	tx, err := s.GetTransaction(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}

	refunded, err := s.orders.TransitionStatus(ctx, scope, orderID, order.StatusRefunded)
	if errors.Is(err, apperr.ErrInvalidTransition) && tx.Status == TxCompleted {
		// The order may have been refunded while its transaction was left behind.
		current, getErr := s.orders.GetOrder(ctx, scope, orderID)
		if getErr != nil || current.Status != order.StatusRefunded {
			return nil, err
		}
		if authErr := s.authz.Require(ctx, scope.UserID, access.PermOrdersRefund, scope.ShopID); authErr != nil {
			return nil, authErr
		}
		refunded, err = current, nil
	}
	if err != nil {
		return nil, err
	}

	if err := markRefunded(ctx, s.repo, scope.ShopID, orderID, s.now().UTC()); err != nil {
		s.logger.Error("order refunded but transaction not updated",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, err
	}
	if tx, err = s.repo.GetByOrderID(ctx, scope.ShopID, orderID); err != nil {
		return nil, err
	}
	return &Receipt{Order: refunded, Transaction: tx}, nil
}

// recordingOnly reports whether o is already PAID with no counter
// transaction, in which case checkout records the tender without moving the
// order. A paid order that has its transaction cannot be checked out again.
func (s *service) recordingOnly(ctx context.Context, scope shop.Scope, o *order.Order) (bool, error) {
	if o.Status != order.StatusPaid {
		return false, order.ValidateTransition(o.Status, order.StatusPaid)
	}
	_, err := s.repo.GetByOrderID(ctx, scope.ShopID, o.ID)
	switch {
	case err == nil:
		return false, order.ValidateTransition(o.Status, order.StatusPaid)
	case !errors.Is(err, apperr.ErrNotFound):
		return false, err
	}
	if err := s.authz.Require(ctx, scope.UserID, access.PermOrdersPay, scope.ShopID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) GetTransaction(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*Transaction, error) {
	if _, err := s.orders.GetOrder(ctx, scope, orderID); err != nil {
		return nil, err
	}
	return s.repo.GetByOrderID(ctx, scope.ShopID, orderID)
}

func (s *service) ListTransactions(ctx context.Context, scope shop.Scope) ([]*Transaction, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermOrdersView, scope.ShopID); err != nil {
		return nil, err
	}
	return s.repo.ListByShop(ctx, scope.ShopID)
}
