package invoice

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
)

// Authorizer is the slice of the permission engine invoices need.
type Authorizer interface {
	Check(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) (access.Decision, error)
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// OrderSource loads an order within a shop.
type OrderSource interface {
	GetOrder(ctx context.Context, shopID, id uuid.UUID) (*order.Order, error)
}

// ShopSource loads the issuing shop for the header.
type ShopSource interface {
	GetShop(ctx context.Context, id uuid.UUID) (*shop.Shop, error)
}

// Workflow gates invoice output. Neither call mutates the order.
type Workflow interface {
	// Print renders the invoice for anyone who may view the order.
	Print(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*View, error)

	// Reprint re-renders an already persisted order and requires orders.print.
	Reprint(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*View, error)

	AuthorizeReprint(ctx context.Context, userID, shopID uuid.UUID) (access.Decision, error)
}

type workflow struct {
	orders OrderSource
	shops  ShopSource
	authz  Authorizer
	logger *zap.Logger
}

func NewWorkflow(orders OrderSource, shops ShopSource, authz Authorizer, logger *zap.Logger) Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &workflow{orders: orders, shops: shops, authz: authz, logger: logger.Named("invoice")}
}

func (w *workflow) Print(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*View, error) {
	if err := w.authz.Require(ctx, scope.UserID, access.PermOrdersView, scope.ShopID); err != nil {
		return nil, err
	}
	return w.render(ctx, scope, orderID)
}

func (w *workflow) Reprint(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*View, error) {
	if err := w.authz.Require(ctx, scope.UserID, access.PermOrdersPrint, scope.ShopID); err != nil {
		return nil, err
	}
	v, err := w.render(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}
	w.logger.Info("invoice reprinted",
		zap.String("invoice_number", v.InvoiceNumber),
		zap.String("shop_id", scope.ShopID.String()),
		zap.String("user_id", scope.UserID.String()))
	return v, nil
}

func (w *workflow) AuthorizeReprint(ctx context.Context, userID, shopID uuid.UUID) (access.Decision, error) {
	return w.authz.Check(ctx, userID, access.PermOrdersPrint, shopID)
}

func (w *workflow) render(ctx context.Context, scope shop.Scope, orderID uuid.UUID) (*View, error) {
	o, err := w.orders.GetOrder(ctx, scope.ShopID, orderID)
	if err != nil {
		return nil, err
	}
	s, err := w.shops.GetShop(ctx, o.ShopID)
	if err != nil {
		return nil, err
	}
	v := Render(s, o)
	return &v, nil
}
