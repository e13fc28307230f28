package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/catalog"
	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type counterFixture struct {
	access  access.Repository
	shops   shop.Repository
	txs     Repository
	orders  order.Service
	service Service
	shopID  uuid.UUID
	item    *catalog.Item
}

func newCounterFixture(t *testing.T) *counterFixture {
	t.Helper()
	ctx := context.Background()
	f := &counterFixture{
		access: access.NewMemoryRepository(),
		shops:  shop.NewMemoryRepository(),
		txs:    NewMemoryRepository(),
	}
	items := catalog.NewMemoryRepository()
	authz := access.NewService(f.access, f.shops, zap.NewNop())
	shops := shop.NewService(f.shops, authz, zap.NewNop())

	s, err := shops.CreateShop(ctx, uuid.New(), shop.CreateShopRequest{Name: "Counter", Type: "RETAIL"})
	require.NoError(t, err)
	f.shopID = s.ID

	cat := &catalog.Category{ID: uuid.New(), ShopID: f.shopID, Name: "Printing"}
	require.NoError(t, items.CreateCategory(ctx, cat))
	f.item = &catalog.Item{
		ID:         uuid.New(),
		ShopID:     f.shopID,
		CategoryID: cat.ID,
		Name:       "Poster",
		Price:      decimal.RequireFromString("42.50"),
		IsActive:   true,
	}
	require.NoError(t, items.CreateItem(ctx, f.item))

	f.orders = order.NewService(order.NewMemoryRepository(), items, shops, authz,
		order.WithObserver(NewReconciler(f.txs, zap.NewNop())))
	f.service = NewService(f.txs, f.orders, authz, zap.NewNop())
	return f
}

func (f *counterFixture) member(t *testing.T, perms ...access.Permission) shop.Scope {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	role := &access.Role{ID: uuid.New(), Name: "role-" + userID.String(), Permissions: perms}
	require.NoError(t, f.access.CreateRole(ctx, role))
	require.NoError(t, f.access.AssignRole(ctx, userID, role.ID))
	require.NoError(t, f.shops.AddMember(ctx, &shop.Member{ShopID: f.shopID, UserID: userID}))
	return shop.Scope{UserID: userID, ShopID: f.shopID}
}

func (f *counterFixture) newOrder(t *testing.T, scope shop.Scope) *order.Order {
	t.Helper()
	o, err := f.orders.CreateOrder(context.Background(), scope, order.CreateOrderRequest{
		Items: []order.LineRequest{{ItemID: f.item.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	return o
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCheckoutCashGivesChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCounterFixture(t)
	cashier := f.member(t, access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay)
	o := f.newOrder(t, cashier)

	receipt, err := f.service.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "cash", Tendered: money("100.00")})
	require.NoError(t, err)
	require.Equal(t, order.StatusPaid, receipt.Order.Status)
	require.Equal(t, PaymentCash, receipt.Transaction.PaymentMethod)
	require.Equal(t, "85.00", receipt.Transaction.Amount.StringFixed(2))
	require.Equal(t, "15.00", receipt.Transaction.ChangeGiven.StringFixed(2))
	require.Equal(t, cashier.UserID, receipt.Transaction.CashierID)

	_, err = f.service.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "CARD"})
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition), "an order is paid once")

	txs, err := f.service.ListTransactions(ctx, cashier)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestCheckoutValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCounterFixture(t)
	cashier := f.member(t, access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay)
	viewer := f.member(t, access.PermOrdersView)

	cases := []struct {
		name  string
		scope shop.Scope
		req   CheckoutRequest
		want  error
	}{
		{"unknown method", cashier, CheckoutRequest{PaymentMethod: "CHEQUE"}, apperr.ErrValidation},
		{"cash short", cashier, CheckoutRequest{PaymentMethod: "CASH", Tendered: money("50.00")}, apperr.ErrValidation},
		{"card overpaid", cashier, CheckoutRequest{PaymentMethod: "CARD", Tendered: money("90.00")}, apperr.ErrValidation},
		{"no pay permission", viewer, CheckoutRequest{PaymentMethod: "CARD"}, apperr.ErrDenied},
	}
	for _, tc := range cases {
		o := f.newOrder(t, cashier)
		_, err := f.service.Checkout(ctx, tc.scope, o.ID, tc.req)
		require.True(t, errors.Is(err, tc.want), "%s: got %v", tc.name, err)

		stored, err := f.orders.GetOrder(ctx, cashier, o.ID)
		require.NoError(t, err)
		require.Equal(t, order.StatusCreated, stored.Status, "%s: rejected checkout must not pay", tc.name)
	}

	_, err := f.service.Checkout(ctx, cashier, uuid.New(), CheckoutRequest{PaymentMethod: "CARD"})
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRefundCheckedOutOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCounterFixture(t)
	cashier := f.member(t, access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay)
	manager := f.member(t, access.PermOrdersView, access.PermOrdersRefund)

	o := f.newOrder(t, cashier)
	_, err := f.service.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "MOBILE_MONEY", Reference: "MM-2291"})
	require.NoError(t, err)

	_, err = f.service.Refund(ctx, cashier, o.ID)
	require.True(t, errors.Is(err, apperr.ErrDenied))

	receipt, err := f.service.Refund(ctx, manager, o.ID)
	require.NoError(t, err)
	require.Equal(t, order.StatusRefunded, receipt.Order.Status)
	require.Equal(t, TxRefunded, receipt.Transaction.Status)
	require.Equal(t, "MM-2291", receipt.Transaction.Reference)

	_, err = f.service.Refund(ctx, manager, o.ID)
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	// Orders paid through the status endpoint have no counter transaction.
	direct := f.newOrder(t, cashier)
	_, err = f.orders.TransitionStatus(ctx, cashier, direct.ID, order.StatusPaid)
	require.NoError(t, err)
	_, err = f.service.Refund(ctx, manager, direct.ID)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRefundThroughOrderStatusMarksTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCounterFixture(t)
	cashier := f.member(t, access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay)
	manager := f.member(t, access.PermOrdersView, access.PermOrdersRefund)

	o := f.newOrder(t, cashier)
	_, err := f.service.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "CASH", Tendered: money("85.00")})
	require.NoError(t, err)

	refunded, err := f.orders.TransitionStatus(ctx, manager, o.ID, order.StatusRefunded)
	require.NoError(t, err)
	require.Equal(t, order.StatusRefunded, refunded.Status)

	tx, err := f.service.GetTransaction(ctx, manager, o.ID)
	require.NoError(t, err)
	require.Equal(t, TxRefunded, tx.Status)

	_, err = f.service.Refund(ctx, manager, o.ID)
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestRefundRepairsTransactionLeftCompleted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCounterFixture(t)
	cashier := f.member(t, access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay)
	manager := f.member(t, access.PermOrdersView, access.PermOrdersRefund)

	o := f.newOrder(t, cashier)
	receipt, err := f.service.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "CARD"})
	require.NoError(t, err)
	_, err = f.orders.TransitionStatus(ctx, manager, o.ID, order.StatusRefunded)
	require.NoError(t, err)

	// Put the transaction back as if the refund had not reached it.
	at := receipt.Transaction.UpdatedAt
	require.NoError(t, f.txs.UpdateStatus(ctx, f.shopID, receipt.Transaction.ID, TxRefunded, TxCompleted, at))

	_, err = f.service.Refund(ctx, cashier, o.ID)
	require.True(t, errors.Is(err, apperr.ErrDenied))

	repaired, err := f.service.Refund(ctx, manager, o.ID)
	require.NoError(t, err)
	require.Equal(t, order.StatusRefunded, repaired.Order.Status)
	require.Equal(t, TxRefunded, repaired.Transaction.Status)
}

// flakyRepo fails the first Create after the order has already been paid.
type flakyRepo struct {
	Repository
	failures int
}

func (r *flakyRepo) Create(ctx context.Context, tx *Transaction) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	return r.Repository.Create(ctx, tx)
}

func TestCheckoutRecordsPaidOrderWithoutTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCounterFixture(t)
	cashier := f.member(t, access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay)
	viewer := f.member(t, access.PermOrdersView)
	flaky := NewService(&flakyRepo{Repository: f.txs, failures: 1}, f.orders, access.NewService(f.access, f.shops, nil), nil)

	o := f.newOrder(t, cashier)
	_, err := flaky.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "CASH", Tendered: money("100.00")})
	require.Error(t, err)
	stored, err := f.orders.GetOrder(ctx, cashier, o.ID)
	require.NoError(t, err)
	require.Equal(t, order.StatusPaid, stored.Status)

	_, err = flaky.Checkout(ctx, viewer, o.ID, CheckoutRequest{PaymentMethod: "CASH", Tendered: money("100.00")})
	require.True(t, errors.Is(err, apperr.ErrDenied))

	receipt, err := flaky.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "CASH", Tendered: money("100.00")})
	require.NoError(t, err)
	require.Equal(t, order.StatusPaid, receipt.Order.Status)
	require.Equal(t, "15.00", receipt.Transaction.ChangeGiven.StringFixed(2))

	_, err = flaky.Checkout(ctx, cashier, o.ID, CheckoutRequest{PaymentMethod: "CARD"})
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	txs, err := f.service.ListTransactions(ctx, cashier)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}
