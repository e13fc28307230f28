package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/order"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

type invoiceFixture struct {
	workflow Workflow
	orders   order.Repository
	access   access.Repository
	shops    shop.Repository
	shop     *shop.Shop
	order    *order.Order
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	ctx := context.Background()
	f := &invoiceFixture{
		orders: order.NewMemoryRepository(),
		access: access.NewMemoryRepository(),
		shops:  shop.NewMemoryRepository(),
	}
	f.shop = &shop.Shop{ID: uuid.New(), Name: "Copy Corner", Type: shop.TypePrint, IsActive: true}
	require.NoError(t, f.shops.CreateShop(ctx, f.shop, &shop.Member{ShopID: f.shop.ID, UserID: uuid.New(), Title: "OWNER"}))

	orderID := uuid.New()
	f.order = &order.Order{
		ID:          orderID,
		ShopID:      f.shop.ID,
		OrderNumber: "ORD-01J0000000000000000000000",
		Status:      order.StatusPaid,
		Subtotal:    decimal.RequireFromString("25.00"),
		Discount:    decimal.RequireFromString("3.00"),
		Total:       decimal.RequireFromString("22.00"),
		Currency:    "ZMW",
		OrderedAt:   time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC),
		Items: []*order.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ItemID: uuid.New(), ItemName: "Binding", Position: 1, Quantity: 2,
				UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("20.00")},
			{ID: uuid.New(), OrderID: orderID, ItemID: uuid.New(), ItemName: "Lamination", Position: 2, Quantity: 1,
				UnitPrice: decimal.RequireFromString("5.00"), LineTotal: decimal.RequireFromString("5.00")},
		},
	}
	require.NoError(t, f.orders.CreateOrder(ctx, f.order))

	authz := access.NewService(f.access, f.shops, nil)
	f.workflow = NewWorkflow(f.orders, f.shops, authz, nil)
	return f
}

func (f *invoiceFixture) member(t *testing.T, perms ...access.Permission) shop.Scope {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	role := &access.Role{ID: uuid.New(), Name: "role-" + userID.String(), Permissions: perms}
	require.NoError(t, f.access.CreateRole(ctx, role))
	require.NoError(t, f.access.AssignRole(ctx, userID, role.ID))
	require.NoError(t, f.shops.AddMember(ctx, &shop.Member{ShopID: f.shop.ID, UserID: userID}))
	return shop.Scope{UserID: userID, ShopID: f.shop.ID}
}

func TestRender(t *testing.T) {
	t.Parallel()
	f := newInvoiceFixture(t)

	v := Render(f.shop, f.order)
	require.Equal(t, f.order.OrderNumber, v.InvoiceNumber)
	require.Equal(t, "Copy Corner", v.Header.ShopName)
	require.Equal(t, "PRINT", v.Header.ShopType)
	require.Len(t, v.Lines, 2)
	require.Equal(t, "Binding", v.Lines[0].Description)
	require.Equal(t, "Lamination", v.Lines[1].Description)
	require.Equal(t, "25.00", v.Subtotal.StringFixed(2))
	require.Equal(t, "3.00", v.Discount.StringFixed(2))
	require.Equal(t, "22.00", v.FinalAmount.StringFixed(2))
	require.Equal(t, "PAID", v.Status)
	require.Equal(t, f.order.OrderedAt, v.OrderedAt)
}

func TestViewAmountsKeepTwoPlaces(t *testing.T) {
	t.Parallel()
	f := newInvoiceFixture(t)

	raw, err := json.Marshal(Render(f.shop, f.order))
	require.NoError(t, err)

	var got struct {
		Lines []struct {
			UnitPrice string `json:"unit_price"`
			Amount    string `json:"amount"`
		} `json:"lines"`
		Subtotal    string `json:"subtotal"`
		Discount    string `json:"discount"`
		FinalAmount string `json:"final_amount"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, "25.00", got.Subtotal)
	require.Equal(t, "3.00", got.Discount)
	require.Equal(t, "22.00", got.FinalAmount)
	require.Equal(t, "10.00", got.Lines[0].UnitPrice)
	require.Equal(t, "20.00", got.Lines[0].Amount)
	require.Equal(t, "5.00", got.Lines[1].Amount)
}

func TestReprintIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvoiceFixture(t)
	printer := f.member(t, access.PermOrdersPrint)

	before, err := f.orders.GetOrder(ctx, f.shop.ID, f.order.ID)
	require.NoError(t, err)

	first, err := f.workflow.Reprint(ctx, printer, f.order.ID)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := f.workflow.Reprint(ctx, printer, f.order.ID)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	after, err := f.orders.GetOrder(ctx, f.shop.ID, f.order.ID)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestPrintOnlyRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvoiceFixture(t)
	printer := f.member(t, access.PermOrdersPrint)
	viewer := f.member(t, access.PermOrdersView)

	d, err := f.workflow.AuthorizeReprint(ctx, printer.UserID, printer.ShopID)
	require.NoError(t, err)
	require.Equal(t, access.Allowed, d)

	d, err = f.workflow.AuthorizeReprint(ctx, viewer.UserID, viewer.ShopID)
	require.NoError(t, err)
	require.Equal(t, access.Denied, d)

	_, err = f.workflow.Reprint(ctx, viewer, f.order.ID)
	require.True(t, errors.Is(err, apperr.ErrDenied))

	_, err = f.workflow.Print(ctx, printer, f.order.ID)
	require.True(t, errors.Is(err, apperr.ErrDenied))

	v, err := f.workflow.Print(ctx, viewer, f.order.ID)
	require.NoError(t, err)
	require.Equal(t, f.order.OrderNumber, v.InvoiceNumber)
}

func TestInvoiceOfAnotherShopIsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newInvoiceFixture(t)

	other := &shop.Shop{ID: uuid.New(), Name: "Elsewhere", Type: shop.TypeRetail, IsActive: true}
	userID := uuid.New()
	require.NoError(t, f.shops.CreateShop(ctx, other, &shop.Member{ShopID: other.ID, UserID: userID}))
	role := &access.Role{ID: uuid.New(), Name: "all", Permissions: []access.Permission{access.PermOrdersView, access.PermOrdersPrint}}
	require.NoError(t, f.access.CreateRole(ctx, role))
	require.NoError(t, f.access.AssignRole(ctx, userID, role.ID))

	_, err := f.workflow.Reprint(ctx, shop.Scope{UserID: userID, ShopID: other.ID}, f.order.ID)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestInvoiceEndpoints(t *testing.T) {
	t.Parallel()
	f := newInvoiceFixture(t)
	printer := f.member(t, access.PermOrdersPrint)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shop.WithScope(req.Context(), printer)))
		})
	})
	NewHandler(f.workflow).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/"+f.order.ID.String()+"/invoice/reprint", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), f.order.OrderNumber)
	require.Contains(t, rec.Body.String(), `"final_amount":"22.00"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+f.order.ID.String()+"/invoice", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
