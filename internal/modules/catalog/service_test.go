package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// grants is a static Authorizer keyed by user.
type grants map[uuid.UUID]access.CapabilitySet

func (g grants) Check(_ context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) (access.Decision, error) {
	return access.Decide(g[userID], perm, access.Scope{ShopID: shopID, Member: true}), nil
}

func (g grants) Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error {
	d, _ := g.Check(ctx, userID, perm, shopID)
	if d != access.Allowed {
		return apperr.ErrDenied
	}
	return nil
}

type catalogFixture struct {
	svc     Service
	manager shop.Scope
	cashier shop.Scope
	nobody  shop.Scope
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()
	shopID := uuid.New()
	f := catalogFixture{
		manager: shop.Scope{UserID: uuid.New(), ShopID: shopID},
		cashier: shop.Scope{UserID: uuid.New(), ShopID: shopID},
		nobody:  shop.Scope{UserID: uuid.New(), ShopID: shopID},
	}
	g := grants{
		f.manager.UserID: access.NewCapabilitySet([]access.Permission{access.PermCatalogManage}),
		f.cashier.UserID: access.NewCapabilitySet([]access.Permission{access.PermOrdersCreate}),
	}
	f.svc = NewService(NewMemoryRepository(), g)
	return f
}

func TestCategoryNamesAreUniquePerShop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	_, err := f.svc.CreateCategory(ctx, f.manager, CreateCategoryRequest{Name: "Printing"})
	require.NoError(t, err)

	_, err = f.svc.CreateCategory(ctx, f.manager, CreateCategoryRequest{Name: "printing"})
	require.True(t, errors.Is(err, apperr.ErrConflict))

	other := shop.Scope{UserID: f.manager.UserID, ShopID: uuid.New()}
	_, err = f.svc.CreateCategory(ctx, other, CreateCategoryRequest{Name: "Printing"})
	require.NoError(t, err)

	_, err = f.svc.CreateCategory(ctx, f.cashier, CreateCategoryRequest{Name: "Binding"})
	require.True(t, errors.Is(err, apperr.ErrDenied))

	_, err = f.svc.CreateCategory(ctx, shop.Scope{UserID: f.manager.UserID}, CreateCategoryRequest{Name: "Binding"})
	require.True(t, errors.Is(err, apperr.ErrDenied))
}

func TestCreateAndUpdateItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)

	cat, err := f.svc.CreateCategory(ctx, f.manager, CreateCategoryRequest{Name: "Copies"})
	require.NoError(t, err)

	it, err := f.svc.CreateItem(ctx, f.manager, ItemRequest{
		CategoryID: cat.ID.String(),
		Name:       "A4 colour",
		Price:      decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)
	require.True(t, it.IsActive)
	require.Equal(t, "2.5", it.Price.String())

	inactive := false
	it, err = f.svc.UpdateItem(ctx, f.manager, it.ID, ItemRequest{
		CategoryID: cat.ID.String(),
		Name:       "A4 colour",
		Price:      decimal.RequireFromString("3.00"),
		IsActive:   &inactive,
	})
	require.NoError(t, err)
	require.True(t, it.Price.Equal(decimal.NewFromInt(3)))
	require.False(t, it.IsActive)

	active, err := f.svc.ListItems(ctx, f.cashier, ItemFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := f.svc.ListItems(ctx, f.cashier, ItemFilter{CategoryID: cat.ID})
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = f.svc.ListItems(ctx, f.nobody, ItemFilter{})
	require.True(t, errors.Is(err, apperr.ErrDenied))
}

func TestItemValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)
	cat, err := f.svc.CreateCategory(ctx, f.manager, CreateCategoryRequest{Name: "Services"})
	require.NoError(t, err)

	foreign := shop.Scope{UserID: f.manager.UserID, ShopID: uuid.New()}
	foreignCat, err := f.svc.CreateCategory(ctx, foreign, CreateCategoryRequest{Name: "Elsewhere"})
	require.NoError(t, err)

	cases := []struct {
		name string
		req  ItemRequest
		want error
	}{
		{"missing name", ItemRequest{CategoryID: cat.ID.String(), Price: decimal.NewFromInt(1)}, apperr.ErrValidation},
		{"negative price", ItemRequest{CategoryID: cat.ID.String(), Name: "x", Price: decimal.NewFromInt(-1)}, apperr.ErrValidation},
		{"sub-cent price", ItemRequest{CategoryID: cat.ID.String(), Name: "x", Price: decimal.RequireFromString("1.005")}, apperr.ErrValidation},
		{"bad category id", ItemRequest{CategoryID: "nope", Name: "x", Price: decimal.NewFromInt(1)}, apperr.ErrValidation},
		{"category of another shop", ItemRequest{CategoryID: foreignCat.ID.String(), Name: "x", Price: decimal.NewFromInt(1)}, apperr.ErrNotFound},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateItem(ctx, f.manager, tc.req)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestGetItemIsShopScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newCatalogFixture(t)
	cat, err := f.svc.CreateCategory(ctx, f.manager, CreateCategoryRequest{Name: "Food"})
	require.NoError(t, err)
	it, err := f.svc.CreateItem(ctx, f.manager, ItemRequest{CategoryID: cat.ID.String(), Name: "Pie", Price: decimal.NewFromInt(4)})
	require.NoError(t, err)

	got, err := f.svc.GetItem(ctx, f.cashier, it.ID)
	require.NoError(t, err)
	require.Equal(t, "Pie", got.Name)

	_, err = f.svc.GetItem(ctx, shop.Scope{UserID: f.cashier.UserID, ShopID: uuid.New()}, it.ID)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}
