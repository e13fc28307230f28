package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/catalog"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Authorizer is the slice of the permission engine stock management needs.
type Authorizer interface {
	Check(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) (access.Decision, error)
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// ItemSource resolves catalog items within a shop.
type ItemSource interface {
	GetItem(ctx context.Context, shopID, id uuid.UUID) (*catalog.Item, error)
}

// Service manages stock levels for the active shop.
type Service interface {
	SetStock(ctx context.Context, scope shop.Scope, itemID uuid.UUID, req SetStockRequest) (*StockLevel, error)
	GetStock(ctx context.Context, scope shop.Scope, itemID uuid.UUID) (*StockLevel, error)
	ListStock(ctx context.Context, scope shop.Scope) ([]*StockLevel, error)
	ListMovements(ctx context.Context, scope shop.Scope, itemID uuid.UUID) ([]*Movement, error)
}

type service struct {
	repo  Repository
	items ItemSource
	authz Authorizer
}

func NewService(repo Repository, items ItemSource, authz Authorizer) Service {
	return &service{repo: repo, items: items, authz: authz}
}

func (s *service) canRead(ctx context.Context, scope shop.Scope) error {
	for _, perm := range []access.Permission{access.PermCatalogManage, access.PermOrdersView} {
		d, err := s.authz.Check(ctx, scope.UserID, perm, scope.ShopID)
		if err != nil {
			return err
		}
		if d == access.Allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: stock read", apperr.ErrDenied)
}

func (s *service) SetStock(ctx context.Context, scope shop.Scope, itemID uuid.UUID, req SetStockRequest) (*StockLevel, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermCatalogManage, scope.ShopID); err != nil {
		return nil, err
	}
	if req.Quantity == nil {
		return nil, fmt.Errorf("%w: quantity is required", apperr.ErrValidation)
	}
	if *req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", apperr.ErrValidation)
	}
	if _, err := s.items.GetItem(ctx, scope.ShopID, itemID); err != nil {
		return nil, err
	}

	level := &StockLevel{ShopID: scope.ShopID, ItemID: itemID, Quantity: *req.Quantity}
	if _, err := s.repo.SetLevel(ctx, level, scope.UserID); err != nil {
		return nil, err
	}
	return level, nil
}

func (s *service) GetStock(ctx context.Context, scope shop.Scope, itemID uuid.UUID) (*StockLevel, error) {
	if err := s.canRead(ctx, scope); err != nil {
		return nil, err
	}
	return s.repo.GetLevel(ctx, scope.ShopID, itemID)
}

func (s *service) ListStock(ctx context.Context, scope shop.Scope) ([]*StockLevel, error) {
	if err := s.canRead(ctx, scope); err != nil {
		return nil, err
	}
	return s.repo.ListLevels(ctx, scope.ShopID)
}

func (s *service) ListMovements(ctx context.Context, scope shop.Scope, itemID uuid.UUID) ([]*Movement, error) {
	if err := s.canRead(ctx, scope); err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, scope.ShopID, itemID)
}
