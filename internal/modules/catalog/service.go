package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Authorizer is the slice of the permission engine the catalog needs.
type Authorizer interface {
	Check(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) (access.Decision, error)
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// Service defines catalog business logic for the active shop.
type Service interface {
	CreateCategory(ctx context.Context, scope shop.Scope, req CreateCategoryRequest) (*Category, error)
	ListCategories(ctx context.Context, scope shop.Scope) ([]*Category, error)

	CreateItem(ctx context.Context, scope shop.Scope, req ItemRequest) (*Item, error)
	GetItem(ctx context.Context, scope shop.Scope, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context, scope shop.Scope, f ItemFilter) ([]*Item, error)
	// UpdateItem changes the live price; orders already placed keep their snapshot.
	UpdateItem(ctx context.Context, scope shop.Scope, id uuid.UUID, req ItemRequest) (*Item, error)
}

type service struct {
	repo  Repository
	authz Authorizer
}

func NewService(repo Repository, authz Authorizer) Service {
	return &service{repo: repo, authz: authz}
}

// canRead admits managers and anyone who can ring up or look up orders.
func (s *service) canRead(ctx context.Context, scope shop.Scope) error {
	for _, perm := range []access.Permission{access.PermCatalogManage, access.PermOrdersCreate, access.PermOrdersView} {
		d, err := s.authz.Check(ctx, scope.UserID, perm, scope.ShopID)
		if err != nil {
			return err
		}
		if d == access.Allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: catalog read", apperr.ErrDenied)
}

func (s *service) CreateCategory(ctx context.Context, scope shop.Scope, req CreateCategoryRequest) (*Category, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermCatalogManage, scope.ShopID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperr.ErrValidation)
	}
	c := &Category{
		ID:          uuid.New(),
		ShopID:      scope.ShopID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context, scope shop.Scope) ([]*Category, error) {
	if err := s.canRead(ctx, scope); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, scope.ShopID)
}

func (s *service) CreateItem(ctx context.Context, scope shop.Scope, req ItemRequest) (*Item, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermCatalogManage, scope.ShopID); err != nil {
		return nil, err
	}
	it := &Item{ID: uuid.New(), ShopID: scope.ShopID, IsActive: true}
	if err := s.apply(ctx, it, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetItem(ctx context.Context, scope shop.Scope, id uuid.UUID) (*Item, error) {
	if err := s.canRead(ctx, scope); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, scope.ShopID, id)
}

func (s *service) ListItems(ctx context.Context, scope shop.Scope, f ItemFilter) ([]*Item, error) {
	if err := s.canRead(ctx, scope); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, scope.ShopID, f)
}

func (s *service) UpdateItem(ctx context.Context, scope shop.Scope, id uuid.UUID, req ItemRequest) (*Item, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermCatalogManage, scope.ShopID); err != nil {
		return nil, err
	}
	it, err := s.repo.GetItem(ctx, scope.ShopID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, it, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// apply validates req and copies it onto it. The category must belong to the item's shop.
func (s *service) apply(ctx context.Context, it *Item, req ItemRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: item name is required", apperr.ErrValidation)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", apperr.ErrValidation)
	}
	if !req.Price.Equal(req.Price.Round(2)) {
		return fmt.Errorf("%w: price has more than two decimal places", apperr.ErrValidation)
	}
	categoryID, err := uuid.Parse(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return fmt.Errorf("%w: invalid category_id", apperr.ErrValidation)
	}
	if _, err := s.repo.GetCategory(ctx, it.ShopID, categoryID); err != nil {
		return err
	}

	it.CategoryID = categoryID
	it.Name = name
	it.Description = strings.TrimSpace(req.Description)
	it.Price = req.Price.Round(2)
	it.SKU = strings.TrimSpace(req.SKU)
	if req.IsActive != nil {
		it.IsActive = *req.IsActive
	}
	return nil
}
