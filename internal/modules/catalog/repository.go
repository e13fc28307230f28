package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores shop-scoped categories and items. Every lookup is keyed
// by shop, and records of other shops are reported as apperr.ErrNotFound.
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, shopID, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, shopID uuid.UUID) ([]*Category, error)

	CreateItem(ctx context.Context, it *Item) error
	GetItem(ctx context.Context, shopID, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context, shopID uuid.UUID, f ItemFilter) ([]*Item, error)
	UpdateItem(ctx context.Context, it *Item) error
}
