package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, shop_id, name, description)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		c.ID, c.ShopID, c.Name, c.Description).Scan(&c.CreatedAt, &c.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: category %q already exists", apperr.ErrConflict, c.Name)
	}
	return err
}

func (r *postgresRepo) GetCategory(ctx context.Context, shopID, id uuid.UUID) (*Category, error) {
	c := &Category{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, shop_id, name, description, created_at, updated_at
		FROM categories WHERE id=$1 AND shop_id=$2`, id, shopID).
		Scan(&c.ID, &c.ShopID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListCategories(ctx context.Context, shopID uuid.UUID) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shop_id, name, description, created_at, updated_at
		FROM categories WHERE shop_id=$1 ORDER BY name ASC`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.ShopID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const itemColumns = `id, shop_id, category_id, name, description, price, sku, is_active, created_at, updated_at`

func scanItem(row database.Scanner) (*Item, error) {
	it := &Item{}
	err := row.Scan(&it.ID, &it.ShopID, &it.CategoryID, &it.Name, &it.Description,
		&it.Price, &it.SKU, &it.IsActive, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *postgresRepo) CreateItem(ctx context.Context, it *Item) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO items (id, shop_id, category_id, name, description, price, sku, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		it.ID, it.ShopID, it.CategoryID, it.Name, it.Description, it.Price, it.SKU, it.IsActive).
		Scan(&it.CreatedAt, &it.UpdatedAt)
}

func (r *postgresRepo) GetItem(ctx context.Context, shopID, id uuid.UUID) (*Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id=$1 AND shop_id=$2`, id, shopID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s", apperr.ErrNotFound, id)
	}
	return it, err
}

func (r *postgresRepo) ListItems(ctx context.Context, shopID uuid.UUID, f ItemFilter) ([]*Item, error) {
	var where strings.Builder
	where.WriteString(` WHERE shop_id=$1`)
	args := []interface{}{shopID}
	if f.CategoryID != uuid.Nil {
		args = append(args, f.CategoryID)
		fmt.Fprintf(&where, ` AND category_id=$%d`, len(args))
	}
	if f.ActiveOnly {
		where.WriteString(` AND is_active`)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items`+where.String()+` ORDER BY name ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *postgresRepo) UpdateItem(ctx context.Context, it *Item) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE items
		SET category_id=$3, name=$4, description=$5, price=$6, sku=$7, is_active=$8, updated_at=NOW()
		WHERE id=$1 AND shop_id=$2
		RETURNING updated_at`,
		it.ID, it.ShopID, it.CategoryID, it.Name, it.Description, it.Price, it.SKU, it.IsActive).
		Scan(&it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: item %s", apperr.ErrNotFound, it.ID)
	}
	return err
}
