package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, shop_id, order_number, status, subtotal, discount, total,
	currency, notes, created_by, ordered_at, updated_at`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, shop_id, order_number, status, subtotal, discount, total,
		   currency, notes, created_by, ordered_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.ShopID, o.OrderNumber, o.Status, o.Subtotal, o.Discount, o.Total,
		o.Currency, o.Notes, o.CreatedBy, o.OrderedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, item_id, item_name, position, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, o.ID, item.ItemID, item.ItemName, item.Position,
			item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrder(ctx context.Context, shopID, id uuid.UUID) (*Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 AND shop_id=$2`, id, shopID)
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, shopID uuid.UUID, number string) (*Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number=$1 AND shop_id=$2`, number, shopID)
}

func (r *postgresRepo) getOne(ctx context.Context, query string, args ...interface{}) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrders(ctx context.Context, shopID uuid.UUID, status Status) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE shop_id=$1`
	args := []interface{}{shopID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY ordered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CompareAndSwapStatus relies on the status predicate in the UPDATE, so two
// racing writers cannot both observe `from`.
func (r *postgresRepo) CompareAndSwapStatus(ctx context.Context, shopID, id uuid.UUID, from, to Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status=$1, updated_at=$2
		WHERE id=$3 AND shop_id=$4 AND status=$5`,
		to, at, id, shopID, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: order is no longer %s", apperr.ErrInvalidTransition, from)
	}
	return nil
}

func scanOrder(row database.Scanner) (*Order, error) {
	o := &Order{}
	err := row.Scan(&o.ID, &o.ShopID, &o.OrderNumber, &o.Status, &o.Subtotal, &o.Discount, &o.Total,
		&o.Currency, &o.Notes, &o.CreatedBy, &o.OrderedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, item_id, item_name, position, quantity, unit_price, line_total
		FROM order_items WHERE order_id=$1 ORDER BY position ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ItemID, &item.ItemName,
			&item.Position, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
