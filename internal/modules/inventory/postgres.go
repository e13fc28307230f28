package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) SetLevel(ctx context.Context, level *StockLevel, actorID uuid.UUID) (*Movement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var previous int
	err = tx.QueryRowContext(ctx, `
		SELECT quantity FROM stock_levels
		WHERE shop_id=$1 AND item_id=$2 FOR UPDATE`, level.ShopID, level.ItemID).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO stock_levels (shop_id, item_id, quantity, updated_at)
		VALUES ($1,$2,$3,NOW())
		ON CONFLICT (shop_id, item_id) DO UPDATE SET quantity=EXCLUDED.quantity, updated_at=EXCLUDED.updated_at
		RETURNING updated_at`,
		level.ShopID, level.ItemID, level.Quantity).Scan(&level.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert stock level: %w", err)
	}

	m := &Movement{
		ID:      uuid.New(),
		ShopID:  level.ShopID,
		ItemID:  level.ItemID,
		ActorID: actorID,
		Delta:   level.Quantity - previous,
		Balance: level.Quantity,
		Reason:  ReasonAdjustment,
	}
	if err := insertMovement(ctx, tx, m); err != nil {
		return nil, err
	}
	return m, tx.Commit()
}

func (r *postgresRepo) GetLevel(ctx context.Context, shopID, itemID uuid.UUID) (*StockLevel, error) {
	l := &StockLevel{}
	err := r.db.QueryRowContext(ctx, `
		SELECT shop_id, item_id, quantity, updated_at
		FROM stock_levels WHERE shop_id=$1 AND item_id=$2`, shopID, itemID).
		Scan(&l.ShopID, &l.ItemID, &l.Quantity, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s is not stock tracked", apperr.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *postgresRepo) ListLevels(ctx context.Context, shopID uuid.UUID) ([]*StockLevel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.shop_id, l.item_id, l.quantity, l.updated_at
		FROM stock_levels l JOIN items i ON i.id = l.item_id
		WHERE l.shop_id=$1 ORDER BY i.name ASC`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*StockLevel
	for rows.Next() {
		l := &StockLevel{}
		if err := rows.Scan(&l.ShopID, &l.ItemID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ApplyMovements(ctx context.Context, moves []*Movement) ([]*Movement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var applied []*Movement
	for _, m := range moves {
		err := tx.QueryRowContext(ctx, `
			UPDATE stock_levels SET quantity = quantity + $1, updated_at = NOW()
			WHERE shop_id=$2 AND item_id=$3
			RETURNING quantity`, m.Delta, m.ShopID, m.ItemID).Scan(&m.Balance)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("apply stock movement: %w", err)
		}
		if err := insertMovement(ctx, tx, m); err != nil {
			return nil, err
		}
		applied = append(applied, m)
	}
	return applied, tx.Commit()
}

func (r *postgresRepo) ListMovements(ctx context.Context, shopID, itemID uuid.UUID) ([]*Movement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shop_id, item_id, order_id, actor_id, delta, balance, reason, created_at
		FROM stock_movements
		WHERE shop_id=$1 AND item_id=$2
		ORDER BY created_at ASC`, shopID, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func insertMovement(ctx context.Context, tx *sql.Tx, m *Movement) error {
	orderID := uuid.NullUUID{UUID: m.OrderID, Valid: m.OrderID != uuid.Nil}
	err := tx.QueryRowContext(ctx, `
		INSERT INTO stock_movements (id, shop_id, item_id, order_id, actor_id, delta, balance, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		m.ID, m.ShopID, m.ItemID, orderID, m.ActorID, m.Delta, m.Balance, m.Reason).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

func scanMovement(row database.Scanner) (*Movement, error) {
	m := &Movement{}
	var orderID uuid.NullUUID
	if err := row.Scan(&m.ID, &m.ShopID, &m.ItemID, &orderID, &m.ActorID,
		&m.Delta, &m.Balance, &m.Reason, &m.CreatedAt); err != nil {
		return nil, err
	}
	if orderID.Valid {
		m.OrderID = orderID.UUID
	}
	return m, nil
}
