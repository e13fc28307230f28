package pos

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

const txColumns = `id, shop_id, order_id, cashier_id, payment_method, amount, tendered,
	change_given, currency, reference, status, transacted_at, updated_at`

func scanTx(row database.Scanner) (*Transaction, error) {
	tx := &Transaction{}
	err := row.Scan(&tx.ID, &tx.ShopID, &tx.OrderID, &tx.CashierID, &tx.PaymentMethod,
		&tx.Amount, &tx.Tendered, &tx.ChangeGiven, &tx.Currency, &tx.Reference,
		&tx.Status, &tx.TransactedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *postgresRepo) Create(ctx context.Context, tx *Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pos_transactions (`+txColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		tx.ID, tx.ShopID, tx.OrderID, tx.CashierID, tx.PaymentMethod,
		tx.Amount, tx.Tendered, tx.ChangeGiven, tx.Currency, tx.Reference,
		tx.Status, tx.TransactedAt, tx.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: order %s already has a transaction", apperr.ErrConflict, tx.OrderID)
	}
	return err
}

func (r *postgresRepo) GetByOrderID(ctx context.Context, shopID, orderID uuid.UUID) (*Transaction, error) {
	tx, err := scanTx(r.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM pos_transactions WHERE order_id=$1 AND shop_id=$2`, orderID, shopID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no transaction for order %s", apperr.ErrNotFound, orderID)
	}
	return tx, err
}

func (r *postgresRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM pos_transactions WHERE shop_id=$1 ORDER BY transacted_at DESC`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Transaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, shopID, id uuid.UUID, from, to TxStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pos_transactions SET status=$1, updated_at=$2
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
		return fmt.Errorf("%w: transaction %s is no longer %s", apperr.ErrInvalidTransition, id, from)
	}
	return nil
}
