package shop

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

func (r *postgresRepo) CreateShop(ctx context.Context, s *Shop, owner *Member) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO shops (id, name, type, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Type, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO shop_members (shop_id, user_id, title)
		VALUES ($1,$2,$3)
		RETURNING created_at`,
		owner.ShopID, owner.UserID, owner.Title).Scan(&owner.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert shop owner: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepo) GetShop(ctx context.Context, id uuid.UUID) (*Shop, error) {
	s := &Shop{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, is_active, created_at, updated_at
		FROM shops WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.Type, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: shop %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) ListShopsForUser(ctx context.Context, userID uuid.UUID) ([]*Shop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.type, s.is_active, s.created_at, s.updated_at
		FROM shops s JOIN shop_members m ON m.shop_id = s.id
		WHERE m.user_id=$1 ORDER BY s.name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var shops []*Shop
	for rows.Next() {
		s := &Shop{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (r *postgresRepo) AddMember(ctx context.Context, m *Member) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shop_members (shop_id, user_id, title) VALUES ($1,$2,$3)
		RETURNING created_at`,
		m.ShopID, m.UserID, m.Title).Scan(&m.CreatedAt)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: user %s is already a member", apperr.ErrConflict, m.UserID)
	}
	return err
}

func (r *postgresRepo) RemoveMember(ctx context.Context, shopID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shop_members WHERE shop_id=$1 AND user_id=$2`, shopID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: member %s", apperr.ErrNotFound, userID)
	}
	return nil
}

func (r *postgresRepo) ListMembers(ctx context.Context, shopID uuid.UUID) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT shop_id, user_id, title, created_at
		FROM shop_members WHERE shop_id=$1 ORDER BY created_at ASC`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ShopID, &m.UserID, &m.Title, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresRepo) IsMember(ctx context.Context, shopID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
		  SELECT 1 FROM shop_members m JOIN shops s ON s.id = m.shop_id
		  WHERE m.shop_id=$1 AND m.user_id=$2 AND s.is_active
		)`, shopID, userID).Scan(&exists)
	return exists, err
}
