package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
	"github.com/georgemunganga/printa-backoffice/internal/platform/database"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateRole(ctx context.Context, role *Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roles (id, name, description, permissions)
		VALUES ($1,$2,$3,$4)`,
		role.ID, role.Name, role.Description, pq.Array(tags(role.Permissions)))
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: role %q already exists", apperr.ErrConflict, role.Name)
	}
	return err
}

func (r *postgresRepo) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	role, err := scanRole(r.db.QueryRowContext(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: role %s", apperr.ErrNotFound, id)
	}
	return role, err
}

func (r *postgresRepo) ListRoles(ctx context.Context) ([]*Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, permissions, created_at, updated_at
		FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []*Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *postgresRepo) SetRolePermissions(ctx context.Context, roleID uuid.UUID, perms []Permission) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET permissions=$1, updated_at=$2 WHERE id=$3`,
		pq.Array(tags(perms)), time.Now().UTC(), roleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: role %s", apperr.ErrNotFound, roleID)
	}
	return nil
}

func (r *postgresRepo) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id) VALUES ($1,$2)
		ON CONFLICT (user_id, role_id) DO NOTHING`, userID, roleID)
	return err
}

func (r *postgresRepo) RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id=$1 AND role_id=$2`, userID, roleID)
	return err
}

func (r *postgresRepo) PermissionsForUser(ctx context.Context, userID uuid.UUID) ([]Permission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT unnest(r.permissions)
		FROM roles r JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, Permission(p))
	}
	return perms, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanRole(row database.Scanner) (*Role, error) {
	role := &Role{}
	var perms []string
	if err := row.Scan(&role.ID, &role.Name, &role.Description, pq.Array(&perms),
		&role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	for _, p := range perms {
		role.Permissions = append(role.Permissions, Permission(p))
	}
	return role, nil
}

func tags(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
