package access

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores roles and user role assignments.
type Repository interface {
	// CreateRole persists a role. Duplicate names fail with apperr.ErrConflict.
	CreateRole(ctx context.Context, r *Role) error

	// GetRole returns a role or apperr.ErrNotFound.
	GetRole(ctx context.Context, id uuid.UUID) (*Role, error)

	ListRoles(ctx context.Context) ([]*Role, error)

	// SetRolePermissions replaces the role's permission set.
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, perms []Permission) error

	// AssignRole is idempotent.
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	RevokeRole(ctx context.Context, userID, roleID uuid.UUID) error

	// PermissionsForUser returns the union of permissions across the user's roles.
	PermissionsForUser(ctx context.Context, userID uuid.UUID) ([]Permission, error)
}
