package access

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named set of permission tags. Roles are global; shop membership scopes them.
type Role struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateRoleRequest is the payload for creating a role.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

// SetPermissionsRequest replaces a role's permission set.
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// AssignRoleRequest grants a role to a user.
type AssignRoleRequest struct {
	RoleID string `json:"role_id"`
}
