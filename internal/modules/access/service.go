package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// MembershipChecker reports whether a user belongs to a shop.
type MembershipChecker interface {
	IsMember(ctx context.Context, shopID, userID uuid.UUID) (bool, error)
}

// UserDirectory confirms that a user account exists.
type UserDirectory interface {
	UserExists(ctx context.Context, id uuid.UUID) error
}

// Service evaluates permissions and administers roles.
type Service interface {
	// Check evaluates perm for userID within shopID. Use uuid.Nil for unscoped permissions.
	Check(ctx context.Context, userID uuid.UUID, perm Permission, shopID uuid.UUID) (Decision, error)

	// Require is Check that turns Denied into apperr.ErrDenied.
	Require(ctx context.Context, userID uuid.UUID, perm Permission, shopID uuid.UUID) error

	// Effective returns the permissions userID can exercise in shopID.
	Effective(ctx context.Context, userID, shopID uuid.UUID) ([]Permission, error)

	ListRoles(ctx context.Context, actorID uuid.UUID) ([]*Role, error)
	ListPermissions(ctx context.Context, actorID uuid.UUID) ([]Definition, error)
	CreateRole(ctx context.Context, actorID uuid.UUID, req CreateRoleRequest) (*Role, error)
	SetRolePermissions(ctx context.Context, actorID, roleID uuid.UUID, req SetPermissionsRequest) (*Role, error)
	AssignRole(ctx context.Context, actorID, userID, roleID uuid.UUID) error
	RevokeRole(ctx context.Context, actorID, userID, roleID uuid.UUID) error
}

type service struct {
	repo    Repository
	members MembershipChecker
	users   UserDirectory
	logger  *zap.Logger
}

// Option customises the service.
type Option func(*service)

// WithUserDirectory makes role assignment reject unknown users.
func WithUserDirectory(d UserDirectory) Option { return func(s *service) { s.users = d } }

// NewService creates a new access service.
func NewService(repo Repository, members MembershipChecker, logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{repo: repo, members: members, logger: logger.Named("access")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) capabilities(ctx context.Context, userID uuid.UUID) (CapabilitySet, error) {
	perms, err := s.repo.PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	return NewCapabilitySet(perms), nil
}

func (s *service) scope(ctx context.Context, userID, shopID uuid.UUID) (Scope, error) {
	if shopID == uuid.Nil {
		return Scope{}, nil
	}
	member, err := s.members.IsMember(ctx, shopID, userID)
	if err != nil {
		return Scope{}, fmt.Errorf("check membership: %w", err)
	}
	return Scope{ShopID: shopID, Member: member}, nil
}

func (s *service) Check(ctx context.Context, userID uuid.UUID, perm Permission, shopID uuid.UUID) (Decision, error) {
	if userID == uuid.Nil {
		return Denied, apperr.ErrUnauthorized
	}
	caps, err := s.capabilities(ctx, userID)
	if err != nil {
		return Denied, err
	}
	// Skip the membership lookup when the tag is not granted at all.
	if !caps.Has(perm) {
		return Denied, nil
	}
	scope := Scope{}
	if def, ok := Lookup(perm); ok && def.ShopScoped {
		if scope, err = s.scope(ctx, userID, shopID); err != nil {
			return Denied, err
		}
	}
	return Decide(caps, perm, scope), nil
}

func (s *service) Require(ctx context.Context, userID uuid.UUID, perm Permission, shopID uuid.UUID) error {
	decision, err := s.Check(ctx, userID, perm, shopID)
	if err != nil {
		return err
	}
	if decision == Denied {
		s.logger.Info("permission denied",
			zap.String("user_id", userID.String()),
			zap.String("permission", string(perm)),
			zap.String("shop_id", shopID.String()))
		return fmt.Errorf("%w: %s", apperr.ErrDenied, perm)
	}
	return nil
}

func (s *service) Effective(ctx context.Context, userID, shopID uuid.UUID) ([]Permission, error) {
	caps, err := s.capabilities(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.scope(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	out := make([]Permission, 0, len(caps))
	for _, p := range caps.Sorted() {
		if Decide(caps, p, scope) == Allowed {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *service) ListRoles(ctx context.Context, actorID uuid.UUID) ([]*Role, error) {
	if err := s.Require(ctx, actorID, PermRolesManage, uuid.Nil); err != nil {
		return nil, err
	}
	return s.repo.ListRoles(ctx)
}

func (s *service) ListPermissions(ctx context.Context, actorID uuid.UUID) ([]Definition, error) {
	if err := s.Require(ctx, actorID, PermRolesManage, uuid.Nil); err != nil {
		return nil, err
	}
	return Catalog(), nil
}

func (s *service) CreateRole(ctx context.Context, actorID uuid.UUID, req CreateRoleRequest) (*Role, error) {
	if err := s.Require(ctx, actorID, PermRolesManage, uuid.Nil); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	perms, err := NormalisePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	role := &Role{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Permissions: perms,
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	s.logger.Info("role created", zap.String("role_id", role.ID.String()), zap.String("actor_id", actorID.String()))
	return role, nil
}

func (s *service) SetRolePermissions(ctx context.Context, actorID, roleID uuid.UUID, req SetPermissionsRequest) (*Role, error) {
	if err := s.Require(ctx, actorID, PermRolesManage, uuid.Nil); err != nil {
		return nil, err
	}
	perms, err := NormalisePermissions(req.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRolePermissions(ctx, roleID, perms); err != nil {
		return nil, err
	}
	s.logger.Info("role permissions replaced",
		zap.String("role_id", roleID.String()),
		zap.Strings("permissions", tags(perms)),
		zap.String("actor_id", actorID.String()))
	return s.repo.GetRole(ctx, roleID)
}

func (s *service) AssignRole(ctx context.Context, actorID, userID, roleID uuid.UUID) error {
	if err := s.Require(ctx, actorID, PermRolesManage, uuid.Nil); err != nil {
		return err
	}
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	if s.users != nil {
		if err := s.users.UserExists(ctx, userID); err != nil {
			return err
		}
	}
	return s.repo.AssignRole(ctx, userID, roleID)
}

func (s *service) RevokeRole(ctx context.Context, actorID, userID, roleID uuid.UUID) error {
	if err := s.Require(ctx, actorID, PermRolesManage, uuid.Nil); err != nil {
		return err
	}
	return s.repo.RevokeRole(ctx, userID, roleID)
}
