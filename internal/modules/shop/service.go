package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Authorizer is the slice of the permission engine the shop module needs.
type Authorizer interface {
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// UserDirectory confirms that a user account exists.
type UserDirectory interface {
	UserExists(ctx context.Context, id uuid.UUID) error
}

// Service resolves the active shop and manages shops and their members.
type Service interface {
	// Resolve turns the session selection into a Scope for userID.
	// It returns apperr.ErrNoShopSelected when sel is absent or belongs to someone else.
	Resolve(userID uuid.UUID, sel *Selection) (Scope, error)

	// Select validates shopID for userID and returns the selection to persist.
	Select(ctx context.Context, userID, shopID uuid.UUID) (*Selection, *Shop, error)

	// Validate returns the shop if it exists, is active and userID is a member; apperr.ErrInvalidShop otherwise.
	Validate(ctx context.Context, userID, shopID uuid.UUID) (*Shop, error)

	CreateShop(ctx context.Context, userID uuid.UUID, req CreateShopRequest) (*Shop, error)
	ListShops(ctx context.Context, userID uuid.UUID) ([]*Shop, error)
	GetShop(ctx context.Context, scope Scope) (*Shop, error)

	ListMembers(ctx context.Context, scope Scope) ([]*Member, error)
	AddMember(ctx context.Context, scope Scope, req AddMemberRequest) (*Member, error)
	RemoveMember(ctx context.Context, scope Scope, userID uuid.UUID) error

	IsMember(ctx context.Context, shopID, userID uuid.UUID) (bool, error)
}

type service struct {
	repo   Repository
	authz  Authorizer
	users  UserDirectory
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*service)

// WithUserDirectory makes AddMember reject unknown users.
func WithUserDirectory(d UserDirectory) Option { return func(s *service) { s.users = d } }

func NewService(repo Repository, authz Authorizer, logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{repo: repo, authz: authz, logger: logger.Named("shop"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Resolve(userID uuid.UUID, sel *Selection) (Scope, error) {
	if userID == uuid.Nil {
		return Scope{}, apperr.ErrUnauthorized
	}
	if sel == nil || sel.ShopID == uuid.Nil || sel.UserID != userID {
		return Scope{}, apperr.ErrNoShopSelected
	}
	return Scope{UserID: userID, ShopID: sel.ShopID}, nil
}

func (s *service) Select(ctx context.Context, userID, shopID uuid.UUID) (*Selection, *Shop, error) {
	shop, err := s.Validate(ctx, userID, shopID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("active shop selected",
		zap.String("user_id", userID.String()),
		zap.String("shop_id", shopID.String()))
	return &Selection{UserID: userID, ShopID: shopID, SelectedAt: s.now().UTC()}, shop, nil
}

func (s *service) Validate(ctx context.Context, userID, shopID uuid.UUID) (*Shop, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	shop, err := s.repo.GetShop(ctx, shopID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidShop, shopID)
	}
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.IsMember(ctx, shopID, userID)
	if err != nil {
		return nil, err
	}
	if !ok || !shop.IsActive {
		return nil, fmt.Errorf("%w: %s", apperr.ErrInvalidShop, shopID)
	}
	return shop, nil
}

func (s *service) CreateShop(ctx context.Context, userID uuid.UUID, req CreateShopRequest) (*Shop, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: shop name is required", apperr.ErrValidation)
	}
	shopType := TypeOther
	if req.Type != "" {
		shopType = ShopType(strings.ToUpper(strings.TrimSpace(req.Type)))
	}
	if !shopType.valid() {
		return nil, fmt.Errorf("%w: unknown shop type %q", apperr.ErrValidation, req.Type)
	}

	shop := &Shop{ID: uuid.New(), Name: name, Type: shopType, IsActive: true}
	owner := &Member{ShopID: shop.ID, UserID: userID, Title: "OWNER"}
	if err := s.repo.CreateShop(ctx, shop, owner); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	return shop, nil
}

func (s *service) ListShops(ctx context.Context, userID uuid.UUID) ([]*Shop, error) {
	if userID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.repo.ListShopsForUser(ctx, userID)
}

// GetShop hides shops the caller is not a member of.
func (s *service) GetShop(ctx context.Context, scope Scope) (*Shop, error) {
	ok, err := s.repo.IsMember(ctx, scope.ShopID, scope.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: shop %s", apperr.ErrNotFound, scope.ShopID)
	}
	return s.repo.GetShop(ctx, scope.ShopID)
}

func (s *service) ListMembers(ctx context.Context, scope Scope) ([]*Member, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermStaffManage, scope.ShopID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, scope.ShopID)
}

func (s *service) AddMember(ctx context.Context, scope Scope, req AddMemberRequest) (*Member, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermStaffManage, scope.ShopID); err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user_id", apperr.ErrValidation)
	}
	if s.users != nil {
		if err := s.users.UserExists(ctx, userID); err != nil {
			return nil, err
		}
	}
	m := &Member{
		ShopID: scope.ShopID,
		UserID: userID,
		Title:  strings.ToUpper(strings.TrimSpace(req.Title)),
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) RemoveMember(ctx context.Context, scope Scope, userID uuid.UUID) error {
	if err := s.authz.Require(ctx, scope.UserID, access.PermStaffManage, scope.ShopID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, scope.ShopID, userID)
}

func (s *service) IsMember(ctx context.Context, shopID, userID uuid.UUID) (bool, error) {
	return s.repo.IsMember(ctx, shopID, userID)
}
