package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/catalog"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Service defines the order management business logic. Every call is scoped
// to exactly one shop.
type Service interface {
	// CreateOrder prices the requested lines from the catalog, snapshots them and persists the order atomically.
	CreateOrder(ctx context.Context, scope shop.Scope, req CreateOrderRequest) (*Order, error)

	// GetOrder returns apperr.ErrNotFound for orders of other shops.
	GetOrder(ctx context.Context, scope shop.Scope, id uuid.UUID) (*Order, error)
	GetOrderByNumber(ctx context.Context, scope shop.Scope, number string) (*Order, error)
	ListOrders(ctx context.Context, scope shop.Scope, status Status) ([]*Order, error)

	// TransitionStatus authorises, validates and applies target with compare-and-swap.
	TransitionStatus(ctx context.Context, scope shop.Scope, id uuid.UUID, target Status) (*Order, error)
}

// Authorizer is the slice of the permission engine orders need.
type Authorizer interface {
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// ItemSource resolves catalog items within a shop.
type ItemSource interface {
	GetItem(ctx context.Context, shopID, id uuid.UUID) (*catalog.Item, error)
}

// ShopValidator confirms an explicitly named shop belongs to the caller.
type ShopValidator interface {
	Validate(ctx context.Context, userID, shopID uuid.UUID) (*shop.Shop, error)
}

type service struct {
	repo      Repository
	items     ItemSource
	shops     ShopValidator
	authz     Authorizer
	observers []TransitionObserver
	logger    *zap.Logger
	currency  string
	now       func() time.Time
}

// Option customises the service.
type Option func(*service)

func WithObserver(o TransitionObserver) Option { return func(s *service) { s.observers = append(s.observers, o) } }
func WithLogger(l *zap.Logger) Option          { return func(s *service) { s.logger = l.Named("order") } }
func WithCurrency(c string) Option             { return func(s *service) { s.currency = c } }
func WithClock(now func() time.Time) Option    { return func(s *service) { s.now = now } }

// NewService creates a new order service.
func NewService(repo Repository, items ItemSource, shops ShopValidator, authz Authorizer, opts ...Option) Service {
	s := &service{
		repo:     repo,
		items:    items,
		shops:    shops,
		authz:    authz,
		logger:   zap.NewNop(),
		currency: "ZMW",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.observers) == 0 {
		s.observers = append(s.observers, NewAuditLog(s.logger))
	}
	return s
}

func (s *service) CreateOrder(ctx context.Context, scope shop.Scope, req CreateOrderRequest) (*Order, error) {
	if scope.UserID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	shopID, err := s.targetShop(ctx, scope, req.ShopID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Require(ctx, scope.UserID, access.PermOrdersCreate, shopID); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", apperr.ErrValidation)
	}

	// ── Snapshot catalog prices ──────────────────────────────────────────────
	orderID := uuid.New()
	items := make([]*OrderItem, 0, len(req.Items))
	lines := make([]Line, 0, len(req.Items))
	for i, lr := range req.Items {
		if lr.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0 for item %s", apperr.ErrValidation, lr.ItemID)
		}
		itemID, err := uuid.Parse(strings.TrimSpace(lr.ItemID))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid item_id %q", apperr.ErrValidation, lr.ItemID)
		}
		it, err := s.items.GetItem(ctx, shopID, itemID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: item %s not found in this shop", apperr.ErrValidation, itemID)
		}
		if err != nil {
			return nil, err
		}
		if !it.IsActive {
			return nil, fmt.Errorf("%w: item %s is currently unavailable", apperr.ErrValidation, it.Name)
		}

		line := Line{Quantity: lr.Quantity, UnitPrice: it.Price}
		lines = append(lines, line)
		items = append(items, &OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ItemID:    it.ID,
			ItemName:  it.Name,
			Position:  i + 1,
			Quantity:  lr.Quantity,
			UnitPrice: it.Price,
			LineTotal: line.Total(),
		})
	}

	totals, err := ComputeTotals(lines, req.Discount)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		ID:          orderID,
		ShopID:      shopID,
		OrderNumber: "ORD-" + ulid.Make().String(),
		Status:      StatusCreated,
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		Total:       totals.FinalAmount,
		Currency:    s.currency,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedBy:   scope.UserID,
		Items:       items,
		OrderedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("shop_id", shopID.String()),
		zap.Int("lines", len(items)),
		zap.String("total", o.Total.StringFixed(2)))
	return o, nil
}

// targetShop picks the active shop unless the request names another one the caller belongs to.
func (s *service) targetShop(ctx context.Context, scope shop.Scope, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if scope.ShopID == uuid.Nil {
			return uuid.Nil, apperr.ErrNoShopSelected
		}
		return scope.ShopID, nil
	}
	explicit, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid shop_id", apperr.ErrValidation)
	}
	if explicit == scope.ShopID {
		return explicit, nil
	}
	if _, err := s.shops.Validate(ctx, scope.UserID, explicit); err != nil {
		return uuid.Nil, err
	}
	return explicit, nil
}

func (s *service) GetOrder(ctx context.Context, scope shop.Scope, id uuid.UUID) (*Order, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermOrdersView, scope.ShopID); err != nil {
		return nil, err
	}
	return s.repo.GetOrder(ctx, scope.ShopID, id)
}

func (s *service) GetOrderByNumber(ctx context.Context, scope shop.Scope, number string) (*Order, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermOrdersView, scope.ShopID); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByNumber(ctx, scope.ShopID, strings.TrimSpace(number))
}

func (s *service) ListOrders(ctx context.Context, scope shop.Scope, status Status) ([]*Order, error) {
	if err := s.authz.Require(ctx, scope.UserID, access.PermOrdersView, scope.ShopID); err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, scope.ShopID, status)
}

func (s *service) TransitionStatus(ctx context.Context, scope shop.Scope, id uuid.UUID, target Status) (*Order, error) {
	perm, ok := PermissionFor(target)
	if !ok {
		return nil, fmt.Errorf("%w: orders cannot be moved to %s", apperr.ErrInvalidTransition, target)
	}
	if err := s.authz.Require(ctx, scope.UserID, perm, scope.ShopID); err != nil {
		return nil, err
	}

	o, err := s.repo.GetOrder(ctx, scope.ShopID, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(o.Status, target); err != nil {
		return nil, err
	}

	from, at := o.Status, s.now().UTC()
	if err := s.repo.CompareAndSwapStatus(ctx, scope.ShopID, id, from, target, at); err != nil {
		return nil, err
	}
	o.Status, o.UpdatedAt = target, at

	t := Transition{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		ShopID:      o.ShopID,
		ActorID:     scope.UserID,
		From:        from,
		To:          target,
		At:          at,
		Items:       o.Items,
	}
	for _, obs := range s.observers {
		obs.OrderTransitioned(ctx, t)
	}
	return o, nil
}
