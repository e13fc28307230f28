package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// validTransitions is the complete state machine. Anything absent is illegal.
var validTransitions = map[Status][]Status{
	StatusCreated:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusRefunded},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// transitionPermissions maps a target state to the permission that authorises entering it.
var transitionPermissions = map[Status]access.Permission{
	StatusPaid:      access.PermOrdersPay,
	StatusCancelled: access.PermOrdersCancel,
	StatusRefunded:  access.PermOrdersRefund,
}

// ParseStatus accepts any letter case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := validTransitions[s]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, raw)
	}
	return s, nil
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns apperr.ErrInvalidTransition unless from -> to is legal.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: cannot move order from %s to %s", apperr.ErrInvalidTransition, from, to)
	}
	return nil
}

// PermissionFor returns the permission required to move an order into target.
func PermissionFor(target Status) (access.Permission, bool) {
	p, ok := transitionPermissions[target]
	return p, ok
}

// Transition describes an applied status change.
type Transition struct {
	OrderID     uuid.UUID
	OrderNumber string
	ShopID      uuid.UUID
	ActorID     uuid.UUID
	From        Status
	To          Status
	At          time.Time
	Items       []*OrderItem
}

// TransitionObserver receives every applied transition. Orders keep only
// their current status, so history lives with the observer.
type TransitionObserver interface {
	OrderTransitioned(ctx context.Context, t Transition)
}

// AuditLog records transitions as structured log events.
type AuditLog struct{ logger *zap.Logger }

func NewAuditLog(logger *zap.Logger) *AuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLog{logger: logger.Named("audit")}
}

func (a *AuditLog) OrderTransitioned(_ context.Context, t Transition) {
	a.logger.Info("order status changed",
		zap.String("order_id", t.OrderID.String()),
		zap.String("order_number", t.OrderNumber),
		zap.String("shop_id", t.ShopID.String()),
		zap.String("actor_id", t.ActorID.String()),
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
		zap.Time("at", t.At),
	)
}
