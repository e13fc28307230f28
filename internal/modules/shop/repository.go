package shop

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores shops and their members.
type Repository interface {
	// CreateShop inserts the shop and its owner membership in one transaction.
	CreateShop(ctx context.Context, s *Shop, owner *Member) error
	GetShop(ctx context.Context, id uuid.UUID) (*Shop, error)
	ListShopsForUser(ctx context.Context, userID uuid.UUID) ([]*Shop, error)

	// AddMember fails with apperr.ErrConflict if the user already belongs to the shop.
	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, shopID, userID uuid.UUID) error
	ListMembers(ctx context.Context, shopID uuid.UUID) ([]*Member, error)
	IsMember(ctx context.Context, shopID, userID uuid.UUID) (bool, error)
}
