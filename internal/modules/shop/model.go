package shop

import (
	"time"

	"github.com/google/uuid"
)

// ShopType classifies the kind of business a shop runs.
type ShopType string

const (
	TypeRetail     ShopType = "RETAIL"
	TypeSalon      ShopType = "SALON"
	TypePrint      ShopType = "PRINT"
	TypeRestaurant ShopType = "RESTAURANT"
	TypeOther      ShopType = "OTHER"
)

func (t ShopType) valid() bool {
	switch t {
	case TypeRetail, TypeSalon, TypePrint, TypeRestaurant, TypeOther:
		return true
	}
	return false
}

// Shop is the tenant root. Categories, items and orders are scoped to it.
type Shop struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      ShopType  `json:"type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member links a user to a shop. Membership scopes shop-level permissions; it grants none itself.
type Member struct {
	ShopID    uuid.UUID `json:"shop_id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title,omitempty"` // OWNER, MANAGER, CASHIER, ...
	CreatedAt time.Time `json:"created_at"`
}

// Scope is the explicit (user, active shop) pair every shop-bound operation receives.
type Scope struct {
	UserID uuid.UUID
	ShopID uuid.UUID
}

// Selection is the active-shop binding carried by the session cookie.
type Selection struct {
	UserID     uuid.UUID `json:"user_id"`
	ShopID     uuid.UUID `json:"shop_id"`
	SelectedAt time.Time `json:"selected_at"`
}

// CreateShopRequest is the onboarding payload.
type CreateShopRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AddMemberRequest adds a user to a shop.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title,omitempty"`
}

// SelectShopRequest is the payload for POST /session/shop.
type SelectShopRequest struct {
	ShopID string `json:"shop_id"`
}
