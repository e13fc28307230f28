package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/modules/catalog"
	"github.com/georgemunganga/printa-backoffice/internal/modules/inventory"
	"github.com/georgemunganga/printa-backoffice/internal/modules/shop"
	"github.com/georgemunganga/printa-backoffice/internal/modules/user"
)

const demoPassword = "printa-demo"

type demoStaff struct {
	email string
	first string
	title string
	role  string
}

// demoSeed identifies what seedDemo created.
type demoSeed struct {
	ShopID    uuid.UUID
	ManagerID uuid.UUID
	CashierID uuid.UUID
}

// seedDemo fills empty in-memory stores with one print shop, a manager and a
// cashier, and a small catalog. Bearer tokens for the logged user ids are
// minted outside this service.
func seedDemo(ctx context.Context, repos repositories, logger *zap.Logger) (demoSeed, error) {
	roles := map[string]*access.Role{
		"manager": {
			ID:          uuid.New(),
			Name:        "manager",
			Description: "Runs the shop floor and its staff",
			Permissions: []access.Permission{
				access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay,
				access.PermOrdersCancel, access.PermOrdersRefund, access.PermOrdersPrint,
				access.PermCatalogManage, access.PermStaffManage, access.PermRolesManage,
			},
		},
		"cashier": {
			ID:          uuid.New(),
			Name:        "cashier",
			Description: "Takes orders and payments",
			Permissions: []access.Permission{
				access.PermOrdersCreate, access.PermOrdersView, access.PermOrdersPay, access.PermOrdersPrint,
			},
		},
	}
	for _, role := range roles {
		if err := repos.access.CreateRole(ctx, role); err != nil {
			return demoSeed{}, fmt.Errorf("seed role %s: %w", role.Name, err)
		}
	}

	staff := []demoStaff{
		{email: "manager@printa.local", first: "Chanda", title: "MANAGER", role: "manager"},
		{email: "cashier@printa.local", first: "Mwila", title: "CASHIER", role: "cashier"},
	}
	hashed, err := user.HashPassword(demoPassword, bcrypt.DefaultCost)
	if err != nil {
		return demoSeed{}, err
	}

	ids := make([]uuid.UUID, len(staff))
	for i, s := range staff {
		u := &user.User{ID: uuid.New(), Email: s.email, PasswordHash: hashed, FirstName: s.first}
		if err := repos.users.CreateUser(ctx, u); err != nil {
			return demoSeed{}, fmt.Errorf("seed user %s: %w", s.email, err)
		}
		if err := repos.access.AssignRole(ctx, u.ID, roles[s.role].ID); err != nil {
			return demoSeed{}, fmt.Errorf("seed role assignment %s: %w", s.email, err)
		}
		ids[i] = u.ID
	}

	demo := &shop.Shop{ID: uuid.New(), Name: "Printa Demo Print Shop", Type: shop.TypePrint, IsActive: true}
	if err := repos.shops.CreateShop(ctx, demo, &shop.Member{ShopID: demo.ID, UserID: ids[0], Title: staff[0].title}); err != nil {
		return demoSeed{}, fmt.Errorf("seed shop: %w", err)
	}
	for i := 1; i < len(staff); i++ {
		if err := repos.shops.AddMember(ctx, &shop.Member{ShopID: demo.ID, UserID: ids[i], Title: staff[i].title}); err != nil {
			return demoSeed{}, fmt.Errorf("seed member %s: %w", staff[i].email, err)
		}
	}

	if err := seedCatalog(ctx, repos, demo.ID, ids[0]); err != nil {
		return demoSeed{}, err
	}

	seed := demoSeed{ShopID: demo.ID, ManagerID: ids[0], CashierID: ids[1]}
	logger.Info("demo data seeded",
		zap.String("shop_id", seed.ShopID.String()),
		zap.String("manager_id", seed.ManagerID.String()),
		zap.String("cashier_id", seed.CashierID.String()),
	)
	return seed, nil
}

// seedCatalog adds priced print services plus one stock-tracked product.
func seedCatalog(ctx context.Context, repos repositories, shopID, actorID uuid.UUID) error {
	printing := &catalog.Category{ID: uuid.New(), ShopID: shopID, Name: "Printing"}
	if err := repos.catalog.CreateCategory(ctx, printing); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	items := []struct {
		name  string
		price string
		stock int
	}{
		{"A4 colour print", "5.00", -1},
		{"A4 black and white print", "1.50", -1},
		{"Spiral binding", "25.00", -1},
		{"A4 paper ream", "95.00", 40},
	}
	for _, it := range items {
		item := &catalog.Item{
			ID:         uuid.New(),
			ShopID:     shopID,
			CategoryID: printing.ID,
			Name:       it.name,
			Price:      decimal.RequireFromString(it.price),
			IsActive:   true,
		}
		if err := repos.catalog.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("seed item %s: %w", it.name, err)
		}
		if it.stock < 0 {
			continue
		}
		level := &inventory.StockLevel{ShopID: shopID, ItemID: item.ID, Quantity: it.stock}
		if _, err := repos.stock.SetLevel(ctx, level, actorID); err != nil {
			return fmt.Errorf("seed stock %s: %w", it.name, err)
		}
	}
	return nil
}
