package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

// Permission is an opaque capability tag granted to roles.
type Permission string

const (
	PermOrdersCreate  Permission = "orders.create"
	PermOrdersView    Permission = "orders.view"
	PermOrdersPay     Permission = "orders.pay"
	PermOrdersCancel  Permission = "orders.cancel"
	PermOrdersRefund  Permission = "orders.refund"
	PermOrdersPrint   Permission = "orders.print"
	PermCatalogManage Permission = "catalog.manage"
	PermStaffManage   Permission = "staff.manage"
	PermRolesManage   Permission = "roles.manage"
)

// Definition describes an assignable permission.
type Definition struct {
	Tag         Permission `json:"tag"`
	Description string     `json:"description"`
	ShopScoped  bool       `json:"shop_scoped"`
}

var catalog = map[Permission]Definition{
	PermOrdersCreate:  {PermOrdersCreate, "Create orders in the active shop", true},
	PermOrdersView:    {PermOrdersView, "View orders and invoices in the active shop", true},
	PermOrdersPay:     {PermOrdersPay, "Mark created orders as paid", true},
	PermOrdersCancel:  {PermOrdersCancel, "Cancel created orders", true},
	PermOrdersRefund:  {PermOrdersRefund, "Refund paid orders", true},
	PermOrdersPrint:   {PermOrdersPrint, "Reprint order invoices", true},
	PermCatalogManage: {PermCatalogManage, "Edit categories and items", true},
	PermStaffManage:   {PermStaffManage, "Add and remove shop members", true},
	PermRolesManage:   {PermRolesManage, "List and edit roles and their permissions", false},
}

// Catalog returns every assignable permission, sorted by tag.
func Catalog() []Definition {
	defs := make([]Definition, 0, len(catalog))
	for _, def := range catalog {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Tag < defs[j].Tag })
	return defs
}

// Lookup returns the definition for tag.
func Lookup(tag Permission) (Definition, bool) {
	def, ok := catalog[tag]
	return def, ok
}

// NormalisePermissions trims, lower-cases and de-duplicates raw tags.
// Tags outside the catalog are rejected.
func NormalisePermissions(raw []string) ([]Permission, error) {
	seen := make(map[Permission]struct{}, len(raw))
	out := make([]Permission, 0, len(raw))
	for _, val := range raw {
		tag := Permission(strings.ToLower(strings.TrimSpace(val)))
		if tag == "" {
			continue
		}
		if _, ok := catalog[tag]; !ok {
			return nil, fmt.Errorf("%w: unknown permission %q", apperr.ErrValidation, val)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// CapabilitySet is a user's effective permission set.
type CapabilitySet map[Permission]struct{}

// NewCapabilitySet builds the union of the given permission lists.
func NewCapabilitySet(lists ...[]Permission) CapabilitySet {
	set := CapabilitySet{}
	for _, perms := range lists {
		for _, p := range perms {
			set[p] = struct{}{}
		}
	}
	return set
}

// Has reports whether p is explicitly granted.
func (s CapabilitySet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Sorted lists the set in tag order.
func (s CapabilitySet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Scope is the shop a decision applies to and whether the user belongs to it.
type Scope struct {
	ShopID uuid.UUID
	Member bool
}

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Allowed Decision = true
	Denied  Decision = false
)

func (d Decision) String() string {
	if d {
		return "allowed"
	}
	return "denied"
}

// Decide is the whole authorization rule: the tag must be in the catalog and
// explicitly granted, and shop-scoped tags additionally require membership in
// scope.ShopID. Role names and role ordering play no part.
func Decide(caps CapabilitySet, perm Permission, scope Scope) Decision {
	def, ok := catalog[perm]
	if !ok || !caps.Has(perm) {
		return Denied
	}
	if def.ShopScoped && (scope.ShopID == uuid.Nil || !scope.Member) {
		return Denied
	}
	return Allowed
}
