// Package navigation maps role sets to landing routes and menu entries.
// The table is static, defined at startup, and never mutated at runtime.
package navigation

import "authgate/internal/domain"

// Role names as issued by the backend. The mixed casing is the backend's,
// not ours.
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "ADMIN"
	RoleClient     = "CLIENT"
)

// Fine-grained permission names gating individual menu entries.
const (
	PermViewPriceReports = "can-see-price-reports"
	PermViewAnalytics    = "can-see-analytics"
	PermManageUsers      = "can-manage-users"
)

// FallbackRoute is returned when no role in the priority order matches.
const FallbackRoute = "/dashboard"

// MenuItem is one navigation entry. Entries with no RequiredPermissions are
// visible to everyone holding the role.
type MenuItem struct {
	Icon                string
	Label               string
	Path                string
	RequiredPermissions []string
}

// RoleConfig binds a role to its landing route and menu.
type RoleConfig struct {
	DefaultRoute string
	MenuItems    []MenuItem
}

// priorityOrder is the authoritative tie-break policy: when a user holds
// several roles, the first match in this order wins. Tests depend on the
// exact ordering; treat it as contract, not implementation detail.
var priorityOrder = []string{RoleSuperAdmin, RoleAdmin, RoleClient}

var roleConfigs = map[string]RoleConfig{
	RoleSuperAdmin: {
		DefaultRoute: "/super-admin/dashboard",
		MenuItems: []MenuItem{
			{Icon: "home", Label: "Home", Path: "/super-admin/dashboard"},
			{Icon: "building", Label: "Tenants", Path: "/super-admin/tenants"},
		},
	},
	RoleAdmin: {
		DefaultRoute: "/admin/dashboard",
		MenuItems: []MenuItem{
			{Icon: "home", Label: "Home", Path: "/admin/dashboard"},
			{Icon: "invoice", Label: "Invoices", Path: "/admin/invoices",
				RequiredPermissions: []string{PermViewPriceReports}},
			{Icon: "users", Label: "Users", Path: "/admin/users",
				RequiredPermissions: []string{PermManageUsers}},
		},
	},
	RoleClient: {
		DefaultRoute: "/dashboard",
		MenuItems: []MenuItem{
			{Icon: "home", Label: "Home", Path: "/dashboard"},
		},
	},
}

// DefaultRouteFor returns the landing route of the highest-priority role
// present in roles, or FallbackRoute when none match.
func DefaultRouteFor(roles []string) string {
	if role, ok := effectiveRole(roles); ok {
		return roleConfigs[role].DefaultRoute
	}
	return FallbackRoute
}

// MenuFor returns the menu of the identity's highest-priority role, keeping
// only entries whose required permissions are all granted, through either
// the base or the tenant-scoped custom permission set. An identity holding
// no role in the priority order sees an empty menu.
func MenuFor(identity *domain.Identity) []MenuItem {
	role, ok := effectiveRole(identity.Roles)
	if !ok {
		return nil
	}

	items := roleConfigs[role].MenuItems
	visible := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if hasAll(identity, item.RequiredPermissions) {
			visible = append(visible, item)
		}
	}
	return visible
}

// effectiveRole is the linear scan over the priority order.
func effectiveRole(roles []string) (string, bool) {
	for _, candidate := range priorityOrder {
		for _, held := range roles {
			if held == candidate {
				return candidate, true
			}
		}
	}
	return "", false
}

func hasAll(identity *domain.Identity, perms []string) bool {
	for _, p := range perms {
		if !identity.HasPermission(p) {
			return false
		}
	}
	return true
}
