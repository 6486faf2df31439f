package domain

import "slices"

// Identity is the server-confirmed account record for the active session:
// the user, the tenant it is currently operating in, and the role and
// permission sets granted within that tenant. It is replaced wholesale on
// every fetch, never patched.
type Identity struct {
	UserID            string
	Username          string
	TenantID          string
	TenantName        string
	Roles             []string
	Permissions       []string
	CustomPermissions []string
}

// HasAnyRole reports whether the identity holds at least one of the given roles.
func (i *Identity) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(i.Roles, r) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the identity holds the permission either in
// its base set or in the tenant-scoped custom set.
func (i *Identity) HasPermission(perm string) bool {
	return slices.Contains(i.Permissions, perm) || slices.Contains(i.CustomPermissions, perm)
}

// Clone returns a deep copy so cached values can be handed out without
// aliasing the cache's slot.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Roles = slices.Clone(i.Roles)
	clone.Permissions = slices.Clone(i.Permissions)
	clone.CustomPermissions = slices.Clone(i.CustomPermissions)
	return &clone
}

// TenantRef identifies one tenant the current user may belong to.
type TenantRef struct {
	ID   string
	Name string
}
