package domain

import "github.com/google/uuid"

// Authorization predicates. Handlers and services compose these three shapes
// per endpoint: exact-role, role-set membership, and ownership-or-admin.

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsVendor reports whether the actor holds the vendor role.
func (a Actor) IsVendor() bool {
	return a.Role == RoleVendor
}

// RoleIn reports whether the actor's role is one of the allowed roles.
func (a Actor) RoleIn(allowed ...Role) bool {
	for _, r := range allowed {
		if a.Role == r {
			return true
		}
	}
	return false
}

// CanManageResource reports whether the actor may mutate a resource owned by
// ownerID. Admins may manage any resource; everyone else only their own.
// A nil ownerID means the resource is admin-owned.
func (a Actor) CanManageResource(ownerID *uuid.UUID) bool {
	if a.Role == RoleAdmin {
		return true
	}
	return ownerID != nil && *ownerID == a.ID
}
