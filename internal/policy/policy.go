// Package policy holds the authorization rules shared by every mutating operation.
package policy

import "socialfeed/internal/models"

// CanModerate reports whether identity may edit or delete a resource owned by
// ownerID: the owner themselves, or any admin.
func CanModerate(identity models.Identity, ownerID models.ID) bool {
	if IsAdmin(identity) {
		return true
	}
	return !identity.UserID.IsZero() && identity.UserID == ownerID
}

// IsAdmin reports whether identity carries the admin role.
func IsAdmin(identity models.Identity) bool {
	return identity.Role == models.RoleAdmin
}
