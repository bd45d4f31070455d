// Package auth holds the caller context, the role authorization policy
// and the tenant isolation guard. Every domain operation receives an
// explicit Actor instead of reading ambient request state.
package auth

import (
	"github.com/google/uuid"

	"agenda-api/internal/model"
)

// Actor identifies the authenticated caller of a domain operation.
type Actor struct {
	UserID     uuid.UUID
	Email      string
	Role       model.Role
	TenantID   uuid.UUID
	TenantSlug string
}

// IsSuperAdmin reports whether the actor may cross tenant boundaries.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin
}
