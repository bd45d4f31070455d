package auth

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScopeTenant resolves the tenant filter for a query. A superadmin may
// pass an explicit tenant id to narrow the query or nil to see
// everything; any other role is forced onto its own tenant no matter
// what was requested.
func ScopeTenant(actor Actor, requested *uuid.UUID) *uuid.UUID {
	if actor.IsSuperAdmin() {
		return requested
	}
	id := actor.TenantID
	return &id
}

// TenantScoped applies the actor's tenant filter to a gorm query.
func TenantScoped(db *gorm.DB, actor Actor) *gorm.DB {
	return TenantScopedAs(db, actor, nil)
}

// TenantScopedAs is TenantScoped with an explicit tenant request, only
// honored for superadmins.
func TenantScopedAs(db *gorm.DB, actor Actor, requested *uuid.UUID) *gorm.DB {
	if id := ScopeTenant(actor, requested); id != nil {
		return db.Where("tenant_id = ?", *id)
	}
	return db
}

// StampTenant returns the tenant id every write must carry. The value
// always comes from the actor, never from request input, so a caller
// cannot create rows inside another tenant.
func StampTenant(actor Actor) uuid.UUID {
	return actor.TenantID
}
