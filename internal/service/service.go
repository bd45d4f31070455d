// Package service implements the domain operations of the scheduling
// platform. Every method takes the authenticated Actor explicitly;
// tenant scoping and role checks run before any row is touched.
package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
)

// Services bundles all domain services over one database handle.
type Services struct {
	Auth         *AuthService
	Tenants      *TenantService
	Users        *UserService
	Clients      *ClientService
	Appointments *AppointmentService
	Dashboard    *DashboardService
}

// New wires every service against the given database and logger.
func New(db *gorm.DB, log *zap.Logger) *Services {
	return &Services{
		Auth:         &AuthService{db: db, log: log},
		Tenants:      &TenantService{db: db, log: log},
		Users:        &UserService{db: db, log: log},
		Clients:      &ClientService{db: db, log: log},
		Appointments: &AppointmentService{db: db, log: log},
		Dashboard:    &DashboardService{db: db, log: log},
	}
}

// lookupErr converts a gorm lookup failure into the domain taxonomy.
// A row that exists outside the caller's scope is indistinguishable
// from one that does not exist at all.
func lookupErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal("database error", err)
}
