// Package handler exposes the domain services over echo. Handlers
// bind input, resolve the Actor, call a service and translate the
// typed error onto the HTTP status mapping.
package handler

import (
	"agenda-api/internal/service"
	"agenda-api/pkg/jwtutil"
)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	svc *service.Services
	jwt *jwtutil.JWTUtil
}

// New creates the handler set.
func New(svc *service.Services, jwt *jwtutil.JWTUtil) *Handler {
	return &Handler{svc: svc, jwt: jwt}
}
