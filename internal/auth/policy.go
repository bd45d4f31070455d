package auth

import (
	"fmt"

	"agenda-api/internal/apperr"
	"agenda-api/internal/model"
)

// Resource names a protected resource type.
type Resource string

const (
	ResourceTenant      Resource = "tenant"
	ResourceUser        Resource = "user"
	ResourceClient      Resource = "client"
	ResourceAppointment Resource = "appointment"
	ResourceTheme       Resource = "theme"
)

// Action names an operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type roleSet map[model.Role]bool

func roles(rs ...model.Role) roleSet {
	set := make(roleSet, len(rs))
	for _, r := range rs {
		set[r] = true
	}
	return set
}

var (
	superOnly  = roles(model.RoleSuperAdmin)
	adminUp    = roles(model.RoleAdmin, model.RoleSuperAdmin)
	anyRole    = roles(model.RoleAgent, model.RoleAdmin, model.RoleSuperAdmin)
	agentWrite = roles(model.RoleAgent, model.RoleAdmin, model.RoleSuperAdmin)
)

// policy is the static (resource, action) -> allowed roles table.
// Reads are always allowed and narrowed by tenant scoping instead.
var policy = map[Resource]map[Action]roleSet{
	ResourceTenant: {
		ActionCreate: superOnly,
		ActionRead:   anyRole,
		ActionUpdate: superOnly,
		ActionDelete: superOnly,
	},
	ResourceUser: {
		ActionCreate: adminUp,
		ActionRead:   anyRole,
		ActionUpdate: adminUp,
		ActionDelete: adminUp,
	},
	ResourceClient: {
		ActionCreate: agentWrite,
		ActionRead:   anyRole,
		ActionUpdate: agentWrite,
		ActionDelete: adminUp,
	},
	ResourceAppointment: {
		ActionCreate: agentWrite,
		ActionRead:   anyRole,
		ActionUpdate: agentWrite,
		ActionDelete: adminUp,
	},
	ResourceTheme: {
		ActionRead:   anyRole,
		ActionUpdate: adminUp,
	},
}

// Authorize checks the policy table for the actor's role. Tenant scoping
// has already happened by the time this runs; a denial here is always a
// forbidden error, never a not-found one.
func Authorize(actor Actor, action Action, resource Resource) error {
	actions, ok := policy[resource]
	if !ok {
		return apperr.Forbidden(fmt.Sprintf("unknown resource %q", resource))
	}
	allowed, ok := actions[action]
	if !ok || !allowed[actor.Role] {
		return apperr.Forbidden(fmt.Sprintf("role %s may not %s %s", actor.Role, action, resource))
	}
	return nil
}
