package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-api/internal/apperr"
	"agenda-api/internal/model"
)

func TestTenantCreateRequiresSuperadmin(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	admin := seedUser(t, db, tenant, "admin@t1.com", model.RoleAdmin)
	super := seedUser(t, db, tenant, "root@sys.com", model.RoleSuperAdmin)

	_, err := svc.Tenants.Create(actorFor(admin), CreateTenantInput{Name: "Novo", Slug: "novo"})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	created, err := svc.Tenants.Create(actorFor(super), CreateTenantInput{Name: "Novo", Slug: "Novo"})
	require.NoError(t, err)
	assert.Equal(t, "novo", created.Slug)

	// Slug is unique.
	_, err = svc.Tenants.Create(actorFor(super), CreateTenantInput{Name: "Outro", Slug: "novo"})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestTenantReadScope(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	t2 := seedTenant(t, db, "t2")
	admin := seedUser(t, db, t1, "admin@t1.com", model.RoleAdmin)
	super := seedUser(t, db, t1, "root@sys.com", model.RoleSuperAdmin)

	// Anyone reads their own tenant.
	own, err := svc.Tenants.Get(actorFor(admin), t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, own.ID)

	// Another tenant reads as not found, never forbidden.
	_, err = svc.Tenants.Get(actorFor(admin), t2.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Only superadmin lists all.
	_, err = svc.Tenants.List(actorFor(admin))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	all, err := svc.Tenants.List(actorFor(super))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTenantDeleteCascades(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	super := seedUser(t, db, t1, "root@sys.com", model.RoleSuperAdmin)

	victim := seedTenant(t, db, "t2")
	u := seedUser(t, db, victim, "u@t2.com", model.RoleAdmin)
	c := seedClient(t, db, victim, "Cliente")
	seedAppointment(t, db, victim, c, u,
		ts(t, "2024-01-15T10:00:00Z"), ts(t, "2024-01-15T11:00:00Z"))

	require.NoError(t, svc.Tenants.Delete(actorFor(super), victim.ID))

	var users, clients, appts int64
	db.Model(&model.User{}).Where("tenant_id = ?", victim.ID).Count(&users)
	db.Model(&model.Client{}).Where("tenant_id = ?", victim.ID).Count(&clients)
	db.Model(&model.Appointment{}).Where("tenant_id = ?", victim.ID).Count(&appts)
	assert.Zero(t, users)
	assert.Zero(t, clients)
	assert.Zero(t, appts)
}

func TestUpdateTheme(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	t2 := seedTenant(t, db, "t2")
	admin := seedUser(t, db, t1, "admin@t1.com", model.RoleAdmin)
	agent := seedUser(t, db, t1, "agent@t1.com", model.RoleAgent)
	super := seedUser(t, db, t1, "root@sys.com", model.RoleSuperAdmin)

	// Admin rethemes their own tenant.
	updated, err := svc.Tenants.UpdateTheme(actorFor(admin), t1.ID, "barbearia")
	require.NoError(t, err)
	assert.Equal(t, "barbearia", updated.Theme)

	// But not somebody else's.
	_, err = svc.Tenants.UpdateTheme(actorFor(admin), t2.ID, "salao")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Agents cannot retheme at all.
	_, err = svc.Tenants.UpdateTheme(actorFor(agent), t1.ID, "salao")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Superadmin may retheme any tenant, but only to a known theme.
	_, err = svc.Tenants.UpdateTheme(actorFor(super), t2.ID, "vaporwave")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	updated, err = svc.Tenants.UpdateTheme(actorFor(super), t2.ID, "salao")
	require.NoError(t, err)
	assert.Equal(t, "salao", updated.Theme)
}

func TestUserTenantIsolationAndAdminCreateRule(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	t2 := seedTenant(t, db, "t2")
	admin1 := seedUser(t, db, t1, "admin@t1.com", model.RoleAdmin)
	u2 := seedUser(t, db, t2, "u@t2.com", model.RoleAgent)

	// An admin cannot create users in another tenant.
	_, err := svc.Users.Create(actorFor(admin1), CreateUserInput{
		Name:     "Espião",
		Email:    "spy@t1.com",
		Password: "secret123",
		Role:     model.RoleAgent,
		TenantID: uuidPtr(t2.ID),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Created users are stamped with the admin's tenant.
	created, err := svc.Users.Create(actorFor(admin1), CreateUserInput{
		Name:     "Novo",
		Email:    "novo@t1.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, t1.ID, created.TenantID)
	assert.Equal(t, model.RoleAgent, created.Role)

	// Cross-tenant user reads are not found.
	_, err = svc.Users.Get(actorFor(admin1), u2.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// And the list never leaks the other tenant.
	users, err := svc.Users.List(actorFor(admin1), nil)
	require.NoError(t, err)
	for _, u := range users {
		assert.Equal(t, t1.ID, u.TenantID)
	}
}

func TestUserActivation(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	admin := seedUser(t, db, t1, "admin@t1.com", model.RoleAdmin)

	pending, err := svc.Auth.Register(RegisterInput{
		Name:     "Pendente",
		Email:    "pendente@t1.com",
		Password: "secret123",
		Slug:     "t1",
	})
	require.NoError(t, err)
	require.False(t, pending.IsActive)

	activated, err := svc.Users.Activate(actorFor(admin), pending.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	// Now the user can log in.
	_, err = svc.Auth.Login("pendente@t1.com", "secret123")
	assert.NoError(t, err)
}

func TestClientTenantIsolation(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	t2 := seedTenant(t, db, "t2")
	agent := seedUser(t, db, t1, "agent@t1.com", model.RoleAgent)
	other := seedClient(t, db, t2, "Cliente alheio")

	_, err := svc.Clients.Get(actorFor(agent), other.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = svc.Clients.Delete(actorFor(agent), other.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// Creates are stamped with the actor's tenant.
	created, err := svc.Clients.Create(actorFor(agent), CreateClientInput{Name: "Meu cliente"})
	require.NoError(t, err)
	assert.Equal(t, t1.ID, created.TenantID)

	// Agents may update but not delete clients.
	phone := "11888887777"
	_, err = svc.Clients.Update(actorFor(agent), created.ID, UpdateClientInput{Phone: &phone})
	assert.NoError(t, err)

	err = svc.Clients.Delete(actorFor(agent), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
