package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-api/internal/apperr"
	"agenda-api/internal/model"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	hour := time.Hour

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", base, base.Add(hour), base, base.Add(hour), true},
		{"contained", base, base.Add(2 * hour), base.Add(30 * time.Minute), base.Add(hour), true},
		{"partial overlap", base, base.Add(hour), base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"back to back", base, base.Add(hour), base.Add(hour), base.Add(2 * hour), false},
		{"disjoint", base, base.Add(hour), base.Add(2 * hour), base.Add(3 * hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestCreateAppointmentConflicts(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	u1 := seedUser(t, db, tenant, "u1@t1.com", model.RoleAgent)
	u2 := seedUser(t, db, tenant, "u2@t1.com", model.RoleAgent)
	client := seedClient(t, db, tenant, "Cliente A")
	actor := actorFor(u1)

	// A1 = [10:00, 11:00) for u1.
	_, err := svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "A1",
		StartTime: ts(t, "2024-01-15T10:00:00Z"),
		EndTime:   ts(t, "2024-01-15T11:00:00Z"),
		ClientID:  client.ID,
	})
	require.NoError(t, err)

	// A2 = [10:30, 11:30) for the same user conflicts.
	_, err = svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "A2",
		StartTime: ts(t, "2024-01-15T10:30:00Z"),
		EndTime:   ts(t, "2024-01-15T11:30:00Z"),
		ClientID:  client.ID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	// A3 = [11:00, 12:00) is adjacent, not overlapping.
	_, err = svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "A3",
		StartTime: ts(t, "2024-01-15T11:00:00Z"),
		EndTime:   ts(t, "2024-01-15T12:00:00Z"),
		ClientID:  client.ID,
	})
	assert.NoError(t, err)

	// The same slot as A1 for a different user is fine.
	_, err = svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "A1-u2",
		StartTime: ts(t, "2024-01-15T10:00:00Z"),
		EndTime:   ts(t, "2024-01-15T11:00:00Z"),
		ClientID:  client.ID,
		UserID:    uuidPtr(u2.ID),
	})
	assert.NoError(t, err)
}

func TestUpdateAppointmentExcludesSelf(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	user := seedUser(t, db, tenant, "u1@t1.com", model.RoleAgent)
	client := seedClient(t, db, tenant, "Cliente A")
	actor := actorFor(user)

	start := ts(t, "2024-01-15T10:00:00Z")
	end := ts(t, "2024-01-15T11:00:00Z")
	appt := seedAppointment(t, db, tenant, client, user, start, end)

	// Re-submitting the same window must not conflict with itself.
	updated, err := svc.Appointments.Update(actor, appt.ID, UpdateAppointmentInput{
		StartTime: &start,
		EndTime:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, appt.ID, updated.ID)

	// Moving onto another appointment still conflicts.
	seedAppointment(t, db, tenant, client, user,
		ts(t, "2024-01-15T12:00:00Z"), ts(t, "2024-01-15T13:00:00Z"))
	newStart := ts(t, "2024-01-15T12:30:00Z")
	newEnd := ts(t, "2024-01-15T13:30:00Z")
	_, err = svc.Appointments.Update(actor, appt.ID, UpdateAppointmentInput{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	user := seedUser(t, db, tenant, "u1@t1.com", model.RoleAgent)
	client := seedClient(t, db, tenant, "Cliente A")
	actor := actorFor(user)

	// Zero-duration interval is rejected at validation.
	at := ts(t, "2024-01-15T10:00:00Z")
	_, err := svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "zero",
		StartTime: at,
		EndTime:   at,
		ClientID:  client.ID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	// End before start as well.
	_, err = svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "inverted",
		StartTime: at,
		EndTime:   at.Add(-time.Hour),
		ClientID:  client.ID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateAppointmentCrossTenantReferences(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	t2 := seedTenant(t, db, "t2")
	u1 := seedUser(t, db, t1, "u1@t1.com", model.RoleAgent)
	otherClient := seedClient(t, db, t2, "Cliente de outro tenant")
	actor := actorFor(u1)

	// A client from another tenant reads as not found, not forbidden.
	_, err := svc.Appointments.Create(actor, CreateAppointmentInput{
		Title:     "cross",
		StartTime: ts(t, "2024-01-15T10:00:00Z"),
		EndTime:   ts(t, "2024-01-15T11:00:00Z"),
		ClientID:  otherClient.ID,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAppointmentTenantIsolation(t *testing.T) {
	svc, db := newTestServices(t)
	t1 := seedTenant(t, db, "t1")
	t2 := seedTenant(t, db, "t2")
	u1 := seedUser(t, db, t1, "u1@t1.com", model.RoleAdmin)
	u2 := seedUser(t, db, t2, "u2@t2.com", model.RoleAdmin)
	c2 := seedClient(t, db, t2, "Cliente B")
	appt := seedAppointment(t, db, t2, c2, u2,
		ts(t, "2024-01-15T10:00:00Z"), ts(t, "2024-01-15T11:00:00Z"))

	// u1 cannot see, update or delete t2's appointment.
	_, err := svc.Appointments.Get(actorFor(u1), appt.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	title := "hijack"
	_, err = svc.Appointments.Update(actorFor(u1), appt.ID, UpdateAppointmentInput{Title: &title})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = svc.Appointments.Delete(actorFor(u1), appt.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	// The owner still can.
	got, err := svc.Appointments.Get(actorFor(u2), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
}

func TestListAppointmentsFilter(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	user := seedUser(t, db, tenant, "u1@t1.com", model.RoleAgent)
	client := seedClient(t, db, tenant, "Cliente A")
	actor := actorFor(user)

	seedAppointment(t, db, tenant, client, user,
		ts(t, "2024-01-15T10:00:00Z"), ts(t, "2024-01-15T11:00:00Z"))
	appt := seedAppointment(t, db, tenant, client, user,
		ts(t, "2024-02-15T10:00:00Z"), ts(t, "2024-02-15T11:00:00Z"))
	require.NoError(t, db.Model(appt).Update("status", model.StatusCompleted).Error)

	from := ts(t, "2024-02-01T00:00:00Z")
	appts, err := svc.Appointments.List(actor, AppointmentFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	appts, err = svc.Appointments.List(actor, AppointmentFilter{Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	appts, err = svc.Appointments.List(actor, AppointmentFilter{UserID: uuidPtr(user.ID)})
	require.NoError(t, err)
	assert.Len(t, appts, 2)

	_, err = svc.Appointments.List(actor, AppointmentFilter{Status: "BOGUS"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCalendarKeepsMonthSpanningAppointments(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	user := seedUser(t, db, tenant, "u1@t1.com", model.RoleAgent)
	client := seedClient(t, db, tenant, "Cliente A")
	actor := actorFor(user)

	// Starts on January 31st, ends past midnight in February. The
	// calendar places it in the month it begins.
	spanning := seedAppointment(t, db, tenant, client, user,
		ts(t, "2024-01-31T23:00:00Z"), ts(t, "2024-02-01T00:30:00Z"))
	february := seedAppointment(t, db, tenant, client, user,
		ts(t, "2024-02-15T10:00:00Z"), ts(t, "2024-02-15T11:00:00Z"))

	january, err := svc.Appointments.Calendar(actor, 1, 2024)
	require.NoError(t, err)
	require.Len(t, january, 1)
	assert.Equal(t, spanning.ID, january[0].ID)

	got, err := svc.Appointments.Calendar(actor, 2, 2024)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, february.ID, got[0].ID)
}

func TestDeleteAppointmentRequiresAdmin(t *testing.T) {
	svc, db := newTestServices(t)
	tenant := seedTenant(t, db, "t1")
	agent := seedUser(t, db, tenant, "agent@t1.com", model.RoleAgent)
	admin := seedUser(t, db, tenant, "admin@t1.com", model.RoleAdmin)
	client := seedClient(t, db, tenant, "Cliente A")
	appt := seedAppointment(t, db, tenant, client, agent,
		ts(t, "2024-01-15T10:00:00Z"), ts(t, "2024-01-15T11:00:00Z"))

	err := svc.Appointments.Delete(actorFor(agent), appt.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	assert.NoError(t, svc.Appointments.Delete(actorFor(admin), appt.ID))
}
