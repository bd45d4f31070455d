package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agenda-api/internal/auth"
	"agenda-api/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{}, &model.User{}, &model.Client{}, &model.Appointment{},
	))
	return db
}

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, zap.NewNop()), db
}

func seedTenant(t *testing.T, db *gorm.DB, slug string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		Name:     slug,
		Slug:     slug,
		Theme:    DefaultTheme,
		IsActive: true,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedUser(t *testing.T, db *gorm.DB, tenant *model.Tenant, email string, role model.Role) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Name:     email,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
		TenantID: tenant.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedClient(t *testing.T, db *gorm.DB, tenant *model.Tenant, name string) *model.Client {
	t.Helper()
	client := &model.Client{
		Name:     name,
		Phone:    "11999990000",
		IsActive: true,
		TenantID: tenant.ID,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func seedAppointment(t *testing.T, db *gorm.DB, tenant *model.Tenant, client *model.Client, user *model.User, start, end time.Time) *model.Appointment {
	t.Helper()
	appt := &model.Appointment{
		Title:     "corte",
		StartTime: start,
		EndTime:   end,
		Status:    model.StatusScheduled,
		ClientID:  client.ID,
		UserID:    user.ID,
		TenantID:  tenant.ID,
	}
	require.NoError(t, db.Create(appt).Error)
	return appt
}

func actorFor(user *model.User) auth.Actor {
	return auth.Actor{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	}
}

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
