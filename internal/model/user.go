package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role determines what a user may do and how queries are tenant-scoped.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleAgent      Role = "AGENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleAgent:
		return true
	}
	return false
}

// User represents a staff account stored in the database.
// Users created through an access request start inactive and cannot
// authenticate until an admin activates them.
type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role           `json:"role" gorm:"type:varchar(20);not null;default:'AGENT'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
