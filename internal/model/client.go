package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer of a tenant. Clients have no login and are scoped
// strictly to the tenant that created them.
type Client struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Phone     string         `json:"phone" gorm:"type:varchar(20)"`
	Email     string         `json:"email,omitempty" gorm:"type:varchar(100)"`
	Notes     string         `json:"notes,omitempty" gorm:"type:text"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	TenantID  uuid.UUID      `json:"tenant_id" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
