package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "SCHEDULED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is a half-open [StartTime, EndTime) booking of a staff user
// for a client. ClientID and UserID must resolve inside the same tenant.
type Appointment struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string            `json:"title" gorm:"type:varchar(255);not null"`
	Description string            `json:"description,omitempty" gorm:"type:text"`
	StartTime   time.Time         `json:"start_time" gorm:"index;not null"`
	EndTime     time.Time         `json:"end_time" gorm:"not null"`
	Status      AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'SCHEDULED'"`
	Notes       string            `json:"notes,omitempty" gorm:"type:text"`
	ClientID    uuid.UUID         `json:"client_id" gorm:"type:uuid;index;not null"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;index;not null"`
	TenantID    uuid.UUID         `json:"tenant_id" gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `json:"-" gorm:"index"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
