package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
	"agenda-api/internal/auth"
	"agenda-api/internal/model"
)

// ClientService manages a tenant's customer records.
type ClientService struct {
	db  *gorm.DB
	log *zap.Logger
}

// CreateClientInput is the client-creation payload. The tenant is
// always stamped from the actor.
type CreateClientInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// UpdateClientInput carries optional client updates.
type UpdateClientInput struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ClientStats summarizes a client's appointment history.
type ClientStats struct {
	TotalAppointments int64                             `json:"total_appointments"`
	StatusCounts      map[model.AppointmentStatus]int64 `json:"status_counts"`
}

// Create adds a client to the actor's tenant.
func (s *ClientService) Create(actor auth.Actor, in CreateClientInput) (*model.Client, error) {
	if err := auth.Authorize(actor, auth.ActionCreate, auth.ResourceClient); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, apperr.Validation("name is required")
	}

	client := model.Client{
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		Notes:    in.Notes,
		IsActive: true,
		TenantID: auth.StampTenant(actor),
	}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, apperr.Internal("failed to create client", err)
	}
	return &client, nil
}

// List returns the tenant's clients, optionally filtered by a search
// term over name, phone and email.
func (s *ClientService) List(actor auth.Actor, search string) ([]model.Client, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceClient); err != nil {
		return nil, err
	}
	q := auth.TenantScoped(s.db, actor)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	var clients []model.Client
	if err := q.Order("name").Find(&clients).Error; err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return clients, nil
}

// Get returns one client inside the actor's scope.
func (s *ClientService) Get(actor auth.Actor, id uuid.UUID) (*model.Client, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceClient); err != nil {
		return nil, err
	}
	var client model.Client
	err := auth.TenantScoped(s.db, actor).First(&client, "id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "client not found")
	}
	return &client, nil
}

// Update modifies a client inside the actor's scope.
func (s *ClientService) Update(actor auth.Actor, id uuid.UUID, in UpdateClientInput) (*model.Client, error) {
	client, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.ResourceClient); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = *in.Name
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return client, nil
	}

	if err := s.db.Model(client).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to update client", err)
	}
	return client, nil
}

// Delete removes a client inside the actor's scope.
func (s *ClientService) Delete(actor auth.Actor, id uuid.UUID) error {
	client, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actor, auth.ActionDelete, auth.ResourceClient); err != nil {
		return err
	}
	if err := s.db.Delete(client).Error; err != nil {
		return apperr.Internal("failed to delete client", err)
	}
	s.log.Info("client deleted", zap.String("name", client.Name), zap.String("by", actor.Email))
	return nil
}

// Stats aggregates the client's appointment counts by status.
func (s *ClientService) Stats(actor auth.Actor, id uuid.UUID) (*ClientStats, error) {
	client, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status model.AppointmentStatus
		Count  int64
	}
	err = s.db.Model(&model.Appointment{}).
		Select("status, count(*) as count").
		Where("client_id = ? AND tenant_id = ?", client.ID, client.TenantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("database error", err)
	}

	stats := &ClientStats{StatusCounts: make(map[model.AppointmentStatus]int64)}
	for _, r := range rows {
		stats.StatusCounts[r.Status] = r.Count
		stats.TotalAppointments += r.Count
	}
	return stats, nil
}
