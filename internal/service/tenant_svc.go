package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
	"agenda-api/internal/auth"
	"agenda-api/internal/model"
)

// TenantService manages tenants and their theme selection.
type TenantService struct {
	db  *gorm.DB
	log *zap.Logger
}

// CreateTenantInput is the superadmin tenant-provisioning payload.
type CreateTenantInput struct {
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Theme    string         `json:"theme,omitempty"`
	Settings datatypes.JSON `json:"settings,omitempty"`
}

// UpdateTenantInput carries optional tenant updates. The slug is
// immutable once assigned.
type UpdateTenantInput struct {
	Name     *string        `json:"name,omitempty"`
	Settings datatypes.JSON `json:"settings,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

// Create provisions a tenant. Superadmin only.
func (s *TenantService) Create(actor auth.Actor, in CreateTenantInput) (*model.Tenant, error) {
	if err := auth.Authorize(actor, auth.ActionCreate, auth.ResourceTenant); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Slug == "" {
		return nil, apperr.Validation("name and slug are required")
	}

	theme := in.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	if !ThemeExists(theme) {
		return nil, apperr.Validation("unknown theme")
	}

	tenant := model.Tenant{
		Name:     in.Name,
		Slug:     strings.ToLower(strings.TrimSpace(in.Slug)),
		Theme:    theme,
		Settings: in.Settings,
		IsActive: true,
	}
	if err := s.db.Create(&tenant).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("slug already in use")
		}
		return nil, apperr.Internal("failed to create tenant", err)
	}

	s.log.Info("tenant created", zap.String("slug", tenant.Slug), zap.String("by", actor.Email))
	return &tenant, nil
}

// List returns every tenant. Superadmin only; other roles read their own
// tenant through Get.
func (s *TenantService) List(actor auth.Actor) ([]model.Tenant, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperr.Forbidden("only a superadmin may list all tenants")
	}
	var tenants []model.Tenant
	if err := s.db.Order("created_at").Find(&tenants).Error; err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return tenants, nil
}

// Get returns one tenant. Non-superadmins can only ever resolve their
// own tenant; asking for another one reads as not found.
func (s *TenantService) Get(actor auth.Actor, id uuid.UUID) (*model.Tenant, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceTenant); err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && id != actor.TenantID {
		return nil, apperr.NotFound("tenant not found")
	}
	var tenant model.Tenant
	if err := s.db.First(&tenant, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "tenant not found")
	}
	return &tenant, nil
}

// Update modifies tenant fields. Superadmin only.
func (s *TenantService) Update(actor auth.Actor, id uuid.UUID, in UpdateTenantInput) (*model.Tenant, error) {
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.ResourceTenant); err != nil {
		return nil, err
	}
	tenant, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = *in.Name
	}
	if in.Settings != nil {
		updates["settings"] = in.Settings
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return tenant, nil
	}

	if err := s.db.Model(tenant).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to update tenant", err)
	}
	return tenant, nil
}

// Delete removes a tenant and everything it owns in one transaction.
// Superadmin only.
func (s *TenantService) Delete(actor auth.Actor, id uuid.UUID) error {
	if err := auth.Authorize(actor, auth.ActionDelete, auth.ResourceTenant); err != nil {
		return err
	}

	var tenant model.Tenant
	if err := s.db.First(&tenant, "id = ?", id).Error; err != nil {
		return lookupErr(err, "tenant not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.Appointment{}, &model.Client{}, &model.User{}} {
			if err := tx.Where("tenant_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&tenant).Error
	})
	if err != nil {
		return apperr.Internal("failed to delete tenant", err)
	}

	s.log.Info("tenant deleted", zap.String("slug", tenant.Slug), zap.String("by", actor.Email))
	return nil
}

// UpdateTheme switches a tenant to another predefined theme. An admin
// may only retheme their own tenant; a superadmin may retheme any.
func (s *TenantService) UpdateTheme(actor auth.Actor, id uuid.UUID, theme string) (*model.Tenant, error) {
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.ResourceTheme); err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && id != actor.TenantID {
		return nil, apperr.Forbidden("theme can only be changed for your own tenant")
	}
	if !ThemeExists(theme) {
		return nil, apperr.Validation("unknown theme")
	}

	var tenant model.Tenant
	if err := s.db.First(&tenant, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "tenant not found")
	}
	if err := s.db.Model(&tenant).Update("theme", theme).Error; err != nil {
		return nil, apperr.Internal("failed to update theme", err)
	}
	tenant.Theme = theme
	return &tenant, nil
}

// FindBySlug resolves a tenant by slug without tenant scoping. Used by
// the registration flow before any actor exists.
func (s *TenantService) FindBySlug(slug string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := s.db.Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tenant not found")
		}
		return nil, apperr.Internal("database error", err)
	}
	return &tenant, nil
}
