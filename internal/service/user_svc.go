package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
	"agenda-api/internal/auth"
	"agenda-api/internal/model"
)

// UserService manages staff accounts within a tenant.
type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

// CreateUserInput is the admin user-creation payload.
type CreateUserInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
	// TenantID is only honored for superadmins; admins always create
	// inside their own tenant and asking otherwise is forbidden.
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

// UpdateUserInput carries optional user updates.
type UpdateUserInput struct {
	Name     *string     `json:"name,omitempty"`
	Role     *model.Role `json:"role,omitempty"`
	IsActive *bool       `json:"is_active,omitempty"`
}

// Create adds a staff user. Admins and superadmins only.
func (s *UserService) Create(actor auth.Actor, in CreateUserInput) (*model.User, error) {
	if err := auth.Authorize(actor, auth.ActionCreate, auth.ResourceUser); err != nil {
		return nil, err
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	role := in.Role
	if role == "" {
		role = model.RoleAgent
	}
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}

	tenantID := auth.StampTenant(actor)
	if in.TenantID != nil && *in.TenantID != actor.TenantID {
		if !actor.IsSuperAdmin() {
			return nil, apperr.Forbidden("users can only be created in your own tenant")
		}
		tenantID = *in.TenantID
	}

	var tenant model.Tenant
	if err := s.db.First(&tenant, "id = ?", tenantID).Error; err != nil {
		return nil, lookupErr(err, "tenant not found")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
		TenantID: tenantID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	s.log.Info("user created",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("by", actor.Email))
	return &user, nil
}

// List returns users visible to the actor, scoped to their tenant
// unless they are a superadmin.
func (s *UserService) List(actor auth.Actor, tenantID *uuid.UUID) ([]model.User, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceUser); err != nil {
		return nil, err
	}
	var users []model.User
	q := auth.TenantScopedAs(s.db.Preload("Tenant"), actor, tenantID)
	if err := q.Order("name").Find(&users).Error; err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return users, nil
}

// Get returns one user inside the actor's scope.
func (s *UserService) Get(actor auth.Actor, id uuid.UUID) (*model.User, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceUser); err != nil {
		return nil, err
	}
	var user model.User
	err := auth.TenantScoped(s.db.Preload("Tenant"), actor).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "user not found")
	}
	return &user, nil
}

// Update modifies a user inside the actor's scope.
func (s *UserService) Update(actor auth.Actor, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.ResourceUser); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Validation("unknown role")
		}
		updates["role"] = *in.Role
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	return user, nil
}

// Activate flips an access-requested account to active, completing the
// approval flow.
func (s *UserService) Activate(actor auth.Actor, id uuid.UUID) (*model.User, error) {
	active := true
	return s.Update(actor, id, UpdateUserInput{IsActive: &active})
}

// Delete removes a user inside the actor's scope.
func (s *UserService) Delete(actor auth.Actor, id uuid.UUID) error {
	user, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actor, auth.ActionDelete, auth.ResourceUser); err != nil {
		return err
	}
	if err := s.db.Delete(user).Error; err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	s.log.Info("user deleted", zap.String("email", user.Email), zap.String("by", actor.Email))
	return nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserService) ChangePassword(actor auth.Actor, current, next string) error {
	if len(next) < 6 {
		return apperr.Validation("new password must have at least 6 characters")
	}
	var user model.User
	if err := s.db.First(&user, "id = ?", actor.UserID).Error; err != nil {
		return lookupErr(err, "user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return apperr.Unauthorized("current password does not match")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}
