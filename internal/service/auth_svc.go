package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
	"agenda-api/internal/model"
)

// RegisterMode selects what a registration request produces.
type RegisterMode string

const (
	// ModeCreateTenant creates a fresh tenant and its first admin.
	ModeCreateTenant RegisterMode = "CREATE_TENANT"
	// ModeRequestAccess creates an inactive agent pending approval on
	// an existing tenant. This is the default when no mode is given.
	ModeRequestAccess RegisterMode = "REQUEST_ACCESS"
)

// RegisterInput is a registration request before mode resolution.
type RegisterInput struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Mode     RegisterMode `json:"mode,omitempty"`

	// CREATE_TENANT fields.
	TenantName string `json:"tenant_name,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`

	// REQUEST_ACCESS tenant identification, slug preferred.
	Slug     string     `json:"slug,omitempty"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`

	// Accepted but never honored in REQUEST_ACCESS mode.
	Role model.Role `json:"role,omitempty"`
}

// AuthService handles login, registration and profile access.
type AuthService struct {
	db  *gorm.DB
	log *zap.Logger
}

// Login verifies credentials and returns the user on success. Inactive
// users and bad credentials both fail unauthorized without telling the
// caller which it was.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	var user model.User
	err := s.db.Preload("Tenant").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, apperr.Internal("database error", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	if !user.IsActive {
		s.log.Warn("login attempt by inactive user", zap.String("email", email))
		return nil, apperr.Unauthorized("account is not active")
	}

	return &user, nil
}

// Register resolves the registration mode and creates the resulting
// (tenant, user) pair atomically.
func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	// Email uniqueness is global and checked before either mode runs.
	var existing model.User
	err := s.db.Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("database error", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	mode := in.Mode
	if mode == "" {
		mode = ModeRequestAccess
	}

	switch mode {
	case ModeCreateTenant:
		return s.registerNewTenant(in, string(hashed))
	case ModeRequestAccess:
		return s.registerAccessRequest(in, string(hashed))
	default:
		return nil, apperr.Validation("unknown registration mode")
	}
}

// registerNewTenant creates an active tenant plus its first admin. The
// admin can log in immediately.
func (s *AuthService) registerNewTenant(in RegisterInput, hashed string) (*model.User, error) {
	if in.TenantName == "" || in.TenantSlug == "" {
		return nil, apperr.Validation("tenant_name and tenant_slug are required")
	}
	slug := strings.ToLower(strings.TrimSpace(in.TenantSlug))

	var taken model.Tenant
	err := s.db.Where("slug = ?", slug).First(&taken).Error
	if err == nil {
		return nil, apperr.Conflict("slug already in use")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("database error", err)
	}

	var user *model.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tenant := model.Tenant{
			Name:     in.TenantName,
			Slug:     slug,
			Theme:    DefaultTheme,
			IsActive: true,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("slug already in use")
			}
			return apperr.Internal("failed to create tenant", err)
		}

		user = &model.User{
			Name:     in.Name,
			Email:    in.Email,
			Password: hashed,
			Role:     model.RoleAdmin,
			IsActive: true,
			TenantID: tenant.ID,
		}
		if err := tx.Create(user).Error; err != nil {
			return apperr.Internal("failed to create admin user", err)
		}
		user.Tenant = &tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant created via registration",
		zap.String("slug", slug),
		zap.String("admin_email", user.Email))
	return user, nil
}

// registerAccessRequest creates an inactive agent on an existing active
// tenant. Any role or active flag supplied by the caller is discarded.
func (s *AuthService) registerAccessRequest(in RegisterInput, hashed string) (*model.User, error) {
	var tenant model.Tenant
	var err error
	switch {
	case in.Slug != "":
		err = s.db.Where("slug = ?", strings.ToLower(strings.TrimSpace(in.Slug))).First(&tenant).Error
	case in.TenantID != nil:
		err = s.db.Where("id = ?", *in.TenantID).First(&tenant).Error
	default:
		return nil, apperr.Validation("a tenant slug or tenant_id is required")
	}
	if err != nil {
		return nil, lookupErr(err, "tenant not found")
	}
	if !tenant.IsActive {
		return nil, apperr.Validation("tenant is not active")
	}

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     model.RoleAgent,
		IsActive: false,
		TenantID: tenant.ID,
	}
	if err := s.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	user.Tenant = &tenant

	s.log.Info("access request registered",
		zap.String("email", user.Email),
		zap.String("tenant_slug", tenant.Slug))
	return user, nil
}

// Profile returns the caller's own account, rejecting inactive users.
func (s *AuthService) Profile(userID uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("Tenant").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("user not found")
		}
		return nil, apperr.Internal("database error", err)
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("account is not active")
	}
	return &user, nil
}

// isUniqueViolation recognizes unique-constraint failures from the
// drivers in use (postgres 23505, sqlite UNIQUE).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
