package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"agenda-api/internal/model"
	"agenda-api/pkg/config"
)

// UserClaims represents the JWT claims for user authentication. The
// tenant id and role travel with the token so every request can be
// scoped without a database round trip.
type UserClaims struct {
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	Role       model.Role `json:"role"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	TenantSlug string     `json:"tenant_slug,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil issues and verifies bearer tokens.
type JWTUtil struct {
	signingKey []byte
	expiration time.Duration
}

// New creates a JWT utility from configuration.
func New(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(cfg.SigningKey),
		expiration: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// GenerateToken creates a signed, time-bound token for the user.
func (j *JWTUtil) GenerateToken(user *model.User) (string, error) {
	claims := UserClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if user.Tenant != nil {
		claims.TenantSlug = user.Tenant.Slug
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// ValidateToken validates and parses the JWT token.
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
