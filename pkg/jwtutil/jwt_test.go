package jwtutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-api/internal/model"
	"agenda-api/pkg/config"
)

func TestTokenRoundTrip(t *testing.T) {
	j := New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	tenant := &model.Tenant{ID: uuid.New(), Slug: "barbearia-x"}
	user := &model.User{
		ID:       uuid.New(),
		Email:    "u@t1.com",
		Role:     model.RoleAdmin,
		TenantID: tenant.ID,
		Tenant:   tenant,
	}

	token, err := j.GenerateToken(user)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, tenant.ID, claims.TenantID)
	assert.Equal(t, "barbearia-x", claims.TenantSlug)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer := New(&config.JWTConfig{SigningKey: "key-a", ExpirationHours: 1})
	verifier := New(&config.JWTConfig{SigningKey: "key-b", ExpirationHours: 1})

	token, err := issuer.GenerateToken(&model.User{ID: uuid.New(), Email: "u@t1.com"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	j := New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: -1})

	token, err := j.GenerateToken(&model.User{ID: uuid.New(), Email: "u@t1.com"})
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}
