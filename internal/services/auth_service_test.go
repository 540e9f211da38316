// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
	"github.com/Zamahele/TenantManagement-sub001/internal/models"
)

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 24}}
	svc := NewAuthService(db, cfg)

	user := &models.User{Username: "admin", Role: models.UserRoleManager}
	require.NoError(t, user.SetPassword("correct-horse"))
	require.NoError(t, db.Create(user).Error)

	resp, err := svc.Login(&LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Username)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 24}}
	svc := NewAuthService(db, cfg)

	user := &models.User{Username: "admin", Role: models.UserRoleManager}
	require.NoError(t, user.SetPassword("correct-horse"))
	require.NoError(t, db.Create(user).Error)

	_, err := svc.Login(&LoginRequest{Username: "admin", Password: "battery-staple"})
	assert.True(t, IsKind(err, ErrKindAccessDenied))
}

func TestLoginUnknownUser(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 24}}
	svc := NewAuthService(db, cfg)

	_, err := svc.Login(&LoginRequest{Username: "ghost", Password: "whatever"})
	assert.True(t, IsKind(err, ErrKindAccessDenied))
}

func TestLoginMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, &config.Config{})

	_, err := svc.Login(&LoginRequest{Username: "admin"})
	assert.True(t, IsKind(err, ErrKindValidationFailure))
}
