package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAccessToken(t *testing.T) {
	// Arrange
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	// Act
	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", "emp-1", user.RoleHR)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "hr", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTService_GenerateAccessToken_InvalidRole(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	_, _, err := svc.GenerateAccessToken("user-1", "emp-1", user.Role("owner"))

	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestJWTService_GenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", "emp-1", user.RoleEmployee)

	assert.Error(t, err)
}
