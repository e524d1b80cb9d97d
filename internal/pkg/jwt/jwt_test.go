package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestJWTService_GenerateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	token, expiresAt, err := svc.GenerateAccessToken("emp-1", "admin@hrms.com", employee.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims := decoded.PrivateClaims()
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "admin@hrms.com", claims["email"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTService_GenerateAccessToken_InvalidDuration(t *testing.T) {
	svc := NewJWTService(testSecret, "one hour")

	_, _, err := svc.GenerateAccessToken("emp-1", "admin@hrms.com", employee.RoleAdmin)

	assert.Error(t, err)
}

func TestJWTService_SSEToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	token, expiresIn, err := svc.GenerateSSEToken("emp-2", employee.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	employeeID, role, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-2", employeeID)
	assert.Equal(t, employee.RoleManager, role)
}

func TestJWTService_ValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")
	token, _, err := svc.GenerateAccessToken("emp-1", "a@b.cd", employee.RoleAdmin)
	require.NoError(t, err)

	_, _, err = svc.ValidateSSEToken(token)

	assert.Error(t, err)
}

func TestJWTService_RevokeToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h").(*JWTService)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.RevokeToken("stale", now.Add(-time.Minute))
	assert.True(t, svc.IsTokenRevoked("stale"))

	svc.RevokeToken("fresh", now.Add(time.Hour))

	assert.True(t, svc.IsTokenRevoked("fresh"))
	assert.False(t, svc.IsTokenRevoked("stale"), "expired entries are pruned")
	assert.False(t, svc.IsTokenRevoked("never-revoked"))
}
