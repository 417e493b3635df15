package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestNew_DecodesClaims(t *testing.T) {
	token := signToken(t, &Claims{
		UserID: 42,
		Role:   "staff",
		Tenant: "shami",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	s, err := New(token)
	require.NoError(t, err)

	assert.Equal(t, token, s.Token())
	assert.Equal(t, int64(42), s.UserID())
	assert.Equal(t, RoleStaff, s.Role())
	assert.Equal(t, "shami", s.Tenant())
}

func TestNew_MissingRoleDefaultsToCustomer(t *testing.T) {
	token := signToken(t, &Claims{UserID: 7, Tenant: "shami"})

	s, err := New(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, s.Role())
	assert.False(t, s.Role().Elevated())
}

func TestNew_Rejections(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		_, err := New("")
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := New("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token := signToken(t, &Claims{UserID: 7, Role: "superuser"})
		_, err := New(token)
		assert.Error(t, err)
	})
}

func TestRole_Elevated(t *testing.T) {
	assert.True(t, RoleAdmin.Elevated())
	assert.True(t, RoleStaff.Elevated())
	assert.False(t, RoleCustomer.Elevated())
}
