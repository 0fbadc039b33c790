package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	tokenString, err := GenerateJWT(42, "rahul", testSecret, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "rahul", claims.Username)
}

func TestValidateJWTFailures(t *testing.T) {
	tokenString, err := GenerateJWT(7, "priya", testSecret, 15)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty token", "", testSecret},
		{"empty secret", tokenString, ""},
		{"wrong secret", tokenString, "another-secret"},
		{"garbage token", "not.a.jwt", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	tokenString, err := GenerateRefreshToken(42, testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}
