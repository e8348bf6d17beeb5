package util

import (
	"testing"
	"time"

	"evaluation_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	emp := &model.Employee{ID: 4, Username: "mlopez", Name: "María López", Role: model.RoleAdmin}

	token, err := GenerateJWT(emp, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, 4, claims.EmployeeID)
	assert.Equal(t, "mlopez", claims.Username)
	assert.Equal(t, "María López", claims.DisplayName)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "4", claims.Subject)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(&model.Employee{ID: 1}, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(&model.Employee{ID: 1}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWT_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{EmployeeID: 1})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT(signed, "secret")
	assert.Error(t, err)
}
