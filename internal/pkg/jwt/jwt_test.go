package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuth_VerifiesTokenSignedWithSecret(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, tokenString, err := svc.JWTAuth().Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"company_id":  "comp-1",
		"role":        "employee",
		"type":        "access",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims["employee_id"])
	assert.Equal(t, "access", claims["type"])
}

func TestJWTAuth_RejectsTokenFromOtherSecret(t *testing.T) {
	other := jwtauth.New("HS256", []byte("other-secret"), nil)
	_, tokenString, err := other.Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	svc := NewJWTService("test-secret")

	_, err = jwtauth.VerifyToken(svc.JWTAuth(), tokenString)
	assert.Error(t, err)
}
