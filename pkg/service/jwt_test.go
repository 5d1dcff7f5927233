package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "testpark-console/pkg/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	token, err := svc.GenerateToken("sess-1", "staff")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "staff", claims.Username)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop()).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.GenerateToken("sess-1", "staff")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour, zap.NewNop()).GenerateToken("sess-1", "staff")
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
