package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decor-marketplace-server/config"
	"decor-marketplace-server/types"
)

func TestMain(m *testing.M) {
	config.Load()
	m.Run()
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-Pass!")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-Pass!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateAndVerifyToken(t *testing.T) {
	actor := types.Actor{ID: 7, Email: "deco@example.com", Role: types.RoleDecorator}

	token, expiresIn, err := GenerateToken(actor)
	require.NoError(t, err)
	assert.Equal(t, int64(config.AppConfig.JWT.ExpiryHours*3600), expiresIn)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "deco@example.com", claims.Email)
	assert.Equal(t, types.RoleDecorator, claims.Role)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	token, _, err := GenerateToken(types.Actor{ID: 1, Email: "a@b.c", Role: types.RoleUser})
	require.NoError(t, err)

	_, err = VerifyToken(token + "x")
	assert.Error(t, err)
}

func TestNewTrackingID(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	id := NewTrackingID(at)

	assert.True(t, strings.HasPrefix(id, "DEC-20261019-"))
	assert.Len(t, id, len("DEC-20261019-")+6)
	assert.NotEqual(t, id, NewTrackingID(at))
}
