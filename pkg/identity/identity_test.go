package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSession(t *testing.T) {
	exp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := FromSession("user-1", "alice@example.com", exp)

	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, MethodSession, id.Method)
	assert.Equal(t, exp, id.ExpiresAt)
	assert.False(t, id.IsCLI())
}

func TestFromCLIToken(t *testing.T) {
	id := FromCLIToken("user-2")

	assert.Equal(t, "user-2", id.UserID)
	assert.Empty(t, id.Email)
	assert.True(t, id.IsCLI())
	assert.True(t, id.ExpiresAt.IsZero())
}

func TestIdentity_WithRemoteIP(t *testing.T) {
	ip := net.ParseIP("192.168.1.100")
	id := FromCLIToken("user-2").WithRemoteIP(ip)
	assert.Equal(t, ip, id.RemoteIP)
}

func TestContextGetSet(t *testing.T) {
	ctx := context.Background()

	// Initially no identity
	id, ok := Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, id)

	expected := FromSession("user-1", "alice@example.com", time.Time{})
	ctx = Set(ctx, expected)

	id, ok = Get(ctx)
	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, expected.UserID, id.UserID)
	assert.Equal(t, expected.Email, id.Email)
}
