package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDenylist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	denylist := NewRedisDenylist(client)
	ctx := context.Background()

	t.Run("revoked until expiry", func(t *testing.T) {
		require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

		revoked, err := denylist.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		mr.FastForward(2 * time.Minute)

		revoked, err = denylist.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("already expired token is not stored", func(t *testing.T) {
		require.NoError(t, denylist.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))

		assert.False(t, mr.Exists(revokedKeyPrefix+"jti-2"))
	})

	t.Run("unknown token", func(t *testing.T) {
		revoked, err := denylist.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("redis unavailable", func(t *testing.T) {
		mr.SetError("ERR server unavailable")
		defer mr.SetError("")

		_, err := denylist.IsRevoked(ctx, "jti-1")
		assert.Error(t, err)
	})
}

func TestNopDenylist(t *testing.T) {
	var d Denylist = NopDenylist{}

	require.NoError(t, d.Revoke(context.Background(), "jti", time.Now().Add(time.Hour)))
	revoked, err := d.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
