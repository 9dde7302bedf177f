package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()

	t.Run("miss on absent key", func(t *testing.T) {
		_, err := mc.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, mc.Set(ctx, "k", `{"a":1}`, time.Minute))
		v, err := mc.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, v)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, mc.Set(ctx, "gone", "x", time.Minute))
		require.NoError(t, mc.Delete(ctx, "gone"))
		_, err := mc.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("expiry", func(t *testing.T) {
		require.NoError(t, mc.Set(ctx, "brief", "x", time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		_, err := mc.Get(ctx, "brief")
		assert.ErrorIs(t, err, ErrMiss)
	})
}
