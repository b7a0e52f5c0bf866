package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

// exerciseKV runs the behaviour every backend shares.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Put(ctx, "cart", []byte(`[1,2,2]`)))
	got, err := kv.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1,2,2]`, string(got))

	require.NoError(t, kv.Put(ctx, "cart", []byte(`[]`)))
	got, err = kv.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, kv.Delete(ctx, "cart"))
	_, err = kv.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent slot is not an error.
	assert.NoError(t, kv.Delete(ctx, "cart"))

	assert.Error(t, kv.Put(ctx, "", []byte(`x`)))
	assert.Error(t, kv.Put(ctx, "../escape", []byte(`x`)))
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	value := []byte(`[1]`)
	require.NoError(t, kv.Put(ctx, "cart", value))
	value[1] = '9'

	got, err := kv.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestRedisKV(t *testing.T) {
	mr, client := setupTestRedis(t)
	kv := NewRedisKVWithClient(client, "")
	defer kv.Close()

	exerciseKV(t, kv)

	require.NoError(t, kv.Put(context.Background(), "cart", []byte(`[3]`)))
	stored, err := mr.Get(DefaultRedisPrefix + "cart")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, stored)
}

func TestNewRedisKVPingFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisKV(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestRedisKVSurfacesConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	kv := NewRedisKVWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	defer kv.Close()
	mr.Close()

	_, err = kv.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpenSelectsBackend(t *testing.T) {
	mr, _ := setupTestRedis(t)

	tests := []struct {
		name    string
		backend string
		want    interface{}
		wantErr bool
	}{
		{"memory", "memory", &MemoryKV{}, false},
		{"file", "file", &FileKV{}, false},
		{"redis", "redis", &RedisKV{}, false},
		{"unknown", "etcd", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.backend)
			cfg.Storage.RedisAddr = mr.Addr()

			kv, err := Open(context.Background(), cfg, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer kv.Close()
			assert.IsType(t, tt.want, kv)
		})
	}
}
