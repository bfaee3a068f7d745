package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestStoreAside(t *testing.T) {
	mr, rdb := setupRedis(t)
	store := NewStore(rdb)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *profile) func() error {
		return func() error {
			calls++
			*dest = profile{ID: 1, Name: "ada"}
			return nil
		}
	}

	var first profile
	require.NoError(t, store.Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	var second profile
	require.NoError(t, store.Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "ada", second.Name)
	assert.True(t, mr.Exists("user:1"))

	store.InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists("user:1"))
}

func TestStoreAsidePropagatesFetchError(t *testing.T) {
	_, rdb := setupRedis(t)
	store := NewStore(rdb)

	var dest profile
	err := store.Aside(context.Background(), UserKey(2), &dest, UserTTL, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestStoreWithoutClient(t *testing.T) {
	store := NewStore(nil)
	assert.False(t, store.Enabled())

	found, err := store.GetJSON(context.Background(), "k", &profile{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, store.SetJSON(context.Background(), "k", profile{}, time.Minute))

	calls := 0
	var dest profile
	require.NoError(t, store.Aside(context.Background(), "k", &dest, time.Minute, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func TestTokenDenylist(t *testing.T) {
	mr, rdb := setupRedis(t)
	deny := NewTokenDenylist(rdb)
	ctx := context.Background()

	revoked, err := deny.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, deny.Revoke(ctx, "abc", time.Minute))
	revoked, err = deny.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = deny.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewTokenDenylistNilClient(t *testing.T) {
	assert.Nil(t, NewTokenDenylist(nil))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := Connect(context.Background(), mr.Addr())
	require.NotNil(t, rdb)
	defer rdb.Close()
	assert.NoError(t, Ping(context.Background(), rdb))

	url := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NotNil(t, url)
	defer url.Close()

	assert.Nil(t, Connect(context.Background(), ""))
	assert.Nil(t, Connect(context.Background(), "redis://%zz"))
	assert.NoError(t, Ping(context.Background(), nil))
}
