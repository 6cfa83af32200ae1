package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/shoplane-backend/pkg/config"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestGetReturnsCacheMiss(t *testing.T) {
	client := &Client{store: newFakeStore()}

	_, err := client.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetThenGetRoundTrip(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}

	key := client.UserOrdersExportKey(7)
	require.NoError(t, client.Set(context.Background(), key, "[]", 300*time.Second))

	got, err := client.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Equal(t, 300*time.Second, store.ttls[key])
}

func TestUserOrdersExportKeyIsDeterministic(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "shoplane:export:user_orders_data_export_7", client.UserOrdersExportKey(7))
	assert.Equal(t, client.UserOrdersExportKey(7), client.UserOrdersExportKey(7))
}

func TestOptionsFromConfigAddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", Password: "pw", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestOptionsFromConfigRequiresURLOrAddress(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)
}

func TestUserOrdersExportKeyMatchesPackageBuilder(t *testing.T) {
	client := &Client{}
	assert.Equal(t, UserOrdersExportKey(7), client.UserOrdersExportKey(7))
	assert.Equal(t, "shoplane:export:user_orders_data_export_42", UserOrdersExportKey(42))
}

func TestDelRemovesKey(t *testing.T) {
	store := newFakeStore()
	client := &Client{store: store}

	require.NoError(t, client.Set(context.Background(), "k", "v", 0))
	require.NoError(t, client.Del(context.Background(), "k"))

	_, err := client.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
