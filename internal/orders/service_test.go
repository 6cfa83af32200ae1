package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/redis"
)

type fakeOrderRepo struct {
	OrderRepository
	orders      map[uint][]models.Order
	userQueries int
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID uint) ([]models.Order, error) {
	f.userQueries++
	return f.orders[userID], nil
}

type fakeUsers struct {
	known map[uint]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := f.known[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeCache struct {
	entries map[string]string
	sets    int
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := f.entries[key]
	if !ok {
		return "", redis.ErrCacheMiss
	}
	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	f.entries[key] = value.(string)
	return nil
}

func (f *fakeCache) UserOrdersExportKey(userID uint) string {
	return redis.UserOrdersExportKey(userID)
}

func newExportFixture(t *testing.T) (Service, *fakeOrderRepo, *fakeCache) {
	t.Helper()

	uid := uint(7)
	repo := &fakeOrderRepo{orders: map[uint][]models.Order{
		7: {{
			ID:              1,
			DeliveryAddress: "123 Main St",
			Promocode:       "SALE10",
			UserID:          &uid,
			Products:        []models.Product{{ID: 1, Name: "Lamp"}},
		}},
	}}
	cache := &fakeCache{entries: map[string]string{}}
	svc, err := NewService(ServiceParams{
		Repo:  repo,
		Users: &fakeUsers{known: map[uint]*models.User{7: {ID: 7, Username: "alice"}}},
		Cache: cache,
	})
	require.NoError(t, err)
	return svc, repo, cache
}

func TestExportForUser_missFillsCacheThenHitsIt(t *testing.T) {
	svc, repo, cache := newExportFixture(t)
	ctx := context.Background()

	first, err := svc.ExportForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.userQueries)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.ExportForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.userQueries, "second call within the TTL must not touch the database")
	assert.Equal(t, string(first), string(second))

	var rows []OrderDTO
	require.NoError(t, json.Unmarshal(second, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].PK)
	assert.Equal(t, []uint{1}, rows[0].Products)
}

func TestExportForUser_expiredEntryRefreshes(t *testing.T) {
	svc, repo, cache := newExportFixture(t)
	ctx := context.Background()

	_, err := svc.ExportForUser(ctx, 7)
	require.NoError(t, err)

	// Simulate the TTL lapsing.
	delete(cache.entries, redis.UserOrdersExportKey(7))

	_, err = svc.ExportForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.userQueries)
	assert.Equal(t, 2, cache.sets)
}

func TestExportForUser_staleAfterWrite(t *testing.T) {
	svc, repo, cache := newExportFixture(t)
	ctx := context.Background()

	first, err := svc.ExportForUser(ctx, 7)
	require.NoError(t, err)

	// New orders do not invalidate the cached payload.
	uid := uint(7)
	repo.orders[7] = append(repo.orders[7], models.Order{ID: 2, DeliveryAddress: "9 Elm St", UserID: &uid})

	second, err := svc.ExportForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, cache.sets)
}

func TestExportForUser_unknownUserSkipsCache(t *testing.T) {
	svc, _, cache := newExportFixture(t)

	_, err := svc.ExportForUser(context.Background(), 42)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Empty(t, cache.entries)
	assert.Zero(t, cache.sets)
}

func TestLatest_rendersProductSet(t *testing.T) {
	repo := &stubLatestRepo{orders: []models.Order{{
		ID:       3,
		Products: []models.Product{{ID: 1, Name: "Lamp"}, {ID: 2, Name: "Desk"}},
	}}}
	svc, err := NewService(ServiceParams{Repo: repo, Users: &fakeUsers{}})
	require.NoError(t, err)

	items, err := svc.Latest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "<QuerySet [<Product: Product(pk=1, name='Lamp')>, <Product: Product(pk=2, name='Desk')>]>", items[0].Products)
}

type stubLatestRepo struct {
	OrderRepository
	orders []models.Order
}

func (s *stubLatestRepo) Latest(_ context.Context, limit int) ([]models.Order, error) {
	if limit < len(s.orders) {
		return s.orders[:limit], nil
	}
	return s.orders, nil
}
