package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shoplane/shoplane-backend/pkg/db"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
)

func newOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	// The join table must migrate through the explicit model so its foreign
	// keys exist, same as the SQL migrations.
	require.NoError(t, conn.SetupJoinTable(&models.Order{}, "Products", &models.OrderProduct{}))
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderProduct{},
	))
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, conn *gorm.DB, name string) *models.Product {
	t.Helper()

	product := &models.Product{Name: name, Price: decimal.RequireFromString("9.99")}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestRepositoryCreateWithProducts(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := seedUser(t, conn, "alice")
	p1 := seedProduct(t, conn, "Lamp")
	p2 := seedProduct(t, conn, "Desk")

	created, err := repo.CreateWithProducts(ctx, &models.Order{
		DeliveryAddress: "123 Main St",
		Promocode:       "SALE10",
		UserID:          &user.ID,
	}, []uint{p1.ID, p2.ID})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", found.DeliveryAddress)
	require.NotNil(t, found.User)
	assert.Equal(t, "alice", found.User.Username)
	require.Len(t, found.Products, 2)
}

func TestRepositoryCreateWithProducts_missingProductRollsBack(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := seedUser(t, conn, "bob")

	_, err := repo.CreateWithProducts(ctx, &models.Order{
		DeliveryAddress: "1 Elm St",
		UserID:          &user.ID,
	}, []uint{999})
	require.Error(t, err)
	assert.True(t, db.IsForeignKeyViolation(err))

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepositoryAddProducts_duplicateIsNoop(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := seedProduct(t, conn, "Chair")
	order, err := repo.Create(ctx, &models.Order{DeliveryAddress: "2 Oak St"})
	require.NoError(t, err)

	require.NoError(t, repo.AddProducts(ctx, order.ID, []uint{product.ID}))
	require.NoError(t, repo.AddProducts(ctx, order.ID, []uint{product.ID}))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, found.Products, 1)
}

func TestRepositoryReplaceProducts(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	p1 := seedProduct(t, conn, "Mug")
	p2 := seedProduct(t, conn, "Plate")
	order, err := repo.CreateWithProducts(ctx, &models.Order{DeliveryAddress: "3 Pine St"}, []uint{p1.ID})
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceProducts(ctx, order.ID, []uint{p2.ID}))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Products, 1)
	assert.Equal(t, p2.ID, found.Products[0].ID)
}

func TestRepositoryFindByUser_orderedByPK(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	alice := seedUser(t, conn, "alice")
	carol := seedUser(t, conn, "carol")

	first, err := repo.Create(ctx, &models.Order{DeliveryAddress: "A", UserID: &alice.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Order{DeliveryAddress: "C", UserID: &carol.ID})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &models.Order{DeliveryAddress: "B", UserID: &alice.ID})
	require.NoError(t, err)

	orders, err := repo.FindByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
}

func TestRepositoryLatest_newestFirst(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 7; i++ {
		order := &models.Order{DeliveryAddress: "X", CreatedAt: now.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, conn.Create(order).Error)
	}

	orders, err := repo.Latest(ctx, 5)
	require.NoError(t, err)
	require.Len(t, orders, 5)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt))
	}
}

func TestRepositoryListAll_filtersAndSearch(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	user := seedUser(t, conn, "dave")
	_, err := repo.Create(ctx, &models.Order{DeliveryAddress: "10 Birch Rd", Promocode: "WELCOME", UserID: &user.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Order{DeliveryAddress: "11 Cedar Rd", Promocode: "SALE10"})
	require.NoError(t, err)

	promo := "WELCOME"
	byPromo, err := repo.ListAll(ctx, ListFilters{Promocode: &promo}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byPromo, 1)
	assert.Equal(t, "10 Birch Rd", byPromo[0].DeliveryAddress)

	bySearch, err := repo.ListAll(ctx, ListFilters{Search: "Cedar"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "SALE10", bySearch[0].Promocode)

	byUser, err := repo.ListAll(ctx, ListFilters{User: &user.ID}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
}

func TestRepositoryDelete(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := seedProduct(t, conn, "Vase")
	order, err := repo.CreateWithProducts(ctx, &models.Order{DeliveryAddress: "4 Fir St"}, []uint{product.ID})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, order.ID))

	var joins int64
	require.NoError(t, conn.Model(&models.OrderProduct{}).Count(&joins).Error)
	assert.Zero(t, joins)

	err = repo.Delete(ctx, order.ID)
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryUpdateReceipt(t *testing.T) {
	conn := newOrdersTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order, err := repo.Create(ctx, &models.Order{DeliveryAddress: "5 Ash St"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateReceipt(ctx, order.ID, "orders/receipts/r.pdf"))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Receipt)
	assert.Equal(t, "orders/receipts/r.pdf", *found.Receipt)
}
