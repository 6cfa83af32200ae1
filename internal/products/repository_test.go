package products

import (
	"context"
	"testing"

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

func newProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
	))
	return conn
}

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestRepositoryListActive_orderingAndArchiveFilter(t *testing.T) {
	conn := newProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Product{Name: "Lamp", Price: price(t, "30.00")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Product{Name: "Desk", Price: price(t, "120.00")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Product{Name: "Desk", Price: price(t, "80.00")})
	require.NoError(t, err)
	archived, err := repo.Create(ctx, &models.Product{Name: "Chair", Price: price(t, "15.00"), Archived: true})
	require.NoError(t, err)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	// Name ascending, then price ascending inside equal names.
	assert.Equal(t, "Desk", active[0].Name)
	assert.True(t, active[0].Price.Equal(price(t, "80.00")))
	assert.Equal(t, "Desk", active[1].Name)
	assert.True(t, active[1].Price.Equal(price(t, "120.00")))
	assert.Equal(t, "Lamp", active[2].Name)

	// Archived rows stay retrievable by pk.
	found, err := repo.FindByID(ctx, archived.ID)
	require.NoError(t, err)
	assert.True(t, found.Archived)
}

func TestRepositoryList_filtersAndSearch(t *testing.T) {
	conn := newProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Product{Name: "Walnut Desk", Description: "solid wood", Price: price(t, "199.99"), Discount: 10})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Product{Name: "Steel Lamp", Description: "adjustable arm", Price: price(t, "49.50")})
	require.NoError(t, err)

	discount := 10
	byDiscount, err := repo.List(ctx, ListFilters{Discount: &discount}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byDiscount, 1)
	assert.Equal(t, "Walnut Desk", byDiscount[0].Name)

	bySearch, err := repo.List(ctx, ListFilters{Search: "arm"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Steel Lamp", bySearch[0].Name)

	p := price(t, "49.50")
	byPrice, err := repo.List(ctx, ListFilters{Price: &p}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, byPrice, 1)
	assert.Equal(t, "Steel Lamp", byPrice[0].Name)
}

func TestRepositorySetArchived_bulk(t *testing.T) {
	conn := newProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	a, err := repo.Create(ctx, &models.Product{Name: "A", Price: price(t, "1.00")})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &models.Product{Name: "B", Price: price(t, "2.00")})
	require.NoError(t, err)
	c, err := repo.Create(ctx, &models.Product{Name: "C", Price: price(t, "3.00")})
	require.NoError(t, err)

	require.NoError(t, repo.SetArchived(ctx, []uint{a.ID, b.ID}, true))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, c.ID, active[0].ID)

	require.NoError(t, repo.SetArchived(ctx, []uint{a.ID}, false))
	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestRepositoryDelete(t *testing.T) {
	conn := newProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product, err := repo.Create(ctx, &models.Product{Name: "Gone", Price: price(t, "5.00")})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, product.ID))
	err = repo.Delete(ctx, product.ID)
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryAddImageAndPreview(t *testing.T) {
	conn := newProductsTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product, err := repo.Create(ctx, &models.Product{Name: "Shelf", Price: price(t, "60.00")})
	require.NoError(t, err)

	_, err = repo.AddImage(ctx, &models.ProductImage{
		ProductID:   product.ID,
		Image:       "products/product_1/images/front.png",
		Description: "front view",
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePreview(ctx, product.ID, "products/product_1/preview/main.png"))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 1)
	assert.Equal(t, "front view", found.Images[0].Description)
	require.NotNil(t, found.Preview)
	assert.Equal(t, "products/product_1/preview/main.png", *found.Preview)
}
