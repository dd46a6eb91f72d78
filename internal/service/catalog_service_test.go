package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"catalog-service/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{
	"id", "sku", "name", "description", "price", "special_price", "product_type",
	"attribute_set_id", "stock_quantity", "stock_status", "is_active", "created_at", "updated_at",
}

func newTestService(t *testing.T) (*CatalogService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalogService(store.NewStoreFromDB(sqlx.NewDb(db, "postgres"))), mock
}

func TestProductsWithoutFilterUsesPlainListing(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.is_active = TRUE ORDER BY p.created_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(1, "TEE-1", "Tee", nil, "10.00", nil, "simple", 1, 5, "in_stock", true, nil, nil))

	products, err := svc.Products(context.Background(), store.ProductFilter{InStock: false}, 20, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "TEE-1", products[0].SKU())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsWithFilterUsesPredicateQuery(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT")+".*"+
		regexp.QuoteMeta("WHERE p.is_active = $1 AND p.stock_status = $2 ORDER BY p.created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs(true, "in_stock", 5, 10).
		WillReturnRows(sqlmock.NewRows(productColumns))

	products, err := svc.Products(context.Background(), store.ProductFilter{InStock: true}, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsCountDispatch(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT p.id) FROM products p WHERE p.is_active = $1 AND p.product_type = $2")).
		WithArgs(true, "configurable").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	all, err := svc.ProductsCount(context.Background(), store.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 12, all)

	configurable, err := svc.ProductsCount(context.Background(), store.ProductFilter{ProductType: "configurable"})
	require.NoError(t, err)
	assert.Equal(t, 2, configurable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductWithRelations(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products p WHERE p.id = $1")).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(3, "DRESS", "Dress", nil, "59.00", "49.00", "simple", 1, 2, "in_stock", true, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE pav.product_id IN ($1)")).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "attribute_id", "value", "attribute_name", "attribute_code"}).
			AddRow(1, 3, 1, "White", "Color", "color"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM product_images WHERE product_id IN ($1)")).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url", "alt_text", "position", "is_primary"}))

	p, err := svc.Product(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "49", p.Product.EffectivePrice().String())
	require.Len(t, p.AttributeValues, 1)
	assert.Equal(t, "White", p.AttributeValues[0].Value())
	assert.Empty(t, p.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingCategoryIsNil(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories c WHERE c.slug = $1")).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	c, err := svc.CategoryBySlug(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageErrorsAreReturnedUnchanged(t *testing.T) {
	svc, mock := newTestService(t)
	boom := errors.New("pq: canceling statement due to statement timeout")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.parent_id NULLS FIRST")).WillReturnError(boom)

	tree, err := svc.CategoryTree(context.Background())
	assert.Nil(t, tree)
	assert.ErrorIs(t, err, boom)
}
