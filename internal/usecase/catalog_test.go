package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/testutil"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

var (
	adminCaller    = entity.Caller{ID: "root", Role: entity.RoleAdmin}
	customerCaller = entity.Caller{ID: "u1", Role: entity.RoleCustomer}
)

type catalogFixture struct {
	store *testutil.MemStore
	cache *testutil.MemProductCache
	svc   *usecase.Catalog
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	store := testutil.NewMemStore()
	cache := testutil.NewMemProductCache()
	store.PutCategory(&entity.Category{ID: "cat-1", Name: "serums", Type: "skincare", Active: true})
	return &catalogFixture{
		store: store,
		cache: cache,
		svc:   usecase.NewCatalog(store.Products(), store.Categories(), cache),
	}
}

func TestCreateProductRequiresAdminAndCategory(t *testing.T) {
	f := newCatalogFixture(t)
	in := usecase.ProductInput{Name: "vitamin c serum", PriceCents: 2999, Stock: 20, CategoryID: "cat-1"}

	_, err := f.svc.CreateProduct(context.Background(), customerCaller, in)
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	in.CategoryID = "nope"
	_, err = f.svc.CreateProduct(context.Background(), adminCaller, in)
	require.ErrorIs(t, err, entity.ErrCategoryNotFound)

	in.CategoryID = "cat-1"
	p, err := f.svc.CreateProduct(context.Background(), adminCaller, in)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active)
	assert.Equal(t, 20, f.store.ProductStock(p.ID))
}

func TestListProductsHidesInactiveFromCustomers(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "live", Name: "a", CategoryID: "cat-1", Active: true})
	f.store.PutProduct(&entity.Product{ID: "retired", Name: "b", CategoryID: "cat-1", Active: false})

	visible, err := f.svc.ListProducts(context.Background(), customerCaller, usecase.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "live", visible[0].ID)

	all, err := f.svc.ListProducts(context.Background(), adminCaller, usecase.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetProductUsesCache(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "toner", CategoryID: "cat-1", Active: true})

	p, err := f.svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "toner", p.Name)

	// The second read must come from the cache, not the repo.
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "renamed", CategoryID: "cat-1", Active: true})
	p, err = f.svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "toner", p.Name)

	_, err = f.svc.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, entity.ErrProductNotFound)
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "toner", PriceCents: 1000, CategoryID: "cat-1", Active: true})

	_, err := f.svc.GetProduct(context.Background(), "p1") // warm the cache
	require.NoError(t, err)

	in := usecase.ProductInput{Name: "toner xl", PriceCents: 1500, Stock: 5, CategoryID: "cat-1"}
	_, err = f.svc.UpdateProduct(context.Background(), customerCaller, "p1", in)
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	updated, err := f.svc.UpdateProduct(context.Background(), adminCaller, "p1", in)
	require.NoError(t, err)
	assert.Equal(t, "toner xl", updated.Name)

	p, err := f.svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "toner xl", p.Name)
}

func TestDeactivateProductSoftDeletes(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "toner", CategoryID: "cat-1", Active: true})

	require.ErrorIs(t, f.svc.DeactivateProduct(context.Background(), customerCaller, "p1"), entity.ErrNotAuthorized)
	require.NoError(t, f.svc.DeactivateProduct(context.Background(), adminCaller, "p1"))

	visible, err := f.svc.ListProducts(context.Background(), customerCaller, usecase.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	// The row survives for order history.
	p, err := f.svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, p.Active)
}

func TestToggleProductStatusFlips(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "toner", CategoryID: "cat-1", Active: true})

	p, err := f.svc.ToggleProductStatus(context.Background(), adminCaller, "p1")
	require.NoError(t, err)
	assert.False(t, p.Active)

	p, err = f.svc.ToggleProductStatus(context.Background(), adminCaller, "p1")
	require.NoError(t, err)
	assert.True(t, p.Active)
}

func TestAdjustStockGatedAndFloored(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "toner", Stock: 10, CategoryID: "cat-1", Active: true})

	_, err := f.svc.AdjustStock(context.Background(), customerCaller, "p1", 5)
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	p, err := f.svc.AdjustStock(context.Background(), adminCaller, "p1", -4)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	_, err = f.svc.AdjustStock(context.Background(), adminCaller, "p1", -7)
	require.ErrorIs(t, err, entity.ErrInsufficientStock)
	assert.Equal(t, 6, f.store.ProductStock("p1"))
}

func TestCategoryLifecycle(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.svc.CreateCategory(context.Background(), customerCaller, usecase.CategoryInput{Name: "masks"})
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	c, err := f.svc.CreateCategory(context.Background(), adminCaller, usecase.CategoryInput{Name: "masks", Type: "skincare"})
	require.NoError(t, err)
	assert.True(t, c.Active)

	c, err = f.svc.UpdateCategory(context.Background(), adminCaller, c.ID, usecase.CategoryInput{Name: "sheet masks", Type: "skincare"})
	require.NoError(t, err)
	assert.Equal(t, "sheet masks", c.Name)

	cats, err := f.svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	require.NoError(t, f.svc.DeleteCategory(context.Background(), adminCaller, c.ID))
	_, err = f.svc.GetCategory(context.Background(), c.ID)
	require.ErrorIs(t, err, entity.ErrCategoryNotFound)
}

func TestDeleteCategoryBlockedWhileProductsRemain(t *testing.T) {
	f := newCatalogFixture(t)
	f.store.PutProduct(&entity.Product{ID: "p1", Name: "toner", CategoryID: "cat-1", Active: true})

	err := f.svc.DeleteCategory(context.Background(), adminCaller, "cat-1")
	require.ErrorIs(t, err, entity.ErrCategoryInUse)

	// Deactivated products no longer hold the category hostage.
	require.NoError(t, f.svc.DeactivateProduct(context.Background(), adminCaller, "p1"))
	require.NoError(t, f.svc.DeleteCategory(context.Background(), adminCaller, "cat-1"))
}
