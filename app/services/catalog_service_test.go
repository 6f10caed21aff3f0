package services_test

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/cache"
)

func TestCategoryCreateAndSlugRoundTrip(t *testing.T) {
	store := newStore(t)
	svc := services.NewCategoryService(store.Categories, store.Products, nil)

	_, err := svc.Create(ctx, "  ")
	requireError(t, err, http.StatusBadRequest, "Name is required")

	c, err := svc.Create(ctx, "Home Decor")
	require.NoError(t, err)
	assert.Equal(t, "home-decor", c.Slug)

	got, err := svc.BySlug(ctx, "home-decor")
	require.NoError(t, err)
	assert.Equal(t, "Home Decor", got.Name)

	_, err = svc.Create(ctx, "home decor")
	requireError(t, err, http.StatusOK, "Category already exists")

	_, err = svc.BySlug(ctx, "garden")
	requireError(t, err, http.StatusNotFound, "Category not found")
}

func TestCategoryUpdateConflict(t *testing.T) {
	store := newStore(t)
	svc := services.NewCategoryService(store.Categories, store.Products, nil)
	books, err := svc.Create(ctx, "Books")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Music")
	require.NoError(t, err)

	_, err = svc.Update(ctx, books.ID, "MUSIC")
	requireError(t, err, http.StatusConflict, "Category already exists")

	updated, err := svc.Update(ctx, books.ID, "Rare Books")
	require.NoError(t, err)
	assert.Equal(t, "rare-books", updated.Slug)

	_, err = svc.Update(ctx, models.NewID(), "Nope")
	requireError(t, err, http.StatusNotFound, "Category not found")
}

func TestCategoryDeleteGuard(t *testing.T) {
	store := newStore(t)
	svc := services.NewCategoryService(store.Categories, store.Products, nil)
	c, err := svc.Create(ctx, "Books")
	require.NoError(t, err)
	require.NoError(t, store.Products.Create(ctx, &models.Product{
		Name: "Go", Slug: "go", Description: "d", Category: c.ID, Quantity: 1,
	}))

	err = svc.Delete(ctx, c.ID)
	requireError(t, err, http.StatusBadRequest, "Cannot delete category with products")

	_, err = store.Categories.FindByID(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCategoryListIsCachedAndInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	store := newStore(t)
	svc := services.NewCategoryService(store.Categories, store.Products, c)

	_, err := svc.Create(ctx, "Books")
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Written behind the service's back: the cached list is served.
	require.NoError(t, store.Categories.Create(ctx, &models.Category{Name: "Art", Slug: "art"}))
	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	_, err = svc.Create(ctx, "Music")
	require.NoError(t, err)
	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestProductCreateValidation(t *testing.T) {
	store := newStore(t)
	cats := services.NewCategoryService(store.Categories, store.Products, nil)
	svc := services.NewProductService(store.Products, store.Categories, nil)
	c, err := cats.Create(ctx, "Books")
	require.NoError(t, err)

	in := services.ProductInput{
		Name: "Go Book", Description: "learn go", Price: "12.5",
		Category: c.ID, Quantity: "3", Shipping: "1",
	}

	missing := in
	missing.Description = ""
	_, err = svc.Create(ctx, missing)
	requireError(t, err, http.StatusBadRequest, "Description is required")

	big := in
	big.PhotoSize = models.MaxPhotoBytes + 1
	_, err = svc.Create(ctx, big)
	requireError(t, err, http.StatusBadRequest, "Photo should be less than 1MB")

	badCat := in
	badCat.Category = models.NewID()
	_, err = svc.Create(ctx, badCat)
	requireError(t, err, http.StatusBadRequest, "Invalid category")

	negative := in
	negative.Price = "-1"
	_, err = svc.Create(ctx, negative)
	requireError(t, err, http.StatusBadRequest, "Price must be a non-negative number")

	for _, price := range []string{"Inf", "+Inf", "-Inf", "NaN", "1e400"} {
		nonFinite := in
		nonFinite.Price = price
		_, err = svc.Create(ctx, nonFinite)
		requireError(t, err, http.StatusBadRequest, "Price must be a non-negative number")
	}

	in.Photo = &models.Photo{Data: []byte("png"), ContentType: "image/png"}
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "go-book", p.Slug)
	assert.True(t, p.Shipping)
	assert.Equal(t, 3, p.Quantity)

	photo, err := svc.Photo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestProductPhotoMissing(t *testing.T) {
	store := newStore(t)
	svc := services.NewProductService(store.Products, store.Categories, nil)
	p := &models.Product{Name: "Plain", Slug: "plain", Description: "d", Category: models.NewID()}
	require.NoError(t, store.Products.Create(ctx, p))

	_, err := svc.Photo(ctx, p.ID)
	requireError(t, err, http.StatusNotFound, "Photo not found")
}

func TestProductFilterRadio(t *testing.T) {
	store := newStore(t)
	svc := services.NewProductService(store.Products, store.Categories, nil)
	for i, price := range []float64{5, 15, 25} {
		require.NoError(t, store.Products.Create(ctx, &models.Product{
			Name: "P", Slug: "p", Description: "d", Price: price, Category: models.NewID(), Quantity: i,
		}))
	}

	list, err := svc.Filter(ctx, nil, []float64{10, 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 15.0, list[0].Price)

	_, err = svc.Filter(ctx, nil, []float64{10})
	requireError(t, err, http.StatusBadRequest, "Price range must be [min, max]")
}
