package mongostore_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/mongostore"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// newStore connects to MONGO_URI and gives each test its own database,
// dropped on cleanup.
func newStore(t *testing.T) *repositories.Store {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	name := "storefront_test_" + strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	if len(name) > 60 {
		name = name[:60]
	}
	db, err := database.ConnectMongo(ctx, uri, name)
	require.NoError(t, err)
	store := mongostore.New(db)
	t.Cleanup(func() {
		db.Drop(context.Background()) //nolint:errcheck
		store.Close(context.Background())
	})
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Ping(ctx))
	return store
}

func seedProduct(t *testing.T, s *repositories.Store, name string, qty int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name: name, Slug: strings.ToLower(name), Description: "d", Price: 10,
		Quantity: qty, Category: models.NewID(),
		Photo: models.Photo{Data: []byte{1, 2, 3}, ContentType: "image/png"},
	}
	require.NoError(t, s.Products.Create(context.Background(), p))
	return p
}

func TestReserveNeverGoesNegative(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Lamp", 2)

	require.NoError(t, s.Products.Reserve(ctx, p.ID, 2))
	assert.ErrorIs(t, s.Products.Reserve(ctx, p.ID, 1), repositories.ErrInsufficientStock)

	got, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	require.NoError(t, s.Products.Release(ctx, p.ID, 2))
	got, err = s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	assert.ErrorIs(t, s.Products.Reserve(ctx, models.NewID(), 1), repositories.ErrInsufficientStock)
	assert.ErrorIs(t, s.Products.Release(ctx, models.NewID(), 1), repositories.ErrNotFound)
}

func TestConcurrentReserveSellsExactlyStock(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Last Units", 5)

	var (
		wg sync.WaitGroup
		ok atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Products.Reserve(ctx, p.ID, 1); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 5, ok.Load())
	got, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestDuplicateEmailAndCategoryName(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &models.User{Name: "A", Email: "a@example.com", Password: "x", Phone: "1", Address: "a", Answer: "b"}
	require.NoError(t, s.Users.Create(ctx, u))
	dup := *u
	dup.ID = ""
	assert.ErrorIs(t, s.Users.Create(ctx, &dup), repositories.ErrDuplicate)

	require.NoError(t, s.Users.SetRole(ctx, u.ID, models.RoleAdmin))
	got, err := s.Users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	require.NoError(t, s.Categories.Create(ctx, &models.Category{Name: "C++ Books", Slug: "c-books"}))
	assert.ErrorIs(t, s.Categories.Create(ctx, &models.Category{Name: "C++ Books", Slug: "c-books"}), repositories.ErrDuplicate)

	c, err := s.Categories.FindByName(ctx, "c++ books")
	require.NoError(t, err)
	assert.Equal(t, "C++ Books", c.Name)
	_, err = s.Categories.FindByName(ctx, "CCC Books")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListingsOmitPhotoButPhotoLoads(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "Camera", 1)

	list, err := s.Products.Latest(ctx, 12)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Photo.Empty())

	photo, err := s.Products.Photo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, photo.Data)
	assert.Equal(t, "image/png", photo.ContentType)
}
