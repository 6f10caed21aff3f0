package sqlstore_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/repositories/sqlstore"
)

func newStore(t *testing.T) *repositories.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := sqlstore.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}

func seedProduct(t *testing.T, s *repositories.Store, p models.Product) *models.Product {
	t.Helper()
	if p.Slug == "" {
		p.Slug = strings.ToLower(strings.ReplaceAll(p.Name, " ", "-"))
	}
	if p.Category == "" {
		p.Category = models.NewID()
	}
	require.NoError(t, s.Products.Create(context.Background(), &p))
	return &p
}

func TestUsers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Asha", Email: "asha@example.com", Password: "h", Phone: "1", Address: "x", Answer: "blue"}
	require.NoError(t, s.Users.Create(ctx, u))
	assert.True(t, models.ValidID(u.ID))

	dup := &models.User{Name: "Other", Email: "asha@example.com", Password: "h", Phone: "1", Address: "x", Answer: "red"}
	assert.ErrorIs(t, s.Users.Create(ctx, dup), repositories.ErrDuplicate)

	got, err := s.Users.FindByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users.FindByEmailAndAnswer(ctx, "asha@example.com", "green")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, s.Users.UpdatePassword(ctx, u.ID, "h2"))
	got, err = s.Users.FindByEmailAndAnswer(ctx, "asha@example.com", "blue")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.Password)

	got.Phone = "555"
	require.NoError(t, s.Users.Update(ctx, got))
	got, err = s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "555", got.Phone)

	names, err := s.Users.Names(ctx, []string{u.ID, models.NewID()})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{u.ID: "Asha"}, names)

	assert.ErrorIs(t, s.Users.UpdatePassword(ctx, models.NewID(), "x"), repositories.ErrNotFound)
}

func TestCategories(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	c := &models.Category{Name: "Home Decor", Slug: "home-decor"}
	require.NoError(t, s.Categories.Create(ctx, c))

	got, err := s.Categories.FindByName(ctx, "HOME decor")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	got, err = s.Categories.FindBySlug(ctx, "home-decor")
	require.NoError(t, err)
	assert.Equal(t, "Home Decor", got.Name)

	assert.ErrorIs(t, s.Categories.Create(ctx, &models.Category{Name: "Home Decor", Slug: "x"}), repositories.ErrDuplicate)

	c.Name, c.Slug = "Decor", "decor"
	require.NoError(t, s.Categories.Update(ctx, c))

	list, err := s.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "decor", list[0].Slug)

	require.NoError(t, s.Categories.Delete(ctx, c.ID))
	assert.ErrorIs(t, s.Categories.Delete(ctx, c.ID), repositories.ErrNotFound)
}

func TestReserveNeverGoesNegative(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, models.Product{Name: "Lamp", Description: "d", Price: 10, Quantity: 2})

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
}

func TestConcurrentReserveSellsExactlyStock(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, models.Product{Name: "Last Units", Description: "d", Price: 1, Quantity: 5})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Products.Reserve(ctx, p.ID, 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	got, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func TestListingsOmitPhotoButPhotoLoads(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, models.Product{
		Name: "Camera", Description: "d", Price: 100, Quantity: 1,
		Photo: models.Photo{Data: []byte{1, 2, 3}, ContentType: "image/jpeg"},
	})

	got, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Photo.Empty())

	photo, err := s.Products.Photo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, photo.Data)
	assert.Equal(t, "image/jpeg", photo.ContentType)

	got.Name = "Camera II"
	require.NoError(t, s.Products.Update(ctx, got))
	photo, err = s.Products.Photo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, photo.Data, "update without a photo keeps the stored one")
}

func TestQueries(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	catA, catB := models.NewID(), models.NewID()
	base := time.Now().Add(-time.Hour)

	var ids []string
	for i := 0; i < 8; i++ {
		cat := catA
		if i%2 == 1 {
			cat = catB
		}
		p := seedProduct(t, s, models.Product{
			Name:        fmt.Sprintf("Item %d", i),
			Description: "plain",
			Price:       float64(i * 10),
			Category:    cat,
			Quantity:    1,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		ids = append(ids, p.ID)
	}
	seedProduct(t, s, models.Product{Name: "100% Cotton_Shirt", Description: "Soft FABRIC", Price: 5, Category: catA, CreatedAt: base.Add(-time.Minute)})

	n, err := s.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	latest, err := s.Products.Latest(ctx, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, ids[7], latest[0].ID)

	page2, err := s.Products.Page(ctx, 2, 6)
	require.NoError(t, err)
	assert.Len(t, page2, 3)

	found, err := s.Products.Search(ctx, "fabric")
	require.NoError(t, err)
	require.Len(t, found, 1)
	found, err = s.Products.Search(ctx, "0%")
	require.NoError(t, err)
	assert.Len(t, found, 1, "wildcards in the keyword are literal")

	min, max := 20.0, 50.0
	filtered, err := s.Products.Filter(ctx, repositories.ProductFilter{Categories: []string{catA}, MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Len(t, filtered, 2) // 20, 40

	related, err := s.Products.Related(ctx, ids[0], catA, 3)
	require.NoError(t, err)
	assert.Len(t, related, 3)
	for _, r := range related {
		assert.NotEqual(t, ids[0], r.ID)
		assert.Equal(t, catA, r.Category)
	}

	count, err := s.Products.CountByCategory(ctx, catB)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestOrders(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	buyer := models.NewID()

	o := &models.Order{
		Products: []models.CartItem{{ID: models.NewID(), Name: "Lamp", Price: 10}, {ID: models.NewID(), Name: "Lamp", Price: 10}},
		Payment:  models.Payment{Success: true, TransactionID: "tx1", Status: "SUBMITTED_FOR_SETTLEMENT", Amount: "20.00"},
		Buyer:    buyer,
		Status:   models.StatusNotProcessed,
	}
	require.NoError(t, s.Orders.Create(ctx, o))

	mine, err := s.Orders.ByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Products, 2)
	assert.Equal(t, "tx1", mine[0].Payment.TransactionID)

	updated, err := s.Orders.UpdateStatus(ctx, o.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	_, err = s.Orders.UpdateStatus(ctx, models.NewID(), models.StatusShipped)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	all, err := s.Orders.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
