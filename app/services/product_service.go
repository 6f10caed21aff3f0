package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Listing sizes.
const (
	LatestLimit  = 12
	PerPage      = 6
	RelatedLimit = 3
)

const (
	productCountCacheKey = "products:count"
	productCountCacheTTL = 5 * time.Minute
)

// ProductInput is the create/update form. Numeric fields arrive as text
// from multipart forms.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Quantity    string
	Shipping    string
	Photo       *models.Photo
	PhotoSize   int64
}

// ProductService manages the catalog.
type ProductService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	cache      *cache.Cache
}

// NewProductService wires the service. c may be nil.
func NewProductService(products repositories.ProductRepository, categories repositories.CategoryRepository, c *cache.Cache) *ProductService {
	return &ProductService{products: products, categories: categories, cache: c}
}

// build validates in and applies it to p.
func (s *ProductService) build(ctx context.Context, in ProductInput, p *models.Product) error {
	if err := requireFields(
		field{"Name", strings.TrimSpace(in.Name)},
		field{"Description", strings.TrimSpace(in.Description)},
		field{"Price", strings.TrimSpace(in.Price)},
		field{"Category", strings.TrimSpace(in.Category)},
		field{"Quantity", strings.TrimSpace(in.Quantity)},
	); err != nil {
		return err
	}
	if in.PhotoSize > models.MaxPhotoBytes {
		return badRequest("Photo should be less than 1MB")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return badRequest("Price must be a non-negative number")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || qty < 0 {
		return badRequest("Quantity must be a non-negative integer")
	}
	categoryID := strings.TrimSpace(in.Category)
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return badRequest("Invalid category")
		}
		return internal("Error while saving product", err)
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Slug = slug.Make(p.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = price
	p.Quantity = qty
	p.Category = categoryID
	p.Shipping = parseBool(in.Shipping)
	if in.Photo != nil && !in.Photo.Empty() {
		p.Photo = *in.Photo
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (s *ProductService) invalidateCount(ctx context.Context) {
	if err := s.cache.Del(ctx, productCountCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("product cache invalidation failed", "error", err)
	}
}

// Create adds a product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	if err := s.build(ctx, in, p); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, internal("Error in creating product", err)
	}
	s.invalidateCount(ctx)
	return p, nil
}

// Update replaces a product's fields. Without a new photo the stored one
// is kept.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Product not found", "Error in updating product")
	}
	if err := s.build(ctx, in, p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, lookupErr(err, "Product not found", "Error in updating product")
	}
	return p, nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return lookupErr(err, "Product not found", "Error while deleting product")
	}
	s.invalidateCount(ctx)
	return nil
}

// Latest returns the newest products.
func (s *ProductService) Latest(ctx context.Context) ([]models.Product, error) {
	list, err := s.products.Latest(ctx, LatestLimit)
	if err != nil {
		return nil, internal("Error in getting products", err)
	}
	return list, nil
}

// BySlug returns one product.
func (s *ProductService) BySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr(err, "Product not found", "Error while getting single product")
	}
	return p, nil
}

// Photo returns a product's photo, 404 when there is none.
func (s *ProductService) Photo(ctx context.Context, id string) (*models.Photo, error) {
	photo, err := s.products.Photo(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Photo not found", "Error while getting photo")
	}
	if photo.Empty() {
		return nil, notFound("Photo not found")
	}
	return photo, nil
}

// Filter narrows by category ids and a [min, max] price pair. An empty
// radio means no price bound.
func (s *ProductService) Filter(ctx context.Context, checked []string, radio []float64) ([]models.Product, error) {
	f := repositories.ProductFilter{Categories: checked}
	if len(radio) == 2 {
		f.MinPrice, f.MaxPrice = &radio[0], &radio[1]
	} else if len(radio) != 0 {
		return nil, badRequest("Price range must be [min, max]")
	}
	list, err := s.products.Filter(ctx, f)
	if err != nil {
		return nil, internal("Error while filtering products", err)
	}
	return list, nil
}

// Count returns the catalog size.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	n, err := cache.Remember(ctx, s.cache, productCountCacheKey, productCountCacheTTL, func() (int64, error) {
		return s.products.Count(ctx)
	})
	if err != nil {
		return 0, internal("Error in product count", err)
	}
	return n, nil
}

// Page returns one page of products, newest first. Pages start at 1.
func (s *ProductService) Page(ctx context.Context, page int) ([]models.Product, error) {
	if page < 1 {
		page = 1
	}
	list, err := s.products.Page(ctx, page, PerPage)
	if err != nil {
		return nil, internal("Error in per page ctrl", err)
	}
	return list, nil
}

// Search matches keyword in name or description, ignoring case.
func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []models.Product{}, nil
	}
	list, err := s.products.Search(ctx, keyword)
	if err != nil {
		return nil, internal("Error in search product API", err)
	}
	return list, nil
}

// Related returns other products of the same category.
func (s *ProductService) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	list, err := s.products.Related(ctx, productID, categoryID, RelatedLimit)
	if err != nil {
		return nil, internal("Error while getting related product", err)
	}
	return list, nil
}

// ByCategorySlug returns a category and its products.
func (s *ProductService) ByCategorySlug(ctx context.Context, categorySlug string) (*models.Category, []models.Product, error) {
	c, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, nil, lookupErr(err, "Category not found", "Error while getting products")
	}
	list, err := s.products.ByCategory(ctx, c.ID)
	if err != nil {
		return nil, nil, internal("Error while getting products", err)
	}
	return c, list, nil
}
