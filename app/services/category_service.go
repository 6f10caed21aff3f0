package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	categoriesCacheKey = "categories:all"
	categoriesCacheTTL = 10 * time.Minute
)

// CategoryService manages categories. The full list is read through the
// cache and invalidated on every write.
type CategoryService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	cache      *cache.Cache
}

// NewCategoryService wires the service. c may be nil.
func NewCategoryService(categories repositories.CategoryRepository, products repositories.ProductRepository, c *cache.Cache) *CategoryService {
	return &CategoryService{categories: categories, products: products, cache: c}
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, categoriesCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("category cache invalidation failed", "error", err)
	}
}

// Create adds a category. An existing name, compared case-insensitively,
// yields a 200 with success false.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("Name is required")
	}
	exists := newError(http.StatusOK, "Category already exists", nil)
	if _, err := s.categories.FindByName(ctx, name); err == nil {
		return nil, exists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("Error in category", err)
	}

	c := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, exists
		}
		return nil, internal("Error in category", err)
	}
	s.invalidate(ctx)
	return c, nil
}

// Update renames a category and re-derives its slug.
func (s *CategoryService) Update(ctx context.Context, id, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("Name is required")
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Category not found", "Error while updating category")
	}
	conflict := newError(http.StatusConflict, "Category already exists", nil)
	if other, err := s.categories.FindByName(ctx, name); err == nil && other.ID != c.ID {
		return nil, conflict
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("Error while updating category", err)
	}

	c.Name, c.Slug = name, slug.Make(name)
	if err := s.categories.Update(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict
		}
		return nil, internal("Error while updating category", err)
	}
	s.invalidate(ctx)
	return c, nil
}

// Delete removes a category that no product references.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	n, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return internal("Error while deleting category", err)
	}
	if n > 0 {
		return badRequest("Cannot delete category with products")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return lookupErr(err, "Category not found", "Error while deleting category")
	}
	s.invalidate(ctx)
	return nil
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	list, err := cache.Remember(ctx, s.cache, categoriesCacheKey, categoriesCacheTTL, func() ([]models.Category, error) {
		return s.categories.List(ctx)
	})
	if err != nil {
		return nil, internal("Error while getting all categories", err)
	}
	return list, nil
}

// BySlug returns one category.
func (s *CategoryService) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr(err, "Category not found", "Error while getting single category")
	}
	return c, nil
}
