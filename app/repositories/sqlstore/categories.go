package sqlstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type categoryRepo struct {
	db *gorm.DB
}

var _ repositories.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	return mapErr("categories.create", r.db.WithContext(ctx).Create(c).Error)
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "slug": c.Slug})
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("categories.update", gorm.ErrRecordNotFound)
	}
	return mapErr("categories.update", res.Error)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("categories.delete", gorm.ErrRecordNotFound)
	}
	return mapErr("categories.delete", res.Error)
}

func (r *categoryRepo) first(ctx context.Context, op, query string, args ...any) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where(query, args...).First(&c).Error; err != nil {
		return nil, mapErr(op, err)
	}
	return &c, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.first(ctx, "categories.find_by_id", "id = ?", id)
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.first(ctx, "categories.find_by_slug", "slug = ?", slug)
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.first(ctx, "categories.find_by_name", "LOWER(name) = ?", strings.ToLower(name))
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	err := r.db.WithContext(ctx).Order("name asc").Find(&cats).Error
	return cats, mapErr("categories.list", err)
}
