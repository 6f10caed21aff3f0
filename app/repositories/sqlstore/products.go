package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

type productRepo struct {
	db *gorm.DB
}

var _ repositories.ProductRepository = (*productRepo)(nil)

// listing selects products without photo bytes.
func (r *productRepo) listing(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Product{}).Omit("photo_data")
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return mapErr("products.create", r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	fields := map[string]any{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updated_at":  time.Now(),
	}
	if !p.Photo.Empty() {
		fields["photo_data"] = p.Photo.Data
		fields["photo_content_type"] = p.Photo.ContentType
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Updates(fields)
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("products.update", gorm.ErrRecordNotFound)
	}
	return mapErr("products.update", res.Error)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("products.delete", gorm.ErrRecordNotFound)
	}
	return mapErr("products.delete", res.Error)
}

func (r *productRepo) first(ctx context.Context, op, query string, args ...any) (*models.Product, error) {
	var p models.Product
	if err := r.listing(ctx).Where(query, args...).First(&p).Error; err != nil {
		return nil, mapErr(op, err)
	}
	return &p, nil
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	defer metrics.ObserveDBQuery("products.find_by_id", time.Now())
	return r.first(ctx, "products.find_by_id", "id = ?", id)
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.first(ctx, "products.find_by_slug", "slug = ?", slug)
}

func (r *productRepo) Photo(ctx context.Context, id string) (*models.Photo, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Select("id", "photo_data", "photo_content_type").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, mapErr("products.photo", err)
	}
	return &p.Photo, nil
}

func (r *productRepo) find(ctx context.Context, op string, q *gorm.DB) ([]models.Product, error) {
	out := []models.Product{}
	if err := q.Find(&out).Error; err != nil {
		return nil, mapErr(op, err)
	}
	return out, nil
}

func (r *productRepo) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	return r.find(ctx, "products.latest", r.listing(ctx).Order("created_at desc").Limit(limit))
}

func (r *productRepo) Page(ctx context.Context, page, perPage int) ([]models.Product, error) {
	if page < 1 {
		page = 1
	}
	q := r.listing(ctx).Order("created_at desc").Offset((page - 1) * perPage).Limit(perPage)
	return r.find(ctx, "products.page", q)
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, mapErr("products.count", err)
}

func (r *productRepo) Filter(ctx context.Context, f repositories.ProductFilter) ([]models.Product, error) {
	q := r.listing(ctx)
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	return r.find(ctx, "products.filter", q.Order("created_at desc"))
}

func (r *productRepo) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	pat := likePattern(keyword)
	q := r.listing(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pat, pat).
		Order("created_at desc")
	return r.find(ctx, "products.search", q)
}

func (r *productRepo) Related(ctx context.Context, productID, categoryID string, limit int) ([]models.Product, error) {
	q := r.listing(ctx).Where("category = ? AND id <> ?", categoryID, productID).
		Order("created_at desc").Limit(limit)
	return r.find(ctx, "products.related", q)
}

func (r *productRepo) ByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.find(ctx, "products.by_category", r.listing(ctx).Where("category = ?", categoryID).Order("created_at desc"))
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category = ?", categoryID).Count(&n).Error
	return n, mapErr("products.count_by_category", err)
}

func (r *productRepo) Reserve(ctx context.Context, id string, n int) error {
	defer metrics.ObserveDBQuery("products.reserve", time.Now())

	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, n).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
	if res.Error != nil {
		return mapErr("products.reserve", res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) Release(ctx context.Context, id string, n int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", n))
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("products.release", gorm.ErrRecordNotFound)
	}
	return mapErr("products.release", res.Error)
}
