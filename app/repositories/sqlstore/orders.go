package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type orderRepo struct {
	db *gorm.DB
}

var _ repositories.OrderRepository = (*orderRepo)(nil)

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return mapErr("orders.create", r.db.WithContext(ctx).Create(o).Error)
}

func (r *orderRepo) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	out := []models.Order{}
	err := r.db.WithContext(ctx).Where("buyer = ?", buyerID).Order("created_at desc").Find(&out).Error
	return out, mapErr("orders.by_buyer", err)
}

func (r *orderRepo) All(ctx context.Context) ([]models.Order, error) {
	out := []models.Order{}
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, mapErr("orders.all", err)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, mapErr("orders.update_status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, mapErr("orders.update_status", gorm.ErrRecordNotFound)
	}

	var o models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, mapErr("orders.update_status", err)
	}
	return &o, nil
}
