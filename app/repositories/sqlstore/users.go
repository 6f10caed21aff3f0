package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type userRepo struct {
	db *gorm.DB
}

var _ repositories.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return mapErr("users.create", r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"name":       u.Name,
		"password":   u.Password,
		"phone":      u.Phone,
		"address":    u.Address,
		"updated_at": time.Now(),
	})
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("users.update", gorm.ErrRecordNotFound)
	}
	return mapErr("users.update", res.Error)
}

func (r *userRepo) first(ctx context.Context, op string, query string, args ...any) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, mapErr(op, err)
	}
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "users.find_by_id", "id = ?", id)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "users.find_by_email", "email = ?", email)
}

func (r *userRepo) FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	return r.first(ctx, "users.find_by_email_answer", "email = ? AND answer = ?", email, answer)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"password": hash, "updated_at": time.Now()})
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("users.update_password", gorm.ErrRecordNotFound)
	}
	return mapErr("users.update_password", res.Error)
}

func (r *userRepo) SetRole(ctx context.Context, id string, role int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error == nil && res.RowsAffected == 0 {
		return mapErr("users.set_role", gorm.ErrRecordNotFound)
	}
	return mapErr("users.set_role", res.Error)
}

func (r *userRepo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.User
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, mapErr("users.names", err)
	}
	for _, u := range rows {
		out[u.ID] = u.Name
	}
	return out, nil
}
