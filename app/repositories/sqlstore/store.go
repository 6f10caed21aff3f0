// Package sqlstore implements the repositories on GORM (sqlite, postgres,
// mysql, sqlserver).
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/repositories"
	_ "github.com/shashiranjanraj/storefront/database/migrations" // registers schema
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// Open connects with the given driver and returns the backend.
func Open(driver, dsn string) (*repositories.Store, error) {
	db, err := database.OpenSQL(driver, dsn)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New builds the backend on an open connection.
func New(db *gorm.DB) *repositories.Store {
	return &repositories.Store{
		Users:      &userRepo{db: db},
		Categories: &categoryRepo{db: db},
		Products:   &productRepo{db: db},
		Orders:     &orderRepo{db: db},
		Migrate: func(ctx context.Context) error {
			_, err := migration.New(db).Run(ctx)
			return err
		},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// mapErr converts GORM errors into repository sentinels.
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, repositories.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// isUniqueViolation catches drivers that do not translate errors.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// likePattern builds a LIKE operand (ESCAPE '!') matching s anywhere.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
