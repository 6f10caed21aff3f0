// Package migrations holds the SQL schema history. Importing it registers
// every migration with pkg/migration.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", table{model: &models.User{}, name: "users"})
	migration.Register("20260101000001_create_categories_table", table{model: &models.Category{}, name: "categories"})
	migration.Register("20260101000002_create_products_table", table{model: &models.Product{}, name: "products"})
	migration.Register("20260101000003_create_orders_table", table{model: &models.Order{}, name: "orders"})
}

// table creates or drops one model's table.
type table struct {
	model any
	name  string
}

func (t table) Up(db *gorm.DB) error   { return db.AutoMigrate(t.model) }
func (t table) Down(db *gorm.DB) error { return db.Migrator().DropTable(t.name) }
