// Package repositories defines the storefront's persistence contracts.
// mongostore and sqlstore implement them; services depend only on these
// interfaces.
package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/app/models"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInsufficientStock is returned by Reserve when the guard fails.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// UserRepository stores users.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	SetRole(ctx context.Context, id string, role int) error
	// Names maps user ids to names; unknown ids are absent.
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

// CategoryRepository stores categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// ProductFilter narrows a product listing. Empty fields do not filter.
type ProductFilter struct {
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
}

// ProductRepository stores products. Methods returning products never load
// photo bytes; use Photo for those.
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	// Update saves every field; a zero Photo keeps the stored one.
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Photo(ctx context.Context, id string) (*models.Photo, error)
	// Latest returns up to limit products, newest first.
	Latest(ctx context.Context, limit int) ([]models.Product, error)
	// Page returns page (1-based) of perPage products, newest first.
	Page(ctx context.Context, page, perPage int) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Filter(ctx context.Context, f ProductFilter) ([]models.Product, error)
	// Search matches keyword in name or description, case-insensitively.
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	// Related returns up to limit products in categoryID other than productID.
	Related(ctx context.Context, productID, categoryID string, limit int) ([]models.Product, error)
	ByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	// Reserve atomically subtracts n from quantity only if quantity >= n.
	Reserve(ctx context.Context, id string, n int) error
	// Release adds n back to quantity.
	Release(ctx context.Context, id string, n int) error
}

// OrderRepository stores orders.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	// ByBuyer returns the buyer's orders, newest first.
	ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	// All returns every order, newest first.
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
}

// Store bundles one backend's repositories.
type Store struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Orders     OrderRepository

	// Migrate creates tables or indexes.
	Migrate func(ctx context.Context) error
	// Ping reports whether the backend is reachable.
	Ping func(ctx context.Context) error
	// Close releases the underlying connection.
	Close func(ctx context.Context) error
}
