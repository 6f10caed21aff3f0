package seeders

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

// StarterCategories are created by SeedCategories when missing.
var StarterCategories = []string{"Electronics", "Books", "Clothing", "Home Decor"}

func init() {
	Register("admin", SeedAdmin)
	Register("categories", SeedCategories)
}

// SeedAdmin creates the admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, store *repositories.Store) error {
	email := config.Get("ADMIN_EMAIL", "")
	password := config.Get("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	return EnsureAdmin(ctx, store, email, password)
}

// EnsureAdmin creates an admin with the given credentials. An existing
// account with that email is promoted, never overwritten.
func EnsureAdmin(ctx context.Context, store *repositories.Store, email, password string) error {
	existing, err := store.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		return store.Users.SetRole(ctx, existing.ID, models.RoleAdmin)
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return store.Users.Create(ctx, &models.User{
		Name:     "Admin",
		Email:    email,
		Password: hash,
		Phone:    "-",
		Address:  "-",
		Answer:   password,
		Role:     models.RoleAdmin,
	})
}

// SeedCategories creates each starter category that does not exist yet.
func SeedCategories(ctx context.Context, store *repositories.Store) error {
	for _, name := range StarterCategories {
		_, err := store.Categories.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if err := store.Categories.Create(ctx, &models.Category{Name: name, Slug: slug.Make(name)}); err != nil {
			return err
		}
	}
	return nil
}
