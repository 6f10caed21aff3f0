// Package mongostore implements the repositories on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// Collection names.
const (
	usersColl      = "users"
	categoriesColl = "categories"
	productsColl   = "products"
	ordersColl     = "orders"
)

// Open connects to uri and returns the backend on database name.
func Open(ctx context.Context, uri, name string) (*repositories.Store, error) {
	db, err := database.ConnectMongo(ctx, uri, name)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// New builds the backend on an open database.
func New(db *mongo.Database) *repositories.Store {
	return &repositories.Store{
		Users:      &userRepo{c: db.Collection(usersColl)},
		Categories: &categoryRepo{c: db.Collection(categoriesColl)},
		Products:   &productRepo{c: db.Collection(productsColl)},
		Orders:     &orderRepo{c: db.Collection(ordersColl)},
		Migrate:    func(ctx context.Context) error { return ensureIndexes(ctx, db) },
		Ping:       func(ctx context.Context) error { return db.Client().Ping(ctx, readpref.Primary()) },
		Close:      func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersColl: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		categoriesColl: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "slug", Value: 1}}},
		},
		productsColl: {
			{Keys: bson.D{{Key: "slug", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		ordersColl: {
			{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongostore: indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// mapErr converts driver errors into repository sentinels.
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, repositories.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ciExact matches s exactly, ignoring case.
func ciExact(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}

// ciContains matches s anywhere, ignoring case.
func ciContains(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}
