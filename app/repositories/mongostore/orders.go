package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type orderRepo struct {
	c *mongo.Collection
}

var _ repositories.OrderRepository = (*orderRepo)(nil)

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = models.NewID()
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	_, err := r.c.InsertOne(ctx, o)
	return mapErr("orders.create", err)
}

func (r *orderRepo) list(ctx context.Context, op string, filter bson.M) ([]models.Order, error) {
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, mapErr(op, err)
	}
	out := []models.Order{}
	return out, mapErr(op, cur.All(ctx, &out))
}

func (r *orderRepo) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	return r.list(ctx, "orders.by_buyer", bson.M{"buyer": buyerID})
}

func (r *orderRepo) All(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, "orders.all", bson.M{})
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	var o models.Order
	err := r.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		return nil, mapErr("orders.update_status", err)
	}
	return &o, nil
}
