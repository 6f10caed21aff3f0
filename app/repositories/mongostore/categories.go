package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

type categoryRepo struct {
	c *mongo.Collection
}

var _ repositories.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = models.NewID()
	}
	_, err := r.c.InsertOne(ctx, c)
	return mapErr("categories.create", err)
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	res, err := r.c.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{"name": c.Name, "slug": c.Slug}})
	if err == nil && res.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("categories.update", err)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err == nil && res.DeletedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("categories.delete", err)
}

func (r *categoryRepo) findOne(ctx context.Context, op string, filter bson.M) (*models.Category, error) {
	var c models.Category
	if err := r.c.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, mapErr(op, err)
	}
	return &c, nil
}

func (r *categoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findOne(ctx, "categories.find_by_id", bson.M{"_id": id})
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, "categories.find_by_slug", bson.M{"slug": slug})
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.findOne(ctx, "categories.find_by_name", bson.M{"name": ciExact(name)})
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	cur, err := r.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, mapErr("categories.list", err)
	}
	out := []models.Category{}
	return out, mapErr("categories.list", cur.All(ctx, &out))
}
