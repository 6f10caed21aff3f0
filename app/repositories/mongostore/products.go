package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

type productRepo struct {
	c *mongo.Collection
}

var _ repositories.ProductRepository = (*productRepo)(nil)

var (
	noPhoto    = bson.M{"photo": 0}
	newestSort = bson.D{{Key: "createdAt", Value: -1}}
)

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := r.c.InsertOne(ctx, p)
	return mapErr("products.create", err)
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updatedAt":   p.UpdatedAt,
	}
	if !p.Photo.Empty() {
		set["photo"] = p.Photo
	}
	res, err := r.c.UpdateByID(ctx, p.ID, bson.M{"$set": set})
	if err == nil && res.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("products.update", err)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err == nil && res.DeletedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("products.delete", err)
}

func (r *productRepo) findOne(ctx context.Context, op string, filter bson.M) (*models.Product, error) {
	var p models.Product
	err := r.c.FindOne(ctx, filter, options.FindOne().SetProjection(noPhoto)).Decode(&p)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return &p, nil
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	defer metrics.ObserveDBQuery("products.find_by_id", time.Now())
	return r.findOne(ctx, "products.find_by_id", bson.M{"_id": id})
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, "products.find_by_slug", bson.M{"slug": slug})
}

func (r *productRepo) Photo(ctx context.Context, id string) (*models.Photo, error) {
	var doc struct {
		Photo models.Photo `bson:"photo"`
	}
	err := r.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"photo": 1})).Decode(&doc)
	if err != nil {
		return nil, mapErr("products.photo", err)
	}
	return &doc.Photo, nil
}

func (r *productRepo) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := r.c.Find(ctx, filter, opts.SetProjection(noPhoto))
	if err != nil {
		return nil, mapErr(op, err)
	}
	out := []models.Product{}
	return out, mapErr(op, cur.All(ctx, &out))
}

func (r *productRepo) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	return r.find(ctx, "products.latest", bson.M{}, options.Find().SetSort(newestSort).SetLimit(int64(limit)))
}

func (r *productRepo) Page(ctx context.Context, page, perPage int) ([]models.Product, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().SetSort(newestSort).SetSkip(int64((page - 1) * perPage)).SetLimit(int64(perPage))
	return r.find(ctx, "products.page", bson.M{}, opts)
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.c.EstimatedDocumentCount(ctx)
	return n, mapErr("products.count", err)
}

func (r *productRepo) Filter(ctx context.Context, f repositories.ProductFilter) ([]models.Product, error) {
	filter := bson.M{}
	if len(f.Categories) > 0 {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return r.find(ctx, "products.filter", filter, options.Find().SetSort(newestSort))
}

func (r *productRepo) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": ciContains(keyword)},
		bson.M{"description": ciContains(keyword)},
	}}
	return r.find(ctx, "products.search", filter, options.Find().SetSort(newestSort))
}

func (r *productRepo) Related(ctx context.Context, productID, categoryID string, limit int) ([]models.Product, error) {
	filter := bson.M{"category": categoryID, "_id": bson.M{"$ne": productID}}
	return r.find(ctx, "products.related", filter, options.Find().SetSort(newestSort).SetLimit(int64(limit)))
}

func (r *productRepo) ByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.find(ctx, "products.by_category", bson.M{"category": categoryID}, options.Find().SetSort(newestSort))
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"category": categoryID})
	return n, mapErr("products.count_by_category", err)
}

// Reserve is a single conditional update: the filter's quantity guard and
// the $inc apply atomically to one document.
func (r *productRepo) Reserve(ctx context.Context, id string, n int) error {
	defer metrics.ObserveDBQuery("products.reserve", time.Now())

	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": n}},
		bson.M{"$inc": bson.M{"quantity": -n}},
	)
	if err != nil {
		return mapErr("products.reserve", err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrInsufficientStock
	}
	return nil
}

func (r *productRepo) Release(ctx context.Context, id string, n int) error {
	res, err := r.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"quantity": n}})
	if err == nil && res.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("products.release", err)
}
