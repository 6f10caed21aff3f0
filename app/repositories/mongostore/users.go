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

type userRepo struct {
	c *mongo.Collection
}

var _ repositories.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.c.InsertOne(ctx, u)
	return mapErr("users.create", err)
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.c.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{
		"name":      u.Name,
		"password":  u.Password,
		"phone":     u.Phone,
		"address":   u.Address,
		"updatedAt": u.UpdatedAt,
	}})
	if err == nil && res.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("users.update", err)
}

func (r *userRepo) findOne(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapErr(op, err)
	}
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "users.find_by_id", bson.M{"_id": id})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "users.find_by_email", bson.M{"email": email})
}

func (r *userRepo) FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	return r.findOne(ctx, "users.find_by_email_answer", bson.M{"email": email, "answer": answer})
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}})
	if err == nil && res.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("users.update_password", err)
}

func (r *userRepo) SetRole(ctx context.Context, id string, role int) error {
	res, err := r.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}})
	if err == nil && res.MatchedCount == 0 {
		err = mongo.ErrNoDocuments
	}
	return mapErr("users.set_role", err)
}

func (r *userRepo) Names(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, mapErr("users.names", err)
	}
	var rows []struct {
		ID   string `bson:"_id"`
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, mapErr("users.names", err)
	}
	for _, u := range rows {
		out[u.ID] = u.Name
	}
	return out, nil
}
