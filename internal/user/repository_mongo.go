package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "users"

// MongoIndexes are the indexes the users collection relies on.
var MongoIndexes = db.IndexSet{
	Collection: collectionName,
	Models: []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	},
}

// MongoRepository implements Repository for MongoDB.
type MongoRepository struct {
	Collection *mongo.Collection
}

// NewMongoRepository creates a Repository backed by the users collection of database.
func NewMongoRepository(database *mongo.Database) Repository {
	return &MongoRepository{Collection: database.Collection(collectionName)}
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var u User
	if err := r.Collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user failed: %w", err)
	}
	return &u, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	if _, err := r.Collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) updateByID(ctx context.Context, id string, set bson.M) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	return r.updateByID(ctx, id, bson.M{"last_login_at": t})
}

func mongoFilter(filter Filter) bson.M {
	q := bson.M{}
	if filter.Email != "" {
		q["email"] = bson.M{"$regex": regexp.QuoteMeta(filter.Email), "$options": "i"}
	}
	if filter.Name != "" {
		q["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	if filter.Role != "" {
		q["role"] = filter.Role
	}
	if filter.IsActive != nil {
		q["is_active"] = *filter.IsActive
	}
	if filter.CreatedSince != nil {
		q["created_at"] = bson.M{"$gte": *filter.CreatedSince}
	}
	return q
}

func (r *MongoRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	q := mongoFilter(filter)

	total, err := r.Collection.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count users failed: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	sortField, ok := sortColumns[filter.SortBy]
	if !ok {
		sortField = "created_at"
	}
	dir := -1
	if filter.SortOrder == "ASC" {
		dir = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: dir}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.Collection.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users failed: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users failed: %w", err)
	}
	return users, int(total), nil
}

func (r *MongoRepository) Count(ctx context.Context, filter Filter) (int, error) {
	n, err := r.Collection.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count users failed: %w", err)
	}
	return int(n), nil
}

func (r *MongoRepository) Update(ctx context.Context, u *User) error {
	return r.updateByID(ctx, u.ID, bson.M{
		"name":       u.Name,
		"phone":      u.Phone,
		"role":       u.Role,
		"is_active":  u.IsActive,
		"updated_at": u.UpdatedAt,
	})
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"is_active": false, "updated_at": time.Now().UTC()})
}
