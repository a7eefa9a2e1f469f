package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "vehicles"

var MongoIndexes = db.IndexSet{
	Collection: collectionName,
	Models: []mongo.IndexModel{
		{Keys: bson.D{{Key: "registration_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
}

type MongoRepository struct {
	Collection *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) Repository {
	return &MongoRepository{Collection: database.Collection(collectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, v *Vehicle) error {
	if _, err := r.Collection.InsertOne(ctx, v); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrRegistrationTaken
		}
		return fmt.Errorf("insert vehicle failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	var v Vehicle
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find vehicle failed: %w", err)
	}
	return &v, nil
}

func (r *MongoRepository) List(ctx context.Context, filter Filter) ([]*Vehicle, int, error) {
	q := bson.M{}
	if filter.UserID != "" {
		q["user_id"] = filter.UserID
	}
	if !filter.IncludeInactive {
		q["is_active"] = true
	}

	total, err := r.Collection.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count vehicles failed: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.Collection.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find vehicles failed: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*Vehicle
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("decode vehicles failed: %w", err)
	}
	return result, int(total), nil
}

func (r *MongoRepository) Update(ctx context.Context, v *Vehicle) error {
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrRegistrationTaken
		}
		return fmt.Errorf("update vehicle failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
