package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "files"

var MongoIndexes = db.IndexSet{
	Collection: collectionName,
	Models: []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	},
}

type MongoRepository struct {
	Collection *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) Repository {
	return &MongoRepository{Collection: database.Collection(collectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, f *File) error {
	if _, err := r.Collection.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert file failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*File, error) {
	var f File
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find file failed: %w", err)
	}
	return &f, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete file failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
