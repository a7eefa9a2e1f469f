package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "services"

var MongoIndexes = db.IndexSet{
	Collection: collectionName,
	Models: []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "is_active", Value: 1}}},
	},
}

// MongoRepository implements Repository for MongoDB.
type MongoRepository struct {
	Collection *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) Repository {
	return &MongoRepository{Collection: database.Collection(collectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, o *Offering) error {
	o.Features, o.Requirements = nonNil(o.Features), nonNil(o.Requirements)
	if _, err := r.Collection.InsertOne(ctx, o); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("insert service failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*Offering, error) {
	var o Offering
	if err := r.Collection.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find service failed: %w", err)
	}
	return &o, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Offering, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (*Offering, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoRepository) List(ctx context.Context, filter Filter) ([]*Offering, int, error) {
	column, desc, ok := sortSpec(filter.Sort)
	if !ok {
		return nil, 0, ErrInvalidSort
	}

	q := bson.M{}
	if !filter.IncludeInactive {
		q["is_active"] = true
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		q["$or"] = bson.A{bson.M{"name": pattern}, bson.M{"description": pattern}}
	}

	total, err := r.Collection.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count services failed: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	dir := 1
	if desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: column, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.Collection.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find services failed: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*Offering
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("decode services failed: %w", err)
	}
	return result, int(total), nil
}

func (r *MongoRepository) Update(ctx context.Context, o *Offering) error {
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": o.ID}, bson.M{"$set": bson.M{
		"name":         o.Name,
		"slug":         o.Slug,
		"description":  o.Description,
		"category":     o.Category,
		"price":        o.Price,
		"duration":     o.Duration,
		"image":        o.Image,
		"is_active":    o.IsActive,
		"features":     nonNil(o.Features),
		"requirements": nonNil(o.Requirements),
		"warranty":     o.Warranty,
		"updated_at":   o.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrNameTaken
		}
		return fmt.Errorf("update service failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Categories(ctx context.Context) ([]Category, error) {
	values, err := r.Collection.Distinct(ctx, "category", bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("distinct categories failed: %w", err)
	}

	categories := make([]Category, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, Category(s))
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories, nil
}
