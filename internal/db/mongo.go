package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// IndexSet names the indexes one collection needs.
type IndexSet struct {
	Collection string
	Models     []mongo.IndexModel
}

// EnsureIndexes creates every index in sets. CreateMany is idempotent for identical definitions.
func EnsureIndexes(ctx context.Context, database *mongo.Database, sets ...IndexSet) error {
	for _, set := range sets {
		if len(set.Models) == 0 {
			continue
		}
		if _, err := database.Collection(set.Collection).Indexes().CreateMany(ctx, set.Models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", set.Collection, err)
		}
	}
	return nil
}
