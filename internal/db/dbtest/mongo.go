// Package dbtest opens throwaway databases for repository tests.
package dbtest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
)

// Mongo returns a fresh database on the server named by MONGO_URI with the
// given indexes applied, and drops it when the test ends. The test is skipped
// when MONGO_URI is unset.
func Mongo(t *testing.T, sets ...db.IndexSet) *mongo.Database {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}

	ctx := context.Background()
	client, err := db.ConnectMongo(ctx, uri)
	require.NoError(t, err)

	name := "vsb_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	database := client.Database(name)
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	require.NoError(t, db.EnsureIndexes(ctx, database, sets...))
	return database
}
