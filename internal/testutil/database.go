package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TestDatabase = "gandalf_test"

// SetupTestDB connects to a local MongoDB for repository tests. Expects an
// instance on localhost:27017; tests are skipped when it is not reachable.
func SetupTestDB(t *testing.T) *mongo.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return client
}

// CleanupTestDB drops the test database and disconnects.
func CleanupTestDB(t *testing.T, client *mongo.Client) {
	t.Helper()

	if client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Database(TestDatabase).Drop(ctx); err != nil {
		t.Logf("failed to drop test database: %v", err)
	}

	if err := client.Disconnect(ctx); err != nil {
		t.Logf("failed to disconnect test client: %v", err)
	}
}
