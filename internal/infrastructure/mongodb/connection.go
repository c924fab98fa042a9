package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gandalf/internal/config"
)

const (
	CollectionUsers        = "users"
	CollectionProducts     = "products"
	CollectionCategories   = "categories"
	CollectionOrders       = "orders"
	CollectionActivityLogs = "activity_logs"
	CollectionErrorLogs    = "error_logs"
)

// NewConnection connects and pings within the configured timeout. The caller
// decides what a failure means; at startup it is fatal with no retry loop.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return client, nil
}

func GetCollection(client *mongo.Client, dbName, collectionName string) *mongo.Collection {
	return client.Database(dbName).Collection(collectionName)
}
