package mongo

import (
	"context"
	"fmt"

	"github.com/shruthikaa3007/secure-document-vault/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// NewClient creates and returns a new MongoDB client based on the provided
// configuration. It pings the deployment before returning so the application
// never starts with a dead connection.
func NewClient(ctx context.Context, cfg config.Mongo) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URL)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}
