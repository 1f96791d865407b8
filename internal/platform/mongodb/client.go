package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"lifesure/internal/platform/config"
)

// Client wraps the mongo client with health checking capabilities. It is the
// single storage connection; a failure here aborts startup, no retries.
type Client struct {
	*mongo.Client
	db *mongo.Database
}

// New connects to the document store and verifies the connection with a ping.
func New(ctx context.Context, cfg config.Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return &Client{Client: client, db: client.Database(cfg.MongoDatabase)}, nil
}

// Collection exposes a named record collection to the rest of the system.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Health checks if the storage connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx, readpref.Primary())
}

// Close disconnects from the store.
func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
