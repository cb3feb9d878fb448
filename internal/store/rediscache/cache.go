// Package rediscache provides an advisory Redis cache for document metadata.
// The vault core works identically without it; cache failures are surfaced to
// the caller only so they can be logged.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DocumentCache implements store.DocumentCache backed by Redis.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, addr string, ttl time.Duration) (*DocumentCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return &DocumentCache{client: client, ttl: ttl}, nil
}

// Close releases the underlying connection pool.
func (c *DocumentCache) Close() error {
	return c.client.Close()
}

// SetDocument stores the document under its ID with the configured TTL.
// Entries are marshaled as BSON, the persistence shape: the JSON shape
// deliberately omits the storage locator and would corrupt cached records.
func (c *DocumentCache) SetDocument(ctx context.Context, doc *domain.Document) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.key(doc.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store document in Redis: %w", err)
	}
	return nil
}

// GetDocument returns the cached document, or (nil, nil) on a miss.
func (c *DocumentCache) GetDocument(ctx context.Context, id bson.ObjectID) (*domain.Document, error) {
	val, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read document from Redis: %w", err)
	}

	var doc domain.Document
	if err := bson.Unmarshal(val, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached document: %w", err)
	}
	return &doc, nil
}

// DeleteDocument invalidates the cached entry for the given ID.
func (c *DocumentCache) DeleteDocument(ctx context.Context, id bson.ObjectID) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete document from Redis: %w", err)
	}
	return nil
}

func (c *DocumentCache) key(id bson.ObjectID) string {
	return "document:" + id.Hex()
}
