// Package mongo implements the chat history store on MongoDB. Writes are
// best-effort analytics appends; callers treat every failure as
// non-fatal.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/luxehomes/property-assistant/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config contains history store connection parameters
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store implements domain.HistoryStore on a MongoDB collection
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewStore connects to MongoDB and returns a history store
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		clientOpts.SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "chat_history"
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(collection),
	}, nil
}

// Append inserts one completed-turn record
func (s *Store) Append(ctx context.Context, record domain.HistoryRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
