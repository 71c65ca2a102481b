// Package catalog provides the property catalog store contract and a
// registry of database backends that answer compiled query specs.
package catalog

import (
	"context"

	"github.com/luxehomes/property-assistant/internal/domain"
)

// ConnectionConfig contains catalog backend connection parameters. For
// sqlite the Database field holds the file path.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
}

// Store defines the interface for catalog backends
type Store interface {
	// Driver returns the backend identifier (sqlite, postgres, mysql)
	Driver() string

	// Connect establishes the backend connection
	Connect(ctx context.Context, config ConnectionConfig) error

	// Close closes the connection
	Close() error

	// HealthCheck verifies the connection is alive
	HealthCheck(ctx context.Context) error

	// Search answers a compiled query spec, honoring its result cap
	Search(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error)
}

// StoreFactory creates a new backend instance
type StoreFactory func() Store
