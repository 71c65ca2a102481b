package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/domain"
)

// Store implements catalog.Store for PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL catalog store
func NewStore() catalog.Store {
	return &Store{}
}

// Driver returns the backend identifier
func (s *Store) Driver() string {
	return "postgres"
}

// Connect establishes the connection pool
func (s *Store) Connect(ctx context.Context, config catalog.ConnectionConfig) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
		config.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping: %w", err)
	}

	s.pool = pool
	return nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	return nil
}

// HealthCheck verifies connection is alive
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("not connected")
	}
	return s.pool.Ping(ctx)
}

// Search translates the query spec into PostgreSQL SQL and runs it
func (s *Store) Search(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("not connected")
	}

	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, f := range spec.Filters {
		switch {
		case f.Field == domain.FieldStatus && f.Op == domain.OpEq:
			conditions = append(conditions, fmt.Sprintf("status = %s", arg(f.Text)))
		case f.Field == domain.FieldArea && f.Op == domain.OpContains:
			conditions = append(conditions, fmt.Sprintf("area ILIKE '%%' || %s || '%%'", arg(f.Text)))
		case f.Field == domain.FieldPrice && f.Op == domain.OpLte:
			conditions = append(conditions, fmt.Sprintf("price <= %s", arg(f.Number)))
		case f.Field == domain.FieldBedrooms && f.Op == domain.OpGte:
			conditions = append(conditions, fmt.Sprintf("bedrooms >= %s", arg(f.Number)))
		case f.Field == domain.FieldPropertyType && f.Op == domain.OpContains:
			conditions = append(conditions, fmt.Sprintf("property_type ILIKE '%%' || %s || '%%'", arg(f.Text)))
		case f.Field == domain.FieldAmenities && f.Op == domain.OpHasAll:
			required, err := json.Marshal(f.Set)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal amenities: %w", err)
			}
			conditions = append(conditions, fmt.Sprintf("amenities @> %s::jsonb", arg(string(required))))
		default:
			return nil, fmt.Errorf("unsupported filter: %s %s", f.Field, f.Op)
		}
	}

	query := `
		SELECT id, title, description, price, location, area, bedrooms, bathrooms,
		       sqft, property_type, status, amenities, images, featured, created_at, updated_at
		FROM properties`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if spec.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s", arg(spec.Limit))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		var status string
		var amenitiesJSON, imagesJSON []byte

		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Price,
			&p.Location,
			&p.Area,
			&p.Bedrooms,
			&p.Bathrooms,
			&p.Sqft,
			&p.PropertyType,
			&status,
			&amenitiesJSON,
			&imagesJSON,
			&p.Featured,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}

		p.Status = domain.PropertyStatus(status)
		if err := json.Unmarshal(amenitiesJSON, &p.Amenities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal amenities: %w", err)
		}
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}

		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return properties, nil
}
