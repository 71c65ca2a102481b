package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/domain"
)

// Store implements catalog.Store for MySQL
type Store struct {
	db *sql.DB
}

// NewStore creates a new MySQL catalog store
func NewStore() catalog.Store {
	return &Store{}
}

// Driver returns the backend identifier
func (s *Store) Driver() string {
	return "mysql"
}

// Connect establishes the connection
func (s *Store) Connect(ctx context.Context, config catalog.ConnectionConfig) error {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the connection
func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// HealthCheck verifies connection is alive
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected")
	}
	return s.db.PingContext(ctx)
}

// Search translates the query spec into MySQL SQL and runs it
func (s *Store) Search(ctx context.Context, spec domain.QuerySpec) ([]domain.Property, error) {
	if s.db == nil {
		return nil, fmt.Errorf("not connected")
	}

	var conditions []string
	var args []any

	for _, f := range spec.Filters {
		switch {
		case f.Field == domain.FieldStatus && f.Op == domain.OpEq:
			conditions = append(conditions, "status = ?")
			args = append(args, f.Text)
		case f.Field == domain.FieldArea && f.Op == domain.OpContains:
			conditions = append(conditions, "LOWER(area) LIKE CONCAT('%', LOWER(?), '%')")
			args = append(args, f.Text)
		case f.Field == domain.FieldPrice && f.Op == domain.OpLte:
			conditions = append(conditions, "price <= ?")
			args = append(args, f.Number)
		case f.Field == domain.FieldBedrooms && f.Op == domain.OpGte:
			conditions = append(conditions, "bedrooms >= ?")
			args = append(args, f.Number)
		case f.Field == domain.FieldPropertyType && f.Op == domain.OpContains:
			conditions = append(conditions, "LOWER(property_type) LIKE CONCAT('%', LOWER(?), '%')")
			args = append(args, f.Text)
		case f.Field == domain.FieldAmenities && f.Op == domain.OpHasAll:
			for _, amenity := range f.Set {
				conditions = append(conditions, "JSON_CONTAINS(amenities, JSON_QUOTE(?))")
				args = append(args, amenity)
			}
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
		query += " LIMIT ?"
		args = append(args, spec.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		var id, status string
		var amenitiesJSON, imagesJSON []byte

		if err := rows.Scan(
			&id,
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

		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid property id %q: %w", id, err)
		}
		p.ID = parsed
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
