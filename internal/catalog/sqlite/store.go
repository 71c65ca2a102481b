package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/domain"
	_ "modernc.org/sqlite"
)

const selectColumns = `id, title, description, price, location, area, bedrooms, bathrooms,
	sqft, property_type, status, amenities, images, featured, created_at, updated_at`

// Store implements catalog.Store for SQLite
type Store struct {
	db       *sql.DB
	database string
}

// NewStore creates a new SQLite catalog store
func NewStore() catalog.Store {
	return &Store{}
}

// Driver returns the backend identifier
func (s *Store) Driver() string {
	return "sqlite"
}

// Connect opens the SQLite database file
func (s *Store) Connect(ctx context.Context, config catalog.ConnectionConfig) error {
	dbPath := config.Database
	if dbPath == "" {
		return fmt.Errorf("database file path is required")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	s.database = dbPath
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

// Search translates the query spec into SQLite SQL and runs it
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
			conditions = append(conditions, "LOWER(area) LIKE '%' || LOWER(?) || '%'")
			args = append(args, f.Text)
		case f.Field == domain.FieldPrice && f.Op == domain.OpLte:
			conditions = append(conditions, "price <= ?")
			args = append(args, f.Number)
		case f.Field == domain.FieldBedrooms && f.Op == domain.OpGte:
			conditions = append(conditions, "bedrooms >= ?")
			args = append(args, f.Number)
		case f.Field == domain.FieldPropertyType && f.Op == domain.OpContains:
			conditions = append(conditions, "LOWER(property_type) LIKE '%' || LOWER(?) || '%'")
			args = append(args, f.Text)
		case f.Field == domain.FieldAmenities && f.Op == domain.OpHasAll:
			for _, amenity := range f.Set {
				conditions = append(conditions,
					"EXISTS (SELECT 1 FROM json_each(properties.amenities) WHERE json_each.value = ?)")
				args = append(args, amenity)
			}
		default:
			return nil, fmt.Errorf("unsupported filter: %s %s", f.Field, f.Op)
		}
	}

	query := "SELECT " + selectColumns + " FROM properties"
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
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return properties, nil
}

func scanProperty(rows *sql.Rows) (domain.Property, error) {
	var p domain.Property
	var id, status, amenitiesJSON, imagesJSON, createdAt, updatedAt string
	var featured int

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
		&featured,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Property{}, fmt.Errorf("failed to scan property: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Property{}, fmt.Errorf("invalid property id %q: %w", id, err)
	}
	p.ID = parsed
	p.Status = domain.PropertyStatus(status)
	p.Featured = featured != 0

	if err := json.Unmarshal([]byte(amenitiesJSON), &p.Amenities); err != nil {
		return domain.Property{}, fmt.Errorf("failed to unmarshal amenities: %w", err)
	}
	if err := json.Unmarshal([]byte(imagesJSON), &p.Images); err != nil {
		return domain.Property{}, fmt.Errorf("failed to unmarshal images: %w", err)
	}

	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return p, nil
}

// parseTimestamp accepts both RFC3339 and the bare format SQLite's
// CURRENT_TIMESTAMP produces.
func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
