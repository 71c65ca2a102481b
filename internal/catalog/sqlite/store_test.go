package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/luxehomes/property-assistant/internal/catalog"
	"github.com/luxehomes/property-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createTable = `
CREATE TABLE properties (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price INTEGER NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT '',
	bedrooms INTEGER NOT NULL DEFAULT 0,
	bathrooms INTEGER NOT NULL DEFAULT 0,
	sqft INTEGER NOT NULL DEFAULT 0,
	property_type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'available',
	amenities TEXT NOT NULL DEFAULT '[]',
	images TEXT NOT NULL DEFAULT '[]',
	featured INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type seedRow struct {
	title        string
	price        int64
	area         string
	bedrooms     int
	propertyType string
	status       string
	amenities    string
}

func newTestStore(t *testing.T, rows []seedRow) *Store {
	t.Helper()

	s := NewStore().(*Store)
	require.NoError(t, s.Connect(context.Background(), catalog.ConnectionConfig{Database: ":memory:"}))
	t.Cleanup(func() { s.Close() })

	_, err := s.db.Exec(createTable)
	require.NoError(t, err)

	for i, r := range rows {
		_, err := s.db.Exec(`
			INSERT INTO properties (id, title, price, area, bedrooms, property_type, status, amenities, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), r.title, r.price, r.area, r.bedrooms, r.propertyType, r.status, r.amenities,
			fmt.Sprintf("2024-01-%02dT10:00:00Z", i+1),
			fmt.Sprintf("2024-01-%02dT10:00:00Z", i+1),
		)
		require.NoError(t, err)
	}

	return s
}

func defaultSeed() []seedRow {
	return []seedRow{
		{"Miami Family House", 450000, "Miami Beach", 3, "house", "available", `["pool","garage","garden"]`},
		{"Downtown Loft", 320000, "Downtown", 1, "apartment", "pending", `["gym","parking"]`},
		{"Seaside Condo", 680000, "Key Biscayne", 2, "condo", "available", `["pool","ocean view"]`},
	}
}

func TestSearch_Unconstrained(t *testing.T) {
	s := newTestStore(t, defaultSeed())

	got, err := s.Search(context.Background(), domain.QuerySpec{Limit: 6})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	// Newest first
	assert.Equal(t, "Seaside Condo", got[0].Title)
}

func TestSearch_StatusFilter(t *testing.T) {
	s := newTestStore(t, defaultSeed())

	spec := domain.QuerySpec{
		Filters: []domain.Filter{{Field: domain.FieldStatus, Op: domain.OpEq, Text: "available"}},
		Limit:   6,
	}
	got, err := s.Search(context.Background(), spec)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, domain.StatusAvailable, p.Status)
	}
}

func TestSearch_AreaContainsCaseInsensitive(t *testing.T) {
	s := newTestStore(t, defaultSeed())

	spec := domain.QuerySpec{
		Filters: []domain.Filter{{Field: domain.FieldArea, Op: domain.OpContains, Text: "miami"}},
		Limit:   6,
	}
	got, err := s.Search(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Miami Family House", got[0].Title)
}

func TestSearch_PriceAndBedrooms(t *testing.T) {
	s := newTestStore(t, defaultSeed())

	spec := domain.QuerySpec{
		Filters: []domain.Filter{
			{Field: domain.FieldPrice, Op: domain.OpLte, Number: 500000},
			{Field: domain.FieldBedrooms, Op: domain.OpGte, Number: 2},
		},
		Limit: 6,
	}
	got, err := s.Search(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Miami Family House", got[0].Title)
}

func TestSearch_AmenitySuperset(t *testing.T) {
	s := newTestStore(t, defaultSeed())

	spec := domain.QuerySpec{
		Filters: []domain.Filter{{Field: domain.FieldAmenities, Op: domain.OpHasAll, Set: []string{"pool", "garage"}}},
		Limit:   6,
	}
	got, err := s.Search(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Miami Family House", got[0].Title)
	assert.Equal(t, []string{"pool", "garage", "garden"}, got[0].Amenities)
}

func TestSearch_LimitCapsResults(t *testing.T) {
	rows := make([]seedRow, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, seedRow{
			title: fmt.Sprintf("Listing %d", i), price: 100000, area: "Anywhere",
			bedrooms: 2, propertyType: "house", status: "available", amenities: "[]",
		})
	}
	s := newTestStore(t, rows)

	got, err := s.Search(context.Background(), domain.QuerySpec{Limit: 6})
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestSearch_CombinedSpec(t *testing.T) {
	s := newTestStore(t, defaultSeed())

	spec := domain.QuerySpec{
		Filters: []domain.Filter{
			{Field: domain.FieldStatus, Op: domain.OpEq, Text: "available"},
			{Field: domain.FieldArea, Op: domain.OpContains, Text: "Miami"},
			{Field: domain.FieldPrice, Op: domain.OpLte, Number: 500000},
			{Field: domain.FieldPropertyType, Op: domain.OpContains, Text: "house"},
			{Field: domain.FieldAmenities, Op: domain.OpHasAll, Set: []string{"pool"}},
		},
		Limit: 6,
	}
	got, err := s.Search(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Miami Family House", got[0].Title)
}
