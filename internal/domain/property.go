package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PropertyStatus represents the listing lifecycle state
type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "available"
	StatusPending   PropertyStatus = "pending"
	StatusSold      PropertyStatus = "sold"
)

// PropertyTypes are the dwelling categories recognized in utterances
var PropertyTypes = []string{"house", "apartment", "condo", "villa", "townhouse"}

// AmenityVocabulary is the fixed, ordered set of amenity phrases the
// parser matches against. Order here fixes the order amenities appear in
// extracted constraints.
var AmenityVocabulary = []string{
	"pool",
	"gym",
	"parking",
	"garden",
	"balcony",
	"ocean view",
	"garage",
}

// Property is one catalog listing
type Property struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Price        int64          `json:"price"`
	Location     string         `json:"location,omitempty"`
	Area         string         `json:"area"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	Sqft         int            `json:"sqft"`
	PropertyType string         `json:"property_type"`
	Status       PropertyStatus `json:"status"`
	Amenities    []string       `json:"amenities"`
	Images       []string       `json:"images,omitempty"`
	Featured     bool           `json:"featured"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CatalogStore answers compiled property searches
type CatalogStore interface {
	Search(ctx context.Context, spec QuerySpec) ([]Property, error)
}
