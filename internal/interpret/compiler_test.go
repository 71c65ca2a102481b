package interpret_test

import (
	"testing"

	"github.com/luxehomes/property-assistant/internal/domain"
	"github.com/luxehomes/property-assistant/internal/interpret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Empty(t *testing.T) {
	spec := interpret.Compile(domain.ExtractedConstraints{})

	assert.Empty(t, spec.Filters)
	assert.Equal(t, 6, spec.Limit)
}

func TestCompile_AllConstraints(t *testing.T) {
	area := "Miami"
	price := int64(500000)
	bedrooms := 3
	propertyType := "house"

	spec := interpret.Compile(domain.ExtractedConstraints{
		AvailabilityOnly: true,
		AreaContains:     &area,
		MaxPrice:         &price,
		MinBedrooms:      &bedrooms,
		PropertyType:     &propertyType,
		Amenities:        []string{"pool", "garage"},
	})

	require.Len(t, spec.Filters, 6)
	assert.Equal(t, 6, spec.Limit)

	assert.Equal(t, domain.Filter{Field: domain.FieldStatus, Op: domain.OpEq, Text: "available"}, spec.Filters[0])
	assert.Equal(t, domain.Filter{Field: domain.FieldArea, Op: domain.OpContains, Text: "Miami"}, spec.Filters[1])
	assert.Equal(t, domain.Filter{Field: domain.FieldPrice, Op: domain.OpLte, Number: 500000}, spec.Filters[2])
	assert.Equal(t, domain.Filter{Field: domain.FieldBedrooms, Op: domain.OpGte, Number: 3}, spec.Filters[3])
	assert.Equal(t, domain.Filter{Field: domain.FieldPropertyType, Op: domain.OpContains, Text: "house"}, spec.Filters[4])
	assert.Equal(t, domain.Filter{Field: domain.FieldAmenities, Op: domain.OpHasAll, Set: []string{"pool", "garage"}}, spec.Filters[5])
}

func TestCompile_EndToEndUtterance(t *testing.T) {
	spec := interpret.Compile(interpret.Parse("Show me available houses in Miami under 500000 with pool"))

	require.Len(t, spec.Filters, 5)

	byField := map[domain.FilterField]domain.Filter{}
	for _, f := range spec.Filters {
		byField[f.Field] = f
	}

	assert.Equal(t, "available", byField[domain.FieldStatus].Text)
	assert.Equal(t, "Miami", byField[domain.FieldArea].Text)
	assert.Equal(t, int64(500000), byField[domain.FieldPrice].Number)
	assert.Equal(t, "house", byField[domain.FieldPropertyType].Text)
	assert.Equal(t, []string{"pool"}, byField[domain.FieldAmenities].Set)
}

func TestCompile_LimitNeverExceedsCap(t *testing.T) {
	assert.Equal(t, 6, interpret.Compile(domain.ExtractedConstraints{}).Limit)
	assert.Equal(t, 6, interpret.Compile(domain.ExtractedConstraints{AvailabilityOnly: true}).Limit)
}
