package domain

// ExtractedConstraints holds the structured constraints recovered from a
// single utterance. Every field is independently optional: a nil pointer,
// false flag, or empty slice means "no constraint", never "false".
type ExtractedConstraints struct {
	AvailabilityOnly bool     `json:"availability_only,omitempty"`
	AreaContains     *string  `json:"area_contains,omitempty"`
	MaxPrice         *int64   `json:"max_price,omitempty"`
	MinBedrooms      *int     `json:"min_bedrooms,omitempty"`
	PropertyType     *string  `json:"property_type,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
}

// FilterField identifies the property attribute a filter applies to
type FilterField string

const (
	FieldStatus       FilterField = "status"
	FieldArea         FilterField = "area"
	FieldPrice        FilterField = "price"
	FieldBedrooms     FilterField = "bedrooms"
	FieldPropertyType FilterField = "property_type"
	FieldAmenities    FilterField = "amenities"
)

// FilterOp is the comparison a filter performs
type FilterOp string

const (
	OpEq       FilterOp = "eq"       // exact equality
	OpContains FilterOp = "contains" // case-insensitive substring
	OpLte      FilterOp = "lte"      // numeric <=
	OpGte      FilterOp = "gte"      // numeric >=
	OpHasAll   FilterOp = "has-all"  // set superset
)

// Filter is one conjunctive predicate of a compiled query. Exactly one of
// the typed value fields is set, matching Op.
type Filter struct {
	Field  FilterField `json:"field"`
	Op     FilterOp    `json:"op"`
	Text   string      `json:"text,omitempty"`
	Number int64       `json:"number,omitempty"`
	Set    []string    `json:"set,omitempty"`
}

// QuerySpec is the compiled conjunction of predicates sent to the catalog
// store, plus the result cap. An empty Filters slice is the unconstrained
// catalog browse.
type QuerySpec struct {
	Filters []Filter `json:"filters"`
	Limit   int      `json:"limit"`
}
