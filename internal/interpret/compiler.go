package interpret

import "github.com/luxehomes/property-assistant/internal/domain"

// ResultLimit caps every chat-originated catalog query. It bounds the
// response payload of the conversational surface and is deliberately not
// configurable.
const ResultLimit = 6

// Compile turns extracted constraints into a conjunctive query spec, one
// predicate per non-empty field. It is pure, total and deterministic; empty
// constraints compile to the unconstrained catalog browse.
func Compile(c domain.ExtractedConstraints) domain.QuerySpec {
	spec := domain.QuerySpec{Limit: ResultLimit}

	if c.AvailabilityOnly {
		spec.Filters = append(spec.Filters, domain.Filter{
			Field: domain.FieldStatus,
			Op:    domain.OpEq,
			Text:  string(domain.StatusAvailable),
		})
	}
	if c.AreaContains != nil {
		spec.Filters = append(spec.Filters, domain.Filter{
			Field: domain.FieldArea,
			Op:    domain.OpContains,
			Text:  *c.AreaContains,
		})
	}
	if c.MaxPrice != nil {
		spec.Filters = append(spec.Filters, domain.Filter{
			Field:  domain.FieldPrice,
			Op:     domain.OpLte,
			Number: *c.MaxPrice,
		})
	}
	if c.MinBedrooms != nil {
		spec.Filters = append(spec.Filters, domain.Filter{
			Field:  domain.FieldBedrooms,
			Op:     domain.OpGte,
			Number: int64(*c.MinBedrooms),
		})
	}
	if c.PropertyType != nil {
		spec.Filters = append(spec.Filters, domain.Filter{
			Field: domain.FieldPropertyType,
			Op:    domain.OpContains,
			Text:  *c.PropertyType,
		})
	}
	if len(c.Amenities) > 0 {
		spec.Filters = append(spec.Filters, domain.Filter{
			Field: domain.FieldAmenities,
			Op:    domain.OpHasAll,
			Set:   c.Amenities,
		})
	}

	return spec
}
