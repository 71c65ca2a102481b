// Package interpret recovers structured search constraints from free-text
// chat utterances and compiles them into catalog query specs.
package interpret

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/luxehomes/property-assistant/internal/domain"
)

var (
	// "in <words> [area]" terminated by whitespace, end, comma or question mark.
	// Runs against the original-cased text so the captured area keeps its casing.
	areaPattern = regexp.MustCompile(`(?i)\bin\s+(\w+(?:\s+\w+)*?)(?:\s+area)?(?:\s|$|,|\?)`)

	// "under|below|less than" + optional $ + digits with optional thousands
	// separators, optional decimal tail, optional k/m suffix. The decimal tail
	// is captured only so it can be rejected: "1.2m" is outside the accepted
	// grammar and must not produce a price.
	pricePattern = regexp.MustCompile(`(?:under|below|less\s+than)\s+\$?(\d+(?:,\d{3})*(?:\.\d+)?)([km])?\b`)

	bedroomPattern = regexp.MustCompile(`(\d+)\s*\+?\s*bed(?:room)?s?`)

	typePattern = regexp.MustCompile(`\b(house|apartment|condo|villa|townhouse)s?\b`)
)

// Parse extracts constraints from one utterance. It never fails: rules that
// do not match simply leave their field absent. Each rule is evaluated
// independently, so several constraints may combine from a single utterance.
func Parse(text string) domain.ExtractedConstraints {
	lower := strings.ToLower(text)

	return domain.ExtractedConstraints{
		AvailabilityOnly: extractAvailability(lower),
		AreaContains:     extractArea(text),
		MaxPrice:         extractMaxPrice(lower),
		MinBedrooms:      extractMinBedrooms(lower),
		PropertyType:     extractPropertyType(lower),
		Amenities:        extractAmenities(lower),
	}
}

func extractAvailability(lower string) bool {
	return strings.Contains(lower, "available") || strings.Contains(lower, "sale")
}

// extractArea keeps only the first area phrase when several are present.
func extractArea(text string) *string {
	m := areaPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	area := strings.TrimSpace(m[1])
	if area == "" {
		return nil
	}
	return &area
}

func extractMaxPrice(lower string) *int64 {
	m := pricePattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}

	raw := strings.ReplaceAll(m[1], ",", "")
	if strings.Contains(raw, ".") {
		// Decimal-suffixed forms such as "1.2m" are not in the grammar.
		return nil
	}

	price, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}

	switch m[2] {
	case "k":
		price *= 1_000
	case "m":
		price *= 1_000_000
	}
	return &price
}

func extractMinBedrooms(lower string) *int {
	m := bedroomPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func extractPropertyType(lower string) *string {
	m := typePattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	return &m[1]
}

// extractAmenities collects every vocabulary phrase present in the
// utterance. Iterating the fixed vocabulary keeps the result deduplicated
// and deterministically ordered.
func extractAmenities(lower string) []string {
	var found []string
	for _, amenity := range domain.AmenityVocabulary {
		if strings.Contains(lower, amenity) {
			found = append(found, amenity)
		}
	}
	return found
}
