package dialogue

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
)

// searchLimit is the page size used for product_search lookups.
const searchLimit = 10

var (
	underPricePattern = regexp.MustCompile(`(?i)under\s+\$?(\d+)`)
	anyPricePattern   = regexp.MustCompile(`\$?(\d+)`)

	categoryHints = []string{"electronics", "clothing", "books", "home", "sports", "beauty"}
	brandHints    = []string{"apple", "samsung", "nike", "adidas", "sony", "lg"}
)

// Extract derives catalog filters from a raw message. Every rule is applied
// independently; the raw message always becomes the free-text query.
func Extract(raw string) catalog.SearchFilter {
	filter := catalog.SearchFilter{
		Query: &raw,
		Limit: searchLimit,
	}

	if m := underPricePattern.FindStringSubmatch(raw); m != nil {
		if price, ok := parsePrice(m[1]); ok {
			filter.MaxPrice = &price
		}
	}

	lower := strings.ToLower(raw)
	if hint, ok := firstContained(lower, categoryHints); ok {
		filter.Category = &hint
	}
	if hint, ok := firstContained(lower, brandHints); ok {
		filter.Brand = &hint
	}

	return filter
}

// PriceCeiling returns the first number in the message, with or without a
// leading dollar sign. Any number counts, so quantities and years are also
// picked up.
func PriceCeiling(raw string) (float64, bool) {
	m := anyPricePattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	return parsePrice(m[1])
}

// parsePrice accepts only finite, non-negative values.
func parsePrice(digits string) (float64, bool) {
	price, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) || price < 0 {
		return 0, false
	}
	return price, true
}

func firstContained(s string, hints []string) (string, bool) {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return h, true
		}
	}
	return "", false
}
