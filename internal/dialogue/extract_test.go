package dialogue

import (
	"strings"
	"testing"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want catalog.SearchFilter
	}{
		{
			name: "price ceiling without hints",
			raw:  "show me laptops under $800",
			want: catalog.SearchFilter{
				Query:    utils.ToPtr("show me laptops under $800"),
				MaxPrice: utils.ToPtr(800.0),
				Limit:    10,
			},
		},
		{
			name: "brand hint is case-folded, query keeps the original text",
			raw:  "I want a Nike jacket",
			want: catalog.SearchFilter{
				Query: utils.ToPtr("I want a Nike jacket"),
				Brand: utils.ToPtr("nike"),
				Limit: 10,
			},
		},
		{
			name: "category and price",
			raw:  "find electronics under $100",
			want: catalog.SearchFilter{
				Query:    utils.ToPtr("find electronics under $100"),
				Category: utils.ToPtr("electronics"),
				MaxPrice: utils.ToPtr(100.0),
				Limit:    10,
			},
		},
		{
			name: "currency symbol optional and case-insensitive",
			raw:  "Sports gear UNDER 50",
			want: catalog.SearchFilter{
				Query:    utils.ToPtr("Sports gear UNDER 50"),
				Category: utils.ToPtr("sports"),
				MaxPrice: utils.ToPtr(50.0),
				Limit:    10,
			},
		},
		{
			name: "hint lists are scanned in fixed order",
			raw:  "Beauty and home picks from Samsung or Apple",
			want: catalog.SearchFilter{
				Query:    utils.ToPtr("Beauty and home picks from Samsung or Apple"),
				Category: utils.ToPtr("home"),
				Brand:    utils.ToPtr("apple"),
				Limit:    10,
			},
		},
		{
			name: "first price wins",
			raw:  "under 30 or under 60",
			want: catalog.SearchFilter{
				Query:    utils.ToPtr("under 30 or under 60"),
				MaxPrice: utils.ToPtr(30.0),
				Limit:    10,
			},
		},
		{
			name: "nothing matches",
			raw:  "surprise me",
			want: catalog.SearchFilter{Query: utils.ToPtr("surprise me"), Limit: 10},
		},
		{
			name: "dangling under",
			raw:  "under $",
			want: catalog.SearchFilter{Query: utils.ToPtr("under $"), Limit: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.raw))
		})
	}
}

func TestExtractDiscardsOverflowingPrice(t *testing.T) {
	raw := "under $" + strings.Repeat("9", 400)
	filter := Extract(raw)
	assert.Nil(t, filter.MaxPrice)
	assert.Equal(t, raw, *filter.Query)
}

func TestPriceCeiling(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{name: "dollar amount", raw: "anything for $50?", want: 50, wantOK: true},
		{name: "bare number", raw: "how much, 120 tops?", want: 120, wantOK: true},
		// Known false positive: any number is read as a price, including
		// quantities and years.
		{name: "quantity is read as a price", raw: "how much for 2 pairs?", want: 2, wantOK: true},
		{name: "year is read as a price", raw: "price of the 2023 model?", want: 2023, wantOK: true},
		{name: "no number", raw: "how much?", wantOK: false},
		{name: "overflow discarded", raw: "cost " + strings.Repeat("1", 400), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PriceCeiling(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
