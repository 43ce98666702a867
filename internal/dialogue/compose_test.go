package dialogue

import (
	"fmt"
	"testing"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProducts(n int) []catalog.ProductSummary {
	out := make([]catalog.ProductSummary, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, catalog.ProductSummary{ID: int64(i), Title: fmt.Sprintf("Product %d", i), Price: float64(10 * i)})
	}
	return out
}

func TestComposeProductSearch(t *testing.T) {
	t.Run("count reports all matches, display is capped", func(t *testing.T) {
		resp := ComposeProductSearch(catalog.SearchFilter{}, makeProducts(10))
		assert.Equal(t, "I found 10 products for you! Here are some great options:", resp.Message)
		assert.Len(t, resp.Products, 6)
		assert.Equal(t, int64(1), resp.Products[0].ID)
	})

	t.Run("category hint is named", func(t *testing.T) {
		resp := ComposeProductSearch(catalog.SearchFilter{Category: utils.ToPtr("books")}, makeProducts(2))
		assert.Equal(t, "Here are some books products I found:", resp.Message)
		assert.Len(t, resp.Products, 2)
	})

	t.Run("no matches invites refinement", func(t *testing.T) {
		resp := ComposeProductSearch(catalog.SearchFilter{Category: utils.ToPtr("books")}, nil)
		assert.Equal(t, noMatchesMessage, resp.Message)
		assert.NotNil(t, resp.Products)
		assert.Empty(t, resp.Products)
		assert.Equal(t, []string{"Show me more", "Filter by price", "Browse categories", "Popular products"}, resp.Suggestions)
	})
}

func TestComposeCategoryBrowse(t *testing.T) {
	categories := []string{"Beauty", "Books", "Clothing", "Electronics", "Garden", "Home", "Music", "Sports", "Toys", "Travel"}

	resp := ComposeCategoryBrowse(categories)
	assert.Equal(t,
		"We have products in these categories: Beauty, Books, Clothing, Electronics, Garden, Home, Music, Sports. Which one interests you?",
		resp.Message)
	assert.Equal(t, []string{"Beauty", "Books", "Clothing", "Electronics"}, resp.Suggestions)
	assert.Empty(t, resp.Products)

	resp.Suggestions[0] = "mutated"
	assert.Equal(t, "Beauty", categories[0], "suggestions must not alias the input")

	few := ComposeCategoryBrowse([]string{"Books", "Home"})
	assert.Equal(t, []string{"Books", "Home"}, few.Suggestions)

	none := ComposeCategoryBrowse(nil)
	assert.Equal(t, "We have products in these categories: . Which one interests you?", none.Message)
	assert.NotNil(t, none.Suggestions)
	assert.Empty(t, none.Suggestions)
}

func TestComposePriceResults(t *testing.T) {
	resp := ComposePriceResults(50, makeProducts(9))
	assert.Equal(t, "Here are products under $50:", resp.Message)
	assert.Len(t, resp.Products, 6)
	assert.Equal(t, []string{"Show cheaper options", "Browse by category"}, resp.Suggestions)

	empty := ComposePriceResults(1, nil)
	assert.Equal(t, "Here are products under $1:", empty.Message)
	assert.Empty(t, empty.Products)
}

// Prices render in their shortest form: whole amounts carry no ".0".
func TestComposePriceResultsFormatsPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{price: 100, want: "Here are products under $100:"},
		{price: 0, want: "Here are products under $0:"},
		{price: 99.5, want: "Here are products under $99.5:"},
		{price: 19.99, want: "Here are products under $19.99:"},
		{price: 1e9, want: "Here are products under $1000000000:"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ComposePriceResults(tt.price, nil).Message)
		})
	}
}

func TestComposeDefault(t *testing.T) {
	resp := ComposeDefault("blue widget 3000", makeProducts(7))
	assert.Equal(t, "I found some products that might match 'blue widget 3000':", resp.Message)
	assert.Len(t, resp.Products, 4)
	assert.Equal(t, []string{"Show more like this", "Browse categories"}, resp.Suggestions)

	fallback := ComposeDefault("blue widget 3000", nil)
	assert.Equal(t, fallbackMessage, fallback.Message)
	assert.Contains(t, fallback.Message, "How can I assist you today?")
	assert.Equal(t, []string{"Show me categories", "What's on sale?", "Find a gift"}, fallback.Suggestions)
}

func TestCannedResponses(t *testing.T) {
	tests := []struct {
		name            string
		resp            Response
		wantIntent      Intent
		wantSuggestions int
	}{
		{name: "greeting", resp: ComposeGreeting(), wantIntent: IntentGreeting, wantSuggestions: 4},
		{name: "help", resp: ComposeHelp(), wantIntent: IntentHelp, wantSuggestions: 4},
		{name: "budget prompt", resp: ComposeBudgetPrompt(), wantIntent: IntentPriceInquiry, wantSuggestions: 3},
		{name: "goodbye", resp: ComposeGoodbye(), wantIntent: IntentGoodbye, wantSuggestions: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIntent, tt.resp.Intent)
			assert.NotEmpty(t, tt.resp.Message)
			require.NotNil(t, tt.resp.Products)
			require.NotNil(t, tt.resp.Suggestions)
			assert.Empty(t, tt.resp.Products)
			assert.Len(t, tt.resp.Suggestions, tt.wantSuggestions)
		})
	}
}

func TestHelpMessageListsCapabilities(t *testing.T) {
	for _, want := range []string{"**Product Search**", "**Browse Categories**", "**Price Filtering**", "**Product Details**", "**Recommendations**", `"show me laptops under $800"`} {
		assert.Contains(t, helpMessage, want)
	}
}
