// Package catalogtest holds the search behaviour every catalog store must
// share.
package catalogtest

import (
	"context"
	"math"
	"testing"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store is a catalog that can be seeded.
type Store interface {
	catalog.Reader
	catalog.Writer
}

// Products is the seed data the suite searches. Later entries are newer.
var Products = []catalog.NewProduct{
	{Title: "MacBook Air", Description: "Thin and light laptop", Price: 999, Category: "Electronics", Brand: "Apple", Rating: 4.8, StockQuantity: 12},
	{Title: "Galaxy S24", Description: "Android phone", Price: 799, Category: "Electronics", Brand: "Samsung", Rating: 4.6, StockQuantity: 30},
	{Title: "Noise Cancelling Headphones", Description: "Wireless over-ear", Price: 349, Category: "Electronics", Brand: "Sony", Rating: 4.8, StockQuantity: 8},
	{Title: "Air Max 90", Description: "Classic running shoe", Price: 120, Category: "Sports", Brand: "Nike", Rating: 4.4, StockQuantity: 50},
	{Title: "Cotton T-Shirt", Description: "100% cotton tee", Price: 25, Category: "Clothing", Brand: "Adidas", Rating: 4.1, StockQuantity: 100},
	{Title: "Go Programming", Description: "A book about 50% off_topic things", Price: 45, Category: "Books", Brand: "", Rating: 4.9, StockQuantity: 5},
	{Title: "Discontinued Phone", Description: "No longer sold", Price: 50, Category: "Obsolete", Brand: "LG", Rating: 5, StockQuantity: 0, Inactive: true},
}

// Seed inserts Products in order and returns the created records.
func Seed(t *testing.T, store catalog.Writer) []catalog.Product {
	t.Helper()
	out := make([]catalog.Product, 0, len(Products))
	for _, p := range Products {
		created, err := store.CreateProduct(context.Background(), p)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

// Titles lists the titles of products in order.
func Titles(products []catalog.ProductSummary) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

// RunStoreSuite seeds the store returned by newStore with Products and checks
// search, listings and lookups against it.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	store := newStore(t)
	created := Seed(t, store)
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		first := created[0]
		assert.Positive(t, first.ID)
		assert.Equal(t, "MacBook Air", first.Title)
		assert.Equal(t, 999.0, first.Price)
		assert.Equal(t, 12, first.StockQuantity)
		assert.True(t, first.IsActive)
		assert.False(t, first.CreatedAt.IsZero())
		assert.False(t, created[6].IsActive)
	})

	searches := []struct {
		name   string
		filter catalog.SearchFilter
		want   []string
	}{
		{
			name:   "no filter orders by rating then recency",
			filter: catalog.SearchFilter{},
			want:   []string{"Go Programming", "Noise Cancelling Headphones", "MacBook Air", "Galaxy S24", "Air Max 90", "Cotton T-Shirt"},
		},
		{
			name:   "query matches title case-insensitively",
			filter: catalog.SearchFilter{Query: utils.ToPtr("macbook")},
			want:   []string{"MacBook Air"},
		},
		{
			name:   "query matches description",
			filter: catalog.SearchFilter{Query: utils.ToPtr("ANDROID")},
			want:   []string{"Galaxy S24"},
		},
		{
			name:   "query matches category and brand",
			filter: catalog.SearchFilter{Query: utils.ToPtr("sony")},
			want:   []string{"Noise Cancelling Headphones"},
		},
		{
			name:   "category is a substring match",
			filter: catalog.SearchFilter{Category: utils.ToPtr("electr")},
			want:   []string{"Noise Cancelling Headphones", "MacBook Air", "Galaxy S24"},
		},
		{
			name:   "brand filter",
			filter: catalog.SearchFilter{Brand: utils.ToPtr("nike")},
			want:   []string{"Air Max 90"},
		},
		{
			name:   "price bounds are inclusive",
			filter: catalog.SearchFilter{MinPrice: utils.ToPtr(45.0), MaxPrice: utils.ToPtr(349.0)},
			want:   []string{"Go Programming", "Noise Cancelling Headphones", "Air Max 90"},
		},
		{
			name:   "filters combine with AND",
			filter: catalog.SearchFilter{Category: utils.ToPtr("electronics"), MaxPrice: utils.ToPtr(800.0)},
			want:   []string{"Noise Cancelling Headphones", "Galaxy S24"},
		},
		{
			name:   "inactive products never match",
			filter: catalog.SearchFilter{Query: utils.ToPtr("discontinued")},
			want:   []string{},
		},
		{
			name:   "percent is literal",
			filter: catalog.SearchFilter{Query: utils.ToPtr("%")},
			want:   []string{"Go Programming", "Cotton T-Shirt"},
		},
		{
			name:   "underscore is literal",
			filter: catalog.SearchFilter{Query: utils.ToPtr("_")},
			want:   []string{"Go Programming"},
		},
		{
			name:   "offset then limit",
			filter: catalog.SearchFilter{Offset: 1, Limit: 2},
			want:   []string{"Noise Cancelling Headphones", "MacBook Air"},
		},
		{
			name:   "offset past the end",
			filter: catalog.SearchFilter{Offset: 50},
			want:   []string{},
		},
		{
			name:   "largest limit after an offset",
			filter: catalog.SearchFilter{Offset: 1, Limit: math.MaxInt},
			want:   []string{"Noise Cancelling Headphones", "MacBook Air", "Galaxy S24", "Air Max 90", "Cotton T-Shirt"},
		},
		{
			name:   "largest offset",
			filter: catalog.SearchFilter{Offset: math.MaxInt, Limit: math.MaxInt},
			want:   []string{},
		},
		{
			name:   "malformed max price is ignored",
			filter: catalog.SearchFilter{Brand: utils.ToPtr("apple"), MaxPrice: utils.ToPtr(math.NaN())},
			want:   []string{"MacBook Air"},
		},
	}
	for _, tt := range searches {
		t.Run("search/"+tt.name, func(t *testing.T) {
			got, err := store.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Titles(got))
		})
	}

	t.Run("search is idempotent", func(t *testing.T) {
		filter := catalog.SearchFilter{Query: utils.ToPtr("e"), Limit: 4}
		first, err := store.Search(ctx, filter)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := store.Search(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("listings", func(t *testing.T) {
		categories, err := store.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Books", "Clothing", "Electronics", "Sports"}, categories)

		brands, err := store.Brands(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Adidas", "Apple", "Nike", "Samsung", "Sony"}, brands)

		popular, err := store.Popular(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go Programming", "Noise Cancelling Headphones"}, Titles(popular))
	})

	t.Run("get", func(t *testing.T) {
		p, err := store.Get(ctx, created[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "MacBook Air", p.Title)
		assert.Equal(t, "Apple", p.Brand)

		_, err = store.Get(ctx, created[6].ID)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound, "inactive products are hidden")

		_, err = store.Get(ctx, created[6].ID+1000)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

// RunCaseFoldingSuite checks text filters ignore case beyond ASCII. store
// must be empty.
func RunCaseFoldingSuite(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []catalog.NewProduct{
		{Title: "Crème Brûlée Torch", Description: "Kitchen blowtorch", Price: 30, Category: "Électronique", Brand: "Ÿule", Rating: 4.2},
		{Title: "Plain Torch", Description: "Pocket flashlight", Price: 10, Category: "Electronics", Brand: "Acme", Rating: 3.5},
	} {
		_, err := store.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter catalog.SearchFilter
		want   []string
	}{
		{name: "upper-case query", filter: catalog.SearchFilter{Query: utils.ToPtr("CRÈME")}, want: []string{"Crème Brûlée Torch"}},
		{name: "query inside a word", filter: catalog.SearchFilter{Query: utils.ToPtr("BRÛL")}, want: []string{"Crème Brûlée Torch"}},
		{name: "category hint", filter: catalog.SearchFilter{Category: utils.ToPtr("électr")}, want: []string{"Crème Brûlée Torch"}},
		{name: "brand hint", filter: catalog.SearchFilter{Brand: utils.ToPtr("ÿULE")}, want: []string{"Crème Brûlée Torch"}},
		{name: "ascii still matches", filter: catalog.SearchFilter{Query: utils.ToPtr("TORCH")}, want: []string{"Crème Brûlée Torch", "Plain Torch"}},
	}
	for _, tt := range tests {
		t.Run("casefold/"+tt.name, func(t *testing.T) {
			got, err := store.Search(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Titles(got))
		})
	}
}

// RunEmptyStoreSuite checks an empty store answers with empty, non-nil
// listings.
func RunEmptyStoreSuite(t *testing.T, store catalog.Reader) {
	t.Helper()
	ctx := context.Background()

	got, err := store.Search(ctx, catalog.SearchFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	brands, err := store.Brands(ctx)
	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)
}
