// Package catalog holds the product model and the filtered, ordered
// lookups the storefront assistant runs against it.
package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// DefaultLimit is applied to searches that don't ask for a page size.
const DefaultLimit = 20

// MaxOffset and MaxStockQuantity are the largest values the SQL stores hold
// in their 32-bit columns and parameters.
const (
	MaxOffset        = math.MaxInt32
	MaxStockQuantity = math.MaxInt32
)

// ErrProductNotFound is returned by Get for unknown or inactive products.
var ErrProductNotFound = errors.New("product not found")

// Product is a full catalog record.
type Product struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url"`
	Brand         string    `json:"brand"`
	Rating        float64   `json:"rating"`
	StockQuantity int       `json:"stock_quantity"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summary projects the record onto what search results carry.
func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		Brand:         p.Brand,
		Rating:        p.Rating,
		StockQuantity: p.StockQuantity,
	}
}

// ProductSummary is the read-only view of a product returned from searches.
type ProductSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"image_url"`
	Brand         string  `json:"brand"`
	Rating        float64 `json:"rating"`
	StockQuantity int     `json:"stock_quantity"`
}

// NewProduct is the write model used when importing products.
type NewProduct struct {
	Title         string  `json:"title" yaml:"title"`
	Description   string  `json:"description" yaml:"description"`
	Price         float64 `json:"price" yaml:"price"`
	Category      string  `json:"category" yaml:"category"`
	ImageURL      string  `json:"image_url" yaml:"image_url"`
	Brand         string  `json:"brand" yaml:"brand"`
	Rating        float64 `json:"rating" yaml:"rating"`
	StockQuantity int     `json:"stock_quantity" yaml:"stock_quantity"`
	Inactive      bool    `json:"inactive,omitempty" yaml:"inactive,omitempty"`
}

// SearchFilter narrows a search. Nil fields mean "no constraint".
type SearchFilter struct {
	Query    *string  `json:"query,omitempty"`
	Category *string  `json:"category,omitempty"`
	Brand    *string  `json:"brand,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// Normalize returns a copy of f with malformed values dropped: blank
// strings, negative or non-finite prices, a non-positive limit (replaced by
// DefaultLimit) and a negative offset (replaced by 0).
func (f SearchFilter) Normalize() SearchFilter {
	out := SearchFilter{
		Query:    nonBlank(f.Query),
		Category: nonBlank(f.Category),
		Brand:    nonBlank(f.Brand),
		MinPrice: validPrice(f.MinPrice),
		MaxPrice: validPrice(f.MaxPrice),
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func validPrice(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) || *p < 0 {
		return nil
	}
	v := *p
	return &v
}

// Reader is the read side of the catalog. Every method only sees active
// products.
type Reader interface {
	Search(ctx context.Context, filter SearchFilter) ([]ProductSummary, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
	Popular(ctx context.Context, limit int) ([]ProductSummary, error)
	Get(ctx context.Context, id int64) (Product, error)
}

// Writer adds products to the catalog.
type Writer interface {
	CreateProduct(ctx context.Context, p NewProduct) (Product, error)
}
