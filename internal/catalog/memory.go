package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process catalog. Reads run concurrently; writes take
// the lock exclusively.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
	now      func() time.Time
}

// NewMemoryStore creates an empty catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

// CreateProduct stores p and returns the assigned record.
func (s *MemoryStore) CreateProduct(_ context.Context, p NewProduct) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	product := Product{
		ID:            s.nextID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
		Brand:         p.Brand,
		Rating:        p.Rating,
		StockQuantity: p.StockQuantity,
		IsActive:      !p.Inactive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.nextID++
	s.products = append(s.products, product)
	return product, nil
}

func (s *MemoryStore) Search(_ context.Context, filter SearchFilter) ([]ProductSummary, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	matched := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive && matches(p, filter) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	sortByRelevance(matched)
	return page(matched, filter.Offset, filter.Limit), nil
}

func (s *MemoryStore) Popular(ctx context.Context, limit int) ([]ProductSummary, error) {
	return s.Search(ctx, SearchFilter{Limit: limit})
}

func (s *MemoryStore) Get(_ context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id && p.IsActive {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (s *MemoryStore) Categories(_ context.Context) ([]string, error) {
	return s.distinct(func(p Product) string { return p.Category }), nil
}

func (s *MemoryStore) Brands(_ context.Context) ([]string, error) {
	return s.distinct(func(p Product) string { return p.Brand }), nil
}

func (s *MemoryStore) distinct(field func(Product) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range s.products {
		v := field(p)
		if !p.IsActive || v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func matches(p Product, f SearchFilter) bool {
	if f.Query != nil {
		q := strings.ToLower(*f.Query)
		if !containsFold(p.Title, q) && !containsFold(p.Description, q) &&
			!containsFold(p.Category, q) && !containsFold(p.Brand, q) {
			return false
		}
	}
	if f.Category != nil && !containsFold(p.Category, strings.ToLower(*f.Category)) {
		return false
	}
	if f.Brand != nil && !containsFold(p.Brand, strings.ToLower(*f.Brand)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// containsFold reports whether the lowercased needle occurs in s.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// sortByRelevance orders by rating, then recency, then id, all descending.
func sortByRelevance(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func page(products []Product, offset, limit int) []ProductSummary {
	if offset >= len(products) {
		return []ProductSummary{}
	}
	end := len(products)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]ProductSummary, 0, end-offset)
	for _, p := range products[offset:end] {
		out = append(out, p.Summary())
	}
	return out
}
