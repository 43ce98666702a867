package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/pkg/httpmiddleware"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

const (
	maxPageSize    = 100
	defaultPopular = 8
)

// parseProductFilter reads the product list query parameters.
func parseProductFilter(q url.Values) (catalog.SearchFilter, error) {
	var (
		filter = catalog.SearchFilter{Limit: catalog.DefaultLimit}
		result error
	)

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > catalog.MaxOffset {
			result = multierror.Append(result, fmt.Errorf("skip must be an integer between 0 and %d, got %q", catalog.MaxOffset, v))
		}
		filter.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			result = multierror.Append(result, fmt.Errorf("limit must be between 1 and %d, got %q", maxPageSize, v))
		}
		filter.Limit = n
	}
	for _, p := range []struct {
		name string
		dest **float64
	}{{"min_price", &filter.MinPrice}, {"max_price", &filter.MaxPrice}} {
		name, dest := p.name, p.dest
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			result = multierror.Append(result, fmt.Errorf("%s must be a non-negative number, got %q", name, v))
			continue
		}
		*dest = &f
	}
	if v := q.Get("search"); v != "" {
		filter.Query = &v
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if v := q.Get("brand"); v != "" {
		filter.Brand = &v
	}

	if result != nil {
		return catalog.SearchFilter{}, result
	}
	return filter, nil
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r.URL.Query())
	if err != nil {
		httpmiddleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	products, err := s.deps.Catalog.Search(r.Context(), filter)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		httpmiddleware.WriteError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		return
	}
	product, err := s.deps.Catalog.Get(r.Context(), id)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.deps.Catalog.Categories(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.deps.Catalog.Brands(r.Context())
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (s *Server) popularProducts(w http.ResponseWriter, r *http.Request) {
	limit := defaultPopular
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			httpmiddleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d, got %q", maxPageSize, v))
			return
		}
		limit = n
	}
	products, err := s.deps.Catalog.Popular(r.Context(), limit)
	if err != nil {
		s.writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrProductNotFound) {
		httpmiddleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	logger.GetLoggerFromContext(r.Context(), s.log).Error("Catalog request failed",
		logger.HTTPPathField(r.URL.Path), logger.ErrorField(err))
	httpmiddleware.WriteError(w, http.StatusInternalServerError, "internal server error")
}
