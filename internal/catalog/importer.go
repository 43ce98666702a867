package catalog

import (
	"context"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/lewisedginton/storefront_chatbot/internal/storage_manager"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Document is the YAML layout of a catalog file.
type Document struct {
	Products []NewProduct `yaml:"products"`
}

// Validate reports every problem with the record at once.
func (p NewProduct) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(p.Title) == "" {
		result = multierror.Append(result, fmt.Errorf("title is required"))
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		result = multierror.Append(result, fmt.Errorf("price must be a non-negative number, got %v", p.Price))
	}
	if math.IsNaN(p.Rating) || p.Rating < 0 || p.Rating > 5 {
		result = multierror.Append(result, fmt.Errorf("rating must be within 0..5, got %v", p.Rating))
	}
	if p.StockQuantity < 0 || p.StockQuantity > MaxStockQuantity {
		result = multierror.Append(result, fmt.Errorf("stock_quantity must be within 0..%d, got %d", MaxStockQuantity, p.StockQuantity))
	}
	return result.ErrorOrNil()
}

// ImportResult summarises one import run.
type ImportResult struct {
	Files    int
	Imported int
	Skipped  int
}

// Importer loads catalog documents from storage into a Writer.
type Importer struct {
	files  storage_manager.FileProvider
	writer Writer
	logger logger.Logger
}

// NewImporter creates an importer reading from files.
func NewImporter(files storage_manager.FileProvider, writer Writer, log logger.Logger) *Importer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Importer{files: files, writer: writer, logger: log}
}

// ImportFile imports one document. Invalid records are skipped and reported
// together in the returned error; valid ones are still written.
func (i *Importer) ImportFile(ctx context.Context, name string) (ImportResult, error) {
	result := ImportResult{Files: 1}
	log := i.logger.WithFields(logger.StringField("file", name))

	data, err := i.files.Read(ctx, name)
	if err != nil {
		return result, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return result, fmt.Errorf("failed to parse catalog %s: %w", name, err)
	}

	var errs *multierror.Error
	for idx, p := range doc.Products {
		if err := p.Validate(); err != nil {
			result.Skipped++
			errs = multierror.Append(errs, fmt.Errorf("%s: product %d (%q): %w", name, idx, p.Title, err))
			continue
		}
		if _, err := i.writer.CreateProduct(ctx, p); err != nil {
			return result, fmt.Errorf("failed to store product %q: %w", p.Title, err)
		}
		result.Imported++
	}

	log.Info("Imported catalog file",
		logger.IntField("imported", result.Imported),
		logger.IntField("skipped", result.Skipped))
	return result, errs.ErrorOrNil()
}

// ImportDir imports every .yaml/.yml document under prefix in path order.
func (i *Importer) ImportDir(ctx context.Context, prefix string) (ImportResult, error) {
	names, err := i.files.List(ctx, prefix)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to list catalogs under %q: %w", prefix, err)
	}

	var total ImportResult
	var errs *multierror.Error
	for _, name := range names {
		switch path.Ext(name) {
		case ".yaml", ".yml":
		default:
			continue
		}
		res, err := i.ImportFile(ctx, name)
		total.Files += res.Files
		total.Imported += res.Imported
		total.Skipped += res.Skipped
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return total, errs.ErrorOrNil()
}

// Export writes every active product reachable through r as a catalog
// document, which ImportFile can load again.
func Export(ctx context.Context, r Reader, files storage_manager.FileProvider, name string) (int, error) {
	var doc Document
	for offset := 0; ; offset += 100 {
		batch, err := r.Search(ctx, SearchFilter{Limit: 100, Offset: offset})
		if err != nil {
			return 0, fmt.Errorf("failed to read catalog: %w", err)
		}
		for _, p := range batch {
			doc.Products = append(doc.Products, NewProduct{
				Title:         p.Title,
				Description:   p.Description,
				Price:         p.Price,
				Category:      p.Category,
				ImageURL:      p.ImageURL,
				Brand:         p.Brand,
				Rating:        p.Rating,
				StockQuantity: p.StockQuantity,
			})
		}
		if len(batch) < 100 {
			break
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := files.Write(ctx, name, data); err != nil {
		return 0, fmt.Errorf("failed to write catalog %s: %w", name, err)
	}
	return len(doc.Products), nil
}
