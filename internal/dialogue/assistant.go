package dialogue

import (
	"context"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// Recorder receives dialogue metrics. *metrics.Metrics implements it.
type Recorder interface {
	RecordIntent(intent string)
	ObserveCatalogResults(n int)
	IncrementCatalogErrors()
}

type nopRecorder struct{}

func (nopRecorder) RecordIntent(string)       {}
func (nopRecorder) ObserveCatalogResults(int) {}
func (nopRecorder) IncrementCatalogErrors()   {}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the assistant's logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics reports intents and catalog outcomes to r.
func WithMetrics(r Recorder) Option {
	return func(a *Assistant) {
		if r != nil {
			a.metrics = r
		}
	}
}

// Assistant answers one message at a time. It holds no per-conversation
// state and is safe for concurrent use as long as its catalog is.
type Assistant struct {
	catalog catalog.Reader
	logger  logger.Logger
	metrics Recorder
}

// NewAssistant creates an assistant backed by reader.
func NewAssistant(reader catalog.Reader, opts ...Option) *Assistant {
	a := &Assistant{
		catalog: reader,
		logger:  logger.NewNop(),
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle classifies message, runs whatever catalog lookups its intent needs
// and returns the composed reply. Catalog failures are logged and answered
// as if nothing matched.
func (a *Assistant) Handle(ctx context.Context, message string) Response {
	intent := Classify(Normalize(message))
	log := logger.GetLoggerFromContext(ctx, a.logger).WithFields(logger.IntentField(string(intent)))
	a.metrics.RecordIntent(string(intent))

	var resp Response
	switch intent {
	case IntentGreeting:
		resp = ComposeGreeting()

	case IntentProductSearch:
		filter := Extract(message)
		resp = ComposeProductSearch(filter, a.search(ctx, log, filter))

	case IntentCategoryBrowse:
		categories, err := a.catalog.Categories(ctx)
		if err != nil {
			a.catalogFailed(log, "categories", err)
			categories = nil
		}
		resp = ComposeCategoryBrowse(categories)

	case IntentPriceInquiry:
		price, ok := PriceCeiling(message)
		if !ok {
			resp = ComposeBudgetPrompt()
			break
		}
		filter := catalog.SearchFilter{MaxPrice: &price, Limit: priceInquiryCap}
		resp = ComposePriceResults(price, a.search(ctx, log, filter))

	case IntentHelp:
		resp = ComposeHelp()

	case IntentGoodbye:
		resp = ComposeGoodbye()

	default:
		filter := catalog.SearchFilter{Query: &message, Limit: defaultCap}
		resp = ComposeDefault(message, a.search(ctx, log, filter))
	}

	log.Debug("Composed dialogue response",
		logger.IntField("products", len(resp.Products)),
		logger.IntField("suggestions", len(resp.Suggestions)))
	return resp
}

func (a *Assistant) search(ctx context.Context, log logger.Logger, filter catalog.SearchFilter) []catalog.ProductSummary {
	results, err := a.catalog.Search(ctx, filter)
	if err != nil {
		a.catalogFailed(log, "search", err)
		return nil
	}
	a.metrics.ObserveCatalogResults(len(results))
	return results
}

func (a *Assistant) catalogFailed(log logger.Logger, op string, err error) {
	a.metrics.IncrementCatalogErrors()
	log.Error("Catalog lookup failed, answering without results",
		logger.StringField("operation", op),
		logger.ErrorField(err))
}
