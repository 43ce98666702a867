// Package postgres implements the catalog and chat stores on PostgreSQL
// through pgxpool and sqlc-generated queries.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence/postgres/sqlc"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// Store implements catalog.Reader, catalog.Writer and chat.Store.
type Store struct {
	db      *pgxpool.Pool
	queries *sqlc.Queries
	logger  logger.Logger
}

// New creates a store over an open pool.
func New(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{db: pool, queries: sqlc.New(pool), logger: log}
}

// Connect opens and pings a pool for connString.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// WithTx returns a store whose queries run inside tx.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{db: s.db, queries: s.queries.WithTx(tx), logger: s.logger}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.NewProduct) (catalog.Product, error) {
	if p.StockQuantity < 0 || p.StockQuantity > catalog.MaxStockQuantity {
		return catalog.Product{}, fmt.Errorf("create product: stock_quantity %d out of range", p.StockQuantity)
	}
	row, err := s.queries.CreateProduct(ctx, sqlc.CreateProductParams{
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		ImageUrl:      p.ImageURL,
		Brand:         p.Brand,
		Rating:        p.Rating,
		StockQuantity: int32(p.StockQuantity), //nolint:gosec // range checked above
		IsActive:      !p.Inactive,
	})
	if err != nil {
		s.logger.Error("failed to create product", logger.ErrorField(err), logger.StringField("title", p.Title))
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	return toProduct(row), nil
}

func (s *Store) Get(ctx context.Context, id int64) (catalog.Product, error) {
	row, err := s.queries.GetProduct(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("get product: %w", err)
	}
	return toProduct(row), nil
}

func (s *Store) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.ProductSummary, error) {
	filter = filter.Normalize()
	if filter.Offset > catalog.MaxOffset {
		return []catalog.ProductSummary{}, nil
	}

	rows, err := s.queries.SearchProducts(ctx, sqlc.SearchProductsParams{
		Query:    likeText(filter.Query),
		Category: likeText(filter.Category),
		Brand:    likeText(filter.Brand),
		MinPrice: float8(filter.MinPrice),
		MaxPrice: float8(filter.MaxPrice),
		Offset:   int32(filter.Offset), //nolint:gosec // checked against MaxOffset above
		Limit:    clampInt32(filter.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	out := make([]catalog.ProductSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProduct(row).Summary())
	}
	return out, nil
}

func (s *Store) Popular(ctx context.Context, limit int) ([]catalog.ProductSummary, error) {
	return s.Search(ctx, catalog.SearchFilter{Limit: limit})
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return nonNil(categories), nil
}

func (s *Store) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.queries.ListBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return nonNil(brands), nil
}

func (s *Store) CreateSession(ctx context.Context, session chat.Session) error {
	err := s.queries.CreateChatSession(ctx, sqlc.CreateChatSessionParams{
		ID:          session.ID,
		UserID:      session.UserID,
		SessionName: session.Name,
		IsActive:    session.IsActive,
		CreatedAt:   timestamptz(session.CreatedAt),
		UpdatedAt:   timestamptz(session.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("create chat session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (chat.Session, error) {
	row, err := s.queries.GetChatSession(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Session{}, chat.ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("get chat session: %w", err)
	}
	return toSession(row), nil
}

func (s *Store) ListSessions(ctx context.Context, userID string) ([]chat.Session, error) {
	rows, err := s.queries.ListChatSessionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	out := make([]chat.Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSession(row))
	}
	return out, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	n, err := s.queries.DeleteChatSession(ctx, id)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	if n == 0 {
		return chat.ErrSessionNotFound
	}
	return nil
}

// AppendMessage inserts the message and bumps the session in one transaction.
func (s *Store) AppendMessage(ctx context.Context, m chat.Message) error {
	var metadata []byte
	if m.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(m.Metadata); err != nil {
			return fmt.Errorf("encode message metadata: %w", err)
		}
	}

	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		q := s.WithTx(tx).queries
		n, err := q.TouchChatSession(ctx, sqlc.TouchChatSessionParams{
			ID:        m.SessionID,
			UpdatedAt: timestamptz(m.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("touch chat session: %w", err)
		}
		if n == 0 {
			return chat.ErrSessionNotFound
		}
		err = q.CreateChatMessage(ctx, sqlc.CreateChatMessageParams{
			ID:        m.ID,
			SessionID: m.SessionID,
			Content:   m.Content,
			IsBot:     m.IsBot,
			Metadata:  metadata,
			CreatedAt: timestamptz(m.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("create chat message: %w", err)
		}
		return nil
	})
}

func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := s.queries.ListChatMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	out := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		msg := chat.Message{
			ID:        row.ID,
			SessionID: row.SessionID,
			Content:   row.Content,
			IsBot:     row.IsBot,
			CreatedAt: row.CreatedAt.Time,
		}
		if len(row.Metadata) > 0 {
			var meta chat.MessageMetadata
			if err := json.Unmarshal(row.Metadata, &meta); err != nil {
				s.logger.Warn("Ignoring undecodable message metadata",
					logger.StringField("message_id", row.ID), logger.ErrorField(err))
			} else {
				msg.Metadata = &meta
			}
		}
		out = append(out, msg)
	}
	return out, nil
}

// EscapeLike escapes LIKE wildcards so user text only matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likeText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: EscapeLike(*s), Valid: true}
}

func float8(f *float64) pgtype.Float8 {
	if f == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *f, Valid: true}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toProduct(row sqlc.Product) catalog.Product {
	return catalog.Product{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		Price:         row.Price,
		Category:      row.Category,
		ImageURL:      row.ImageUrl,
		Brand:         row.Brand,
		Rating:        row.Rating,
		StockQuantity: int(row.StockQuantity),
		IsActive:      row.IsActive,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}

func toSession(row sqlc.ChatSession) chat.Session {
	return chat.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.SessionName,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// clampInt32 caps a non-negative page size at the int32 maximum.
func clampInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n) //nolint:gosec // capped above
}
