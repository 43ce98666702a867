// Package sqlite implements the catalog and chat stores on an embedded
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// timeLayout sorts lexicographically in the same order as the instants.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const productColumns = `id, title, description, price, category, image_url, brand, rating, stock_quantity, is_active, created_at, updated_at`

// driverName is the sqlite3 driver with casefold registered on every
// connection. SQLite's own LIKE and lower() fold ASCII only.
const driverName = "sqlite3_storefront"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
}

// Store implements catalog.Reader, catalog.Writer and chat.Store.
type Store struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

// Open opens the database file at path with foreign keys enforced.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// New creates a store over an open database.
func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log, now: time.Now}
}

// DB exposes the handle for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.NewProduct) (catalog.Product, error) {
	now := formatTime(s.now())
	row := s.db.QueryRowContext(ctx, `
INSERT INTO products (title, description, price, category, image_url, brand, rating, stock_quantity, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+productColumns,
		p.Title, p.Description, p.Price, p.Category, p.ImageURL, p.Brand, p.Rating, p.StockQuantity, !p.Inactive, now, now)

	product, err := scanProduct(row)
	if err != nil {
		s.logger.Error("failed to create product", logger.ErrorField(err), logger.StringField("title", p.Title))
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *Store) Get(ctx context.Context, id int64) (catalog.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ? AND is_active = 1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *Store) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.ProductSummary, error) {
	query, args := buildSearch(filter.Normalize())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []catalog.ProductSummary{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p.Summary())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return out, nil
}

// buildSearch renders a normalized filter as a parameterised query.
func buildSearch(f catalog.SearchFilter) (string, []any) {
	var (
		where = []string{"is_active = 1"}
		args  []any
	)
	if f.Query != nil {
		needle := strings.ToLower(*f.Query)
		where = append(where, `(`+containsFold("title")+` OR `+containsFold("description")+` OR `+
			containsFold("category")+` OR `+containsFold("brand")+`)`)
		args = append(args, needle, needle, needle, needle)
	}
	if f.Category != nil {
		where = append(where, containsFold("category"))
		args = append(args, strings.ToLower(*f.Category))
	}
	if f.Brand != nil {
		where = append(where, containsFold("brand"))
		args = append(args, strings.ToLower(*f.Brand))
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	args = append(args, f.Limit, f.Offset)

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY rating DESC, created_at DESC, id DESC LIMIT ? OFFSET ?`
	return query, args
}

func (s *Store) Popular(ctx context.Context, limit int) ([]catalog.ProductSummary, error) {
	return s.Search(ctx, catalog.SearchFilter{Limit: limit})
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *Store) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

// distinct lists the non-empty values of column across active products.
// column is never user input.
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+column+` FROM products WHERE is_active = 1 AND `+column+` <> '' ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("list %s values: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) CreateSession(ctx context.Context, session chat.Session) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO chat_sessions (id, user_id, session_name, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.Name, session.IsActive,
		formatTime(session.CreatedAt), formatTime(session.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create chat session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (chat.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, session_name, is_active, created_at, updated_at
FROM chat_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Session{}, chat.ErrSessionNotFound
	}
	if err != nil {
		return chat.Session{}, fmt.Errorf("get chat session: %w", err)
	}
	return session, nil
}

func (s *Store) ListSessions(ctx context.Context, userID string) ([]chat.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, session_name, is_active, created_at, updated_at
FROM chat_sessions WHERE user_id = ?
ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []chat.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	if n == 0 {
		return chat.ErrSessionNotFound
	}
	return nil
}

// AppendMessage inserts the message and bumps the session in one transaction.
func (s *Store) AppendMessage(ctx context.Context, m chat.Message) (err error) {
	var metadata sql.NullString
	if m.Metadata != nil {
		raw, err := json.Marshal(m.Metadata)
		if err != nil {
			return fmt.Errorf("encode message metadata: %w", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	createdAt := formatTime(m.CreatedAt)
	res, err := tx.ExecContext(ctx,
		`UPDATE chat_sessions SET updated_at = MAX(updated_at, ?) WHERE id = ?`, createdAt, m.SessionID)
	if err != nil {
		return fmt.Errorf("touch chat session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch chat session: %w", err)
	}
	if n == 0 {
		return chat.ErrSessionNotFound
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO chat_messages (id, session_id, content, is_bot, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, m.Content, m.IsBot, metadata, createdAt)
	if err != nil {
		return fmt.Errorf("create chat message: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit chat message: %w", err)
	}
	return nil
}

func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, content, is_bot, metadata, created_at
FROM chat_messages WHERE session_id = ?
ORDER BY created_at, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []chat.Message{}
	for rows.Next() {
		var (
			msg       chat.Message
			metadata  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Content, &msg.IsBot, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		if msg.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if metadata.Valid {
			var meta chat.MessageMetadata
			if err := json.Unmarshal([]byte(metadata.String), &meta); err != nil {
				s.logger.Warn("Ignoring undecodable message metadata",
					logger.StringField("message_id", msg.ID), logger.ErrorField(err))
			} else {
				msg.Metadata = &meta
			}
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (catalog.Product, error) {
	var (
		p                    catalog.Product
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.ImageURL,
		&p.Brand, &p.Rating, &p.StockQuantity, &p.IsActive, &createdAt, &updatedAt); err != nil {
		return catalog.Product{}, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return catalog.Product{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func scanSession(row scanner) (chat.Session, error) {
	var (
		session              chat.Session
		createdAt, updatedAt string
		err                  error
	)
	if err = row.Scan(&session.ID, &session.UserID, &session.Name, &session.IsActive, &createdAt, &updatedAt); err != nil {
		return chat.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return chat.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return chat.Session{}, err
	}
	return session, nil
}

// containsFold renders a substring test of column against a lowercased
// parameter. instr has no wildcards, so the needle needs no escaping.
func containsFold(column string) string {
	return "instr(casefold(" + column + "), ?) > 0"
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
