// Package chat keeps the history of storefront conversations and routes
// each new message through the dialogue assistant.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
)

const (
	// DefaultSessionName is given to every new session.
	DefaultSessionName = "New Chat"

	sessionIDPrefix = "chat"
	messageIDPrefix = "msg"
)

// ErrSessionNotFound is returned for unknown sessions and for sessions owned
// by another user.
var ErrSessionNotFound = errors.New("chat session not found")

// Session is one conversation between a user and the assistant.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"session_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageMetadata is what the assistant attached to a bot message.
type MessageMetadata struct {
	Intent      string                   `json:"intent"`
	Products    []catalog.ProductSummary `json:"products"`
	Suggestions []string                 `json:"suggestions"`
}

// Message is a single entry in a session. Only bot messages carry metadata.
type Message struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	Content   string           `json:"content"`
	IsBot     bool             `json:"is_bot"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// SessionWithMessages is a session plus its history in chronological order.
type SessionWithMessages struct {
	Session
	Messages []Message `json:"messages"`
}

// Store persists sessions and messages. GetSession, DeleteSession and
// AppendMessage return ErrSessionNotFound for unknown sessions.
type Store interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	// ListSessions returns the user's sessions, most recently updated first.
	ListSessions(ctx context.Context, userID string) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error
	// AppendMessage stores m and bumps the owning session's UpdatedAt.
	AppendMessage(ctx context.Context, m Message) error
	// ListMessages returns the session's messages, oldest first.
	ListMessages(ctx context.Context, sessionID string) ([]Message, error)
}
