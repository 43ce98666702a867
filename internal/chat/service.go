package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/dialogue"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/lewisedginton/storefront_chatbot/pkg/prefixed_uuid"
)

// ErrEmptyMessage is returned by Query for blank messages.
var ErrEmptyMessage = errors.New("message must not be empty")

// Responder produces the assistant's reply to a message.
type Responder interface {
	Handle(ctx context.Context, message string) dialogue.Response
}

// QueryResult is the reply to one user message.
type QueryResult struct {
	Message     string                   `json:"message"`
	Products    []catalog.ProductSummary `json:"products"`
	SessionID   string                   `json:"session_id"`
	Suggestions []string                 `json:"suggestions"`
	Intent      string                   `json:"intent"`
}

// Service ties the assistant to persisted sessions.
type Service struct {
	store     Store
	responder Responder
	logger    logger.Logger
	now       func() time.Time
}

// NewService creates a chat service.
func NewService(store Store, responder Responder, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{store: store, responder: responder, logger: log, now: time.Now}
}

// Query answers message in sessionID, or in a new session when sessionID is
// empty. The user message and the reply are both stored.
func (s *Service) Query(ctx context.Context, userID, sessionID, message string) (QueryResult, error) {
	if strings.TrimSpace(message) == "" {
		return QueryResult{}, ErrEmptyMessage
	}

	var session Session
	var err error
	if sessionID == "" {
		session, err = s.StartSession(ctx, userID)
	} else {
		session, err = s.ownedSession(ctx, userID, sessionID)
	}
	if err != nil {
		return QueryResult{}, err
	}

	log := logger.GetLoggerFromContext(ctx, s.logger).WithFields(logger.SessionIDField(session.ID))

	if err := s.store.AppendMessage(ctx, s.newMessage(session.ID, message, false, nil)); err != nil {
		return QueryResult{}, fmt.Errorf("failed to store user message: %w", err)
	}

	resp := s.responder.Handle(ctx, message)

	meta := &MessageMetadata{
		Intent:      string(resp.Intent),
		Products:    resp.Products,
		Suggestions: resp.Suggestions,
	}
	if err := s.store.AppendMessage(ctx, s.newMessage(session.ID, resp.Message, true, meta)); err != nil {
		return QueryResult{}, fmt.Errorf("failed to store bot message: %w", err)
	}

	log.Info("Answered chat message",
		logger.IntentField(string(resp.Intent)),
		logger.IntField("products", len(resp.Products)))

	return QueryResult{
		Message:     resp.Message,
		Products:    resp.Products,
		SessionID:   session.ID,
		Suggestions: resp.Suggestions,
		Intent:      string(resp.Intent),
	}, nil
}

// StartSession always creates a new session for userID.
func (s *Service) StartSession(ctx context.Context, userID string) (Session, error) {
	now := s.now().UTC()
	session := Session{
		ID:        prefixed_uuid.New(sessionIDPrefix).String(),
		UserID:    userID,
		Name:      DefaultSessionName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return Session{}, fmt.Errorf("failed to create chat session: %w", err)
	}

	s.logger.Info("Created chat session",
		logger.SessionIDField(session.ID),
		logger.StringField("user_id", userID))
	return session, nil
}

// LatestSession returns the user's most recently updated session, creating
// one if the user has none.
func (s *Service) LatestSession(ctx context.Context, userID string) (Session, error) {
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	if len(sessions) > 0 {
		return sessions[0], nil
	}
	return s.StartSession(ctx, userID)
}

// Sessions lists the user's sessions, most recently updated first.
func (s *Service) Sessions(ctx context.Context, userID string) ([]Session, error) {
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, nil
}

// Session returns one of the user's sessions with its messages.
func (s *Service) Session(ctx context.Context, userID, sessionID string) (SessionWithMessages, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return SessionWithMessages{}, err
	}
	messages, err := s.store.ListMessages(ctx, session.ID)
	if err != nil {
		return SessionWithMessages{}, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return SessionWithMessages{Session: session, Messages: messages}, nil
}

// DeleteSession removes one of the user's sessions and its messages.
func (s *Service) DeleteSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	s.logger.Info("Deleted chat session", logger.SessionIDField(session.ID))
	return nil
}

// ownedSession loads sessionID and hides sessions belonging to other users.
func (s *Service) ownedSession(ctx context.Context, userID, sessionID string) (Session, error) {
	if _, err := prefixed_uuid.Parse(sessionIDPrefix, sessionID); err != nil {
		return Session{}, ErrSessionNotFound
	}
	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load chat session: %w", err)
	}
	if session.UserID != userID {
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) newMessage(sessionID, content string, isBot bool, meta *MessageMetadata) Message {
	return Message{
		ID:        prefixed_uuid.New(messageIDPrefix).String(),
		SessionID: sessionID,
		Content:   content,
		IsBot:     isBot,
		Metadata:  meta,
		CreatedAt: s.now().UTC(),
	}
}
