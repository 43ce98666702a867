package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/pkg/httpmiddleware"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

type userIDKey struct{}

// requireUser rejects requests without the gateway's user header.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(s.cfg.Security.UserIDHeader))
		if userID == "" {
			httpmiddleware.WriteError(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// ChatQueryRequest is the body of POST /api/chat/query.
type ChatQueryRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

func (s *Server) chatQuery(w http.ResponseWriter, r *http.Request) {
	var req ChatQueryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.Chat.Query(r.Context(), userIDFrom(r.Context()), req.SessionID, req.Message)
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.deps.Chat.Sessions(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.deps.Chat.Session(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Chat.DeleteSession(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeChatError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat session deleted successfully"})
}

func (s *Server) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		httpmiddleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chat.ErrSessionNotFound):
		httpmiddleware.WriteError(w, http.StatusNotFound, err.Error())
	default:
		logger.GetLoggerFromContext(r.Context(), s.log).Error("Chat request failed",
			logger.HTTPPathField(r.URL.Path), logger.ErrorField(err))
		httpmiddleware.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into v, answering 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpmiddleware.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httpmiddleware.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
