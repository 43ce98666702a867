package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsWriteWait  = 10 * time.Second
	wsMaxMessage = 16 << 10
)

// Websocket frame types.
const (
	frameMessage  = "message"
	framePing     = "ping"
	frameResponse = "response"
	framePong     = "pong"
	frameError    = "error"
)

// ClientFrame is a frame sent by the browser.
type ClientFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ServerFrame is a frame sent to the browser. Response frames embed the
// chat query result.
type ServerFrame struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
	*chat.QueryResult
}

// wsConn serialises writes; gorilla allows one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(frame ServerFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(frame)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(s.cfg.Security.CORSAllowedOrigins, origin)
		},
	}
}

func (s *Server) chatWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	log := logger.GetLoggerFromContext(r.Context(), s.log).WithFields(logger.StringField("user_id", userID))

	upgrader := s.upgrader()
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Websocket upgrade failed", logger.ErrorField(err))
		return
	}
	conn := &wsConn{conn: raw}
	defer func() { _ = raw.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	raw.SetReadLimit(wsMaxMessage)
	_ = raw.SetReadDeadline(time.Now().Add(wsPongWait))
	raw.SetPongHandler(func(string) error {
		return raw.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	go s.pingLoop(ctx, conn, log)

	log.Info("Websocket connected")
	for {
		var frame ClientFrame
		if err := raw.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket read failed", logger.ErrorField(err))
			}
			log.Info("Websocket disconnected")
			return
		}
		_ = raw.SetReadDeadline(time.Now().Add(wsPongWait))

		if err := conn.send(s.handleFrame(ctx, userID, frame)); err != nil {
			log.Warn("Websocket write failed", logger.ErrorField(err))
			return
		}
	}
}

func (s *Server) handleFrame(ctx context.Context, userID string, frame ClientFrame) ServerFrame {
	switch frame.Type {
	case framePing:
		return ServerFrame{Type: framePong}
	case frameMessage:
		ctx, cancel := context.WithTimeout(ctx, s.cfg.HTTP.RequestTimeout)
		defer cancel()

		result, err := s.deps.Chat.Query(ctx, userID, frame.SessionID, frame.Message)
		switch {
		case err == nil:
			return ServerFrame{Type: frameResponse, QueryResult: &result}
		case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrSessionNotFound):
			return ServerFrame{Type: frameError, Error: err.Error()}
		default:
			s.log.Error("Websocket chat query failed", logger.ErrorField(err))
			return ServerFrame{Type: frameError, Error: "internal server error"}
		}
	default:
		return ServerFrame{Type: frameError, Error: "unknown frame type " + frame.Type}
	}
}

func (s *Server) pingLoop(ctx context.Context, conn *wsConn, log logger.Logger) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				log.Debug("Websocket ping failed", logger.ErrorField(err))
				return
			}
		}
	}
}
