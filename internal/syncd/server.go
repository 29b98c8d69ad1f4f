// Package syncd serves a history store to remote trainers over websocket.
package syncd

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/verte-zerg/typesync/internal/history"
)

const (
	OpGet = "get"
	OpSet = "set"
)

// Request is a client frame.
type Request struct {
	ID      uint64            `json:"id"`
	Op      string            `json:"op"`
	Keys    []string          `json:"keys,omitempty"`
	Entries map[string][]byte `json:"entries,omitempty"`
}

// Response answers the Request with the same ID. A non-empty Error is the
// store's error for that operation.
type Response struct {
	ID     uint64            `json:"id"`
	Values map[string][]byte `json:"values,omitempty"`
	Error  string            `json:"error,omitempty"`
}

const opTimeout = 10 * time.Second

// Server exposes a history.Store on a websocket endpoint. Sets overwrite
// whole values, so the last write to a key wins.
type Server struct {
	store    history.Store
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer wraps store. A nil logger uses the standard logger.
func NewServer(store history.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the connection and answers requests until it closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade error: %v", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("websocket read error from %s: %v", r.RemoteAddr, err)
			}
			return
		}
		resp := s.handle(r.Context(), req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Printf("websocket write error to %s: %v", r.RemoteAddr, err)
			return
		}
	}
}

func (s *Server) handle(parent context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(parent, opTimeout)
	defer cancel()

	resp := Response{ID: req.ID}
	switch req.Op {
	case OpGet:
		values, err := s.store.Get(ctx, req.Keys)
		if err != nil {
			s.logger.Printf("get %v failed: %v", req.Keys, err)
			resp.Error = err.Error()
			return resp
		}
		resp.Values = values
	case OpSet:
		if err := s.store.Set(ctx, req.Entries); err != nil {
			s.logger.Printf("set failed: %v", err)
			resp.Error = err.Error()
		}
	default:
		resp.Error = "unknown op " + req.Op
	}
	return resp
}
