// Package gateway exposes the HTTP and WebSocket API: auth, chat turns,
// conversation history, and direct task CRUD.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/chat"
	"github.com/tasknest/tasknest/internal/store"
)

// Server serves the public API.
type Server struct {
	addr string
	auth *auth.Service
	st   *store.Store
	chat *chat.Service
}

// NewServer wires the API handlers onto their dependencies.
func NewServer(host string, port int, authSvc *auth.Service, st *store.Store, chatSvc *chat.Service) *Server {
	return &Server{
		addr: net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		auth: authSvc,
		st:   st,
		chat: chatSvc,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/signin", s.handleSignin)

	mux.Handle("POST /users/{userID}/chat", s.requireUser(s.handleChat))
	mux.Handle("GET /users/{userID}/chat/ws", s.requireUser(s.handleChatWS))
	mux.Handle("GET /users/{userID}/conversations", s.requireUser(s.handleListConversations))
	mux.Handle("GET /users/{userID}/conversations/{conversationID}/messages", s.requireUser(s.handleConversationMessages))

	mux.Handle("POST /users/{userID}/tasks", s.requireUser(s.handleCreateTask))
	mux.Handle("GET /users/{userID}/tasks", s.requireUser(s.handleListTasks))
	mux.Handle("PUT /users/{userID}/tasks/{taskID}", s.requireUser(s.handleUpdateTask))
	mux.Handle("DELETE /users/{userID}/tasks/{taskID}", s.requireUser(s.handleDeleteTask))

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http gateway listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("gateway shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway: %w", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
