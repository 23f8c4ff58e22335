package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tasknest/tasknest/internal/agent"
	"github.com/tasknest/tasknest/internal/store"
)

type chatRequest struct {
	ConversationID int64  `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID int64                `json:"conversation_id"`
	Response       string               `json:"response"`
	ToolCalls      []agent.ExecutedCall `json:"tool_calls"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	res, err := s.chat.ProcessTurn(r.Context(), userID, req.ConversationID, req.Message)
	if errors.Is(err, store.ErrConversationNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		slog.Error("chat turn failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "chat turn failed")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: res.ConversationID,
		Response:       res.Response,
		ToolCalls:      res.ToolCalls,
	})
}

type conversationView struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	convs, err := s.st.ListConversations(r.Context(), userID)
	if err != nil {
		slog.Error("list conversations failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not list conversations")
		return
	}
	out := make([]conversationView, 0, len(convs))
	for _, c := range convs {
		out = append(out, conversationView{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": out})
}

type messageView struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	conversationID, err := strconv.ParseInt(r.PathValue("conversationID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	msgs, err := s.st.History(r.Context(), userID, conversationID, limit, offset)
	if err != nil {
		slog.Error("history failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not load messages")
		return
	}
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView{ID: m.ID, Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversation_id": conversationID, "messages": out})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
