package gateway

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type wsChatMessage struct {
	ConversationID int64  `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// handleChatWS runs a chat turn per incoming JSON frame and replies with the
// same payload shape as the POST endpoint. One connection, one user.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "user", userID, "err", err)
		return
	}
	defer conn.Close()
	slog.Info("websocket session opened", "user", userID)

	for {
		var req wsChatMessage
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read failed", "user", userID, "err", err)
			}
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			if err := conn.WriteJSON(map[string]any{"error": "message is required"}); err != nil {
				return
			}
			continue
		}

		res, err := s.chat.ProcessTurn(r.Context(), userID, req.ConversationID, req.Message)
		if err != nil {
			if werr := conn.WriteJSON(map[string]any{"error": "chat turn failed"}); werr != nil {
				return
			}
			continue
		}
		reply := chatResponse{
			ConversationID: res.ConversationID,
			Response:       res.Response,
			ToolCalls:      res.ToolCalls,
		}
		if err := conn.WriteJSON(reply); err != nil {
			slog.Warn("websocket write failed", "user", userID, "err", err)
			return
		}
	}
}
