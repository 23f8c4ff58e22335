package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrConversationNotFound is returned when a conversation id does not exist
// for the given user. Another user's conversation reads identically.
var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is one chat thread owned by a single user.
type Conversation struct {
	ID        int64
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredMessage is one persisted turn within a conversation.
type StoredMessage struct {
	ID             int64
	ConversationID int64
	UserID         string
	Role           string
	Content        string
	CreatedAt      time.Time
}

// StoredToolCall is one persisted tool invocation audit record.
type StoredToolCall struct {
	ID        int64
	MessageID int64
	ToolName  string
	Arguments string // JSON
	Result    string // JSON
	CreatedAt time.Time
}

// GetOrCreateConversation resolves conversationID for userID, bumping its
// updated_at, or creates a fresh conversation when conversationID is zero.
// An id that does not exist or belongs to another user yields
// ErrConversationNotFound.
func (s *Store) GetOrCreateConversation(ctx context.Context, userID string, conversationID int64) (Conversation, error) {
	if conversationID != 0 {
		var c Conversation
		err := s.db.QueryRowContext(ctx, `
			SELECT id, user_id, created_at, updated_at FROM conversations
			WHERE id = ? AND user_id = ?`,
			conversationID, userID,
		).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrConversationNotFound
		}
		if err != nil {
			return Conversation{}, fmt.Errorf("get conversation: %w", err)
		}
		c.UpdatedAt = now()
		if _, err := s.db.ExecContext(ctx,
			"UPDATE conversations SET updated_at = ? WHERE id = ?", c.UpdatedAt, c.ID); err != nil {
			return Conversation{}, fmt.Errorf("touch conversation: %w", err)
		}
		return c, nil
	}

	ts := now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO conversations (user_id, created_at, updated_at) VALUES (?, ?, ?)",
		userID, ts, ts,
	)
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return Conversation{ID: id, UserID: userID, CreatedAt: ts, UpdatedAt: ts}, nil
}

// LatestConversation returns the id of userID's most recently updated
// conversation, or zero when the user has none.
func (s *Store) LatestConversation(ctx context.Context, userID string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM conversations WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC LIMIT 1`, userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("latest conversation: %w", err)
	}
	return id, nil
}

// ListConversations returns userID's conversations, most recently updated first.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, updated_at FROM conversations
		WHERE user_id = ? ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list conversations: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AppendMessage persists one turn. role must be "user" or "assistant".
func (s *Store) AppendMessage(ctx context.Context, userID string, conversationID int64, role, content string) (StoredMessage, error) {
	if role != "user" && role != "assistant" {
		return StoredMessage{}, fmt.Errorf("invalid role %q", role)
	}
	m := StoredMessage{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      now(),
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ConversationID, m.UserID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return StoredMessage{}, fmt.Errorf("append message: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return StoredMessage{}, fmt.Errorf("append message: %w", err)
	}
	return m, nil
}

// History fetches conversation turns ordered by creation time ascending,
// with message id as tiebreak so concurrent turns keep a stable order.
func (s *Store) History(ctx context.Context, userID string, conversationID int64, limit, offset int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages WHERE conversation_id = ? AND user_id = ?
		ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`,
		conversationID, userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	var out []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RecentHistory fetches the newest limit turns of a conversation and returns
// them in chronological order. This is the context window handed to the model
// backend; unlike History it never drops the latest exchange.
func (s *Store) RecentHistory(ctx context.Context, userID string, conversationID int64, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages WHERE conversation_id = ? AND user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`,
		conversationID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	defer rows.Close()

	var out []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("recent history: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// AppendToolCall persists one tool invocation audit record under messageID.
func (s *Store) AppendToolCall(ctx context.Context, messageID int64, toolName, argumentsJSON, resultJSON string) (StoredToolCall, error) {
	tc := StoredToolCall{
		MessageID: messageID,
		ToolName:  toolName,
		Arguments: argumentsJSON,
		Result:    resultJSON,
		CreatedAt: now(),
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tool_calls (message_id, tool_name, arguments, result, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		tc.MessageID, tc.ToolName, tc.Arguments, tc.Result, tc.CreatedAt,
	)
	if err != nil {
		return StoredToolCall{}, fmt.Errorf("append tool call: %w", err)
	}
	tc.ID, err = res.LastInsertId()
	if err != nil {
		return StoredToolCall{}, fmt.Errorf("append tool call: %w", err)
	}
	return tc, nil
}

// ToolCallsForMessage fetches the audit records for one assistant message.
func (s *Store) ToolCallsForMessage(ctx context.Context, messageID int64) ([]StoredToolCall, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, message_id, tool_name, arguments, result, created_at
		FROM tool_calls WHERE message_id = ? ORDER BY created_at ASC, id ASC`, messageID)
	if err != nil {
		return nil, fmt.Errorf("tool calls for message: %w", err)
	}
	defer rows.Close()

	var out []StoredToolCall
	for rows.Next() {
		var tc StoredToolCall
		if err := rows.Scan(&tc.ID, &tc.MessageID, &tc.ToolName, &tc.Arguments, &tc.Result, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("tool calls for message: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
