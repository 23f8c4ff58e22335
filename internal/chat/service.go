// Package chat implements the session coordinator: the top-level entry point
// that turns an incoming user message into a persisted conversation turn,
// routed through either the model-backed orchestrator or the fallback parser.
package chat

import (
	"context"
	"log/slog"

	"github.com/tasknest/tasknest/internal/agent"
	"github.com/tasknest/tasknest/internal/schema"
	"github.com/tasknest/tasknest/internal/shared/stringutils"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/tools"
)

// historyWindow caps the number of prior turns supplied to the backend.
const historyWindow = 50

const defaultReply = "I processed your request. Is there anything else I can help you with?"

const backendErrorReply = "Sorry, I ran into a problem reaching the assistant. Please try again."

// TurnResult is the caller-facing outcome of one chat turn.
type TurnResult struct {
	ConversationID int64
	Response       string
	ToolCalls      []agent.ExecutedCall
}

// Service coordinates chat turns. runner is nil when no model backend is
// configured, in which case every turn takes the fallback path.
type Service struct {
	store    *store.Store
	executor *tools.Executor
	runner   *agent.Runner
}

// NewService creates a coordinator. Pass a nil runner to force fallback mode.
func NewService(st *store.Store, executor *tools.Executor, runner *agent.Runner) *Service {
	return &Service{store: st, executor: executor, runner: runner}
}

// ModelBacked reports whether a model backend is configured.
func (s *Service) ModelBacked() bool { return s.runner != nil }

// ProcessTurn handles one (userID, conversationID, message) request.
// conversationID zero creates a fresh conversation; a non-zero id must belong
// to userID or store.ErrConversationNotFound is returned.
//
// A model-backend failure does not fail the turn: it is degraded into a
// persisted, user-visible error reply. Tool mutations commit synchronously as
// they run, so a turn that fails midway keeps whatever was persisted up to
// the failure point.
func (s *Service) ProcessTurn(ctx context.Context, userID string, conversationID int64, message string) (res TurnResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("chat turn panicked", "user", userID, "panic", r)
			res = TurnResult{ConversationID: conversationID, Response: backendErrorReply}
			err = nil
		}
	}()

	conv, err := s.store.GetOrCreateConversation(ctx, userID, conversationID)
	if err != nil {
		return TurnResult{}, err
	}

	// Prior turns, fetched before the incoming message is persisted so it is
	// not duplicated in the context. The window keeps the newest turns so a
	// long conversation never loses its latest exchange.
	history, err := s.store.RecentHistory(ctx, userID, conv.ID, historyWindow)
	if err != nil {
		return TurnResult{}, err
	}

	if _, err := s.store.AppendMessage(ctx, userID, conv.ID, "user", message); err != nil {
		return TurnResult{}, err
	}

	var (
		response  string
		toolCalls []agent.ExecutedCall
	)

	if s.runner != nil {
		outcome, runErr := s.runner.Run(ctx, userID, toHistory(history), message)
		if runErr != nil {
			slog.Error("model backend failed", "user", userID, "err", runErr)
			response = backendErrorReply
		} else {
			response = outcome.Response
			toolCalls = outcome.ToolCalls
			if outcome.FinishReason == agent.FinishMaxIterations {
				slog.Warn("iteration budget exhausted", "user", userID, "conversation", conv.ID)
			}
		}
	} else {
		intent, reply := agent.ParseIntent(message)
		response = reply
		if intent != nil {
			result := s.executor.Invoke(ctx, intent.Tool, intent.Args, userID)
			toolCalls = append(toolCalls, agent.ExecutedCall{
				ToolName:  intent.Tool,
				Arguments: intent.Args,
				Result:    result,
			})
			// The handler's own confirmation replaces the parser's
			// placeholder reply; list results get the formatted list.
			if intent.Tool == "list_tasks" && result.Status == "success" {
				response = formatTaskList(result)
			} else if result.Message != "" {
				response = result.Message
			}
		}
	}

	if len(toolCalls) > 0 && response == "" {
		response = synthesizeReply(toolCalls)
	}
	response = stringutils.OrDefault(response, defaultReply)

	assistantMsg, err := s.store.AppendMessage(ctx, userID, conv.ID, "assistant", response)
	if err != nil {
		return TurnResult{}, err
	}
	for _, tc := range toolCalls {
		args := schema.ToolCall{Name: tc.ToolName, Arguments: tc.Arguments}.ArgumentsJSON()
		if _, err := s.store.AppendToolCall(ctx, assistantMsg.ID, tc.ToolName, args, tc.Result.JSON()); err != nil {
			return TurnResult{}, err
		}
	}

	slog.Info("chat turn completed", "user", userID, "conversation", conv.ID, "tool_calls", len(toolCalls))

	return TurnResult{ConversationID: conv.ID, Response: response, ToolCalls: toolCalls}, nil
}

// synthesizeReply builds a reply when tools ran but the chosen path produced
// no text: list results get the formatted task list, anything else uses the
// handler's own message.
func synthesizeReply(toolCalls []agent.ExecutedCall) string {
	for _, tc := range toolCalls {
		if tc.ToolName == "list_tasks" && tc.Result.Status == "success" {
			return formatTaskList(tc.Result)
		}
		if tc.Result.Message != "" {
			return tc.Result.Message
		}
		return "Action completed."
	}
	return ""
}

// toHistory converts persisted turns into the schema the backend consumes.
func toHistory(msgs []store.StoredMessage) schema.Messages {
	out := schema.NewMessages()
	for _, m := range msgs {
		out.Messages = append(out.Messages, schema.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
