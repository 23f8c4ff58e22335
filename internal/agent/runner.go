// Package agent contains the two interpretation paths for a chat turn: the
// model-backed orchestration loop and the deterministic fallback parser.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest/internal/schema"
	"github.com/tasknest/tasknest/internal/shared/stringutils"
	"github.com/tasknest/tasknest/internal/tools"
)

// Finish reasons reported on a TurnOutcome.
const (
	FinishStop          = "stop"
	FinishMaxIterations = "max_iterations"
)

// DefaultMaxIter bounds the tool-calling loop when the config does not.
const DefaultMaxIter = 5

// Settings configures the orchestration loop.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64
	MaxIter     int
}

// ExecutedCall records one tool invocation performed during a turn.
type ExecutedCall struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"parameters"`
	Result    tools.Result   `json:"result"`
}

// TurnOutcome is the result of one orchestrated chat turn.
type TurnOutcome struct {
	Response     string
	ToolCalls    []ExecutedCall
	FinishReason string
}

// Runner drives the bounded conversation loop with the model backend. Each
// iteration sends the conversation plus tool catalog, executes any requested
// tools through the Executor, feeds results back, and repeats until the
// backend emits a final text answer or the iteration budget runs out.
type Runner struct {
	provider schema.LLMProvider
	registry *tools.Registry
	executor *tools.Executor
	settings Settings
}

// NewRunner creates a Runner. settings.MaxIter defaults to DefaultMaxIter.
func NewRunner(provider schema.LLMProvider, registry *tools.Registry, executor *tools.Executor, settings Settings) *Runner {
	if settings.MaxIter <= 0 {
		settings.MaxIter = DefaultMaxIter
	}
	return &Runner{provider: provider, registry: registry, executor: executor, settings: settings}
}

// Run executes one chat turn for userID. history holds the prior persisted
// turns, excluding the message being processed now.
//
// A backend error is returned as-is without retrying: the coordinator owns
// the degradation policy. Tool failures never surface here; the executor
// absorbs them into failure results that are fed back to the backend.
func (r *Runner) Run(ctx context.Context, userID string, history schema.Messages, message string) (TurnOutcome, error) {
	conversation := schema.NewMessages()
	conversation.AddSystem(systemPrompt)
	for _, m := range history.Messages {
		conversation.Messages = append(conversation.Messages, m)
	}
	conversation.AddUser(message)

	defs := r.registry.Definitions()
	opts := schema.NewChatOptions(r.settings.Model, r.settings.MaxTokens, r.settings.Temperature)

	var (
		executed []ExecutedCall
		lastSeen string
	)

	for i := 0; i < r.settings.MaxIter; i++ {
		resp, err := r.provider.Chat(ctx, conversation, defs, opts)
		if err != nil {
			return TurnOutcome{}, fmt.Errorf("model backend: %w", err)
		}

		// An empty invocation list is a final answer, even with empty text;
		// the coordinator substitutes its default reply in that case.
		if !resp.HasToolCalls() {
			reason := resp.FinishReason
			if reason == "" {
				reason = FinishStop
			}
			return TurnOutcome{Response: resp.Content, ToolCalls: executed, FinishReason: reason}, nil
		}

		if resp.Content != "" {
			lastSeen = resp.Content
		}
		conversation.AddAssistant(resp.Content, resp.ToolCalls)

		for _, tc := range resp.ToolCalls {
			slog.Info("tool call", "tool", tc.Name, "args", stringutils.Truncate(tc.ArgumentsJSON(), 200))

			result := r.executor.Invoke(ctx, tc.Name, tc.Arguments, userID)
			executed = append(executed, ExecutedCall{
				ToolName:  tc.Name,
				Arguments: tc.Arguments,
				Result:    result,
			})
			conversation.AddToolResult(tc.ID, tc.Name, result.JSON())
		}
	}

	response := lastSeen
	if response == "" {
		response = "I couldn't complete your request. Please try again."
	}
	return TurnOutcome{Response: response, ToolCalls: executed, FinishReason: FinishMaxIterations}, nil
}
