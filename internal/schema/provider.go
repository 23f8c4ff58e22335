package schema

import "context"

// ChatOptions configures a single LLM chat request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{Model: model, MaxTokens: maxTokens, Temperature: temperature}
}

// LLMResponse is the normalised response from any LLM backend.
// Content may be empty when the response contains only tool calls.
type LLMResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// HasToolCalls reports whether the response requests at least one tool call.
func (r LLMResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// LLMProvider is the interface every model backend must satisfy.
// tools carries the tool catalog in OpenAI function-calling format.
type LLMProvider interface {
	Chat(ctx context.Context, messages Messages, tools []map[string]any, opts ChatOptions) (LLMResponse, error)
	DefaultModel() string
}
