// Package providers implements schema.LLMProvider over concrete model APIs.
package providers

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tasknest/tasknest/internal/schema"
)

// OpenAIProvider talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIProvider struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAIProvider constructs a provider. apiBase may be empty to use the
// default OpenAI endpoint.
func NewOpenAIProvider(apiKey, apiBase, defaultModel string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		cfg.BaseURL = apiBase
	}
	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider.
func (p *OpenAIProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toWireMessages(messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	}
	if len(tools) > 0 {
		wireTools, err := toWireTools(tools)
		if err != nil {
			return schema.LLMResponse{}, err
		}
		req.Tools = wireTools
		req.ToolChoice = "auto"
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("chat completion: empty choices")
	}

	choice := resp.Choices[0]
	out := schema.LLMResponse{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
	}
	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			args = map[string]any{}
		}
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	return out, nil
}

func toWireMessages(messages schema.Messages) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages.Messages))
	for _, m := range messages.Messages {
		wire := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		if m.Role == "tool" {
			wire.Name = m.ToolName
		}
		for _, tc := range m.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.ArgumentsJSON(),
				},
			})
		}
		out = append(out, wire)
	}
	return out
}

// toWireTools converts the registry's function-calling maps into typed
// go-openai tool definitions.
func toWireTools(tools []map[string]any) ([]openai.Tool, error) {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		fn, ok := t["function"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed tool definition: %v", t)
		}
		name, _ := fn["name"].(string)
		description, _ := fn["description"].(string)
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: description,
				Parameters:  fn["parameters"],
			},
		})
	}
	return out, nil
}
