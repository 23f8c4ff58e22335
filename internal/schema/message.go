package schema

import "encoding/json"

// ToolCall represents one function call requested by an assistant message.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ArgumentsJSON serialises the call arguments for persistence and for the
// OpenAI wire format, which carries arguments as a JSON string.
func (tc ToolCall) ArgumentsJSON() string {
	data, _ := json.Marshal(tc.Arguments)
	return string(data)
}

// Message is one entry in the conversation sent to the LLM.
//
// Role is one of: "system", "user", "assistant", "tool".
// ToolCalls is populated for assistant messages that invoke tools.
// ToolCallID and ToolName are set for tool-result messages.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string // "tool" role only
	ToolName   string // "tool" role only
}
