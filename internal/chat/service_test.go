package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tasknest/tasknest/internal/agent"
	"github.com/tasknest/tasknest/internal/schema"
	"github.com/tasknest/tasknest/internal/store"
	"github.com/tasknest/tasknest/internal/tools"
)

// scriptedProvider replays fixed responses, or fails every call.
type scriptedProvider struct {
	responses []schema.LLMResponse
	err       error
	calls     int
}

func (p *scriptedProvider) Chat(context.Context, schema.Messages, []map[string]any, schema.ChatOptions) (schema.LLMResponse, error) {
	if p.err != nil {
		return schema.LLMResponse{}, p.err
	}
	i := p.calls
	p.calls++
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) DefaultModel() string { return "scripted" }

// newTestService builds a Service over a temp database. provider nil selects
// the fallback parser path.
func newTestService(t *testing.T, provider schema.LLMProvider) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	reg := tools.NewRegistry()
	if err := tools.RegisterTaskTools(reg, st); err != nil {
		t.Fatal(err)
	}
	exec := tools.NewExecutor(reg)

	var runner *agent.Runner
	if provider != nil {
		runner = agent.NewRunner(provider, reg, exec, agent.Settings{Model: "scripted"})
	}
	return NewService(st, exec, runner), st
}

func TestProcessTurn_FallbackAddTask(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "u1", 0, "add task buy groceries")
	if err != nil {
		t.Fatal(err)
	}
	if res.ConversationID == 0 {
		t.Error("expected a conversation to be created")
	}
	if !strings.Contains(res.Response, "'Buy Groceries' created successfully") {
		t.Errorf("response = %q", res.Response)
	}
	if len(res.ToolCalls) != 1 || res.ToolCalls[0].ToolName != "add_task" {
		t.Fatalf("tool calls = %+v", res.ToolCalls)
	}

	tasks, err := st.ListTasks(ctx, "u1", store.FilterAll)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy Groceries" {
		t.Errorf("tasks = %+v", tasks)
	}

	// Both turn messages and the tool call were persisted.
	msgs, err := st.History(ctx, "u1", res.ConversationID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("history = %+v", msgs)
	}
	calls, err := st.ToolCallsForMessage(ctx, msgs[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].ToolName != "add_task" {
		t.Errorf("tool calls = %+v", calls)
	}
}

func TestProcessTurn_FallbackListFormatting(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "u1", 0, "show my tasks")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Response, "You don't have any tasks yet") {
		t.Errorf("empty-list response = %q", res.Response)
	}

	st.CreateTask(ctx, "u1", "Water plants", "")
	done, _ := st.CreateTask(ctx, "u1", "Pay rent", "")
	st.CompleteTask(ctx, "u1", done.ID)

	res, err = svc.ProcessTurn(ctx, "u1", res.ConversationID, "show my tasks")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Here are your all tasks:",
		"Water plants - Pending",
		"Pay rent - Done",
		"Total: 2 task(s)",
	} {
		if !strings.Contains(res.Response, want) {
			t.Errorf("response missing %q:\n%s", want, res.Response)
		}
	}
}

func TestProcessTurn_FallbackGreeting(t *testing.T) {
	svc, _ := newTestService(t, nil)

	res, err := svc.ProcessTurn(context.Background(), "u1", 0, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ToolCalls) != 0 {
		t.Errorf("greeting must not invoke tools, got %+v", res.ToolCalls)
	}
	if !strings.Contains(res.Response, "task management assistant") {
		t.Errorf("response = %q", res.Response)
	}
}

func TestProcessTurn_ModelPath(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		{ToolCalls: []schema.ToolCall{{
			ID:        "call_1",
			Name:      "add_task",
			Arguments: map[string]any{"title": "Call dentist"},
		}}},
		{Content: "I've added 'Call dentist' to your list."},
	}}
	svc, st := newTestService(t, provider)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "u1", 0, "remind me to call the dentist")
	if err != nil {
		t.Fatal(err)
	}
	if res.Response != "I've added 'Call dentist' to your list." {
		t.Errorf("response = %q", res.Response)
	}

	tasks, _ := st.ListTasks(ctx, "u1", store.FilterAll)
	if len(tasks) != 1 || tasks[0].Title != "Call dentist" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestProcessTurn_ModelEmptyTextSynthesizesReply(t *testing.T) {
	provider := &scriptedProvider{responses: []schema.LLMResponse{
		{ToolCalls: []schema.ToolCall{{
			ID:        "call_1",
			Name:      "add_task",
			Arguments: map[string]any{"title": "Quiet task"},
		}}},
		{Content: ""},
	}}
	svc, _ := newTestService(t, provider)

	res, err := svc.ProcessTurn(context.Background(), "u1", 0, "add quiet task")
	if err != nil {
		t.Fatal(err)
	}
	if res.Response == "" {
		t.Fatal("expected synthesized reply")
	}
	if !strings.Contains(res.Response, "'Quiet task' created successfully") {
		t.Errorf("response = %q", res.Response)
	}
}

func TestProcessTurn_BackendFailureDegrades(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	svc, st := newTestService(t, provider)
	ctx := context.Background()

	res, err := svc.ProcessTurn(ctx, "u1", 0, "hello")
	if err != nil {
		t.Fatalf("backend failure must degrade, not error: %v", err)
	}
	if res.Response != backendErrorReply {
		t.Errorf("response = %q", res.Response)
	}

	// The failed turn is still persisted so the user sees it in history.
	msgs, err := st.History(ctx, "u1", res.ConversationID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[1].Content != backendErrorReply {
		t.Fatalf("history = %+v", msgs)
	}
}

func TestProcessTurn_UnknownConversation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.ProcessTurn(context.Background(), "u1", 999, "hello"); !errors.Is(err, store.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestProcessTurn_ContinuesConversation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.ProcessTurn(ctx, "u1", 0, "add task one thing")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ProcessTurn(ctx, "u1", first.ConversationID, "show my tasks")
	if err != nil {
		t.Fatal(err)
	}
	if second.ConversationID != first.ConversationID {
		t.Errorf("conversation changed: %d != %d", second.ConversationID, first.ConversationID)
	}
}
