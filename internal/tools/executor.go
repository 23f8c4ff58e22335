package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Result is the uniform envelope every tool invocation returns, regardless of
// whether the model path or the fallback path requested it.
//
// Status is the discriminator: a domain status on success ("created",
// "success", "completed", "deleted", "updated") or "failed". Message is the
// human-readable confirmation used when the backend returns no text of its
// own. Fields carries the operation-specific payload.
type Result struct {
	Status  string
	Message string
	Error   string
	Fields  map[string]any
}

// Failed reports whether the invocation failed.
func (r Result) Failed() bool { return r.Status == StatusFailed }

// StatusFailed is the failure discriminator shared by all tools.
const StatusFailed = "failed"

// Failf builds a failure Result from a format string.
func Failf(format string, args ...any) Result {
	return Result{Status: StatusFailed, Error: fmt.Sprintf(format, args...)}
}

// MarshalJSON flattens Fields alongside the envelope keys, so every
// serialisation of a Result carries the operation-specific payload:
// the persisted tool-call record, the message fed back to the model
// and the tool_calls entries returned to API callers all share it.
func (r Result) MarshalJSON() ([]byte, error) {
	m := map[string]any{"status": r.Status}
	if r.Message != "" {
		m["message"] = r.Message
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	for k, v := range r.Fields {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSON serialises the Result as a string.
func (r Result) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return `{"status":"failed","error":"unserialisable result"}`
	}
	return string(data)
}

// Executor validates and dispatches tool invocations against the catalog.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an Executor over the given catalog.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Invoke runs toolName with args on behalf of userID and returns a Result.
//
// Validation failures (unknown tool, missing or blank required parameter,
// wrong-typed value) are captured into a failure Result rather than escaping
// as errors, so a single bad invocation cannot abort an orchestration turn.
// The caller's user id is injected after validation, overwriting anything the
// backend may have supplied, so a tool can never act for another user.
func (e *Executor) Invoke(ctx context.Context, toolName string, args map[string]any, userID string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool panicked", "tool", toolName, "panic", r)
			res = Failf("%v", r)
		}
	}()

	spec, err := e.registry.Get(toolName)
	if err != nil {
		return Failf("Unknown tool: %s", toolName)
	}

	validated := make(map[string]any, len(spec.Params)+1)
	for _, p := range spec.Params {
		raw, ok := args[p.Name]
		if !ok || raw == nil {
			if p.Required {
				return Failf("%s is required", p.Name)
			}
			continue
		}
		val, err := coerce(p.Type, raw)
		if err != nil {
			return Failf("invalid value for %s: %v", p.Name, err)
		}
		if s, ok := val.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				if p.Required {
					return Failf("%s is required", p.Name)
				}
				continue
			}
			val = s
		}
		validated[p.Name] = val
	}
	validated["user_id"] = userID

	return spec.Handler(ctx, validated)
}

// coerce converts a raw argument (typically decoded from JSON) to the
// declared parameter type.
func coerce(t ParamType, raw any) (any, error) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return s, nil
	case TypeInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v != float64(int64(v)) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int64(v), nil
		case json.Number:
			return v.Int64()
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", raw)
		}
	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown parameter type %q", t)
	}
}
