// Package tools defines the tool catalog and the execution boundary through
// which both the model-backed orchestrator and the fallback parser invoke
// task operations.
package tools

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrUnknownTool   = errors.New("unknown tool")
)

// ParamType is the closed set of parameter types a tool may declare.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Param declares one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

// Handler executes a tool with validated arguments. Handlers are the only
// code path allowed to touch the task store, and must return a Result rather
// than an error: a tool failure is data, not control flow.
type Handler func(ctx context.Context, args map[string]any) Result

// Spec is the declarative description of one tool: its name, its parameter
// contract, and the handler that owns it.
type Spec struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Registry holds the tool catalog in registration order. It is populated at
// startup and read-only afterwards, so unsynchronised concurrent reads are safe.
type Registry struct {
	specs map[string]*Spec
	order []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register adds a tool spec. It fails on a duplicate name, a nil handler, or
// a parameter with a type outside the declared set. Bad declarations are
// rejected here rather than deep inside a handler at invocation time.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if _, ok := r.specs[spec.Name]; ok {
		return fmt.Errorf("register tool %q: %w", spec.Name, ErrDuplicateTool)
	}
	if spec.Handler == nil {
		return fmt.Errorf("register tool %q: nil handler", spec.Name)
	}
	for _, p := range spec.Params {
		switch p.Type {
		case TypeString, TypeInteger, TypeBoolean:
		default:
			return fmt.Errorf("register tool %q: parameter %q has unknown type %q", spec.Name, p.Name, p.Type)
		}
	}
	s := spec
	r.specs[spec.Name] = &s
	r.order = append(r.order, spec.Name)
	return nil
}

// Get returns the spec for name, or ErrUnknownTool.
func (r *Registry) Get(name string) (*Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return s, nil
}

// List returns all specs in registration order.
func (r *Registry) List() []*Spec {
	out := make([]*Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Definitions returns the catalog in OpenAI function-calling format, in
// registration order. This is the exact structure handed to the model
// backend, and it stays stable across a conversation.
func (r *Registry) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.order))
	for _, spec := range r.List() {
		properties := map[string]any{}
		var required []string
		for _, p := range spec.Params {
			properties[p.Name] = map[string]any{
				"type":        string(p.Type),
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		params := map[string]any{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			params["required"] = required
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        spec.Name,
				"description": spec.Description,
				"parameters":  params,
			},
		})
	}
	return list
}
