package tools

import (
	"context"
	"errors"
	"testing"
)

func noopHandler(context.Context, map[string]any) Result {
	return Result{Status: "success"}
}

func TestRegister_Duplicate(t *testing.T) {
	reg := NewRegistry()
	spec := Spec{Name: "echo", Description: "echo", Handler: noopHandler}
	if err := reg.Register(spec); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(spec); !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("expected ErrDuplicateTool, got %v", err)
	}
}

func TestRegister_NilHandler(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Spec{Name: "broken", Description: "x"}); err == nil {
		t.Error("expected error for nil handler")
	}
}

func TestRegister_UnknownParamType(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(Spec{
		Name:        "bad",
		Description: "x",
		Params:      []Param{{Name: "p", Type: "float"}},
		Handler:     noopHandler,
	})
	if err == nil {
		t.Error("expected error for unknown param type")
	}
}

func TestList_PreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := reg.Register(Spec{Name: name, Description: name, Handler: noopHandler}); err != nil {
			t.Fatal(err)
		}
	}
	specs := reg.List()
	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(specs))
	}
	for i, want := range []string{"zeta", "alpha", "mid"} {
		if specs[i].Name != want {
			t.Errorf("specs[%d] = %q, want %q", i, specs[i].Name, want)
		}
	}
}

func TestDefinitions_OmitUserID(t *testing.T) {
	reg := NewRegistry()
	st := openTestStore(t)
	if err := RegisterTaskTools(reg, st); err != nil {
		t.Fatal(err)
	}

	defs := reg.Definitions()
	if len(defs) != 5 {
		t.Fatalf("expected 5 tool definitions, got %d", len(defs))
	}
	for _, def := range defs {
		fn, ok := def["function"].(map[string]any)
		if !ok {
			t.Fatalf("definition missing function block: %v", def)
		}
		params, ok := fn["parameters"].(map[string]any)
		if !ok {
			t.Fatalf("definition missing parameters: %v", fn)
		}
		props, _ := params["properties"].(map[string]any)
		if _, found := props["user_id"]; found {
			t.Errorf("tool %v declares user_id; it must stay internal", fn["name"])
		}
	}
}
