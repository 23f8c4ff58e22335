package channels

import (
	"strings"
	"testing"
)

func TestIsAllowed_EmptyAllowsAll(t *testing.T) {
	b := NewBase("test", nil)
	if !b.IsAllowed("anyone") {
		t.Error("empty allowlist must allow all")
	}
}

func TestIsAllowed_List(t *testing.T) {
	b := NewBase("test", []string{"12345", "alice"})

	cases := []struct {
		sender string
		want   bool
	}{
		{"12345", true},
		{"99999", false},
		{"99999|alice", true}, // id|username form, username matches
		{"12345|bob", true},
		{"99999|bob", false},
	}
	for _, tc := range cases {
		if got := b.IsAllowed(tc.sender); got != tc.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tc.sender, got, tc.want)
		}
	}
}

func TestSplitMessage_Short(t *testing.T) {
	chunks := splitMessage("hello", 100)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestSplitMessage_PrefersNewlines(t *testing.T) {
	content := strings.Repeat("line\n", 10)
	chunks := splitMessage(content, 12)
	for i, c := range chunks {
		if len(c) > 12 {
			t.Errorf("chunk %d too long: %q", i, c)
		}
	}
	if strings.Join(chunks, "") == "" {
		t.Fatal("lost content")
	}
}

func TestSplitMessage_HardCut(t *testing.T) {
	content := strings.Repeat("x", 25)
	chunks := splitMessage(content, 10)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if strings.Join(chunks, "") != content {
		t.Error("hard cut lost characters")
	}
}
