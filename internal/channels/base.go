// Package channels connects chat platforms to the assistant. Each channel
// maps a platform sender to a namespaced user id ("telegram:<chatid>",
// "slack:<userid>") and runs chat turns synchronously.
package channels

import (
	"context"
	"strings"
	"sync"
)

// Channel is one connected chat platform.
type Channel interface {
	Name() string
	// Start blocks until ctx is cancelled or the channel fails.
	Start(ctx context.Context) error
	// Ready is closed once the channel has a live platform connection.
	Ready() <-chan struct{}
	// Send delivers an unsolicited message (digests) to a platform chat.
	Send(ctx context.Context, chatRef, text string) error
}

// Base holds the allowlist and readiness signal shared by all channels.
type Base struct {
	name      string
	allowFrom []string // empty = allow all
	ready     chan struct{}
	readyOnce *sync.Once
}

// NewBase creates a Base with the given channel name and allowlist.
func NewBase(name string, allowFrom []string) Base {
	return Base{
		name:      name,
		allowFrom: allowFrom,
		ready:     make(chan struct{}),
		readyOnce: new(sync.Once),
	}
}

// Ready is closed once markReady has been called.
func (b *Base) Ready() <-chan struct{} { return b.ready }

// markReady signals that the channel has connected. Safe to call more
// than once.
func (b *Base) markReady() {
	b.readyOnce.Do(func() { close(b.ready) })
}

// IsAllowed checks whether senderID is on the allowlist. senderID may be
// "id|username"; either part matches.
func (b *Base) IsAllowed(senderID string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, part := range strings.Split(senderID, "|") {
		if part == "" {
			continue
		}
		for _, allowed := range b.allowFrom {
			if allowed == part {
				return true
			}
		}
	}
	return false
}

// splitMessage splits content into chunks that fit within maxLen,
// preferring newline breaks, then space breaks, then hard cut.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t")
	}
	return chunks
}
