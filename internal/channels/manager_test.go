package channels

import (
	"context"
	"testing"
	"time"

	"github.com/tasknest/tasknest/internal/config"
)

type stubChannel struct {
	Base
}

func (c *stubChannel) Name() string { return "stub" }

func (c *stubChannel) Start(ctx context.Context) error {
	c.markReady()
	<-ctx.Done()
	return ctx.Err()
}

func (c *stubChannel) Send(context.Context, string, string) error { return nil }

func TestManager_NoChannelsEnabled(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewManager(&cfg, nil, nil)
	if got := m.EnabledChannels(); len(got) != 0 {
		t.Errorf("expected no channels, got %v", got)
	}
}

func TestWaitReady(t *testing.T) {
	ch := &stubChannel{Base: NewBase("stub", nil)}
	m := &Manager{channels: map[string]Channel{"stub": ch}}

	// Not started yet, so WaitReady must give up when the context does.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := m.WaitReady(ctx); err == nil {
		t.Error("expected error while channel is not connected")
	}

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ch.Start(ctx) }()
	if err := m.WaitReady(context.Background()); err != nil {
		t.Errorf("WaitReady after connect: %v", err)
	}
}

func TestWaitReady_NoChannels(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewManager(&cfg, nil, nil)
	if err := m.WaitReady(context.Background()); err != nil {
		t.Errorf("WaitReady with no channels: %v", err)
	}
}

func TestSendTo_Unroutable(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewManager(&cfg, nil, nil)

	if err := m.SendTo(context.Background(), "plain-account-id", "hi"); err == nil {
		t.Error("expected error for user without channel prefix")
	}
	if err := m.SendTo(context.Background(), "telegram:12345", "hi"); err == nil {
		t.Error("expected error when channel is not enabled")
	}
}
