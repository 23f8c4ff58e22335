package channels

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tasknest/tasknest/internal/chat"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/store"
)

// Manager owns all enabled channels.
type Manager struct {
	channels map[string]Channel
}

// NewManager initialises every channel enabled in cfg.
func NewManager(cfg *config.Config, chatSvc *chat.Service, st *store.Store) *Manager {
	m := &Manager{channels: make(map[string]Channel)}

	if cfg.Channels.Telegram.Enabled {
		ch := NewTelegramChannel(&cfg.Channels.Telegram, chatSvc, st)
		m.channels[ch.Name()] = ch
		slog.Info("channel enabled", "name", ch.Name())
	}
	if cfg.Channels.Slack.Enabled {
		ch := NewSlackChannel(&cfg.Channels.Slack, chatSvc, st)
		m.channels[ch.Name()] = ch
		slog.Info("channel enabled", "name", ch.Name())
	}

	return m
}

// EnabledChannels returns the names of all enabled channels, sorted.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StartAll runs every channel until ctx is cancelled. A channel failing to
// start is logged but does not bring down the others.
func (m *Manager) StartAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, ch := range m.channels {
		g.Go(func() error {
			slog.Info("starting channel", "name", name)
			if err := ch.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("channel exited with error", "name", name, "err", err)
			}
			return nil
		})
	}
	<-ctx.Done()
	return g.Wait()
}

// WaitReady blocks until every enabled channel has a live connection or ctx
// is cancelled. Callers that deliver immediately after StartAll (a one-shot
// digest pass) use this instead of guessing at connect time.
func (m *Manager) WaitReady(ctx context.Context) error {
	for name, ch := range m.channels {
		select {
		case <-ch.Ready():
		case <-ctx.Done():
			return fmt.Errorf("channel %q not ready: %w", name, ctx.Err())
		}
	}
	return nil
}

// SendTo delivers text to a channel-bound user id of the form
// "<channel>:<chatref>". Users without a channel prefix are unreachable.
func (m *Manager) SendTo(ctx context.Context, userID, text string) error {
	name, chatRef, ok := strings.Cut(userID, ":")
	if !ok {
		return fmt.Errorf("user %q is not bound to a channel", userID)
	}
	ch, found := m.channels[name]
	if !found {
		return fmt.Errorf("channel %q is not enabled", name)
	}
	return ch.Send(ctx, chatRef, text)
}
