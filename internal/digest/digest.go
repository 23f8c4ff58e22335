// Package digest sends scheduled pending-task reminders to users reachable
// through a chat channel.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/tasknest/tasknest/internal/channels"
	"github.com/tasknest/tasknest/internal/store"
)

// Service runs the digest schedule.
type Service struct {
	st       *store.Store
	manager  *channels.Manager
	schedule string
	cron     *robfigcron.Cron
}

// NewService creates a digest service. schedule is a standard 5-field cron
// expression.
func NewService(st *store.Store, manager *channels.Manager, schedule string) *Service {
	return &Service{
		st:       st,
		manager:  manager,
		schedule: schedule,
		cron:     robfigcron.New(),
	}
}

// Run schedules the digest and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.schedule, func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("digest: invalid schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	slog.Info("digest scheduled", "schedule", s.schedule, "entry", id)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	return ctx.Err()
}

// runOnce sends one digest pass. Exposed through RunOnce for manual runs.
func (s *Service) runOnce(ctx context.Context) {
	users, err := s.st.UsersWithPendingTasks(ctx)
	if err != nil {
		slog.Error("digest: list users", "err", err)
		return
	}
	sent := 0
	for _, userID := range users {
		// Only channel-bound ids ("telegram:...", "slack:...") are
		// deliverable; account ids from the HTTP API are skipped.
		if !strings.Contains(userID, ":") {
			continue
		}
		tasks, err := s.st.ListTasks(ctx, userID, store.FilterPending)
		if err != nil {
			slog.Error("digest: list tasks", "user", userID, "err", err)
			continue
		}
		if len(tasks) == 0 {
			continue
		}
		if err := s.manager.SendTo(ctx, userID, formatDigest(tasks)); err != nil {
			slog.Warn("digest: delivery failed", "user", userID, "err", err)
			continue
		}
		sent++
	}
	slog.Info("digest pass complete", "candidates", len(users), "sent", sent)
}

// RunOnce triggers a single digest pass immediately.
func (s *Service) RunOnce(ctx context.Context) {
	s.runOnce(ctx)
}

func formatDigest(tasks []store.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Good morning! You have %d pending task(s):\n\n", len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(&b, "[%d] %s\n", t.ID, t.Title)
	}
	b.WriteString("\nReply here to add, complete, or update tasks.")
	return b.String()
}
