package channels

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/tasknest/tasknest/internal/chat"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/store"
)

// SlackChannel connects via Socket Mode.
type SlackChannel struct {
	Base
	cfg       *config.SlackConfig
	chat      *chat.Service
	st        *store.Store
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
}

// NewSlackChannel creates a SlackChannel.
func NewSlackChannel(cfg *config.SlackConfig, chatSvc *chat.Service, st *store.Store) *SlackChannel {
	return &SlackChannel{
		Base: NewBase("slack", cfg.AllowFrom),
		cfg:  cfg,
		chat: chatSvc,
		st:   st,
	}
}

func (s *SlackChannel) Name() string { return "slack" }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		return fmt.Errorf("slack: bot/app token not configured")
	}

	s.webClient = slackgo.New(s.cfg.BotToken,
		slackgo.OptionAppLevelToken(s.cfg.AppToken))

	if resp, err := s.webClient.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		slog.Info("slack: connected", "bot_user_id", s.botUserID)
	}

	s.smClient = socketmode.New(s.webClient)
	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, evt)
		}
	}
}

func (s *SlackChannel) handleEvent(ctx context.Context, evt socketmode.Event) {
	if evt.Type == socketmode.EventTypeConnected {
		s.markReady()
		return
	}
	if evt.Type != socketmode.EventTypeEventsAPI {
		return
	}
	s.smClient.Ack(*evt.Request)
	cb, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if cb.InnerEvent.Type != "message" && cb.InnerEvent.Type != "app_mention" {
		return
	}
	go s.handleInnerEvent(ctx, cb.InnerEvent)
}

func (s *SlackChannel) handleInnerEvent(ctx context.Context, ev slackevents.EventsAPIInnerEvent) {
	// Inner event data arrives as a raw map.
	data, ok := ev.Data.(map[string]interface{})
	if !ok {
		return
	}
	senderID, _ := data["user"].(string)
	channelID, _ := data["channel"].(string)
	text, _ := data["text"].(string)
	subtype, _ := data["subtype"].(string)
	threadTS, _ := data["thread_ts"].(string)

	if subtype != "" || senderID == "" || channelID == "" {
		return
	}
	if senderID == s.botUserID {
		return
	}
	// app_mention and message fire for the same post; keep the mention.
	if ev.Type == "message" && s.botUserID != "" && strings.Contains(text, "<@"+s.botUserID+">") {
		return
	}
	if !s.IsAllowed(senderID) {
		slog.Warn("access denied", "channel", "slack", "sender", senderID)
		return
	}

	text = s.stripMention(text)
	if text == "" {
		return
	}

	userID := "slack:" + senderID
	conversationID, err := s.st.LatestConversation(ctx, userID)
	if err != nil {
		slog.Error("slack: latest conversation", "user", userID, "err", err)
		return
	}

	res, err := s.chat.ProcessTurn(ctx, userID, conversationID, text)
	if err != nil {
		slog.Error("slack: chat turn failed", "user", userID, "err", err)
		return
	}

	opts := []slackgo.MsgOption{slackgo.MsgOptionText(res.Response, false)}
	if threadTS != "" {
		opts = append(opts, slackgo.MsgOptionTS(threadTS))
	}
	if _, _, err := s.webClient.PostMessageContext(ctx, channelID, opts...); err != nil {
		slog.Error("slack: post failed", "channel_id", channelID, "err", err)
	}
}

func (s *SlackChannel) stripMention(text string) string {
	if s.botUserID == "" {
		return strings.TrimSpace(text)
	}
	re := regexp.MustCompile(`<@` + regexp.QuoteMeta(s.botUserID) + `>\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

// Send opens a DM with the user and posts the message.
func (s *SlackChannel) Send(ctx context.Context, chatRef, text string) error {
	if s.webClient == nil {
		return fmt.Errorf("slack: not running")
	}
	ch, _, _, err := s.webClient.OpenConversationContext(ctx, &slackgo.OpenConversationParameters{
		Users: []string{chatRef},
	})
	if err != nil {
		return fmt.Errorf("slack: open dm: %w", err)
	}
	if _, _, err := s.webClient.PostMessageContext(ctx, ch.ID, slackgo.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("slack: post: %w", err)
	}
	return nil
}
