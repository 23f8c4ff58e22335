package channels

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tasknest/tasknest/internal/chat"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/store"
)

// TelegramChannel runs the Telegram bot via long polling.
type TelegramChannel struct {
	Base
	cfg  *config.TelegramConfig
	chat *chat.Service
	st   *store.Store
	bot  *tgbotapi.BotAPI
}

// NewTelegramChannel creates a TelegramChannel.
func NewTelegramChannel(cfg *config.TelegramConfig, chatSvc *chat.Service, st *store.Store) *TelegramChannel {
	return &TelegramChannel{
		Base: NewBase("telegram", cfg.AllowFrom),
		cfg:  cfg,
		chat: chatSvc,
		st:   st,
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

func (t *TelegramChannel) Start(ctx context.Context) error {
	if t.cfg.Token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)
	t.markReady()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.handleUpdate(ctx, update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	senderID := fmt.Sprintf("%d", msg.From.ID)
	if msg.From.UserName != "" {
		senderID = senderID + "|" + msg.From.UserName
	}
	if !t.IsAllowed(senderID) {
		slog.Warn("access denied", "channel", "telegram", "sender", senderID)
		return
	}

	// Typing indicator until the turn completes.
	typingCtx, cancelTyping := context.WithCancel(ctx)
	defer cancelTyping()
	go t.sendTypingLoop(typingCtx, msg.Chat.ID)

	// One rolling conversation per chat. Zero means none yet; the chat
	// service then creates one.
	userID := fmt.Sprintf("telegram:%d", msg.Chat.ID)
	conversationID, err := t.st.LatestConversation(ctx, userID)
	if err != nil {
		slog.Error("telegram: latest conversation", "user", userID, "err", err)
		return
	}

	res, err := t.chat.ProcessTurn(ctx, userID, conversationID, msg.Text)
	if err != nil {
		slog.Error("telegram: chat turn failed", "user", userID, "err", err)
		return
	}
	t.reply(msg.Chat.ID, msg.MessageID, res.Response)
}

func (t *TelegramChannel) reply(chatID int64, replyTo int, text string) {
	for _, chunk := range splitMessage(text, 4000) {
		m := tgbotapi.NewMessage(chatID, chunk)
		if replyTo != 0 {
			m.ReplyToMessageID = replyTo
		}
		if _, err := t.bot.Send(m); err != nil {
			slog.Error("telegram: send failed", "chat_id", chatID, "err", err)
			return
		}
	}
}

func (t *TelegramChannel) sendTypingLoop(ctx context.Context, chatID int64) {
	for {
		if t.bot != nil {
			action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
			_, _ = t.bot.Send(action)
		}
		select {
		case <-time.After(4 * time.Second):
		case <-ctx.Done():
			return
		}
	}
}

// Send delivers a digest or other unsolicited message to a chat id.
func (t *TelegramChannel) Send(_ context.Context, chatRef, text string) error {
	if t.bot == nil {
		return fmt.Errorf("telegram: bot not running")
	}
	chatID, err := strconv.ParseInt(chatRef, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat ref %q", chatRef)
	}
	for _, chunk := range splitMessage(text, 4000) {
		if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return fmt.Errorf("telegram: send: %w", err)
		}
	}
	return nil
}
