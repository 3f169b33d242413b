package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"

	"github.com/campuswell/counselbook/internal/model"
)

// TelegramChannel pushes high and urgent alerts to recipients who linked
// a Telegram chat, in practice the administrators, who want no-show and
// screening escalations faster than email.
type TelegramChannel struct {
	bot *bot.Bot
}

func NewTelegramChannel(token string) (*TelegramChannel, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramChannel{bot: b}, nil
}

func (c *TelegramChannel) Name() string { return "telegram" }

// Deliver sends the notification as a Telegram message. Low-priority
// notices and recipients without a linked chat are skipped.
func (c *TelegramChannel) Deliver(ctx context.Context, n *model.Notification, recipient *model.User) error {
	if recipient.TelegramChatID == nil {
		return nil
	}
	if n.Priority != model.NotificationPriorityHigh && n.Priority != model.NotificationPriorityUrgent {
		return nil
	}

	text := fmt.Sprintf("[%s] %s\n\n%s", n.Priority, n.Title, n.Message)
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *recipient.TelegramChatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message to chat %d: %w", *recipient.TelegramChatID, err)
	}
	return nil
}
