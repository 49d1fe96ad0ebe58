package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers admin notifications as direct Telegram messages.
type Notifier struct {
	bot *tgbotapi.BotAPI
}

func NewNotifier(bot *tgbotapi.BotAPI) *Notifier {
	return &Notifier{bot: bot}
}

func (n *Notifier) Notify(_ context.Context, recipientID int64, text string) error {
	if _, err := n.bot.Send(tgbotapi.NewMessage(recipientID, text)); err != nil {
		return fmt.Errorf("send to %d: %w", recipientID, err)
	}
	return nil
}
