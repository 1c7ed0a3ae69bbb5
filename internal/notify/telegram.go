package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"auction-shop/utils"
)

// TelegramNotifier delivers messages through the Telegram Bot API
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier authorizes the bot with the given token
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

// Notify sends one message to one Telegram chat
func (n *TelegramNotifier) Notify(recipientID int64, message string) error {
	msg := tgbotapi.NewMessage(recipientID, message)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("notify: telegram send to %d failed: %w", recipientID, err)
	}
	return nil
}

// LogNotifier is a stand-in used when no bot token is configured: it only
// logs what would have been sent.
type LogNotifier struct{}

// Notify logs the message instead of delivering it
func (LogNotifier) Notify(recipientID int64, message string) error {
	utils.Info("notify: no bot token configured, message not delivered", map[string]any{
		"recipient_id": recipientID,
		"message":      message,
	})
	return nil
}
