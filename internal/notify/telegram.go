package notify

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"
)

// Sender is the part of *telebot.Bot the notifier needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelegramNotifier posts reminders to a single chat.
type TelegramNotifier struct {
	sender Sender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return NewTelegramNotifierWithSender(bot, chatID), nil
}

func NewTelegramNotifierWithSender(sender Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID}
}

func (notifier *TelegramNotifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := notifier.sender.Send(telebot.ChatID(notifier.chatID), message, &telebot.SendOptions{}); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
