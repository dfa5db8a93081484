// Package notify pushes circle events to the admin's chat channel.
// Notifications are best effort: failures are logged and never block the
// operation that triggered them.
package notify

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers a message, optionally with an image attachment.
type Notifier interface {
	Send(message, imageURL string)
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Send(string, string) {}

// Telegram sends notifications to a fixed chat through the Bot API.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram builds a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Send delivers the message asynchronously. Errors are logged only.
func (t *Telegram) Send(message, imageURL string) {
	go func() {
		var err error
		if imageURL != "" {
			photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileURL(imageURL))
			photo.Caption = message
			_, err = t.bot.Send(photo)
		} else {
			_, err = t.bot.Send(tgbotapi.NewMessage(t.chatID, message))
		}
		if err != nil {
			slog.Warn("notification failed", "error", err)
		}
	}()
}
