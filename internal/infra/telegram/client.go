// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// NewSendOnlyBot creates a bot that never polls for updates and does not call getMe
// on startup, so an unreachable Telegram API cannot stop the process from starting.
// apiURL may be empty to use the public Bot API.
func NewSendOnlyBot(token, apiURL string, timeout time.Duration) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		URL:     apiURL,
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// chatRecipient addresses a chat by id or @username, as sendMessage's chat_id accepts both.
type chatRecipient string

func (r chatRecipient) Recipient() string {
	return string(r)
}

// SendMessage sends a plain text message to the given chat.
func (tba *TelebotAdapter) SendMessage(chatID string, text string) error {
	_, err := tba.bot.Send(chatRecipient(chatID), text, &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}
