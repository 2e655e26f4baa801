package telegram

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	// chatID is a numeric chat id or a public @channel username.
	SendMessage(chatID string, text string) error
}
