package middleware

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Sender is the part of the Bot API the middleware replies through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
