package middleware

import (
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func TestRateLimiter_BlocksAfterBudget(t *testing.T) {
	sender := &fakeSender{}
	rl := NewRateLimiterMiddleware(2, 1, zap.NewNop(), sender)
	defer rl.Stop()

	handled := 0
	next := func(tgbotapi.Update) { handled++ }
	for range 4 {
		rl.Handle(textUpdate(7, "hi"), next)
	}

	assert.Equal(t, 2, handled)
	require.Len(t, sender.sent, 1, "one warning per interval")
	assert.Equal(t, int64(7), sender.sent[0].ChatID)

	rl.Handle(textUpdate(8, "hi"), next)
	assert.Equal(t, 3, handled, "budgets are per user")
	rl.Stop()
}

func TestRecovery_RepliesAfterPanic(t *testing.T) {
	sender := &fakeSender{}
	m := NewRecoveryMiddleware(zap.NewNop(), sender)

	assert.NotPanics(t, func() {
		m.Handle(textUpdate(5, "boom"), func(tgbotapi.Update) { panic("boom") })
	})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(5), sender.sent[0].ChatID)
}

func TestLogging_CallsNext(t *testing.T) {
	called := false
	NewLoggingMiddleware(zap.NewNop()).Handle(textUpdate(1, "hi"), func(tgbotapi.Update) { called = true })
	assert.True(t, called)
}
