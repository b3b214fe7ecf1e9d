// Package telegram is a chat front end to the workspaces: one workspace per
// chat, driven by commands, free text and inline buttons.
package telegram

import (
	"context"
	"fmt"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram/bot"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	workspaces bot.Workspaces,
	history bot.History,
	formatters bot.FormatterFactory,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, workspaces, history, formatters, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	logger.Info("telegram bot initialized successfully")
	return b, nil
}
