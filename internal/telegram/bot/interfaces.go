package bot

import (
	"context"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
	projectuc "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of the Bot API used to reply.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Workspaces hands out one orchestrator per chat.
type Workspaces interface {
	GetOrCreate(id string) *orchestrator.Orchestrator
}

type History interface {
	LoadHistory(ctx context.Context) ([]entity.ProjectHistoryItem, error)
}

type FormatterFactory = projectuc.FormatterFactory
