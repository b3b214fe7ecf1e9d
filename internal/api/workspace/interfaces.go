package workspace

import (
	"context"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/diagram"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
)

type WorkspaceRegistry interface {
	Create() *orchestrator.Orchestrator
	Get(id string) (*orchestrator.Orchestrator, error)
}

type FormatterFactory interface {
	Create(format entity.ExportFormat) (formatter.Formatter, error)
}

type CallbackConnector interface {
	SendError(ctx context.Context, callbackURL, requestID, message string, details map[string]any)
	SendWorkspaceUpdated(ctx context.Context, callbackURL, requestID string, data *entity.CallbackWorkspaceUpdatedData)
}

type LayoutMemo interface {
	Layout(d entity.Diagram, canvas diagram.Canvas) diagram.Result
}
