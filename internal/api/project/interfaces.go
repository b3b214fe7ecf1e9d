package project

import (
	"context"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	projectuc "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
)

type ProjectUsecase interface {
	LoadHistory(ctx context.Context) ([]entity.ProjectHistoryItem, error)
	GetProject(ctx context.Context, id string) (*entity.ProjectData, error)
	DeleteProject(ctx context.Context, id string) error
	ExportProject(ctx context.Context, id string, format entity.ExportFormat) (*projectuc.ExportResult, error)
}

type ExportRecorder interface {
	RecordExport(format, status string)
}
