package orchestrator

import (
	"context"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// AIGateway is what the orchestrator needs from the model side.
type AIGateway interface {
	AnalyzeIdea(ctx context.Context, idea string) (*entity.AnalysisResult, error)
	GenerateArchitecture(ctx context.Context, analysis entity.AnalysisResult) (*entity.ArchitectureResult, error)
	GeneratePlan(ctx context.Context, analysis entity.AnalysisResult, architecture entity.ArchitectureResult) (*entity.PlanResult, error)
	GenerateDocumentation(ctx context.Context, project entity.ProjectData) (*entity.DocsResult, error)
	GenerateAppVisual(ctx context.Context, summary string, mode entity.ThemeMode, brandColor string, palette entity.ColorPalette) (string, error)
	RouteAgentMessage(ctx context.Context, message string, agentCtx entity.AgentContext) (*entity.AgentReply, error)
}

// ProjectStore is the persistence side. Save upserts and returns the stored
// copy with id and timestamp assigned.
type ProjectStore interface {
	Save(ctx context.Context, project entity.ProjectData) (entity.ProjectData, error)
	Get(ctx context.Context, id string) (*entity.ProjectData, error)
}

// PipelineRecorder receives one event per finished operation.
type PipelineRecorder interface {
	RecordPipeline(operation, result string)
}
