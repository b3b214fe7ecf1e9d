package llm

import (
	"context"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// Gateway is the set of AI calls the orchestrator drives. GeminiConnector,
// MockConnector and Instrumented all satisfy it.
type Gateway interface {
	AnalyzeIdea(ctx context.Context, idea string) (*entity.AnalysisResult, error)
	GenerateArchitecture(ctx context.Context, analysis entity.AnalysisResult) (*entity.ArchitectureResult, error)
	GeneratePlan(ctx context.Context, analysis entity.AnalysisResult, architecture entity.ArchitectureResult) (*entity.PlanResult, error)
	GenerateDocumentation(ctx context.Context, project entity.ProjectData) (*entity.DocsResult, error)
	GenerateAppVisual(ctx context.Context, summary string, mode entity.ThemeMode, brandColor string, palette entity.ColorPalette) (string, error)
	RouteAgentMessage(ctx context.Context, message string, agentCtx entity.AgentContext) (*entity.AgentReply, error)
}

// Call names used in logs and metrics.
const (
	CallAnalyzeIdea           = "analyze_idea"
	CallGenerateArchitecture  = "generate_architecture"
	CallGeneratePlan          = "generate_plan"
	CallGenerateDocumentation = "generate_documentation"
	CallGenerateAppVisual     = "generate_app_visual"
	CallRouteAgentMessage     = "route_agent_message"
)

var (
	_ Gateway = &GeminiConnector{}
	_ Gateway = &MockConnector{}
	_ Gateway = &Instrumented{}
)
