package llm

import (
	"context"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Instrumented wraps a Gateway with per-call metrics and timing logs.
type Instrumented struct {
	next    Gateway
	metrics *metrics.Metrics
}

func NewInstrumented(next Gateway, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (i *Instrumented) AnalyzeIdea(ctx context.Context, idea string) (*entity.AnalysisResult, error) {
	start := time.Now()
	res, err := i.next.AnalyzeIdea(ctx, idea)
	i.finish(ctx, CallAnalyzeIdea, start, err)
	return res, err
}

func (i *Instrumented) GenerateArchitecture(ctx context.Context, analysis entity.AnalysisResult) (*entity.ArchitectureResult, error) {
	start := time.Now()
	res, err := i.next.GenerateArchitecture(ctx, analysis)
	i.finish(ctx, CallGenerateArchitecture, start, err)
	return res, err
}

func (i *Instrumented) GeneratePlan(ctx context.Context, analysis entity.AnalysisResult, architecture entity.ArchitectureResult) (*entity.PlanResult, error) {
	start := time.Now()
	res, err := i.next.GeneratePlan(ctx, analysis, architecture)
	i.finish(ctx, CallGeneratePlan, start, err)
	return res, err
}

func (i *Instrumented) GenerateDocumentation(ctx context.Context, project entity.ProjectData) (*entity.DocsResult, error) {
	start := time.Now()
	res, err := i.next.GenerateDocumentation(ctx, project)
	i.finish(ctx, CallGenerateDocumentation, start, err)
	return res, err
}

func (i *Instrumented) GenerateAppVisual(ctx context.Context, summary string, mode entity.ThemeMode, brandColor string, palette entity.ColorPalette) (string, error) {
	start := time.Now()
	res, err := i.next.GenerateAppVisual(ctx, summary, mode, brandColor, palette)
	i.finish(ctx, CallGenerateAppVisual, start, err)
	return res, err
}

func (i *Instrumented) RouteAgentMessage(ctx context.Context, message string, agentCtx entity.AgentContext) (*entity.AgentReply, error) {
	start := time.Now()
	res, err := i.next.RouteAgentMessage(ctx, message, agentCtx)
	i.finish(ctx, CallRouteAgentMessage, start, err)
	return res, err
}

func (i *Instrumented) finish(ctx context.Context, call string, start time.Time, err error) {
	elapsed := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
		ctxzap.Error(ctx, "AI call failed",
			zap.String("call", call),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	} else {
		ctxzap.Debug(ctx, "AI call completed", zap.String("call", call), zap.Duration("elapsed", elapsed))
	}

	if i.metrics != nil {
		i.metrics.RecordAIRequest(call, status, elapsed.Seconds())
	}
}
