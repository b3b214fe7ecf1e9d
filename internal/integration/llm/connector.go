package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator is the slice of the genai client the connector uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConnector talks to the Gemini API. Every structured call declares a
// response schema and the decoded result is validated against it.
type GeminiConnector struct {
	config    config.LLMConnectorConfig
	generator contentGenerator
	logger    *zap.Logger
}

// NewGeminiConnector builds the connector. Without an API key the connector
// is still created; each call then fails with ErrMissingCredential.
func NewGeminiConnector(
	ctx context.Context,
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) (*GeminiConnector, error) {
	c := &GeminiConnector{config: cfg, logger: logger}
	if cfg.APIKey == "" {
		logger.Warn("LLM_API_KEY is not set, AI calls will fail")
		return c, nil
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.generator = cli.Models

	return c, nil
}

func newGeminiConnectorWithGenerator(cfg config.LLMConnectorConfig, gen contentGenerator, logger *zap.Logger) *GeminiConnector {
	return &GeminiConnector{config: cfg, generator: gen, logger: logger}
}

// AnalyzeIdea turns a raw idea into a structured brief with palette and
// clarifying questions.
func (c *GeminiConnector) AnalyzeIdea(ctx context.Context, idea string) (*entity.AnalysisResult, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, entity.ErrEmptyIdea
	}
	ctxzap.Info(ctx, "analyzing idea via Gemini", zap.Int("idea_length", len(idea)))

	var out entity.AnalysisResult
	if err := c.generateJSON(ctx, analysisPrompt(idea), analysisInstruction, analysisSchema, &out); err != nil {
		return nil, err
	}
	if err := validator.ValidateAnalysis(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchemaViolation, err)
	}

	ctxzap.Info(ctx, "idea analyzed", zap.String("title", out.Title), zap.Int("question_count", len(out.Questions)))
	return &out, nil
}

func (c *GeminiConnector) GenerateArchitecture(ctx context.Context, analysis entity.AnalysisResult) (*entity.ArchitectureResult, error) {
	ctxzap.Info(ctx, "generating architecture via Gemini")

	prompt, err := architecturePrompt(analysis)
	if err != nil {
		return nil, fmt.Errorf("build architecture prompt: %w", err)
	}

	var out entity.ArchitectureResult
	if err := c.generateJSON(ctx, prompt, architectureInstruction, architectureSchema, &out); err != nil {
		return nil, err
	}
	if err := validator.ValidateArchitecture(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchemaViolation, err)
	}

	ctxzap.Info(ctx, "architecture generated",
		zap.Int("module_count", len(out.Modules)),
		zap.Int("node_count", len(out.Diagram.Nodes)),
	)
	return &out, nil
}

func (c *GeminiConnector) GeneratePlan(ctx context.Context, analysis entity.AnalysisResult, architecture entity.ArchitectureResult) (*entity.PlanResult, error) {
	ctxzap.Info(ctx, "generating plan via Gemini")

	prompt, err := planPrompt(analysis, architecture)
	if err != nil {
		return nil, fmt.Errorf("build plan prompt: %w", err)
	}

	var out entity.PlanResult
	if err := c.generateJSON(ctx, prompt, planInstruction, planSchema, &out); err != nil {
		return nil, err
	}
	if err := validator.ValidatePlan(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchemaViolation, err)
	}

	ctxzap.Info(ctx, "plan generated", zap.Int("phase_count", len(out.Phases)))
	return &out, nil
}

func (c *GeminiConnector) GenerateDocumentation(ctx context.Context, project entity.ProjectData) (*entity.DocsResult, error) {
	ctxzap.Info(ctx, "generating documentation via Gemini")

	prompt, err := docsPrompt(project)
	if err != nil {
		return nil, fmt.Errorf("build documentation prompt: %w", err)
	}

	var out entity.DocsResult
	if err := c.generateJSON(ctx, prompt, docsInstruction, docsSchema, &out); err != nil {
		return nil, err
	}
	if err := validator.ValidateDocs(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchemaViolation, err)
	}

	ctxzap.Info(ctx, "documentation generated",
		zap.Int("prd_length", len(out.PRD)),
		zap.Int("slide_count", len(out.Slides)),
	)
	return &out, nil
}

// GenerateAppVisual asks the image model for a UI mockup and returns it as a
// PNG data URI.
func (c *GeminiConnector) GenerateAppVisual(
	ctx context.Context,
	summary string,
	mode entity.ThemeMode,
	brandColor string,
	palette entity.ColorPalette,
) (string, error) {
	ctxzap.Info(ctx, "generating app visual via Gemini",
		zap.String("theme_mode", string(mode)),
		zap.String("brand_color", brandColor),
	)

	contents := []*genai.Content{{Parts: []*genai.Part{{Text: visualPrompt(summary, mode, palette)}}}}
	resp, err := c.generate(ctx, c.config.ImageModel, contents, nil)
	if err != nil {
		return "", err
	}

	for _, part := range firstCandidateParts(resp) {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			ctxzap.Info(ctx, "app visual generated", zap.Int("bytes", len(part.InlineData.Data)))
			return "data:image/png;base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}

	return "", entity.ErrNoImageProduced
}

// RouteAgentMessage lets the model pick a persona and answer in its voice.
func (c *GeminiConnector) RouteAgentMessage(ctx context.Context, message string, agentCtx entity.AgentContext) (*entity.AgentReply, error) {
	ctxzap.Info(ctx, "routing chat message via Gemini")

	prompt, err := routerPrompt(message, agentCtx)
	if err != nil {
		return nil, fmt.Errorf("build router prompt: %w", err)
	}

	var out entity.AgentReply
	if err := c.generateJSON(ctx, prompt, "", agentReplySchema, &out); err != nil {
		return nil, err
	}
	if err := validator.ValidateAgentReply(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchemaViolation, err)
	}

	ctxzap.Info(ctx, "chat message routed", zap.String("agent", out.AgentName))
	return &out, nil
}

// generateJSON runs a schema-constrained text call and decodes the result.
func (c *GeminiConnector) generateJSON(ctx context.Context, prompt, instruction string, schema *genai.Schema, out any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if instruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: instruction}}}
	}

	contents := []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
	resp, err := c.generate(ctx, c.config.TextModel, contents, cfg)
	if err != nil {
		return err
	}

	text := responseText(resp)
	if text == "" {
		return entity.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrSchemaViolation, err)
	}
	return nil
}

// generate performs one model call with retries on transport failures.
func (c *GeminiConnector) generate(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if c.generator == nil {
		return nil, entity.ErrMissingCredential
	}

	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	var resp *genai.GenerateContentResponse
	err := c.config.Retry.Do(ctx, func() error {
		r, err := c.generator.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			ctxzap.Warn(ctx, "Gemini call failed", zap.String("model", model), zap.Error(err))
			return err
		}
		resp = r
		return nil
	}, isRetryable)
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", model, err)
	}

	return resp, nil
}

// isRetryable retries transport failures, 429 and 5xx. Other 4xx answers
// (bad key, invalid argument) fail the same way on every attempt.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, ok := apiErrorCode(err); ok {
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func firstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, p := range firstCandidateParts(resp) {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
