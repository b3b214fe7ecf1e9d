package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

const (
	analysisInstruction     = "You are an expert Product Manager and UI Designer."
	architectureInstruction = "You are a Senior Solutions Architect. Define a scalable, modern technology stack and modular architecture."
	planInstruction         = "You are a Technical Project Manager. Break down the project into logical phases, defining MVP and dependencies."
	docsInstruction         = "You are a Chief Product Officer. Write clear, professional, and persuasive documentation."
)

func analysisPrompt(idea string) string {
	return fmt.Sprintf(`Analyze this project idea: "%s". Structure it into a professional project brief.
Crucial: Generate a unique, custom color palette (HEX codes) that perfectly fits the mood.
For a horror game, use deep blacks/reds. For a medical app, use sterile whites/blues. For a nature app, use organic greens/creams.
Respond in Russian.`, idea)
}

// clarifications renders answered questions as "Q: .. A: .." pairs.
func clarifications(questions []entity.ClarifyingQuestion) string {
	parts := make([]string, 0, len(questions))
	for _, q := range questions {
		parts = append(parts, fmt.Sprintf("Q: %s A: %s", q.Question, q.Answer()))
	}
	return strings.Join(parts, "; ")
}

func architecturePrompt(analysis entity.AnalysisResult) (string, error) {
	ctx, err := json.Marshal(entity.ArchitectureRequestContext{
		Summary:            analysis.Summary,
		Features:           analysis.CoreFeatures,
		UserClarifications: clarifications(analysis.Questions),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Design the system architecture for this project based on these requirements: %s. "+
		"Include a high-level diagram structure. Respond in Russian.", ctx), nil
}

func planPrompt(analysis entity.AnalysisResult, architecture entity.ArchitectureResult) (string, error) {
	modules := make([]string, 0, len(architecture.Modules))
	for _, m := range architecture.Modules {
		modules = append(modules, m.Name)
	}
	ctx, err := json.Marshal(entity.PlanRequestContext{
		Features: analysis.CoreFeatures,
		Modules:  modules,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Create a project roadmap and development plan based on: %s. Respond in Russian.", ctx), nil
}

// docsPrompt serialises the whole project minus the binary visual.
func docsPrompt(project entity.ProjectData) (string, error) {
	ctx, err := json.Marshal(project.WithoutImage())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Generate a comprehensive Product Requirements Document (PRD) and Investor Presentation slides based on this project data: %s.
For the PRD, use Markdown. Include sections for: Executive Summary, Problem & Solution, Technical Architecture, Roadmap, and Risk Analysis.
For the Slides, focus on the business value, problem/solution, and market potential.
Select a 'layout' for each slide that best fits the text (e.g. use 'big-number' for statistics, 'split' for comparisons).
Respond in Russian.`, ctx), nil
}

func themePrompt(mode entity.ThemeMode) string {
	if mode == entity.ThemeModeLight {
		return "clean, bright, airy"
	}
	return "futuristic, sleek, dark mode, cinematic lighting"
}

func visualPrompt(summary string, mode entity.ThemeMode, palette entity.ColorPalette) string {
	return fmt.Sprintf(`Create a high-quality UI design mockup for: %s.
Style: %s.
Color Palette:
- Background: %s
- Surface: %s
- Primary: %s
- Secondary: %s

The image MUST strictly follow this color scheme.
The interface should be modern and professional.
Do not include any text or words in the image.`,
		summary, themePrompt(mode), palette.Background, palette.Surface, palette.Primary, palette.Secondary)
}

func routerPrompt(message string, agentCtx entity.AgentContext) (string, error) {
	ctx, err := json.Marshal(agentCtx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`You are an intelligent router and role-player for a Project Management AI system.
There are three agents:
1. '%s' (Product focus, requirements, features)
2. '%s' (Tech stack, database, security, diagrams)
3. '%s' (Timeline, tasks, team, risks)

The user says: "%s".
Context: %s.

Determine which agent should answer. Then, assume that role and answer the user directly in Russian.
Return JSON: { "agentName": "Name of Agent", "response": "The response content" }`,
		entity.AgentPersonaAnalyst, entity.AgentPersonaArchitect, entity.AgentPersonaPlanner,
		message, ctx), nil
}
