package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// 1x1 transparent PNG
var mockPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

// MockConnector - мок-реализация AI шлюза для локальной разработки и тестов
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// AnalyzeIdea - мок анализа идеи
func (m *MockConnector) AnalyzeIdea(ctx context.Context, idea string) (*entity.AnalysisResult, error) {
	ctxzap.Info(ctx, "[MOCK] analyzing idea")

	title := strings.TrimSpace(idea)
	if title == "" {
		return nil, entity.ErrEmptyIdea
	}
	if r := []rune(title); len(r) > 32 {
		title = string(r[:32])
	}

	resp := &entity.AnalysisResult{
		Title:          title + " (MOCK)",
		Summary:        fmt.Sprintf("Сервис, реализующий идею: %s", idea),
		TargetAudience: []string{"Частные пользователи", "Малый бизнес"},
		CoreFeatures:   []string{"Регистрация и профиль", "Каталог", "Уведомления"},
		Questions: []entity.ClarifyingQuestion{
			{Question: "Нужна ли мобильная версия?", SuggestedAnswer: "Да, адаптивный веб"},
			{Question: "Планируется ли монетизация?", SuggestedAnswer: "Подписка"},
			{Question: "Нужна ли интеграция с платежами?", SuggestedAnswer: "Да, через внешний провайдер"},
		},
		Palette: entity.ColorPalette{
			Primary:    "#6366f1",
			Secondary:  "#a855f7",
			Background: "#0f172a",
			Surface:    "#1e293b",
			Text:       "#f8fafc",
		},
		ThemeMode: entity.ThemeModeDark,
	}

	ctxzap.Info(ctx, "[MOCK] idea analyzed", zap.String("title", resp.Title))
	return resp, nil
}

// GenerateArchitecture - мок архитектуры
func (m *MockConnector) GenerateArchitecture(ctx context.Context, analysis entity.AnalysisResult) (*entity.ArchitectureResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating architecture")

	return &entity.ArchitectureResult{
		Frontend: []string{"React", "TypeScript"},
		Backend:  []string{"Go", "chi"},
		Database: []string{"PostgreSQL"},
		Devops:   []string{"Docker", "GitHub Actions"},
		Modules: []entity.ModuleDefinition{
			{Name: "Auth", Description: "Аутентификация пользователей", Interactions: []string{"API"}},
			{Name: "Catalog", Description: "Управление каталогом", Interactions: []string{"API", "Storage"}},
			{Name: "Notifications", Description: "Рассылка уведомлений", Interactions: []string{"Queue"}},
		},
		Rationale: "Проверенный стек для MVP (MOCK)",
		Diagram: entity.Diagram{
			Nodes: []entity.DiagramNode{
				{ID: "web", Label: "Web App", Type: entity.NodeTypeClient},
				{ID: "api", Label: "API", Type: entity.NodeTypeService},
				{ID: "db", Label: "PostgreSQL", Type: entity.NodeTypeDatabase},
				{ID: "pay", Label: "Payments", Type: entity.NodeTypeExternal},
			},
			Edges: []entity.DiagramEdge{
				{From: "web", To: "api", Label: "JSON"},
				{From: "api", To: "db", Label: "SQL"},
				{From: "api", To: "pay", Label: "HTTPS"},
			},
		},
	}, nil
}

// GeneratePlan - мок плана
func (m *MockConnector) GeneratePlan(ctx context.Context, analysis entity.AnalysisResult, architecture entity.ArchitectureResult) (*entity.PlanResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating plan")

	tasks := make([]entity.Task, 0, len(architecture.Modules))
	for _, mod := range architecture.Modules {
		tasks = append(tasks, entity.Task{
			Name:        "Реализовать " + mod.Name,
			Description: mod.Description,
			Complexity:  entity.ComplexityMedium,
		})
	}

	return &entity.PlanResult{
		Phases: []entity.Phase{
			{Name: "Discovery", Duration: "1 неделя", Tasks: []entity.Task{
				{Name: "Уточнить требования", Description: "Интервью с заказчиком", Complexity: entity.ComplexityLow},
			}},
			{Name: "MVP", Duration: "4 недели", Tasks: tasks},
		},
		Risks:         []string{"Сдвиг сроков", "Нехватка данных"},
		MVPDefinition: "Базовые функции: " + strings.Join(analysis.CoreFeatures, ", "),
	}, nil
}

// GenerateDocumentation - мок документации
func (m *MockConnector) GenerateDocumentation(ctx context.Context, project entity.ProjectData) (*entity.DocsResult, error) {
	ctxzap.Info(ctx, "[MOCK] generating documentation")

	title := "Проект"
	if project.Analysis != nil {
		title = project.Analysis.Title
	}

	prd := fmt.Sprintf(`# %s

## Executive Summary
%s

## Problem & Solution
- **Проблема:** описана пользователем
- **Решение:** сервис на базе идеи

## Technical Architecture
Стек подобран агентом-архитектором.

## Roadmap
1. Discovery
2. MVP

## Risk Analysis
- Сдвиг сроков

*Документ сгенерирован автоматически (MOCK)*`, title, project.OriginalIdea)

	return &entity.DocsResult{
		PRD:         prd,
		DesignStyle: entity.DesignStyleTech,
		Slides: []entity.Slide{
			{Title: title, Content: "Идея, которая меняет рынок", SpeakerNotes: "Приветствие", Layout: entity.SlideLayoutTitle},
			{Title: "Проблема", Content: "- Долго\n- Дорого", SpeakerNotes: "Боль клиента", Layout: entity.SlideLayoutBulletList},
			{Title: "Рынок", Content: "10M\nпотенциальных пользователей", SpeakerNotes: "Цифры", Layout: entity.SlideLayoutBigNumber},
			{Title: "До и после", Content: "Вручную\nАвтоматически", SpeakerNotes: "Сравнение", Layout: entity.SlideLayoutSplit},
			{Title: "Миссия", Content: "Делать сложное простым", SpeakerNotes: "Финал", Layout: entity.SlideLayoutQuote},
		},
	}, nil
}

// GenerateAppVisual - мок визуала
func (m *MockConnector) GenerateAppVisual(ctx context.Context, summary string, mode entity.ThemeMode, brandColor string, palette entity.ColorPalette) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating app visual", zap.String("theme_mode", string(mode)))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(mockPNG), nil
}

// RouteAgentMessage - мок маршрутизации сообщений
func (m *MockConnector) RouteAgentMessage(ctx context.Context, message string, agentCtx entity.AgentContext) (*entity.AgentReply, error) {
	ctxzap.Info(ctx, "[MOCK] routing chat message")

	agent := entity.AgentPersonaAnalyst
	switch {
	case len(agentCtx.RoadmapPhases) > 0:
		agent = entity.AgentPersonaPlanner
	case len(agentCtx.TechStack) > 0:
		agent = entity.AgentPersonaArchitect
	}

	return &entity.AgentReply{
		AgentName: agent,
		Text:      fmt.Sprintf("(MOCK) Ответ на сообщение: %s", message),
	}, nil
}
