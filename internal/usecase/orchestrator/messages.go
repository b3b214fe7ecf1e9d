package orchestrator

import "fmt"

// Agent labels shown next to chat messages.
const (
	agentAnalyst        = "Analyst"
	agentArchitect      = "Architect"
	agentPlanner        = "Planner"
	agentProjectManager = "Project Manager"
	agentSystem         = "System"
)

const (
	msgAnalysisReady     = "Я проанализировал вашу идею и подобрал уникальный визуальный стиль. Пожалуйста, проверьте требования."
	msgConfirmed         = "Все отлично, продолжаем!"
	msgHandoffArchitect  = "Принято. Передаю данные Архитектору для проектирования системы."
	msgArchitectureReady = "Архитектура готова. Перехожу к планированию этапов разработки."
	msgPlanReady         = "План составлен. Генерирую финальную документацию и презентацию."
	msgDocsReady         = "Готово! Вы можете скачать ТЗ и презентацию на панели справа."
	msgGenericError      = "Произошла ошибка при обработке запроса. Попробуйте еще раз."
)

// Step names reported while a request is in flight.
const (
	stepAnalysis     = "Анализ идеи..."
	stepArchitecture = "Архитектура..."
	stepPlan         = "Планирование..."
	stepDocs         = "Документация..."
	stepThinking     = "Думаю..."
)

const restoredMessageID = "restored"

func restoredText(title string) string {
	return fmt.Sprintf("Проект \"%s\" загружен.", title)
}

// Operation names for metrics.
const (
	opSubmitIdea      = "submit_idea"
	opConfirmAnalysis = "confirm_analysis"
	opSendMessage     = "send_message"
	opLoadProject     = "load_project"
	opVisual          = "app_visual"
)
