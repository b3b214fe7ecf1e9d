package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

const (
	// Welcome messages
	MsgWelcome = `👋 Привет! Я AI Project Architect.

Опиши идею своего продукта в паре предложений, и команда агентов превратит её в:
• Анализ и уточняющие вопросы
• Архитектуру и диаграмму компонентов
• План разработки
• PRD и презентацию для инвесторов`

	MsgHelp = `🤖 Команды бота:

/start - Начать заново
/new - Новый проект
/confirm - Подтвердить анализ и запустить архитектора
/history - Сохранённые проекты
/load <id> - Открыть сохранённый проект
/help - Показать эту справку

Как это работает:
1. Опиши идею
2. Проверь анализ и ответы на вопросы
3. Нажми "Подтвердить"
4. Получи архитектуру, план и документы
5. Задавай вопросы агентам в чате`

	MsgNewProject = `🆕 Новый проект. Опиши свою идею.`

	MsgProcessing = `⏳ %s`

	MsgAnalysisConfirm = `Если всё верно, нажми "Подтвердить". Агенты используют предложенные ответы на вопросы.`

	MsgDocsReady = `✅ Документация готова. Выбери формат для скачивания:`

	MsgNoHistory = `📁 Сохранённых проектов пока нет.`

	MsgHistoryHeader = `📁 Сохранённые проекты:`

	MsgLoadUsage = `Укажи id проекта: /load <id>. Список проектов: /history`

	MsgVisualCaption = `🎨 Концепт интерфейса`

	// Errors
	ErrGeneric            = `❌ Произошла ошибка. Попробуйте ещё раз или нажмите /start`
	ErrUnknownCommand     = `❌ Неизвестная команда. Используйте /help`
	ErrBusy               = `⏳ Агенты ещё работают над предыдущим запросом. Подожди немного.`
	ErrEmptyIdea          = `❌ Сообщение пустое. Опиши идею текстом.`
	ErrAnalysisMissing    = `❌ Анализа ещё нет. Сначала опиши идею.`
	ErrAnalysisLocked     = `❌ Анализ уже подтверждён. Начни новый проект с /new`
	ErrDocsMissing        = `❌ Документация ещё не готова.`
	ErrProjectNotFound    = `❌ Проект не найден. Список проектов: /history`
	ErrMissingCredential  = `❌ Сервис AI не настроен. Обратитесь к администратору.`
	ErrNetworkIssue       = `❌ Проблема с соединением. Попробуй чуть позже.`
	ErrServiceUnavailable = `❌ Сервис временно недоступен. Попробуй через пару минут.`
	ErrTimeout            = `❌ Операция заняла слишком много времени. Попробуй ещё раз.`
	ErrQuotaExceeded      = `❌ Превышен лимит запросов. Подожди немного.`
)

// RenderProcessing formats the progress line for a pipeline step.
func RenderProcessing(step string) string {
	return fmt.Sprintf(MsgProcessing, step)
}

// RenderChatMessage formats one transcript entry for the chat.
func RenderChatMessage(m entity.ChatMessage) string {
	if m.Sender == entity.SenderUser || m.AgentName == "" {
		return m.Text
	}
	return fmt.Sprintf("🤖 %s\n\n%s", m.AgentName, m.Text)
}

// Appended returns the transcript entries added between two snapshots. If
// the transcript was replaced, only its last entry is returned.
func Appended(before, after []entity.ChatMessage) []entity.ChatMessage {
	n := len(before)
	if n == 0 {
		return after
	}
	if len(after) >= n && after[n-1].ID == before[n-1].ID {
		return after[n:]
	}
	if len(after) == 0 {
		return nil
	}
	return after[len(after)-1:]
}

// RenderAnalysis formats the analysis card shown before confirmation.
func RenderAnalysis(a *entity.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s\n\n%s\n", a.Title, a.Summary)

	if len(a.TargetAudience) > 0 {
		sb.WriteString("\n👥 Аудитория:\n")
		writeBullets(&sb, a.TargetAudience)
	}
	if len(a.CoreFeatures) > 0 {
		sb.WriteString("\n⭐ Ключевые функции:\n")
		writeBullets(&sb, a.CoreFeatures)
	}
	if len(a.Questions) > 0 {
		sb.WriteString("\n❓ Уточняющие вопросы:\n")
		for i, q := range a.Questions {
			fmt.Fprintf(&sb, "%d. %s\n   → %s\n", i+1, q.Question, q.Answer())
		}
	}
	sb.WriteString("\n")
	sb.WriteString(MsgAnalysisConfirm)
	return sb.String()
}

// RenderHistory lists saved projects, newest first as given.
func RenderHistory(items []entity.ProjectHistoryItem) string {
	if len(items) == 0 {
		return MsgNoHistory
	}
	var sb strings.Builder
	sb.WriteString(MsgHistoryHeader)
	sb.WriteString("\n")
	for i, it := range items {
		fmt.Fprintf(&sb, "\n%d. %s\n   /load %s\n", i+1, it.Title, it.ID)
	}
	return sb.String()
}

func writeBullets(sb *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(sb, "• %s\n", it)
	}
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	switch {
	case errors.Is(err, entity.ErrRequestInFlight):
		return ErrBusy
	case errors.Is(err, entity.ErrEmptyIdea):
		return ErrEmptyIdea
	case errors.Is(err, entity.ErrAnalysisMissing):
		return ErrAnalysisMissing
	case errors.Is(err, entity.ErrAnalysisLocked):
		return ErrAnalysisLocked
	case errors.Is(err, entity.ErrDocsMissing):
		return ErrDocsMissing
	case errors.Is(err, entity.ErrProjectNotFound):
		return ErrProjectNotFound
	case errors.Is(err, entity.ErrMissingCredential):
		return ErrMissingCredential
	}

	// Check for timeout errors
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	// Check for syscall errors (connection refused, etc.)
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return ErrServiceUnavailable
		}
		if opErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	// Check error message for common patterns
	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "quota"), strings.Contains(errMsg, "resource_exhausted"), strings.Contains(errMsg, "429"):
		return ErrQuotaExceeded
	case strings.Contains(errMsg, "unavailable"), strings.Contains(errMsg, "connection refused"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "timeout"):
		return ErrTimeout
	}

	return ErrGeneric
}
