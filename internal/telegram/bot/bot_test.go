package bot

import (
	"context"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/integration/llm"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/repository"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram/render"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
	projectuc "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
)

type fakeAPI struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	docs     []tgbotapi.DocumentConfig
	photos   []tgbotapi.PhotoConfig
	answered []string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := c.(type) {
	case tgbotapi.MessageConfig:
		f.messages = append(f.messages, v)
	case tgbotapi.DocumentConfig:
		f.docs = append(f.docs, v)
	case tgbotapi.PhotoConfig:
		f.photos = append(f.photos, v)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.answered = append(f.answered, cb.CallbackQueryID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages, f.docs, f.photos, f.answered = nil, nil, nil, nil
}

type testEnv struct {
	bot      *Bot
	api      *fakeAPI
	registry *orchestrator.Registry
	repo     *repository.ProjectMemory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewProjectMemory()
	registry, err := orchestrator.NewRegistry(8, repo, llm.NewMockConnector(zap.NewNop()), nil)
	require.NoError(t, err)

	formatters := formatter.NewFactory()
	history := projectuc.NewUsecase(repo, repository.NewLegacyMemory(), formatters, zap.NewNop())
	cfg := &config.TelegramConfig{RateLimitPerMinute: 60, RateLimitBurst: 5, ShutdownTimeout: 5}

	api := &fakeAPI{}
	b := newBot(api, cfg, registry, history, formatters, zap.NewNop())
	t.Cleanup(b.rateLimitMW.Stop)
	return &testEnv{bot: b, api: api, registry: registry, repo: repo}
}

// handle processes one update and waits for background sends.
func (e *testEnv) handle(u tgbotapi.Update) {
	e.bot.handleUpdate(u)
	e.bot.wg.Wait()
}

func textMsg(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{UpdateID: 1, Message: msg}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{UpdateID: 2, CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: 2, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func TestBot_FullPipeline(t *testing.T) {
	env := newTestEnv(t)

	env.handle(textMsg(42, "/start"))
	assert.Equal(t, []string{render.MsgWelcome}, env.api.texts())
	env.api.reset()

	env.handle(textMsg(42, "Uber для выгула собак"))
	texts := env.api.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, render.RenderProcessing(stepAnalyze), texts[0])
	assert.True(t, strings.HasPrefix(texts[1], "🤖 Analyst\n\n"))
	assert.True(t, strings.HasPrefix(texts[2], "📋 "))
	assert.NotNil(t, env.api.messages[2].ReplyMarkup, "analysis card carries the confirm button")
	require.Len(t, env.api.photos, 1, "app visual is sent once ready")
	assert.Equal(t, render.MsgVisualCaption, env.api.photos[0].Caption)
	env.api.reset()

	env.handle(callback(42, "confirm:analysis"))
	assert.Equal(t, []string{"cb-confirm:analysis"}, env.api.answered)
	texts = env.api.texts()
	require.Len(t, texts, 6, "processing, four agent messages, download menu")
	assert.True(t, strings.HasPrefix(texts[1], "🤖 Analyst"))
	assert.True(t, strings.HasPrefix(texts[2], "🤖 Architect"))
	assert.True(t, strings.HasPrefix(texts[3], "🤖 Planner"))
	assert.True(t, strings.HasPrefix(texts[4], "🤖 Project Manager"))
	assert.Equal(t, render.MsgDocsReady, texts[5])
	assert.Empty(t, env.api.photos)

	ws := env.registry.GetOrCreate("tg-42")
	assert.Equal(t, entity.StageDocumentationReady, ws.Snapshot().Stage)
	env.api.reset()

	env.handle(callback(42, "dl:prd-md"))
	require.Len(t, env.api.docs, 1)
	file, ok := env.api.docs[0].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(file.Name, ".md"))
	assert.NotEmpty(t, file.Bytes)
}

func TestBot_ConfirmWithoutAnalysis(t *testing.T) {
	env := newTestEnv(t)

	env.handle(textMsg(1, "/confirm"))
	assert.Equal(t, []string{render.ErrAnalysisMissing}, env.api.texts())
}

func TestBot_DownloadBeforeDocs(t *testing.T) {
	env := newTestEnv(t)

	env.handle(callback(1, "dl:prd-pdf"))
	assert.Equal(t, []string{render.ErrDocsMissing}, env.api.texts())
	assert.Empty(t, env.api.docs)
}

func TestBot_HistoryAndLoad(t *testing.T) {
	env := newTestEnv(t)

	env.handle(textMsg(1, "/history"))
	assert.Equal(t, []string{render.MsgNoHistory}, env.api.texts())
	env.api.reset()

	saved, err := env.repo.Save(context.Background(), entity.ProjectData{
		OriginalIdea: "Todo app",
		Analysis:     &entity.AnalysisResult{Title: "Todo"},
	})
	require.NoError(t, err)

	env.handle(textMsg(1, "/history"))
	texts := env.api.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "/load "+saved.ID)
	assert.NotNil(t, env.api.messages[0].ReplyMarkup)
	env.api.reset()

	env.handle(textMsg(2, "/load "+saved.ID))
	texts = env.api.texts()
	require.Len(t, texts, 3, "processing, restored message, analysis card")
	assert.Equal(t, "🤖 System\n\nПроект \"Todo\" загружен.", texts[1])
	assert.True(t, strings.HasPrefix(texts[2], "📋 Todo"))
	assert.Empty(t, env.api.photos, "saved project has no visual")
	env.api.reset()

	env.handle(textMsg(2, "/load missing"))
	assert.Equal(t, []string{render.RenderProcessing(stepLoad), render.ErrProjectNotFound}, env.api.texts())
	env.api.reset()

	env.handle(textMsg(2, "/load"))
	assert.Equal(t, []string{render.MsgLoadUsage}, env.api.texts())
}

func TestBot_UnknownCommandAndBadCallback(t *testing.T) {
	env := newTestEnv(t)

	env.handle(textMsg(1, "/nope"))
	assert.Equal(t, []string{render.ErrUnknownCommand}, env.api.texts())

	env.handle(callback(1, "garbage"))
	assert.Equal(t, []string{"cb-garbage"}, env.api.answered)
	assert.Len(t, env.api.texts(), 1)
}

func TestBot_ChatAfterAnalysis(t *testing.T) {
	env := newTestEnv(t)

	env.handle(textMsg(7, "Маркетплейс репетиторов"))
	env.api.reset()

	env.handle(textMsg(7, "Какие риски?"))
	texts := env.api.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, render.RenderProcessing(stepThink), texts[0])
	assert.Contains(t, texts[1], "Какие риски?")
	assert.Empty(t, env.api.photos, "visual is not resent for chat replies")
}

func TestDecodeDataURI(t *testing.T) {
	b, err := decodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	_, err = decodeDataURI("https://example.com/a.png")
	assert.Error(t, err)
	_, err = decodeDataURI("data:image/png,raw")
	assert.Error(t, err)
}
