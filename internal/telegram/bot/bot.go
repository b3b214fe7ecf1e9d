package bot

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/logger"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram/keyboard"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram/middleware"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram/render"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
	projectuc "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Steps announced before a long operation.
const (
	stepAnalyze  = "Аналитик изучает идею..."
	stepPipeline = "Архитектор, планировщик и менеджер проекта работают..."
	stepThink    = "Агенты думают..."
	stepLoad     = "Загружаю проект..."
)

const workspacePrefix = "tg-"

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      API
	cfg         *config.TelegramConfig
	workspaces  Workspaces
	history     History
	formatters  FormatterFactory
	keyboard    *keyboard.Builder
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot
func New(
	cfg *config.TelegramConfig,
	workspaces Workspaces,
	history History,
	formatters FormatterFactory,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	b := newBot(api, cfg, workspaces, history, formatters, logger)
	b.api = api
	return b, nil
}

func newBot(
	sender API,
	cfg *config.TelegramConfig,
	workspaces Workspaces,
	history History,
	formatters FormatterFactory,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		sender:      sender,
		cfg:         cfg,
		workspaces:  workspaces,
		history:     history,
		formatters:  formatters,
		keyboard:    keyboard.NewBuilder(),
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, sender),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, sender),
		stopChan:    make(chan struct{}),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot API is not initialized")
	}
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.rateLimitMW.Stop()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, b.handleUpdate)
		})
	})
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx := ctxzap.ToContext(context.Background(), b.logger)

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", chatID))

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		b.sendError(chatID, render.ErrEmptyIdea)
		return
	}

	ws := b.workspace(chatID)
	step := stepThink
	if ws.Snapshot().Project.OriginalIdea == "" {
		step = stepAnalyze
	}
	b.run(ctx, chatID, ws, step, false, func(ctx context.Context) error {
		return ws.SendMessage(ctx, text)
	})
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	command := message.Command()

	ctxzap.Info(ctx, "command received", zap.String("command", command))

	switch command {
	case "start":
		b.newProject(ctx, chatID, render.MsgWelcome)
	case "new":
		b.newProject(ctx, chatID, render.MsgNewProject)
	case "help":
		b.sendText(ctx, chatID, render.MsgHelp, nil)
	case "confirm":
		b.confirm(ctx, chatID)
	case "history":
		b.showHistory(ctx, chatID)
	case "load":
		b.load(ctx, chatID, strings.TrimSpace(message.CommandArguments()))
	default:
		b.sendError(chatID, render.ErrUnknownCommand)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", chatID))

	cb, err := keyboard.ParseCallback(query.Data)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err), zap.String("data", query.Data))
		b.answerCallback(query.ID, "❌ Неверные данные")
		return
	}

	ctxzap.Info(ctx, "callback query received",
		zap.String("action", cb.Action),
		zap.String("value", cb.Value),
	)
	// answer first so Telegram does not mark the query as stale
	b.answerCallback(query.ID, "")

	switch cb.Action {
	case keyboard.ActionConfirm:
		b.confirm(ctx, chatID)
	case keyboard.ActionNew:
		b.newProject(ctx, chatID, render.MsgNewProject)
	case keyboard.ActionLoad:
		b.load(ctx, chatID, cb.Value)
	case keyboard.ActionDownload:
		b.download(ctx, chatID, entity.ExportFormat(cb.Value))
	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", cb.Action))
	}
}

func (b *Bot) newProject(ctx context.Context, chatID int64, greeting string) {
	if err := b.workspace(chatID).StartNewProject(ctx); err != nil {
		b.sendError(chatID, render.ClassifyError(err))
		return
	}
	b.sendText(ctx, chatID, greeting, nil)
}

// confirm accepts the current analysis as shown, with suggested answers
// standing in for any the user did not give.
func (b *Bot) confirm(ctx context.Context, chatID int64) {
	ws := b.workspace(chatID)
	analysis := ws.Snapshot().Project.Analysis
	if analysis == nil {
		b.sendError(chatID, render.ErrAnalysisMissing)
		return
	}
	b.run(ctx, chatID, ws, stepPipeline, false, func(ctx context.Context) error {
		return ws.ConfirmAnalysis(ctx, *analysis)
	})
}

func (b *Bot) showHistory(ctx context.Context, chatID int64) {
	items, err := b.history.LoadHistory(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to load history", zap.Error(err))
		b.sendError(chatID, render.ClassifyError(err))
		return
	}
	if len(items) == 0 {
		b.sendText(ctx, chatID, render.MsgNoHistory, nil)
		return
	}
	b.sendText(ctx, chatID, render.RenderHistory(items), b.keyboard.HistoryKeyboard(items))
}

func (b *Bot) load(ctx context.Context, chatID int64, projectID string) {
	if projectID == "" {
		b.sendText(ctx, chatID, render.MsgLoadUsage, nil)
		return
	}
	ws := b.workspace(chatID)
	b.run(ctx, chatID, ws, stepLoad, true, func(ctx context.Context) error {
		return ws.LoadProject(ctx, projectID)
	})
}

func (b *Bot) download(ctx context.Context, chatID int64, format entity.ExportFormat) {
	project := b.workspace(chatID).Snapshot().Project
	if project.Documentation == nil {
		b.sendError(chatID, render.ErrDocsMissing)
		return
	}

	res, err := projectuc.Export(b.formatters, project, format)
	if err != nil {
		ctxzap.Error(ctx, "export failed", zap.Error(err), zap.String("format", string(format)))
		b.sendError(chatID, render.ClassifyError(err))
		return
	}
	if err := b.SendDocument(chatID, res.FileName, res.Content); err != nil {
		ctxzap.Error(ctx, "failed to send document", zap.Error(err))
		b.sendError(chatID, render.ErrGeneric)
	}
}

// run executes one workspace operation and relays what it added to the
// transcript. An operation that replaces the project relays only the latest
// message. Errors already reported in the transcript are not repeated.
func (b *Bot) run(ctx context.Context, chatID int64, ws *orchestrator.Orchestrator, step string, replaces bool, op func(context.Context) error) {
	before := ws.Snapshot()
	if before.Request.Loading {
		b.sendError(chatID, render.ErrBusy)
		return
	}

	b.sendText(ctx, chatID, render.RenderProcessing(step), nil)
	typing := NewTypingNotifier(b.sender, chatID, b.logger)
	typing.Start(ctx)
	err := op(ctx)
	typing.Stop()

	relayed := b.publish(ctx, chatID, ws, before, ws.Snapshot(), replaces)
	if err != nil {
		ctxzap.Warn(ctx, "workspace operation failed", zap.Error(err))
		if relayed == 0 {
			b.sendError(chatID, render.ClassifyError(err))
		}
	}
}

// publish sends agent messages appended since before, then the analysis
// card and download menu when those stages are new. It returns the number
// of transcript messages relayed.
func (b *Bot) publish(ctx context.Context, chatID int64, ws *orchestrator.Orchestrator, before, after entity.WorkspaceState, replaces bool) int {
	added := render.Appended(before.Project.Messages, after.Project.Messages)
	if replaces && len(added) > 1 {
		added = added[len(added)-1:]
	}

	relayed := 0
	for _, m := range added {
		if m.Sender == entity.SenderUser {
			continue
		}
		b.sendText(ctx, chatID, render.RenderChatMessage(m), nil)
		relayed++
	}

	p := after.Project
	if p.Analysis != nil && p.Analysis != before.Project.Analysis && p.Architecture == nil {
		b.sendText(ctx, chatID, render.RenderAnalysis(p.Analysis), b.keyboard.ConfirmKeyboard())
	}
	if p.Analysis != nil && (before.Project.Analysis == nil || before.Project.ID != p.ID) {
		b.sendVisualWhenReady(ctx, chatID, ws)
	}
	if p.Documentation != nil && p.Documentation != before.Project.Documentation {
		b.sendText(ctx, chatID, render.MsgDocsReady, b.keyboard.DownloadKeyboard())
	}
	return relayed
}

// sendVisualWhenReady waits for the background mockup and sends it as a
// photo. Nothing is sent if generation failed or the project was replaced.
func (b *Bot) sendVisualWhenReady(ctx context.Context, chatID int64, ws *orchestrator.Orchestrator) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ws.Wait()

		uri := ws.Snapshot().Project.AppImage
		if uri == "" {
			return
		}
		img, err := decodeDataURI(uri)
		if err != nil {
			ctxzap.Warn(ctx, "app visual is not a valid data URI", zap.Error(err))
			return
		}

		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "visual.png", Bytes: img})
		photo.Caption = render.MsgVisualCaption
		if _, err := b.sender.Send(photo); err != nil {
			ctxzap.Error(ctx, "failed to send app visual", zap.Error(err))
		}
	}()
}

func (b *Bot) workspace(chatID int64) *orchestrator.Orchestrator {
	return b.workspaces.GetOrCreate(workspacePrefix + strconv.FormatInt(chatID, 10))
}

func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	return b.sender.Send(msg)
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string, replyMarkup interface{}) {
	if _, err := b.sendMessage(chatID, text, replyMarkup); err != nil {
		ctxzap.Error(ctx, "failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	if _, err := b.sendMessage(chatID, text, nil); err != nil {
		b.logger.Error("failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}

// SendDocument sends an exported file.
func (b *Bot) SendDocument(chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := b.sender.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.sender.Request(callback); err != nil {
		b.logger.Error("failed to answer callback",
			zap.Error(err),
			zap.String("callback_id", callbackID),
		)
	}
}

func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("expected a base64 data URI")
	}
	return base64.StdEncoding.DecodeString(payload)
}
