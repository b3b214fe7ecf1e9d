package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api"
	projectapi "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/project"
	workspaceapi "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/workspace"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/diagram"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/integration/callback"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/integration/llm"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/metrics"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"
)

// core is what both the HTTP server and the Telegram bot run on.
type core struct {
	cfg        *config.Config
	logger     *zap.Logger
	storage    *storage
	metrics    *metrics.Metrics
	formatters *formatter.Factory
	projectUC  *project.ProjectUsecase
	registry   *orchestrator.Registry
}

func buildCore(ctx context.Context) (*core, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("storage_driver", cfg.StorageDriver),
	)

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	var gateway llm.Gateway
	if cfg.EnableMocks {
		logger.Info("Using mock AI gateway")
		gateway = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using Gemini AI gateway",
			zap.String("text_model", cfg.LLMConnectorCfg.TextModel),
			zap.String("image_model", cfg.LLMConnectorCfg.ImageModel),
		)
		gemini, err := llm.NewGeminiConnector(ctx, cfg.LLMConnectorCfg, logger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create AI gateway: %w", err)
		}
		gateway = gemini
	}
	gateway = llm.NewInstrumented(gateway, m)

	if cfg.OfficeLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.OfficeLicenseKey); err != nil {
			logger.Warn("DOCX/PPTX export is unavailable", zap.Error(err))
		}
	}
	formatters := formatter.NewFactory()
	projectUC := project.NewUsecase(store.projects, store.legacy, formatters, logger)

	registry, err := orchestrator.NewRegistry(
		cfg.WorkspaceCfg.MaxLive,
		store.projects,
		gateway,
		m,
		orchestrator.WithRecorder(m),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create workspace registry: %w", err)
	}
	logger.Info("Use cases initialized", zap.Int("max_live_workspaces", cfg.WorkspaceCfg.MaxLive))

	return &core{
		cfg:        cfg,
		logger:     logger,
		storage:    store,
		metrics:    m,
		formatters: formatters,
		projectUC:  projectUC,
		registry:   registry,
	}, nil
}

func Build() (*App, error) {
	ctx := context.Background()

	c, err := buildCore(ctx)
	if err != nil {
		return nil, err
	}
	cfg, logger := c.cfg, c.logger

	// Import any legacy record before the first request.
	c.projectUC.Migrate(ctx)

	layouts, err := diagram.NewMemo(cfg.WorkspaceCfg.LayoutMemoSize)
	if err != nil {
		c.storage.Close()
		return nil, fmt.Errorf("create layout memo: %w", err)
	}

	callbackConnector := callback.NewConnector(cfg.CallbackConnectorCfg, logger)

	projectHandler := projectapi.NewHandler(c.projectUC, c.metrics)
	workspaceHandler := workspaceapi.NewHandler(c.registry, c.formatters, layouts, callbackConnector)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(projectHandler, workspaceHandler, c.metrics, c.cfg.CORSAllowedOrigins, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	app := &App{
		server:     server,
		storage:    c.storage,
		workspaces: workspaceHandler,
		logger:     logger,
	}

	if cfg.TelegramCfg.BotToken != "" {
		bot, err := telegram.NewBot(&cfg.TelegramCfg, c.registry, c.projectUC, c.formatters, logger)
		if err != nil {
			c.storage.Close()
			return nil, fmt.Errorf("initialize telegram bot: %w", err)
		}
		app.bot = bot
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.Bool("telegram", app.bot != nil),
	)

	return app, nil
}

// BuildTelegramBot creates a standalone Telegram bot. The returned cleanup
// releases storage once the bot has stopped.
func BuildTelegramBot() (telegram.Bot, *zap.Logger, func(), error) {
	ctx := context.Background()

	c, err := buildCore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	if c.cfg.TelegramCfg.BotToken == "" {
		c.storage.Close()
		return nil, nil, nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	bot, err := telegram.NewBot(&c.cfg.TelegramCfg, c.registry, c.projectUC, c.formatters, c.logger)
	if err != nil {
		c.storage.Close()
		return nil, nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	c.logger.Info("Telegram bot built successfully",
		zap.String("environment", c.cfg.Environment),
	)

	return bot, c.logger, c.storage.Close, nil
}
