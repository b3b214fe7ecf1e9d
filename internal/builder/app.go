package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	workspaceapi "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/workspace"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/telegram"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App represents the application with all its components
type App struct {
	server     *http.Server
	storage    *storage
	workspaces *workspaceapi.Handler
	bot        telegram.Bot // nil unless a bot token is configured
	logger     *zap.Logger
}

// Run starts the application and all its daemons
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	if a.bot != nil {
		if err := a.bot.Start(ctx); err != nil {
			a.logger.Error("Telegram bot failed to start", zap.Error(err))
			a.bot = nil
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

// shutdown stops intake first, then lets accepted pipeline runs finish so
// their final saves land before storage closes.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	if a.bot != nil {
		if err := a.bot.Stop(); err != nil {
			a.logger.Error("Telegram bot shutdown error", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		a.workspaces.Wait()
		close(done)
	}()
	select {
	case <-done:
		a.logger.Info("Workspace operations drained")
	case <-ctx.Done():
		a.logger.Warn("Workspace operations still running at shutdown")
	}

	a.logger.Info("Closing storage")
	a.storage.Close()

	a.logger.Info("Application stopped gracefully")
	return nil
}
