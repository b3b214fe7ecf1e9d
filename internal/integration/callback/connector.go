package callback

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/integration/common"
	pkghttp "github.com/Mr-WhoAm-I/AI-Project-Architect/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector delivers workspace events to client supplied callback URLs.
// An empty URL means the client polls instead, and nothing is sent.
type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	now       func() time.Time
}

func NewConnector(cfg config.CallbackConnectorConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		now:       time.Now,
	}
}

// SendWorkspaceUpdated reports that an operation finished and the workspace
// has a new state.
func (c *Connector) SendWorkspaceUpdated(ctx context.Context, callbackURL, requestID string, data *entity.CallbackWorkspaceUpdatedData) {
	err := c.Send(ctx, callbackURL, requestID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeWorkspaceUpdated,
		Data:  data,
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send workspace updated callback", zap.Error(err))
	}
}

// SendError sends an error event to the specified callback URL
func (c *Connector) SendError(ctx context.Context, callbackURL, requestID, message string, details map[string]any) {
	err := c.Send(ctx, callbackURL, requestID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeError,
		Data: &entity.CallbackErrorData{
			Error: entity.CallbackErrorDetails{
				Message: message,
				Details: details,
			},
		},
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to send error callback", zap.Error(err))
	}
}

func (c *Connector) Send(ctx context.Context, callbackURL, requestID string, event *entity.CallbackEvent) error {
	if callbackURL == "" {
		return nil
	}
	if event.Timestamp == "" {
		event.Timestamp = c.now().UTC().Format(time.RFC3339)
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("request_id", requestID),
	))
	ctxzap.Debug(ctx, "sending callback event", zap.String("timestamp", event.Timestamp))

	opts := []pkghttp.RequestOpt{
		pkghttp.WithHeader("X-Request-ID", requestID),
		pkghttp.WithURL(callbackURL),
	}

	err := c.config.Retry.Do(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, "", event, nil, opts...)
	}, pkghttp.IsRetryable)
	if err != nil {
		return fmt.Errorf("failed to send callback, event_type: %s, url: %s, error: %w", event.Event, callbackURL, err)
	}

	ctxzap.Info(ctx, "callback sent successfully")
	return nil
}
