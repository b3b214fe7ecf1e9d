package common

import (
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/config"
	pkgHTTP "github.com/Mr-WhoAm-I/AI-Project-Architect/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds an outbound JSON connector from the shared client
// settings. Request logging wraps the auth transport so tokens stay out of
// the logs.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}
