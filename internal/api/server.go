package api

import (
	"net/http"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/docs"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/middleware"
	projectapi "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/project"
	workspaceapi "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/api/workspace"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	projectHandler *projectapi.Handler,
	workspaceHandler *workspaceapi.Handler,
	m *metrics.Metrics,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.Metrics(m))                   // Count requests
	r.Use(middleware.CORS(allowedOrigins))         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	projectapi.RegisterRoutes(r, projectHandler)
	workspaceapi.RegisterRoutes(r, workspaceHandler)

	return r
}
