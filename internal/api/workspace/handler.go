package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/diagram"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/logger"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/response"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/validator"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/theme"
	projectuc "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	registry     WorkspaceRegistry
	formatters   FormatterFactory
	layouts      LayoutMemo
	callbackConn CallbackConnector

	// inflight tracks background pipeline runs for graceful shutdown.
	inflight sync.WaitGroup
}

func NewHandler(
	registry WorkspaceRegistry,
	formatters FormatterFactory,
	layouts LayoutMemo,
	callbackConn CallbackConnector,
) *Handler {
	return &Handler{
		registry:     registry,
		formatters:   formatters,
		layouts:      layouts,
		callbackConn: callbackConn,
	}
}

// Wait blocks until every accepted operation has finished.
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// CreateWorkspace handles POST /workspaces
func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateWorkspace")

	ws := h.registry.Create()

	ctxzap.Info(ctx, "workspace created", zap.String("workspace_id", ws.ID()))
	response.JSON(w, http.StatusCreated, ws.Snapshot())
}

// GetWorkspace handles GET /workspaces/{workspace_id}
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "GetWorkspace")
	if !ok {
		return
	}

	ctxzap.Debug(ctx, "workspace fetched")
	response.Success(w, ws.Snapshot())
}

// Reset handles POST /workspaces/{workspace_id}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "Reset")
	if !ok {
		return
	}

	if err := ws.StartNewProject(ctx); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, ws.Snapshot())
}

// SubmitIdea handles POST /workspaces/{workspace_id}/idea
func (h *Handler) SubmitIdea(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "SubmitIdea")
	if !ok {
		return
	}

	var req entity.SubmitIdeaRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	if err := validator.ValidateSubmitIdea(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}
	res, ok := h.reserve(ctx, w, ws, orchestrator.OpSubmitIdea)
	if !ok {
		return
	}

	ctxzap.Info(ctx, "submitting idea", zap.Int("idea_bytes", len(req.Idea)))
	h.runAsync(ctx, r, ws, "SubmitIdea", req.CallbackURL, func(bgCtx context.Context) error {
		return res.SubmitIdea(bgCtx, req.Idea)
	})
	response.Accepted(w, "analysis is being processed")
}

// ConfirmAnalysis handles POST /workspaces/{workspace_id}/confirm
func (h *Handler) ConfirmAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "ConfirmAnalysis")
	if !ok {
		return
	}

	var req entity.ConfirmAnalysisRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	if err := validator.ValidateConfirmAnalysis(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	res, ok := h.reserve(ctx, w, ws, orchestrator.OpConfirmAnalysis)
	if !ok {
		return
	}

	state := ws.Snapshot()
	switch {
	case state.Project.Analysis == nil:
		res.Release()
		h.handleUsecaseError(ctx, w, entity.ErrAnalysisMissing)
		return
	case state.Project.Architecture != nil:
		res.Release()
		h.handleUsecaseError(ctx, w, entity.ErrAnalysisLocked)
		return
	}

	analysis := *req.Analysis
	h.runAsync(ctx, r, ws, "ConfirmAnalysis", req.CallbackURL, func(bgCtx context.Context) error {
		return res.ConfirmAnalysis(bgCtx, analysis)
	})
	response.Accepted(w, "architecture, plan and documentation are being generated")
}

// SendMessage handles POST /workspaces/{workspace_id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "SendMessage")
	if !ok {
		return
	}

	var req entity.SendMessageRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	if err := validator.ValidateSendMessage(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}
	res, ok := h.reserve(ctx, w, ws, orchestrator.OpSendMessage)
	if !ok {
		return
	}

	h.runAsync(ctx, r, ws, "SendMessage", req.CallbackURL, func(bgCtx context.Context) error {
		return res.SendMessage(bgCtx, req.Text)
	})
	response.Accepted(w, "message is being processed")
}

// LoadProject handles POST /workspaces/{workspace_id}/load
func (h *Handler) LoadProject(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "LoadProject")
	if !ok {
		return
	}

	var req entity.LoadProjectRequest
	if !h.decode(ctx, w, r, &req) {
		return
	}
	if err := validator.ValidateLoadProject(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed", err)
		return
	}

	if err := ws.LoadProject(ctx, req.ProjectID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, ws.Snapshot())
}

// Theme handles GET /workspaces/{workspace_id}/theme.css
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	_, ws, ok := h.workspace(w, r, "Theme")
	if !ok {
		return
	}

	css := theme.CSS(theme.ForProject(ws.Snapshot().Project))
	response.Raw(w, "text/css; charset=utf-8", []byte(css))
}

// Diagram handles GET /workspaces/{workspace_id}/diagram.svg
func (h *Handler) Diagram(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "Diagram")
	if !ok {
		return
	}

	arch := ws.Snapshot().Project.Architecture
	if arch == nil {
		h.handleUsecaseError(ctx, w, entity.ErrArchitectureMissing)
		return
	}

	q := r.URL.Query()
	full, _ := strconv.ParseBool(q.Get("full"))
	vp, err := parseViewport(q)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	res := h.layouts.Layout(arch.Diagram, diagram.CanvasFor(full))

	var buf bytes.Buffer
	if err := diagram.RenderSVG(&buf, res, vp); err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render diagram", err)
		return
	}
	response.Raw(w, "image/svg+xml", buf.Bytes())
}

// Export handles GET /workspaces/{workspace_id}/export/{format}
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, ws, ok := h.workspace(w, r, "Export")
	if !ok {
		return
	}
	format := entity.ExportFormat(chi.URLParam(r, "format"))

	res, err := projectuc.Export(h.formatters, ws.Snapshot().Project, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "workspace exported", zap.String("format", string(format)), zap.Int("bytes", len(res.Content)))
	response.Attachment(w, res.ContentType, res.FileName, res.Content)
}

// runAsync runs op after the response is sent and reports the outcome to
// the callback URL, if one was given.
func (h *Handler) runAsync(ctx context.Context, r *http.Request, ws *orchestrator.Orchestrator, action, callbackURL string, op func(context.Context) error) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = chimiddleware.GetReqID(r.Context())
	}

	bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
		zap.String("request_id", requestID),
		zap.String("action", action+"-async"),
	)

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()

		if err := op(bgCtx); err != nil {
			ctxzap.Error(bgCtx, "workspace operation failed", zap.Error(err))
			h.callbackConn.SendError(bgCtx, callbackURL, requestID, "failed to "+action, map[string]any{
				"workspace_id": ws.ID(),
				"error":        err.Error(),
			})
			return
		}

		h.callbackConn.SendWorkspaceUpdated(bgCtx, callbackURL, requestID, toCallbackWorkspaceUpdated(ws.Snapshot(), action))
	}()
}

func (h *Handler) workspace(w http.ResponseWriter, r *http.Request, action string) (context.Context, *orchestrator.Orchestrator, bool) {
	id := chi.URLParam(r, "workspace_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("workspace_id", id),
		zap.String("action", action),
	)

	ws, err := h.registry.Get(id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return ctx, nil, false
	}
	return ctx, ws, true
}

func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// reserve holds the workspace before the request is accepted, so an
// overlapping request gets 409 instead of a second 202.
func (h *Handler) reserve(ctx context.Context, w http.ResponseWriter, ws *orchestrator.Orchestrator, op orchestrator.Operation) (*orchestrator.Reservation, bool) {
	res, err := ws.Begin(op)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return nil, false
	}
	return res, true
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrWorkspaceNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "workspace not found", err)
	case errors.Is(err, entity.ErrProjectNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "project not found", err)
	case errors.Is(err, entity.ErrRequestInFlight):
		h.respondError(ctx, w, http.StatusConflict, "another request is in progress", err)
	case errors.Is(err, entity.ErrAnalysisMissing),
		errors.Is(err, entity.ErrAnalysisLocked),
		errors.Is(err, entity.ErrArchitectureMissing),
		errors.Is(err, entity.ErrDocsMissing):
		h.respondError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
