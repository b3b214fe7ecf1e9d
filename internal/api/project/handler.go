package project

import (
	"context"
	"errors"
	"net/http"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/logger"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ProjectUsecase
	exports ExportRecorder
}

func NewHandler(usecase ProjectUsecase, exports ExportRecorder) *Handler {
	return &Handler{
		usecase: usecase,
		exports: exports,
	}
}

// ListProjects handles GET /projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListProjects")

	items, err := h.usecase.LoadHistory(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "projects listed successfully", zap.Int("count", len(items)))
	response.Success(w, toListProjectsResponse(items))
}

// GetProject handles GET /projects/{project_id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "project_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("project_id", projectID),
		zap.String("action", "GetProject"),
	)

	proj, err := h.usecase.GetProject(ctx, projectID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "project fetched successfully")
	response.Success(w, proj)
}

// DeleteProject handles DELETE /projects/{project_id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "project_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("project_id", projectID),
		zap.String("action", "DeleteProject"),
	)

	if err := h.usecase.DeleteProject(ctx, projectID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "project deleted successfully")
	response.Success(w, &entity.DeleteProjectResponse{Status: "deleted"})
}

// ExportProject handles GET /projects/{project_id}/export/{format}
func (h *Handler) ExportProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "project_id")
	format := entity.ExportFormat(chi.URLParam(r, "format"))
	ctx := logger.AddFields(r.Context(),
		zap.String("project_id", projectID),
		zap.String("format", string(format)),
		zap.String("action", "ExportProject"),
	)

	res, err := h.usecase.ExportProject(ctx, projectID, format)
	if err != nil {
		h.recordExport(format, "error")
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.recordExport(format, "ok")
	ctxzap.Info(ctx, "project exported", zap.Int("bytes", len(res.Content)))
	response.Attachment(w, res.ContentType, res.FileName, res.Content)
}

func (h *Handler) recordExport(format entity.ExportFormat, status string) {
	if h.exports == nil {
		return
	}
	if !format.IsValid() {
		format = "unknown"
	}
	h.exports.RecordExport(string(format), status)
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
	case errors.Is(err, entity.ErrProjectNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "project not found", err)
	case errors.Is(err, entity.ErrInvalidParameter):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrUnsupportedFormat):
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported export format", err)
	case errors.Is(err, entity.ErrDocsMissing):
		h.respondError(ctx, w, http.StatusConflict, "documentation is not generated yet", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
