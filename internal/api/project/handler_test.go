package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/repository"
	projectuc "github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/project"
)

type exportCounter map[string]int

func (c exportCounter) RecordExport(format, status string) { c[format+"/"+status]++ }

func newRouter(t *testing.T) (http.Handler, *repository.ProjectMemory, exportCounter) {
	t.Helper()
	repo := repository.NewProjectMemory()
	uc := projectuc.NewUsecase(repo, repository.NewLegacyMemory(), formatter.NewFactory(), zap.NewNop())
	exports := exportCounter{}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, exports))
	return r, repo, exports
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestListProjects(t *testing.T) {
	r, repo, _ := newRouter(t)

	rec := serve(r, http.MethodGet, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"projects":[]}`, rec.Body.String())

	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "a", Timestamp: 1, OriginalIdea: "first"}))
	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "b", Timestamp: 2, OriginalIdea: "second"}))

	rec = serve(r, http.MethodGet, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp entity.ListProjectsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, "b", resp.Projects[0].ID)
	assert.Equal(t, "Новый проект", resp.Projects[0].Title)
}

func TestGetAndDeleteProject(t *testing.T) {
	r, repo, _ := newRouter(t)
	require.NoError(t, repo.Put(context.Background(), entity.ProjectData{ID: "a", Timestamp: 1, OriginalIdea: "idea"}))

	rec := serve(r, http.MethodGet, "/projects/a")
	require.Equal(t, http.StatusOK, rec.Code)
	var p entity.ProjectData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "idea", p.OriginalIdea)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodDelete, "/projects/a").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/projects/a").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/projects/a").Code)
}

func TestExportProject(t *testing.T) {
	r, repo, exports := newRouter(t)
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, entity.ProjectData{
		ID: "done", Timestamp: 1, OriginalIdea: "idea",
		Analysis:      &entity.AnalysisResult{Title: "Spa Tycoon"},
		Documentation: &entity.DocsResult{PRD: "# Spa Tycoon\n\nBody", DesignStyle: entity.DesignStyleMinimal},
	}))
	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "draft", Timestamp: 1, OriginalIdea: "idea"}))

	rec := serve(r, http.MethodGet, "/projects/done/export/prd-md")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Spa Tycoon\n\nBody\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	assert.Equal(t, http.StatusConflict, serve(r, http.MethodGet, "/projects/draft/export/prd-md").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/projects/done/export/rtf").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/projects/nope/export/prd-md").Code)

	assert.Equal(t, 1, exports["prd-md/ok"])
	assert.Equal(t, 2, exports["prd-md/error"])
	assert.Equal(t, 1, exports["unknown/error"])
}
