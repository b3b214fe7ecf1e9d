package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/diagram"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/integration/llm"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/repository"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/usecase/orchestrator"
)

type recordedCallback struct {
	url, event string
	data       any
}

type fakeCallbacks struct {
	mu     sync.Mutex
	events []recordedCallback
}

func (f *fakeCallbacks) SendError(_ context.Context, url, _, message string, details map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedCallback{url: url, event: "error", data: details})
}

func (f *fakeCallbacks) SendWorkspaceUpdated(_ context.Context, url, _ string, data *entity.CallbackWorkspaceUpdatedData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedCallback{url: url, event: "workspaceUpdated", data: data})
}

type testEnv struct {
	router    http.Handler
	handler   *Handler
	registry  *orchestrator.Registry
	repo      *repository.ProjectMemory
	callbacks *fakeCallbacks
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewProjectMemory()
	registry, err := orchestrator.NewRegistry(8, repo, llm.NewMockConnector(zap.NewNop()), nil)
	require.NoError(t, err)
	memo, err := diagram.NewMemo(4)
	require.NoError(t, err)

	callbacks := &fakeCallbacks{}
	h := NewHandler(registry, formatter.NewFactory(), memo, callbacks)
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return &testEnv{router: r, handler: h, registry: registry, repo: repo, callbacks: callbacks}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// settle waits for accepted operations and the visuals they started.
func (e *testEnv) settle(ws *orchestrator.Orchestrator) {
	e.handler.Wait()
	ws.Wait()
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) entity.WorkspaceState {
	t.Helper()
	var state entity.WorkspaceState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestCreateAndGetWorkspace(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/workspaces", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeState(t, rec)
	assert.NotEmpty(t, created.WorkspaceID)
	assert.Equal(t, entity.StageEmpty, created.Stage)

	rec = env.do(t, http.MethodGet, "/workspaces/"+created.WorkspaceID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.WorkspaceID, decodeState(t, rec).WorkspaceID)

	rec = env.do(t, http.MethodGet, "/workspaces/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFullPipelineOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	ws := env.registry.Create()
	base := "/workspaces/" + ws.ID()

	rec := env.do(t, http.MethodPost, base+"/idea", `{"idea":"Capybara spa tycoon","callback_url":"http://client.local/hook"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	env.settle(ws)

	state := ws.Snapshot()
	require.Equal(t, entity.StageAnalyzed, state.Stage)
	assert.NotEmpty(t, state.Project.AppImage)

	analysis, err := json.Marshal(state.Project.Analysis)
	require.NoError(t, err)
	rec = env.do(t, http.MethodPost, base+"/confirm", `{"analysis":`+string(analysis)+`}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	env.settle(ws)

	state = ws.Snapshot()
	assert.Equal(t, entity.StageDocumentationReady, state.Stage)

	saved, err := env.repo.Get(context.Background(), state.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageDocumentationReady, saved.Stage())

	rec = env.do(t, http.MethodPost, base+"/confirm", `{"analysis":`+string(analysis)+`}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "analysis is read-only after architecture")

	rec = env.do(t, http.MethodGet, base+"/export/prd-md", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# "))

	rec = env.do(t, http.MethodGet, base+"/diagram.svg?full=true&zoom=2&pan_x=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `viewBox="0 0 1200 800"`)
	assert.Contains(t, rec.Body.String(), `translate(10 0) scale(2)`)

	env.callbacks.mu.Lock()
	defer env.callbacks.mu.Unlock()
	require.Len(t, env.callbacks.events, 2)
	assert.Equal(t, "http://client.local/hook", env.callbacks.events[0].url)
	assert.Equal(t, "workspaceUpdated", env.callbacks.events[0].event)
	data := env.callbacks.events[1].data.(*entity.CallbackWorkspaceUpdatedData)
	assert.Equal(t, entity.StageDocumentationReady, data.Stage)
	assert.Equal(t, "ConfirmAnalysis", data.Action)
}

func TestSubmitIdea_Validation(t *testing.T) {
	env := newTestEnv(t)
	ws := env.registry.Create()
	base := "/workspaces/" + ws.ID()

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, base+"/idea", `{"idea":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, base+"/idea", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, base+"/idea", `{"idea":"x","callback_url":"ftp://x"}`).Code)
	assert.Equal(t, entity.StageEmpty, ws.Snapshot().Stage)
}

func TestConfirmBeforeAnalysis(t *testing.T) {
	env := newTestEnv(t)
	ws := env.registry.Create()

	analysis, err := llm.NewMockConnector(zap.NewNop()).AnalyzeIdea(context.Background(), "x")
	require.NoError(t, err)
	body, err := json.Marshal(entity.ConfirmAnalysisRequest{Analysis: analysis})
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/workspaces/"+ws.ID()+"/confirm", string(body))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendMessageAndReset(t *testing.T) {
	env := newTestEnv(t)
	ws := env.registry.Create()
	base := "/workspaces/" + ws.ID()

	require.Equal(t, http.StatusAccepted, env.do(t, http.MethodPost, base+"/messages", `{"text":"a recipe app"}`).Code)
	env.settle(ws)
	assert.Equal(t, "a recipe app", ws.Snapshot().Project.OriginalIdea)

	require.Equal(t, http.StatusAccepted, env.do(t, http.MethodPost, base+"/messages", `{"text":"which database?"}`).Code)
	env.settle(ws)
	msgs := ws.Snapshot().Project.Messages
	assert.Equal(t, "which database?", msgs[len(msgs)-2].Text)
	assert.Equal(t, entity.SenderAI, msgs[len(msgs)-1].Sender)

	rec := env.do(t, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StageEmpty, decodeState(t, rec).Stage)
}

func TestLoadProject(t *testing.T) {
	env := newTestEnv(t)
	ws := env.registry.Create()
	base := "/workspaces/" + ws.ID()
	require.NoError(t, env.repo.Put(context.Background(), entity.ProjectData{
		ID: "p1", Timestamp: 10, OriginalIdea: "old",
		Analysis: &entity.AnalysisResult{Title: "Old", Palette: entity.ColorPalette{Primary: "#123456", Text: "#ffffff"}},
	}))

	rec := env.do(t, http.MethodPost, base+"/load", `{"project_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/load", `{"project_id":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/load", `{"project_id":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeState(t, rec)
	assert.Equal(t, "p1", state.Project.ID)
	require.Len(t, state.Project.Messages, 1)
	assert.Equal(t, `Проект "Old" загружен.`, state.Project.Messages[0].Text)

	rec = env.do(t, http.MethodGet, base+"/theme.css", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--theme-primary: #123456;")
	assert.Contains(t, rec.Body.String(), "--border-color: #ffffff20;")

	rec = env.do(t, http.MethodGet, base+"/diagram.svg", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "no architecture yet")

	rec = env.do(t, http.MethodGet, base+"/export/prd-md", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "no documentation yet")

	rec = env.do(t, http.MethodGet, base+"/export/odt", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// gatedAI holds the analysis until released.
type gatedAI struct {
	*llm.MockConnector
	entered chan struct{}
	release chan struct{}
}

func (g *gatedAI) AnalyzeIdea(ctx context.Context, idea string) (*entity.AnalysisResult, error) {
	close(g.entered)
	<-g.release
	return g.MockConnector.AnalyzeIdea(ctx, idea)
}

func TestBusyWorkspaceRejectsRequests(t *testing.T) {
	ai := &gatedAI{MockConnector: llm.NewMockConnector(zap.NewNop()), entered: make(chan struct{}), release: make(chan struct{})}
	registry, err := orchestrator.NewRegistry(2, repository.NewProjectMemory(), ai, nil)
	require.NoError(t, err)
	memo, err := diagram.NewMemo(1)
	require.NoError(t, err)
	env := &testEnv{handler: NewHandler(registry, formatter.NewFactory(), memo, &fakeCallbacks{}), registry: registry}
	r := chi.NewRouter()
	RegisterRoutes(r, env.handler)
	env.router = r

	ws := registry.Create()
	base := "/workspaces/" + ws.ID()

	require.Equal(t, http.StatusAccepted, env.do(t, http.MethodPost, base+"/idea", `{"idea":"first"}`).Code)
	<-ai.entered

	state := ws.Snapshot()
	assert.True(t, state.Request.Loading)
	assert.NotEmpty(t, state.Request.StepName)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, base+"/messages", `{"text":"second"}`).Code)
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, base+"/reset", "").Code)

	close(ai.release)
	env.settle(ws)
	assert.Equal(t, entity.StageAnalyzed, ws.Snapshot().Stage)
}

func TestBackToBackSubmitsRejectSecond(t *testing.T) {
	ai := &gatedAI{MockConnector: llm.NewMockConnector(zap.NewNop()), entered: make(chan struct{}), release: make(chan struct{})}
	registry, err := orchestrator.NewRegistry(2, repository.NewProjectMemory(), ai, nil)
	require.NoError(t, err)
	memo, err := diagram.NewMemo(1)
	require.NoError(t, err)
	callbacks := &fakeCallbacks{}
	env := &testEnv{handler: NewHandler(registry, formatter.NewFactory(), memo, callbacks), registry: registry, callbacks: callbacks}
	r := chi.NewRouter()
	RegisterRoutes(r, env.handler)
	env.router = r

	ws := registry.Create()
	base := "/workspaces/" + ws.ID()

	// No wait for the background run: the reservation is taken before 202.
	first := env.do(t, http.MethodPost, base+"/idea", `{"idea":"first idea","callback_url":"http://cb"}`)
	second := env.do(t, http.MethodPost, base+"/idea", `{"idea":"second idea","callback_url":"http://cb"}`)
	assert.Equal(t, http.StatusAccepted, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.True(t, ws.Snapshot().Request.Loading)

	<-ai.entered
	close(ai.release)
	env.settle(ws)

	assert.Equal(t, "first idea", ws.Snapshot().Project.OriginalIdea)
	require.Len(t, callbacks.events, 1)
	assert.Equal(t, "workspaceUpdated", callbacks.events[0].event)
}

func TestParseViewport(t *testing.T) {
	vp, err := parseViewport(map[string][]string{"zoom": {"10"}, "pan_y": {"-4"}})
	require.NoError(t, err)
	assert.Equal(t, diagram.Viewport{Zoom: diagram.MaxZoom, PanY: -4}, vp)

	vp, err = parseViewport(map[string][]string{"wheel": {"-250"}})
	require.NoError(t, err)
	assert.InDelta(t, 1.25, vp.Zoom, 1e-9)

	_, err = parseViewport(map[string][]string{"zoom": {"abc"}})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}
