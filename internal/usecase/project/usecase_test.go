package project

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/repository"
)

func newTestUsecase(t *testing.T) (*ProjectUsecase, *repository.ProjectMemory, *repository.LegacyMemory) {
	t.Helper()
	repo := repository.NewProjectMemory()
	legacy := repository.NewLegacyMemory()
	uc := NewUsecase(repo, legacy, formatter.NewFactory(), zap.NewNop())
	uc.now = func() time.Time { return time.UnixMilli(9_000) }
	return uc, repo, legacy
}

func TestLoadHistory_ProjectionAndOrder(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newTestUsecase(t)

	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "bare", Timestamp: 100, OriginalIdea: "bare idea"}))
	require.NoError(t, repo.Put(ctx, entity.ProjectData{
		ID: "full", Timestamp: 200, OriginalIdea: "full idea",
		Analysis: &entity.AnalysisResult{Title: "Full", Palette: entity.ColorPalette{Primary: "#ff0000"}},
	}))

	items, err := uc.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, entity.ProjectHistoryItem{
		ID: "full", Title: "Full", Timestamp: 200, Idea: "full idea", ThemeColor: "#ff0000",
	}, items[0])
	assert.Equal(t, entity.ProjectHistoryItem{
		ID: "bare", Title: "Новый проект", Timestamp: 100, Idea: "bare idea", ThemeColor: "#6366f1",
	}, items[1])
}

func TestLoadHistory_MigratesLegacyOnce(t *testing.T) {
	ctx := context.Background()
	uc, _, legacy := newTestUsecase(t)

	require.NoError(t, legacy.Put([]entity.ProjectData{
		{ID: "a", Timestamp: 300, OriginalIdea: "first"},
		{OriginalIdea: "no id"},
	}))

	items, err := uc.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[1].ID, "imported record keeps its timestamp")
	assert.Equal(t, int64(9_000), items[0].Timestamp, "missing timestamp is listed as now")
	assert.NotEmpty(t, items[0].ID, "missing id gets a fallback")

	_, ok, err := legacy.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "legacy record is removed")

	again, err := uc.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, again, "second run is a no-op")
}

func TestLoadHistory_CorruptLegacyIsIgnored(t *testing.T) {
	ctx := context.Background()
	uc, repo, legacy := newTestUsecase(t)
	legacy.PutRaw([]byte(`{not json`))
	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "ok", Timestamp: 1, OriginalIdea: "x"}))

	items, err := uc.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, ok, _ := legacy.Load(ctx)
	assert.True(t, ok)
}

func TestGetAndDeleteProject(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newTestUsecase(t)
	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "p", Timestamp: 1, OriginalIdea: "x"}))

	got, err := uc.GetProject(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "x", got.OriginalIdea)

	_, err = uc.GetProject(ctx, "")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	require.NoError(t, uc.DeleteProject(ctx, "p"))
	_, err = uc.GetProject(ctx, "p")
	assert.ErrorIs(t, err, entity.ErrProjectNotFound)
	assert.ErrorIs(t, uc.DeleteProject(ctx, "p"), entity.ErrProjectNotFound)
}

func TestExportProject(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newTestUsecase(t)
	require.NoError(t, repo.Put(ctx, entity.ProjectData{
		ID: "p", Timestamp: 1, OriginalIdea: "x",
		Analysis:      &entity.AnalysisResult{Title: "Demo"},
		Documentation: &entity.DocsResult{PRD: "## Scope", DesignStyle: entity.DesignStyleTech},
	}))

	res, err := uc.ExportProject(ctx, "p", entity.FormatPRDMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "demo-prd-md.md", res.FileName)
	assert.Equal(t, "text/markdown; charset=utf-8", res.ContentType)
	assert.Equal(t, "# Demo\n\n## Scope\n", string(res.Content))

	_, err = uc.ExportProject(ctx, "p", "xlsx")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)

	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "nodocs", Timestamp: 1, OriginalIdea: "x"}))
	_, err = uc.ExportProject(ctx, "nodocs", entity.FormatPRDMarkdown)
	assert.ErrorIs(t, err, entity.ErrDocsMissing)
}
