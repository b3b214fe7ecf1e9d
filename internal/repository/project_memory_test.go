package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func TestProjectMemory_SaveAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.UnixMilli(1_700_000_000_000)}
	repo := NewProjectMemoryWithClock(clock.Now)

	saved, err := repo.Save(ctx, entity.ProjectData{OriginalIdea: "todo app"})
	require.NoError(t, err)
	assert.Equal(t, "1700000000001", saved.ID)
	assert.Equal(t, int64(1700000000001), saved.Timestamp)

	again, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID, "existing id is kept")
	assert.Greater(t, again.Timestamp, saved.Timestamp, "timestamp is re-stamped")

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, again.Timestamp, got.Timestamp)
	assert.Equal(t, "todo app", got.OriginalIdea)
}

func fullProject() entity.ProjectData {
	answer := "Только веб"
	at := time.UnixMilli(1_700_000_000_000).UTC()
	return entity.ProjectData{
		OriginalIdea: "Маркетплейс репетиторов",
		Analysis: &entity.AnalysisResult{
			Title:          "TutorHub",
			Summary:        "Поиск репетиторов",
			TargetAudience: []string{"школьники", "родители"},
			CoreFeatures:   []string{"поиск", "оплата"},
			Questions: []entity.ClarifyingQuestion{
				{Question: "Платформы?", SuggestedAnswer: "iOS и Android", UserAnswer: &answer},
				{Question: "Монетизация?", SuggestedAnswer: "Комиссия"},
			},
			Palette:   entity.ColorPalette{Primary: "#6366f1", Secondary: "#a855f7", Background: "#0f172a", Surface: "#1e293b", Text: "#f8fafc"},
			ThemeMode: entity.ThemeModeDark,
		},
		Architecture: &entity.ArchitectureResult{
			Frontend:  []string{"React"},
			Backend:   []string{"Go"},
			Database:  []string{"PostgreSQL"},
			Devops:    []string{"Docker"},
			Modules:   []entity.ModuleDefinition{{Name: "Auth", Description: "вход", Interactions: []string{"Users"}}},
			Rationale: "просто",
			Diagram: entity.Diagram{
				Nodes: []entity.DiagramNode{{ID: "web", Label: "Web", Type: entity.NodeTypeClient}, {ID: "api", Label: "API", Type: entity.NodeTypeService}},
				Edges: []entity.DiagramEdge{{From: "web", To: "api", Label: "REST"}},
			},
		},
		Plan: &entity.PlanResult{
			Phases:        []entity.Phase{{Name: "MVP", Duration: "4 недели", Tasks: []entity.Task{{Name: "Каталог", Description: "список", Complexity: entity.ComplexityMedium}}}},
			Risks:         []string{"конкуренты"},
			MVPDefinition: "каталог и оплата",
		},
		Documentation: &entity.DocsResult{
			PRD:         "# TutorHub",
			DesignStyle: entity.DesignStyleCorporate,
			Slides:      []entity.Slide{{Title: "TutorHub", Content: "x", SpeakerNotes: "y", Layout: entity.SlideLayoutTitle}},
		},
		AppImage: "data:image/png;base64,AAAA",
		Messages: []entity.ChatMessage{
			{ID: "m1", Sender: entity.SenderUser, Text: "Маркетплейс репетиторов", Timestamp: at},
			{ID: "m2", Sender: entity.SenderAI, AgentName: "Analyst", Text: "Готово", Timestamp: at.Add(time.Second)},
		},
	}
}

func TestProjectMemory_RoundTripKeepsEveryStage(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectMemory()

	in := fullProject()
	saved, err := repo.Save(ctx, in)
	require.NoError(t, err)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)

	want := in
	want.ID, want.Timestamp = saved.ID, saved.Timestamp
	assert.Equal(t, want, *got)
	assert.Equal(t, entity.StageDocumentationReady, got.Stage())
}

func TestProjectMemory_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectMemory()

	_, err := repo.Save(ctx, entity.ProjectData{ID: "p1", OriginalIdea: "first"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, entity.ProjectData{ID: "p1", OriginalIdea: "second"})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "second", all[0].OriginalIdea)
}

func TestProjectMemory_GetReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectMemory()

	_, err := repo.Save(ctx, entity.ProjectData{ID: "p1", OriginalIdea: "idea",
		Analysis: &entity.AnalysisResult{Title: "A"}})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	got.Analysis.Title = "mutated"

	again, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Analysis.Title)
}

func TestProjectMemory_ListOrderedByTimestamp(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.UnixMilli(1000)}
	repo := NewProjectMemoryWithClock(clock.Now)

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.Save(ctx, entity.ProjectData{ID: id, OriginalIdea: id})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestProjectMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectMemory()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrProjectNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), entity.ErrProjectNotFound)
}

func TestLegacyMemory(t *testing.T) {
	ctx := context.Background()
	store := NewLegacyMemory()

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put([]entity.ProjectData{{ID: "x", OriginalIdea: "old"}}))
	raw, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(raw), `"originalIdea":"old"`)

	require.NoError(t, store.Remove(ctx))
	_, ok, _ = store.Load(ctx)
	assert.False(t, ok)
}

func TestProjectMemory_PutKeepsTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectMemory()

	require.NoError(t, repo.Put(ctx, entity.ProjectData{ID: "old", Timestamp: 42, OriginalIdea: "legacy"}))
	got, err := repo.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Timestamp)

	assert.ErrorIs(t, repo.Put(ctx, entity.ProjectData{OriginalIdea: "no id"}), entity.ErrInvalidProject)
}
