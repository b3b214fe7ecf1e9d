package project

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	defaultHistoryTitle = "Новый проект"
	defaultThemeColor   = "#6366f1"
)

// ProjectUsecase serves the saved-project history: listing, legacy import,
// lookup, deletion and document export.
type ProjectUsecase struct {
	projectRepo repository.ProjectRepository
	legacyStore repository.LegacyStore
	formatters  FormatterFactory
	logger      *zap.Logger
	now         func() time.Time
}

// NewUsecase creates a new project use case
func NewUsecase(
	projectRepo repository.ProjectRepository,
	legacyStore repository.LegacyStore,
	formatters FormatterFactory,
	logger *zap.Logger,
) *ProjectUsecase {
	return &ProjectUsecase{
		projectRepo: projectRepo,
		legacyStore: legacyStore,
		formatters:  formatters,
		logger:      logger,
		now:         time.Now,
	}
}

// LoadHistory imports any legacy record first, then lists every saved
// project newest first.
func (uc *ProjectUsecase) LoadHistory(ctx context.Context) ([]entity.ProjectHistoryItem, error) {
	uc.Migrate(ctx)

	projects, err := uc.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	now := uc.now().UnixMilli()
	items := make([]entity.ProjectHistoryItem, 0, len(projects))
	for _, p := range projects {
		items = append(items, toHistoryItem(p, now))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})

	return items, nil
}

// Migrate moves projects out of the legacy bulk record into the project
// store, then removes the record. It is a no-op once the record is gone.
// Failures are logged and never surface: the history stays usable.
func (uc *ProjectUsecase) Migrate(ctx context.Context) {
	if uc.legacyStore == nil {
		return
	}

	raw, ok, err := uc.legacyStore.Load(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "failed to read legacy projects", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	projects, err := parseLegacy(raw)
	if err != nil {
		// The unreadable record is left in place.
		ctxzap.Error(ctx, "legacy projects record is unreadable", zap.Error(err))
		return
	}

	for _, p := range projects {
		if err := uc.projectRepo.Put(ctx, p); err != nil {
			ctxzap.Error(ctx, "failed to import legacy project",
				zap.String("project_id", p.ID),
				zap.Error(err),
			)
			return
		}
	}

	if err := uc.legacyStore.Remove(ctx); err != nil {
		ctxzap.Error(ctx, "failed to remove legacy projects record", zap.Error(err))
		return
	}

	ctxzap.Info(ctx, "legacy projects migrated", zap.Int("count", len(projects)))
}

// GetProject retrieves a project by ID
func (uc *ProjectUsecase) GetProject(ctx context.Context, id string) (*entity.ProjectData, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty project ID", entity.ErrInvalidParameter)
	}

	project, err := uc.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes a project from the history
func (uc *ProjectUsecase) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty project ID", entity.ErrInvalidParameter)
	}

	if err := uc.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	ctxzap.Info(ctx, "project deleted successfully", zap.String("project_id", id))
	return nil
}

// ExportProject renders a saved project's documentation.
func (uc *ProjectUsecase) ExportProject(ctx context.Context, id string, format entity.ExportFormat) (*ExportResult, error) {
	project, err := uc.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return Export(uc.formatters, *project, format)
}
