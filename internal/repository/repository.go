package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// LegacyProjectsKey is the single flat record older clients kept all their
// projects under.
const LegacyProjectsKey = "ai_pm_projects"

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// Save upserts the project. A missing id is assigned from the save time;
	// the timestamp is always stamped. Last write wins.
	Save(ctx context.Context, project entity.ProjectData) (entity.ProjectData, error)
	// Put stores the project exactly as given, keeping its timestamp. Used to
	// import records written elsewhere.
	Put(ctx context.Context, project entity.ProjectData) error
	Get(ctx context.Context, id string) (*entity.ProjectData, error)
	List(ctx context.Context) ([]entity.ProjectData, error)
	Delete(ctx context.Context, id string) error
}

// LegacyStore exposes the bulk legacy record. ok is false when it is absent.
type LegacyStore interface {
	Load(ctx context.Context) (raw []byte, ok bool, err error)
	Remove(ctx context.Context) error
}

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// stamp applies the save-time rules shared by every store.
func stamp(project entity.ProjectData, now time.Time) entity.ProjectData {
	ms := now.UnixMilli()
	if project.ID == "" {
		project.ID = strconv.FormatInt(ms, 10)
	}
	project.Timestamp = ms
	return project
}
