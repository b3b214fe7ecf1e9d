package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/patrickmn/go-cache"
)

var (
	_ ProjectRepository = &ProjectMemory{}
	_ LegacyStore       = &LegacyMemory{}
)

// ProjectMemory keeps projects in process memory. Records are stored as
// encoded payloads so callers never share pointers with the store.
type ProjectMemory struct {
	items *cache.Cache
	now   Clock
}

func NewProjectMemory() *ProjectMemory {
	return &ProjectMemory{
		items: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

// NewProjectMemoryWithClock is NewProjectMemory with a pinned clock.
func NewProjectMemoryWithClock(now Clock) *ProjectMemory {
	m := NewProjectMemory()
	m.now = now
	return m
}

func (r *ProjectMemory) Save(_ context.Context, project entity.ProjectData) (entity.ProjectData, error) {
	project = stamp(project, r.now())

	row, err := toProjectRow(project)
	if err != nil {
		return entity.ProjectData{}, err
	}
	r.items.Set(row.ID, row, cache.NoExpiration)

	return project, nil
}

func (r *ProjectMemory) Put(_ context.Context, project entity.ProjectData) error {
	if project.ID == "" {
		return fmt.Errorf("%w: id", entity.ErrInvalidProject)
	}

	row, err := toProjectRow(project)
	if err != nil {
		return err
	}
	r.items.Set(row.ID, row, cache.NoExpiration)

	return nil
}

func (r *ProjectMemory) Get(_ context.Context, id string) (*entity.ProjectData, error) {
	v, ok := r.items.Get(id)
	if !ok {
		return nil, entity.ErrProjectNotFound
	}
	return toEntityProject(v.(projectRow))
}

func (r *ProjectMemory) List(_ context.Context) ([]entity.ProjectData, error) {
	all := r.items.Items()
	rows := make([]projectRow, 0, len(all))
	for _, it := range all {
		rows = append(rows, it.Object.(projectRow))
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UpdatedAt != rows[j].UpdatedAt {
			return rows[i].UpdatedAt > rows[j].UpdatedAt
		}
		return rows[i].ID < rows[j].ID
	})

	projects := make([]entity.ProjectData, 0, len(rows))
	for _, row := range rows {
		p, err := toEntityProject(row)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, nil
}

func (r *ProjectMemory) Delete(_ context.Context, id string) error {
	if _, ok := r.items.Get(id); !ok {
		return entity.ErrProjectNotFound
	}
	r.items.Delete(id)
	return nil
}

// LegacyMemory holds the bulk legacy record in memory.
type LegacyMemory struct {
	items *cache.Cache
}

func NewLegacyMemory() *LegacyMemory {
	return &LegacyMemory{items: cache.New(cache.NoExpiration, 0)}
}

// Put seeds the legacy record, as an older client would have left it.
func (r *LegacyMemory) Put(projects []entity.ProjectData) error {
	raw, err := json.Marshal(projects)
	if err != nil {
		return err
	}
	r.PutRaw(raw)
	return nil
}

func (r *LegacyMemory) PutRaw(raw []byte) {
	r.items.Set(LegacyProjectsKey, raw, cache.NoExpiration)
}

func (r *LegacyMemory) Load(_ context.Context) ([]byte, bool, error) {
	v, ok := r.items.Get(LegacyProjectsKey)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (r *LegacyMemory) Remove(_ context.Context) error {
	r.items.Delete(LegacyProjectsKey)
	return nil
}
