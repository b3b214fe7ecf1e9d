package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ProjectRepository = &ProjectPostgres{}

const (
	upsertProjectQuery = `
INSERT INTO projects (id, title, idea, theme_color, payload, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    title       = EXCLUDED.title,
    idea        = EXCLUDED.idea,
    theme_color = EXCLUDED.theme_color,
    payload     = EXCLUDED.payload,
    updated_at  = EXCLUDED.updated_at`

	getProjectQuery = `
SELECT id, title, idea, theme_color, payload, updated_at
FROM projects WHERE id = $1`

	listProjectsQuery = `
SELECT id, title, idea, theme_color, payload, updated_at
FROM projects ORDER BY updated_at DESC`

	deleteProjectQuery = `DELETE FROM projects WHERE id = $1`
)

// ProjectPostgres implements ProjectRepository using PostgreSQL
type ProjectPostgres struct {
	db  *pgxpool.Pool
	now Clock
}

func NewProjectPostgres(db *pgxpool.Pool) *ProjectPostgres {
	return &ProjectPostgres{
		db:  db,
		now: time.Now,
	}
}

func (r *ProjectPostgres) Save(ctx context.Context, project entity.ProjectData) (entity.ProjectData, error) {
	project = stamp(project, r.now())

	row, err := toProjectRow(project)
	if err != nil {
		return entity.ProjectData{}, err
	}

	_, err = r.db.Exec(ctx, upsertProjectQuery,
		row.ID, row.Title, row.Idea, row.ThemeColor, row.Payload, row.UpdatedAt)
	if err != nil {
		return entity.ProjectData{}, fmt.Errorf("save project: %w", err)
	}

	return project, nil
}

func (r *ProjectPostgres) Put(ctx context.Context, project entity.ProjectData) error {
	if project.ID == "" {
		return fmt.Errorf("%w: id", entity.ErrInvalidProject)
	}

	row, err := toProjectRow(project)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, upsertProjectQuery,
		row.ID, row.Title, row.Idea, row.ThemeColor, row.Payload, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put project: %w", err)
	}

	return nil
}

func (r *ProjectPostgres) Get(ctx context.Context, id string) (*entity.ProjectData, error) {
	row, err := scanProject(r.db.QueryRow(ctx, getProjectQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return toEntityProject(row)
}

func (r *ProjectPostgres) List(ctx context.Context) ([]entity.ProjectData, error) {
	rows, err := r.db.Query(ctx, listProjectsQuery)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []entity.ProjectData
	for rows.Next() {
		row, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p, err := toEntityProject(row)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}

func (r *ProjectPostgres) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteProjectQuery, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrProjectNotFound
	}

	return nil
}

func scanProject(row pgx.Row) (projectRow, error) {
	var r projectRow
	err := row.Scan(&r.ID, &r.Title, &r.Idea, &r.ThemeColor, &r.Payload, &r.UpdatedAt)
	return r, err
}
