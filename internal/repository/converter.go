package repository

import (
	"encoding/json"
	"fmt"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// projectRow mirrors the projects table. Title and theme color are
// denormalised from the payload so listings can be served without decoding it.
type projectRow struct {
	ID         string
	Title      string
	Idea       string
	ThemeColor string
	Payload    []byte
	UpdatedAt  int64
}

func toProjectRow(p entity.ProjectData) (projectRow, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return projectRow{}, fmt.Errorf("marshal project payload: %w", err)
	}

	row := projectRow{
		ID:        p.ID,
		Idea:      p.OriginalIdea,
		Payload:   payload,
		UpdatedAt: p.Timestamp,
	}
	if p.Analysis != nil {
		row.Title = p.Analysis.Title
		row.ThemeColor = p.Analysis.Palette.Primary
	}
	return row, nil
}

func toEntityProject(row projectRow) (*entity.ProjectData, error) {
	var p entity.ProjectData
	if err := json.Unmarshal(row.Payload, &p); err != nil {
		return nil, fmt.Errorf("%w: decode payload of %s: %v", entity.ErrInvalidProject, row.ID, err)
	}
	// Columns are authoritative for identity and ordering.
	p.ID = row.ID
	p.Timestamp = row.UpdatedAt
	return &p, nil
}
