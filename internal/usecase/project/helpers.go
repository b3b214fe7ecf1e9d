package project

import (
	"encoding/json"
	"fmt"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
	"github.com/google/uuid"
)

// toHistoryItem projects a saved project into its listing row. Records
// imported without a timestamp are listed as of now.
func toHistoryItem(p entity.ProjectData, nowMillis int64) entity.ProjectHistoryItem {
	item := entity.ProjectHistoryItem{
		ID:         p.ID,
		Title:      defaultHistoryTitle,
		Timestamp:  p.Timestamp,
		Idea:       p.OriginalIdea,
		ThemeColor: defaultThemeColor,
	}
	if item.Timestamp == 0 {
		item.Timestamp = nowMillis
	}
	if p.Analysis != nil {
		if p.Analysis.Title != "" {
			item.Title = p.Analysis.Title
		}
		if p.Analysis.Palette.Primary != "" {
			item.ThemeColor = p.Analysis.Palette.Primary
		}
	}
	return item
}

// parseLegacy decodes the legacy bulk record. Records that never got an id
// receive a random one so they do not collide on upsert.
func parseLegacy(raw []byte) ([]entity.ProjectData, error) {
	var projects []entity.ProjectData
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("decode legacy projects: %w", err)
	}
	for i := range projects {
		if projects[i].ID == "" {
			projects[i].ID = uuid.NewString()
		}
	}
	return projects, nil
}

// Export renders project documentation in the requested format. The
// workspace API exports live projects through the same path.
func Export(factory FormatterFactory, project entity.ProjectData, format entity.ExportFormat) (*ExportResult, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
	f, err := factory.Create(format)
	if err != nil {
		return nil, err
	}
	content, err := f.Format(project)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", format, err)
	}
	return &ExportResult{
		Content:     content,
		ContentType: f.ContentType(),
		FileName:    formatter.FileName(project, format, f.FileExtension()),
	}, nil
}
