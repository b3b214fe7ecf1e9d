package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

const (
	prdFallbackTitle  = "Техническое задание"
	deckFallbackTitle = "Презентация проекта"
)

type Formatter interface {
	Format(project entity.ProjectData) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatPRDMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatPRDDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPRDPDF:
		return NewPDFFormatter(), nil
	case entity.FormatDeckPPTX:
		return NewPPTXFormatter(), nil
	case entity.FormatDeckMarkdown:
		return NewDeckMarkdownFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// FileName builds a download name from the project title.
func FileName(project entity.ProjectData, format entity.ExportFormat, ext string) string {
	title := ""
	if project.Analysis != nil {
		title = project.Analysis.Title
	}
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "project"
	}
	return slug + "-" + string(format) + ext
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func projectTitle(project entity.ProjectData, fallback string) string {
	if project.Analysis != nil && project.Analysis.Title != "" {
		return project.Analysis.Title
	}
	return fallback
}

func requireDocs(project entity.ProjectData) (*entity.DocsResult, error) {
	if project.Documentation == nil {
		return nil, entity.ErrDocsMissing
	}
	return project.Documentation, nil
}
