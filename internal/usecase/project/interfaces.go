package project

import (
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/pkg/formatter"
)

type FormatterFactory interface {
	Create(format entity.ExportFormat) (formatter.Formatter, error)
}

// ExportResult is a rendered document ready to be served.
type ExportResult struct {
	Content     []byte
	ContentType string
	FileName    string
}
