package entity

type ExportFormat string

const (
	FormatPRDMarkdown  ExportFormat = "prd-md"
	FormatPRDDOCX      ExportFormat = "prd-docx"
	FormatPRDPDF       ExportFormat = "prd-pdf"
	FormatDeckPPTX     ExportFormat = "deck-pptx"
	FormatDeckMarkdown ExportFormat = "deck-md"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatPRDMarkdown, FormatPRDDOCX, FormatPRDPDF, FormatDeckPPTX, FormatDeckMarkdown:
		return true
	default:
		return false
	}
}

type ListProjectsResponse struct {
	Projects []ProjectHistoryItem `json:"projects"`
}

type DeleteProjectResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
