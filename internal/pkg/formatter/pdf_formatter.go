package formatter

import (
	"bytes"
	"os"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In Docker runtime fonts are copied to /app/ttf,
	// so for the compiled binary the path is ./ttf/DejaVuSans.ttf.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source-relative path (useful when running from repo root with `go run`).
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

var pdfHeadingSizes = map[int]float64{1: 20, 2: 16, 3: 14}

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

func (mf *PDFFormatter) Format(project entity.ProjectData) ([]byte, error) {
	docs, err := requireDocs(project)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts cannot render Cyrillic; the bundled TTF is preferred.
	fontName := "Arial"
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	}

	blocks := parseMarkdown(docs.PRD)
	if len(blocks) == 0 || blocks[0].kind != blockHeading {
		pdf.SetFont(fontName, "B", 20)
		pdf.MultiCell(0, 10, projectTitle(project, prdFallbackTitle), "", "", false)
		pdf.Ln(4)
	}

	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			size, ok := pdfHeadingSizes[b.level]
			if !ok {
				size = 12
			}
			pdf.Ln(2)
			pdf.SetFont(fontName, "B", size)
			pdf.MultiCell(0, size*0.6, b.plain(), "", "", false)
			pdf.Ln(1)
		case blockBullet, blockNumbered:
			pdf.SetFont(fontName, "", 12)
			pdf.SetX(pdf.GetX() + 4*float64(b.depth+1))
			writeSpans(pdf, fontName, b.marker, b.spans)
		default:
			pdf.SetFont(fontName, "", 12)
			writeSpans(pdf, fontName, "", b.spans)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSpans flows mixed bold and regular runs on one logical line.
func writeSpans(pdf *gofpdf.Fpdf, fontName, prefix string, spans []span) {
	const lineHeight = 6.0
	if prefix != "" {
		pdf.SetFont(fontName, "", 12)
		pdf.Write(lineHeight, prefix)
	}
	for _, s := range spans {
		style := ""
		if s.bold {
			style = "B"
		}
		pdf.SetFont(fontName, style, 12)
		pdf.Write(lineHeight, s.text)
	}
	pdf.Ln(lineHeight + 1)
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
