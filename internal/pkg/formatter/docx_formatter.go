package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(project entity.ProjectData) ([]byte, error) {
	docs, err := requireDocs(project)
	if err != nil {
		return nil, err
	}

	doc := document.New()
	defer doc.Close()

	blocks := parseMarkdown(docs.PRD)
	if len(blocks) == 0 || blocks[0].kind != blockHeading {
		titlePar := doc.AddParagraph()
		titlePar.SetStyle("Title")
		titlePar.AddRun().AddText(projectTitle(project, prdFallbackTitle))
	}

	for _, b := range blocks {
		para := doc.AddParagraph()
		switch b.kind {
		case blockHeading:
			para.SetStyle(fmt.Sprintf("Heading%d", min(b.level, 4)))
		case blockBullet, blockNumbered:
			para.AddRun().AddText(strings.Repeat("    ", b.depth) + b.marker)
		}
		for _, s := range b.spans {
			run := para.AddRun()
			run.AddText(s.text)
			if s.bold {
				run.Properties().SetBold(true)
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
