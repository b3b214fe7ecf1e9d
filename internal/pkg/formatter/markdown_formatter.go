package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

// MarkdownFormatter exports the PRD as is, under a title heading when the
// document does not open with one.
type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(project entity.ProjectData) ([]byte, error) {
	docs, err := requireDocs(project)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	prd := strings.TrimSpace(docs.PRD)
	if !strings.HasPrefix(prd, "# ") {
		fmt.Fprintf(&buf, "# %s\n\n", projectTitle(project, prdFallbackTitle))
	}
	buf.WriteString(prd)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

// DeckMarkdownFormatter renders the slide deck as a markdown outline with
// speaker notes as blockquotes.
type DeckMarkdownFormatter struct{}

func NewDeckMarkdownFormatter() *DeckMarkdownFormatter {
	return &DeckMarkdownFormatter{}
}

func (df *DeckMarkdownFormatter) Format(project entity.ProjectData) ([]byte, error) {
	docs, err := requireDocs(project)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", projectTitle(project, deckFallbackTitle))
	fmt.Fprintf(&buf, "_Стиль: %s_\n", docs.DesignStyle)

	for i, s := range docs.Slides {
		fmt.Fprintf(&buf, "\n---\n\n## %d. %s\n\n", i+1, s.Title)
		fmt.Fprintf(&buf, "<!-- layout: %s -->\n\n", s.Layout)
		if content := strings.TrimSpace(s.Content); content != "" {
			buf.WriteString(content)
			buf.WriteString("\n")
		}
		if notes := strings.TrimSpace(s.SpeakerNotes); notes != "" {
			buf.WriteString("\n")
			for _, line := range strings.Split(notes, "\n") {
				fmt.Fprintf(&buf, "> %s\n", line)
			}
		}
	}
	return buf.Bytes(), nil
}

func (df *DeckMarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (df *DeckMarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
