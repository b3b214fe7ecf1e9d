package formatter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

func projectWithDocs(prd string) entity.ProjectData {
	return entity.ProjectData{
		OriginalIdea: "todo app",
		Analysis:     &entity.AnalysisResult{Title: "Todo Pro"},
		Documentation: &entity.DocsResult{
			PRD:         prd,
			DesignStyle: entity.DesignStyleMinimal,
			Slides: []entity.Slide{
				{Title: "Todo Pro", Content: "Задачи без хаоса", Layout: entity.SlideLayoutTitle, SpeakerNotes: "Привет"},
				{Title: "Рынок", Content: "- 10M\n- рост 20%", Layout: entity.SlideLayoutBulletList},
			},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()
	for _, format := range []entity.ExportFormat{
		entity.FormatPRDMarkdown, entity.FormatPRDDOCX, entity.FormatPRDPDF,
		entity.FormatDeckPPTX, entity.FormatDeckMarkdown,
	} {
		got, err := f.Create(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, got.ContentType())
		assert.NotEmpty(t, got.FileExtension())
	}

	_, err := f.Create("prd-odt")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestFormatters_RequireDocumentation(t *testing.T) {
	empty := entity.ProjectData{OriginalIdea: "x"}
	for _, fm := range []Formatter{NewMarkdownFormatter(), NewDeckMarkdownFormatter(), NewPDFFormatter(), NewDOCXFormatter(), NewPPTXFormatter()} {
		_, err := fm.Format(empty)
		assert.ErrorIs(t, err, entity.ErrDocsMissing)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(projectWithDocs("## Goals\n- fast"))
	require.NoError(t, err)
	assert.Equal(t, "# Todo Pro\n\n## Goals\n- fast\n", string(out))

	out, err = NewMarkdownFormatter().Format(projectWithDocs("# Own title\ntext"))
	require.NoError(t, err)
	assert.Equal(t, "# Own title\ntext\n", string(out))
}

func TestDeckMarkdownFormatter(t *testing.T) {
	out, err := NewDeckMarkdownFormatter().Format(projectWithDocs("x"))
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "## 1. Todo Pro")
	assert.Contains(t, s, "## 2. Рынок")
	assert.Contains(t, s, "<!-- layout: bullet-list -->")
	assert.Contains(t, s, "> Привет")
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(projectWithDocs("# Title\n## Scope\n- **Auth** module\nplain text"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestParseMarkdown(t *testing.T) {
	src := "# Title\n\n## Section\n\n- item **bold** tail\n- __strong__ and `code`\n  - nested\n\n3. third\n4. fourth\n\nplain\nwrapped\n\n---\n\n```\ngo run .\n```\n"
	blocks := parseMarkdown(src)
	require.Len(t, blocks, 9)

	assert.Equal(t, blockHeading, blocks[0].kind)
	assert.Equal(t, 1, blocks[0].level)
	assert.Equal(t, 2, blocks[1].level)

	assert.Equal(t, blockBullet, blocks[2].kind)
	assert.Equal(t, "• ", blocks[2].marker)
	assert.Equal(t, []span{{text: "item "}, {text: "bold", bold: true}, {text: " tail"}}, blocks[2].spans)

	assert.Equal(t, []span{{text: "strong", bold: true}, {text: " and code"}}, blocks[3].spans)
	assert.Equal(t, 0, blocks[3].depth)
	assert.Equal(t, "nested", blocks[4].plain())
	assert.Equal(t, 1, blocks[4].depth)

	assert.Equal(t, blockNumbered, blocks[5].kind)
	assert.Equal(t, "3. ", blocks[5].marker)
	assert.Equal(t, "4. ", blocks[6].marker)
	assert.Equal(t, "fourth", blocks[6].plain())

	assert.Equal(t, blockParagraph, blocks[7].kind)
	assert.Equal(t, "plain wrapped", blocks[7].plain())
	assert.Equal(t, "go run .", blocks[8].plain())
}

func TestParseMarkdown_UnmatchedMarker(t *testing.T) {
	blocks := parseMarkdown("a ** b")
	require.Len(t, blocks, 1)
	assert.Equal(t, []span{{text: "a ** b"}}, blocks[0].spans)
}

func TestBuildDeck_Layouts(t *testing.T) {
	p := projectWithDocs("x")
	p.Analysis.Palette = entity.ColorPalette{Primary: "#112233", Text: "not-a-color"}
	p.Documentation.Slides = []entity.Slide{
		{Title: "Todo Pro", Content: "Задачи без хаоса", Layout: entity.SlideLayoutTitle},
		{Title: "Рынок", Content: "- 10M\n- рост 20%", Layout: entity.SlideLayoutBulletList},
		{Title: "TAM", Content: "$4B\nрынок задач", Layout: entity.SlideLayoutBigNumber},
		{Title: "До и после", Content: "- хаос\n- порядок\n- фокус", Layout: entity.SlideLayoutSplit},
		{Title: "Клиент", Content: "Наконец-то всё под контролем", Layout: entity.SlideLayoutQuote},
	}

	ppt, err := buildDeck(p)
	require.NoError(t, err)
	defer ppt.Close()

	slides := ppt.Slides()
	require.Len(t, slides, 5)
	// Background plus the layout's text boxes.
	for i, want := range []int{3, 3, 4, 4, 3} {
		assert.Len(t, slides[i].GetTextBoxes(), want, p.Documentation.Slides[i].Layout)
	}

	title := slides[0].GetTextBoxes()[1].X().TxBody.P[0].EG_TextRun[0].R.T
	assert.Equal(t, "Todo Pro", title)
}

func TestMergePalette(t *testing.T) {
	got := mergePalette(entity.ColorPalette{Primary: "#112233", Text: "not-a-color"})
	assert.Equal(t, "#112233", got.Primary)
	assert.Equal(t, deckColors.Text, got.Text)
	assert.Equal(t, deckColors.Background, got.Background)
}

func TestFileName(t *testing.T) {
	p := projectWithDocs("x")
	assert.Equal(t, "todo-pro-prd-md.md", FileName(p, entity.FormatPRDMarkdown, ".md"))
	assert.Equal(t, "project-deck-pptx.pptx", FileName(entity.ProjectData{}, entity.FormatDeckPPTX, ".pptx"))
}

func TestParseHex(t *testing.T) {
	rgb, ok := parseHex("#6366f1")
	require.True(t, ok)
	assert.Equal(t, [3]uint8{0x63, 0x66, 0xf1}, rgb)

	rgb, ok = parseHex("#fff")
	require.True(t, ok)
	assert.Equal(t, [3]uint8{0xff, 0xff, 0xff}, rgb)

	_, ok = parseHex("rgba(1,2,3,0.1)")
	assert.False(t, ok)
}
