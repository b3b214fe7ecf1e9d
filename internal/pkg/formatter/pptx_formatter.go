package formatter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/presentation"
)

const (
	pptxContentType   = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	pptxFileExtension = ".pptx"
)

// Default 4:3 slide area.
const (
	slideWidth  measurement.Distance = 10 * measurement.Inch
	slideHeight measurement.Distance = 7.5 * measurement.Inch
	slideMargin measurement.Distance = 0.5 * measurement.Inch
)

// deckColors are the fallback slide colors when the project has no palette.
var deckColors = entity.ColorPalette{
	Primary:    "#6366f1",
	Secondary:  "#a855f7",
	Background: "#0f172a",
	Surface:    "#1e293b",
	Text:       "#f8fafc",
}

// PPTXFormatter renders one slide per generated Slide, coloured with the
// project palette. Layouts map to text box arrangements.
type PPTXFormatter struct{}

func NewPPTXFormatter() *PPTXFormatter {
	return &PPTXFormatter{}
}

func (pf *PPTXFormatter) Format(project entity.ProjectData) ([]byte, error) {
	ppt, err := buildDeck(project)
	if err != nil {
		return nil, err
	}
	defer ppt.Close()

	var buf bytes.Buffer
	if err := ppt.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildDeck(project entity.ProjectData) (*presentation.Presentation, error) {
	docs, err := requireDocs(project)
	if err != nil {
		return nil, err
	}

	palette := deckColors
	if project.Analysis != nil {
		palette = mergePalette(project.Analysis.Palette)
	}

	ppt := presentation.New()
	for _, s := range docs.Slides {
		addSlide(ppt, s, palette)
	}
	return ppt, nil
}

func (pf *PPTXFormatter) ContentType() string {
	return pptxContentType
}

func (pf *PPTXFormatter) FileExtension() string {
	return pptxFileExtension
}

func addSlide(ppt *presentation.Presentation, s entity.Slide, palette entity.ColorPalette) {
	slide := ppt.AddSlide()

	bg := slide.AddTextBox()
	bg.Properties().SetPosition(0, 0)
	bg.Properties().SetSize(slideWidth, slideHeight)
	bg.Properties().SetSolidFill(hexColor(palette.Background))

	innerW := slideWidth - 2*slideMargin
	lines := contentLines(s.Content)

	switch s.Layout {
	case entity.SlideLayoutTitle:
		addText(slide.AddTextBox(), s.Title, 44, true, palette.Primary,
			slideMargin, 2.5*measurement.Inch, innerW, 1.5*measurement.Inch)
		addText(slide.AddTextBox(), strings.Join(lines, " "), 20, false, palette.Text,
			slideMargin, 4.2*measurement.Inch, innerW, 1.5*measurement.Inch)

	case entity.SlideLayoutBigNumber:
		addText(slide.AddTextBox(), s.Title, 28, true, palette.Text,
			slideMargin, slideMargin, innerW, measurement.Inch)
		big, rest := "", lines
		if len(lines) > 0 {
			big, rest = lines[0], lines[1:]
		}
		addText(slide.AddTextBox(), big, 72, true, palette.Primary,
			slideMargin, 2*measurement.Inch, innerW, 2*measurement.Inch)
		addText(slide.AddTextBox(), strings.Join(rest, " "), 18, false, palette.Text,
			slideMargin, 4.5*measurement.Inch, innerW, 2*measurement.Inch)

	case entity.SlideLayoutSplit:
		addText(slide.AddTextBox(), s.Title, 28, true, palette.Primary,
			slideMargin, slideMargin, innerW, measurement.Inch)
		half := (len(lines) + 1) / 2
		colW := innerW/2 - 0.25*measurement.Inch
		left := slide.AddTextBox()
		left.Properties().SetSolidFill(hexColor(palette.Surface))
		addBullets(left, lines[:half], palette.Text, slideMargin, 2*measurement.Inch, colW, 4.5*measurement.Inch)
		right := slide.AddTextBox()
		right.Properties().SetSolidFill(hexColor(palette.Surface))
		addBullets(right, lines[half:], palette.Text, slideMargin+colW+0.5*measurement.Inch, 2*measurement.Inch, colW, 4.5*measurement.Inch)

	case entity.SlideLayoutQuote:
		addText(slide.AddTextBox(), "«"+strings.Join(lines, " ")+"»", 32, false, palette.Secondary,
			slideMargin, 2*measurement.Inch, innerW, 3*measurement.Inch)
		addText(slide.AddTextBox(), s.Title, 18, true, palette.Text,
			slideMargin, 5.5*measurement.Inch, innerW, measurement.Inch)

	default:
		addText(slide.AddTextBox(), s.Title, 32, true, palette.Primary,
			slideMargin, slideMargin, innerW, measurement.Inch)
		addBullets(slide.AddTextBox(), lines, palette.Text,
			slideMargin, 1.8*measurement.Inch, innerW, 5*measurement.Inch)
	}
}

func addText(tb presentation.TextBox, text string, size float64, bold bool, hex string, x, y, w, h measurement.Distance) {
	tb.Properties().SetPosition(x, y)
	tb.Properties().SetSize(w, h)
	run := tb.AddParagraph().AddRun()
	run.SetText(text)
	run.Properties().SetSize(measurement.Distance(size) * measurement.Point)
	run.Properties().SetBold(bold)
	run.Properties().SetSolidFill(hexColor(hex))
}

func addBullets(tb presentation.TextBox, lines []string, hex string, x, y, w, h measurement.Distance) {
	tb.Properties().SetPosition(x, y)
	tb.Properties().SetSize(w, h)
	for _, line := range lines {
		run := tb.AddParagraph().AddRun()
		run.SetText("• " + line)
		run.Properties().SetSize(18 * measurement.Point)
		run.Properties().SetSolidFill(hexColor(hex))
	}
}

// contentLines splits slide content into bullet lines, stripping list markers.
func contentLines(content string) []string {
	var lines []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimLeft(line, "-*• ")
		line = strings.ReplaceAll(line, "**", "")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func mergePalette(p entity.ColorPalette) entity.ColorPalette {
	out := deckColors
	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&out.Primary, p.Primary},
		{&out.Secondary, p.Secondary},
		{&out.Background, p.Background},
		{&out.Surface, p.Surface},
		{&out.Text, p.Text},
	} {
		if _, ok := parseHex(pair.src); ok {
			*pair.dst = pair.src
		}
	}
	return out
}

func hexColor(hex string) color.Color {
	rgb, ok := parseHex(hex)
	if !ok {
		return color.RGB(0, 0, 0)
	}
	return color.RGB(rgb[0], rgb[1], rgb[2])
}

// parseHex accepts #rgb, #rrggbb and #rrggbbaa (alpha ignored).
func parseHex(hex string) ([3]uint8, bool) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 8 {
		s = s[:6]
	}
	if len(s) != 6 {
		return [3]uint8{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [3]uint8{}, false
	}
	return [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}
