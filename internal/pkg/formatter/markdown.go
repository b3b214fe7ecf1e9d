package formatter

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockBullet
	blockNumbered
)

// block is one line-level element of the PRD markdown, flattened for the
// docx and pdf writers.
type block struct {
	kind   blockKind
	level  int    // heading level, 1..6
	depth  int    // list nesting, 0 for top-level items
	marker string // "• " or "3. " for list items
	spans  []span
}

type span struct {
	text string
	bold bool
}

// parseMarkdown walks the goldmark AST and flattens it into blocks.
// Thematic breaks and raw HTML are dropped; code blocks become one
// paragraph per line.
func parseMarkdown(src string) []block {
	source := []byte(strings.ReplaceAll(src, "\r\n", "\n"))
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	w := &blockWalker{source: source}
	_ = ast.Walk(doc, w.visit)
	return w.blocks
}

type blockWalker struct {
	source []byte
	blocks []block
}

func (w *blockWalker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	switch v := n.(type) {
	case *ast.Heading:
		w.add(block{kind: blockHeading, level: v.Level, spans: w.inlines(v)})
		return ast.WalkSkipChildren, nil

	case *ast.Paragraph, *ast.TextBlock:
		b := block{kind: blockParagraph, spans: w.inlines(v)}
		if item, ok := v.Parent().(*ast.ListItem); ok && item.FirstChild() == v {
			b = listBlock(item, b.spans)
		}
		w.add(b)
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := v.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.add(block{kind: blockParagraph, spans: []span{{text: strings.TrimRight(string(seg.Value(w.source)), "\n")}}})
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak, *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *blockWalker) add(b block) {
	if strings.TrimSpace(b.plain()) == "" {
		return
	}
	w.blocks = append(w.blocks, b)
}

// inlines collects the text runs under n. Emphasis of level 2 (** or __)
// is bold; everything else is flattened to plain text.
func (w *blockWalker) inlines(n ast.Node) []span {
	var out []span
	w.collect(n, false, &out)
	return out
}

func (w *blockWalker) collect(n ast.Node, bold bool, out *[]span) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			s := string(v.Segment.Value(w.source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				s += " "
			}
			appendSpan(out, s, bold)
		case *ast.String:
			appendSpan(out, string(v.Value), bold)
		case *ast.Emphasis:
			w.collect(v, bold || v.Level >= 2, out)
		case *ast.AutoLink:
			appendSpan(out, string(v.Label(w.source)), bold)
		case *ast.RawHTML:
		default:
			w.collect(c, bold, out)
		}
	}
}

// appendSpan merges adjacent runs of the same weight.
func appendSpan(out *[]span, s string, bold bool) {
	if s == "" {
		return
	}
	if n := len(*out); n > 0 && (*out)[n-1].bold == bold {
		(*out)[n-1].text += s
		return
	}
	*out = append(*out, span{text: s, bold: bold})
}

func listBlock(item *ast.ListItem, spans []span) block {
	depth := -1
	for p := item.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}

	list, _ := item.Parent().(*ast.List)
	if list == nil || !list.IsOrdered() {
		return block{kind: blockBullet, depth: depth, marker: "• ", spans: spans}
	}

	idx := 0
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		idx++
	}
	return block{
		kind:   blockNumbered,
		depth:  depth,
		marker: strconv.Itoa(list.Start+idx) + ". ",
		spans:  spans,
	}
}

func (b block) plain() string {
	var sb strings.Builder
	for _, s := range b.spans {
		sb.WriteString(s.text)
	}
	return sb.String()
}
