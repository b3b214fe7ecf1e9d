// Package theme turns an analysis palette into the CSS custom properties the
// dashboard and the diagram are styled with.
package theme

import (
	"fmt"
	"strings"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

var defaults = []Variable{
	{"--theme-primary", "#6366f1"},
	{"--theme-secondary", "#a855f7"},
	{"--bg-main", "#0f172a"},
	{"--bg-surface", "#1e293b"},
	{"--text-main", "#f8fafc"},
	{"--border-color", "rgba(248, 250, 252, 0.1)"},
	{"--text-muted", "rgba(248, 250, 252, 0.6)"},
}

// Variables maps the palette onto CSS variables. Border and muted text are
// the text color with an alpha suffix. A nil palette yields the default
// dark theme.
func Variables(p *entity.ColorPalette) []Variable {
	if p == nil {
		out := make([]Variable, len(defaults))
		copy(out, defaults)
		return out
	}
	return []Variable{
		{"--theme-primary", p.Primary},
		{"--theme-secondary", p.Secondary},
		{"--bg-main", p.Background},
		{"--bg-surface", p.Surface},
		{"--text-main", p.Text},
		{"--border-color", p.Text + "20"},
		{"--text-muted", p.Text + "90"},
	}
}

// ForProject picks the palette of the project's analysis, if any.
func ForProject(project entity.ProjectData) []Variable {
	if project.Analysis == nil {
		return Variables(nil)
	}
	return Variables(&project.Analysis.Palette)
}

// CSS renders the variables as a :root block.
func CSS(vars []Variable) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "  %s: %s;\n", v.Name, sanitize(v.Value))
	}
	b.WriteString("}\n")
	return b.String()
}

// sanitize keeps model-provided values from closing the declaration.
func sanitize(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '\n', '\r':
			return -1
		}
		return r
	}, v)
}
