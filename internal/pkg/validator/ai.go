package validator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

// Palette colors are #rrggbb only: theme variables append a two-digit alpha.
var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateAnalysis checks an analysis against the schema the model is asked
// to fill.
func ValidateAnalysis(a *entity.AnalysisResult) error {
	var errs []error
	if a.Title == "" {
		errs = append(errs, missing("title"))
	}
	if a.Summary == "" {
		errs = append(errs, missing("summary"))
	}
	if len(a.CoreFeatures) == 0 {
		errs = append(errs, missing("coreFeatures"))
	}
	for i, q := range a.Questions {
		if q.Question == "" {
			errs = append(errs, missing(fmt.Sprintf("questions[%d].question", i)))
		}
	}
	if !a.ThemeMode.IsValid() {
		errs = append(errs, invalid("themeMode", string(a.ThemeMode)))
	}
	colors := map[string]string{
		"palette.primary":    a.Palette.Primary,
		"palette.secondary":  a.Palette.Secondary,
		"palette.background": a.Palette.Background,
		"palette.surface":    a.Palette.Surface,
		"palette.text":       a.Palette.Text,
	}
	keys := make([]string, 0, len(colors))
	for k := range colors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !hexColorRe.MatchString(colors[k]) {
			errs = append(errs, invalid(k, colors[k]))
		}
	}
	return errors.Join(errs...)
}

func ValidateArchitecture(a *entity.ArchitectureResult) error {
	var errs []error
	if a.Rationale == "" {
		errs = append(errs, missing("rationale"))
	}
	for i, m := range a.Modules {
		if m.Name == "" {
			errs = append(errs, missing(fmt.Sprintf("modules[%d].name", i)))
		}
	}
	ids := make(map[string]struct{}, len(a.Diagram.Nodes))
	for i, n := range a.Diagram.Nodes {
		if n.ID == "" {
			errs = append(errs, missing(fmt.Sprintf("diagram.nodes[%d].id", i)))
		}
		if !n.Type.IsValid() {
			errs = append(errs, invalid(fmt.Sprintf("diagram.nodes[%d].type", i), string(n.Type)))
		}
		if _, dup := ids[n.ID]; dup && n.ID != "" {
			errs = append(errs, invalid(fmt.Sprintf("diagram.nodes[%d].id", i), n.ID+" (duplicate)"))
		}
		ids[n.ID] = struct{}{}
	}
	// Dangling edges are tolerated; the layout drops them.
	return errors.Join(errs...)
}

func ValidatePlan(p *entity.PlanResult) error {
	var errs []error
	if len(p.Phases) == 0 {
		errs = append(errs, missing("phases"))
	}
	for i, ph := range p.Phases {
		if ph.Name == "" {
			errs = append(errs, missing(fmt.Sprintf("phases[%d].name", i)))
		}
		for j, t := range ph.Tasks {
			if t.Name == "" {
				errs = append(errs, missing(fmt.Sprintf("phases[%d].tasks[%d].name", i, j)))
			}
			if !t.Complexity.IsValid() {
				errs = append(errs, invalid(fmt.Sprintf("phases[%d].tasks[%d].complexity", i, j), string(t.Complexity)))
			}
		}
	}
	return errors.Join(errs...)
}

func ValidateDocs(d *entity.DocsResult) error {
	var errs []error
	if d.PRD == "" {
		errs = append(errs, missing("prd"))
	}
	if !d.DesignStyle.IsValid() {
		errs = append(errs, invalid("designStyle", string(d.DesignStyle)))
	}
	if len(d.Slides) == 0 {
		errs = append(errs, missing("slides"))
	}
	for i, s := range d.Slides {
		if s.Title == "" {
			errs = append(errs, missing(fmt.Sprintf("slides[%d].title", i)))
		}
		if !s.Layout.IsValid() {
			errs = append(errs, invalid(fmt.Sprintf("slides[%d].layout", i), string(s.Layout)))
		}
	}
	return errors.Join(errs...)
}

func ValidateAgentReply(r *entity.AgentReply) error {
	var errs []error
	if !slices.Contains(entity.AgentPersonas, r.AgentName) {
		errs = append(errs, invalid("agentName", r.AgentName))
	}
	if r.Text == "" {
		errs = append(errs, missing("response"))
	}
	return errors.Join(errs...)
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", entity.ErrMissingField, field)
}

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s=%q", entity.ErrInvalidFormat, field, value)
}
