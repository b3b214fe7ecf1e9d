// Package diagram lays out architecture diagrams in fixed zones and renders
// them as SVG.
package diagram

import (
	"fmt"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

const (
	NodeWidth  = 140.0
	NodeHeight = 60.0

	maxSpacing    = 100.0
	controlOffset = 50.0

	labelCharWidth  = 6.0
	labelPadding    = 10.0
	labelHeight     = 16.0
	labelLift       = 10.0
	labelTextMidRun = 3.0
)

type Canvas struct {
	Width  float64
	Height float64
}

// CanvasFor returns the inline canvas or, with full set, the expanded one.
func CanvasFor(full bool) Canvas {
	if full {
		return Canvas{Width: 1200, Height: 800}
	}
	return Canvas{Width: 800, Height: 600}
}

type Rect struct {
	X, Y, W, H float64
}

type Zone struct {
	Type  entity.NodeType
	Rect  Rect
	Label string
	Color string
}

// Zones are listed in render order.
func Zones(c Canvas) []Zone {
	return []Zone{
		{Type: entity.NodeTypeClient, Rect: Rect{20, 50, 200, c.Height - 100}, Label: "Client Side", Color: "var(--theme-secondary)"},
		{Type: entity.NodeTypeService, Rect: Rect{300, 50, 250, c.Height - 100}, Label: "Backend & API", Color: "var(--theme-primary)"},
		{Type: entity.NodeTypeDatabase, Rect: Rect{600, 200, 180, c.Height - 250}, Label: "Data Layer", Color: "#10b981"},
		{Type: entity.NodeTypeExternal, Rect: Rect{600, 50, 180, 120}, Label: "External / 3rd Party", Color: "#f59e0b"},
	}
}

type PlacedNode struct {
	Node entity.DiagramNode
	Box  Rect
	// Color is the zone accent, empty for nodes of an unknown type.
	Color string
}

type LabelPlate struct {
	Text  string
	Box   Rect
	TextX float64
	TextY float64
}

type PlacedEdge struct {
	Edge  entity.DiagramEdge
	Path  string
	Label *LabelPlate
}

type Result struct {
	Canvas Canvas
	Zones  []Zone
	Nodes  []PlacedNode
	Edges  []PlacedEdge
}

// Layout places nodes into their zones and routes the edges between them.
// Edges with an endpoint that is not a node are dropped. The result depends
// only on the arguments.
func Layout(nodes []entity.DiagramNode, edges []entity.DiagramEdge, canvas Canvas) Result {
	zones := Zones(canvas)

	groups := make(map[entity.NodeType][]entity.DiagramNode, len(zones))
	for _, n := range nodes {
		t := n.Type
		if !t.IsValid() {
			t = entity.NodeTypeService
		}
		groups[t] = append(groups[t], n)
	}

	pos := make(map[string]Rect, len(nodes))
	for _, z := range zones {
		placeGroup(z.Rect, groups[z.Type], pos)
	}

	colors := make(map[entity.NodeType]string, len(zones))
	for _, z := range zones {
		colors[z.Type] = z.Color
	}

	res := Result{
		Canvas: canvas,
		Zones:  zones,
		Nodes:  make([]PlacedNode, 0, len(nodes)),
		Edges:  make([]PlacedEdge, 0, len(edges)),
	}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, PlacedNode{Node: n, Box: pos[n.ID], Color: colors[n.Type]})
	}

	for _, e := range edges {
		from, okFrom := pos[e.From]
		to, okTo := pos[e.To]
		if !okFrom || !okTo {
			continue
		}
		res.Edges = append(res.Edges, routeEdge(e, from, to))
	}

	return res
}

// placeGroup stacks nodes vertically, evenly spaced and centered in the zone.
func placeGroup(zone Rect, nodes []entity.DiagramNode, pos map[string]Rect) {
	count := float64(len(nodes))
	if count == 0 {
		return
	}

	spacing := min(maxSpacing, zone.H/count)
	groupH := count*NodeHeight + (count-1)*(spacing-NodeHeight)
	startY := zone.Y + (zone.H-groupH)/2
	x := zone.X + (zone.W-NodeWidth)/2

	for i, n := range nodes {
		pos[n.ID] = Rect{X: x, Y: startY + float64(i)*spacing, W: NodeWidth, H: NodeHeight}
	}
}

// routeEdge draws an S curve from the right middle of the source to the
// left middle of the target.
func routeEdge(e entity.DiagramEdge, from, to Rect) PlacedEdge {
	sx, sy := from.X+from.W, from.Y+from.H/2
	ex, ey := to.X, to.Y+to.H/2

	pe := PlacedEdge{
		Edge: e,
		Path: fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
			num(sx), num(sy), num(sx+controlOffset), num(sy), num(ex-controlOffset), num(ey), num(ex), num(ey)),
	}

	if e.Label != "" {
		n := float64(len([]rune(e.Label)))
		x := (from.X + to.X + from.W) / 2
		y := (from.Y + to.Y) / 2
		pe.Label = &LabelPlate{
			Text:  e.Label,
			Box:   Rect{X: x, Y: y - labelLift, W: n*labelCharWidth + labelPadding, H: labelHeight},
			TextX: x + n*labelTextMidRun,
			TextY: y + 2,
		}
	}
	return pe
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
