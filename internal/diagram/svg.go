package diagram

import (
	"encoding/xml"
	"fmt"
	"io"
)

const (
	defaultStroke  = "var(--border-color)"
	defaultSurface = "var(--bg-surface)"
)

type svgRoot struct {
	XMLName xml.Name `xml:"svg"`
	Xmlns   string   `xml:"xmlns,attr"`
	Width   float64  `xml:"width,attr"`
	Height  float64  `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Defs    svgDefs  `xml:"defs"`
	Scene   svgGroup `xml:"g"`
}

type svgDefs struct {
	Marker svgMarker `xml:"marker"`
}

type svgMarker struct {
	ID           string     `xml:"id,attr"`
	MarkerWidth  int        `xml:"markerWidth,attr"`
	MarkerHeight int        `xml:"markerHeight,attr"`
	RefX         int        `xml:"refX,attr"`
	RefY         int        `xml:"refY,attr"`
	Orient       string     `xml:"orient,attr"`
	Polygon      svgPolygon `xml:"polygon"`
}

type svgPolygon struct {
	Points  string  `xml:"points,attr"`
	Fill    string  `xml:"fill,attr"`
	Opacity float64 `xml:"opacity,attr"`
}

type svgGroup struct {
	XMLName   xml.Name `xml:"g"`
	ID        string   `xml:"id,attr,omitempty"`
	Transform string   `xml:"transform,attr,omitempty"`
	Opacity   float64  `xml:"opacity,attr,omitempty"`
	Children  []any
}

type svgRect struct {
	XMLName     xml.Name `xml:"rect"`
	X           float64  `xml:"x,attr"`
	Y           float64  `xml:"y,attr"`
	Width       float64  `xml:"width,attr"`
	Height      float64  `xml:"height,attr"`
	RX          float64  `xml:"rx,attr,omitempty"`
	Fill        string   `xml:"fill,attr,omitempty"`
	Stroke      string   `xml:"stroke,attr,omitempty"`
	StrokeWidth float64  `xml:"stroke-width,attr,omitempty"`
	Dash        string   `xml:"stroke-dasharray,attr,omitempty"`
	Opacity     float64  `xml:"opacity,attr,omitempty"`
}

type svgPath struct {
	XMLName     xml.Name `xml:"path"`
	D           string   `xml:"d,attr"`
	Fill        string   `xml:"fill,attr"`
	Stroke      string   `xml:"stroke,attr"`
	StrokeWidth float64  `xml:"stroke-width,attr"`
	MarkerEnd   string   `xml:"marker-end,attr"`
}

type svgText struct {
	XMLName    xml.Name `xml:"text"`
	X          float64  `xml:"x,attr"`
	Y          float64  `xml:"y,attr"`
	DY         float64  `xml:"dy,attr,omitempty"`
	Anchor     string   `xml:"text-anchor,attr"`
	Fill       string   `xml:"fill,attr"`
	FontSize   float64  `xml:"font-size,attr"`
	FontWeight string   `xml:"font-weight,attr,omitempty"`
	FontFamily string   `xml:"font-family,attr,omitempty"`
	Text       string   `xml:",chardata"`
}

// RenderSVG writes the layout as a standalone SVG document. Colors are CSS
// variables so the workspace theme applies.
func RenderSVG(w io.Writer, res Result, vp Viewport) error {
	doc := svgRoot{
		Xmlns:   "http://www.w3.org/2000/svg",
		Width:   res.Canvas.Width,
		Height:  res.Canvas.Height,
		ViewBox: fmt.Sprintf("0 0 %s %s", num(res.Canvas.Width), num(res.Canvas.Height)),
		Defs: svgDefs{Marker: svgMarker{
			ID: "arrowhead", MarkerWidth: 6, MarkerHeight: 4, RefX: 5, RefY: 2, Orient: "auto",
			Polygon: svgPolygon{Points: "0 0, 6 2, 0 4", Fill: "var(--text-muted)", Opacity: 0.5},
		}},
		Scene: svgGroup{ID: "scene", Transform: vp.Transform()},
	}

	for _, z := range res.Zones {
		doc.Scene.Children = append(doc.Scene.Children, zoneGroup(z))
	}
	for _, e := range res.Edges {
		doc.Scene.Children = append(doc.Scene.Children, edgeGroup(e))
	}
	for _, n := range res.Nodes {
		doc.Scene.Children = append(doc.Scene.Children, nodeGroup(n))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode svg: %w", err)
	}
	return enc.Close()
}

func zoneGroup(z Zone) svgGroup {
	return svgGroup{Children: []any{
		svgRect{
			X: z.Rect.X, Y: z.Rect.Y, Width: z.Rect.W, Height: z.Rect.H, RX: 12,
			Fill: defaultSurface, Stroke: defaultStroke, Dash: "4 4", Opacity: 0.3,
		},
		svgText{
			X: z.Rect.X + z.Rect.W/2, Y: z.Rect.Y - 10, Anchor: "middle",
			Fill: z.Color, FontSize: 12, FontWeight: "bold", Text: z.Label,
		},
	}}
}

func edgeGroup(e PlacedEdge) svgGroup {
	g := svgGroup{Opacity: 0.6, Children: []any{
		svgPath{D: e.Path, Fill: "none", Stroke: defaultStroke, StrokeWidth: 2, MarkerEnd: "url(#arrowhead)"},
	}}
	if e.Label != nil {
		g.Children = append(g.Children,
			svgRect{X: e.Label.Box.X, Y: e.Label.Box.Y, Width: e.Label.Box.W, Height: e.Label.Box.H, RX: 4, Fill: "var(--bg-main)"},
			svgText{
				X: e.Label.TextX, Y: e.Label.TextY, Anchor: "middle",
				Fill: "var(--text-muted)", FontSize: 9, FontFamily: "monospace", Text: e.Label.Text,
			},
		)
	}
	return g
}

func nodeGroup(n PlacedNode) svgGroup {
	accent := n.Color
	if accent == "" {
		accent = defaultStroke
	}
	w, h := n.Box.W, n.Box.H
	return svgGroup{
		Transform: fmt.Sprintf("translate(%s, %s)", num(n.Box.X), num(n.Box.Y)),
		Children: []any{
			svgRect{X: 2, Y: 2, Width: w, Height: h, RX: 8, Fill: "black", Opacity: 0.2},
			svgRect{Width: w, Height: h, RX: 8, Fill: defaultSurface, Stroke: accent, StrokeWidth: 1.5},
			svgRect{Width: w, Height: 4, RX: 2, Fill: accent, Opacity: 0.8},
			svgText{X: w / 2, Y: h / 2, DY: -4, Anchor: "middle", Fill: "var(--text-main)", FontSize: 11, FontWeight: "bold", Text: n.Node.Label},
			svgText{X: w / 2, Y: h / 2, DY: 12, Anchor: "middle", Fill: "var(--text-muted)", FontSize: 8, Text: string(n.Node.Type)},
		},
	}
}
