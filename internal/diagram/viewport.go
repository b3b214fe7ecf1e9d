package diagram

import "fmt"

const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	ZoomStep    = 0.25
	WheelFactor = 0.001
)

// Viewport is the zoom and pan of one viewer. It never changes the layout.
type Viewport struct {
	Zoom float64
	PanX float64
	PanY float64
}

func Identity() Viewport {
	return Viewport{Zoom: 1}
}

func (v Viewport) ZoomIn() Viewport {
	v.Zoom = clampZoom(v.Zoom + ZoomStep)
	return v
}

func (v Viewport) ZoomOut() Viewport {
	v.Zoom = clampZoom(v.Zoom - ZoomStep)
	return v
}

// Wheel applies a scroll delta; scrolling up zooms in.
func (v Viewport) Wheel(deltaY float64) Viewport {
	v.Zoom = clampZoom(v.Zoom - deltaY*WheelFactor)
	return v
}

// SetZoom jumps to an absolute zoom level within bounds.
func (v Viewport) SetZoom(z float64) Viewport {
	v.Zoom = clampZoom(z)
	return v
}

func (v Viewport) Pan(dx, dy float64) Viewport {
	v.PanX += dx
	v.PanY += dy
	return v
}

func (v Viewport) Reset() Viewport {
	return Identity()
}

func (v Viewport) IsIdentity() bool {
	return v == Identity()
}

// Transform is the SVG transform attribute for the viewport.
func (v Viewport) Transform() string {
	if v.IsIdentity() {
		return ""
	}
	return fmt.Sprintf("translate(%s %s) scale(%s)", num(v.PanX), num(v.PanY), num(v.Zoom))
}

func clampZoom(z float64) float64 {
	return min(max(z, MinZoom), MaxZoom)
}
