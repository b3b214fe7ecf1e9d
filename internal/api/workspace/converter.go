package workspace

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/diagram"
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

func toCallbackWorkspaceUpdated(state entity.WorkspaceState, action string) *entity.CallbackWorkspaceUpdatedData {
	return &entity.CallbackWorkspaceUpdatedData{
		WorkspaceID: state.WorkspaceID,
		ProjectID:   state.Project.ID,
		Action:      action,
		Stage:       state.Stage,
	}
}

// parseViewport reads the viewer state from query parameters: an absolute
// zoom, a wheel delta applied on top of it and a pan offset.
func parseViewport(q url.Values) (diagram.Viewport, error) {
	vp := diagram.Identity()

	zoom, err := floatParam(q, "zoom")
	if err != nil {
		return vp, err
	}
	if zoom != nil {
		vp = vp.SetZoom(*zoom)
	}

	wheel, err := floatParam(q, "wheel")
	if err != nil {
		return vp, err
	}
	if wheel != nil {
		vp = vp.Wheel(*wheel)
	}

	var pan [2]float64
	for i, name := range []string{"pan_x", "pan_y"} {
		v, err := floatParam(q, name)
		if err != nil {
			return vp, err
		}
		if v != nil {
			pan[i] = *v
		}
	}
	return vp.Pan(pan[0], pan[1]), nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidParameter, name)
	}
	return &v, nil
}
