package workspace

import (
	"fmt"
	"strings"
)

// View is a 2D projection of the workspace.
type View int

const (
	// ViewTop looks down the vertical Y axis onto the X-Z floor plane.
	ViewTop View = iota
	// ViewSide plots height (Y) against horizontal reach.
	ViewSide
)

func (v View) String() string {
	switch v {
	case ViewTop:
		return "top"
	case ViewSide:
		return "side"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// ParseView accepts "top" or "side".
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return ViewTop, nil
	case "side":
		return ViewSide, nil
	}
	return 0, fmt.Errorf("unknown view %q (want top or side)", s)
}

// Labels returns the horizontal and vertical axis labels.
func (v View) Labels() (x, y string) {
	if v == ViewSide {
		return "Reach (m)", "Y (m)"
	}
	return "X (m)", "Z (m)"
}

// Project maps a sample onto the view's plane.
func (v View) Project(s Sample) (x, y float64) {
	if v == ViewSide {
		return s.Reach(), s.Finger.Y
	}
	return s.Finger.X, s.Finger.Z
}
