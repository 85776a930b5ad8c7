package api

import (
	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
)

// ForwardResponse is returned by GET /api/forward.
type ForwardResponse struct {
	Angles kinematics.JointAngles `json:"angles"`
	Point  geom.Point             `json:"point"`
	Units  string                 `json:"units"`
	Trace  []TraceStep            `json:"trace,omitempty"`
}

// TraceStep is one chain step in a forward response, in response units.
type TraceStep struct {
	Label string     `json:"label"`
	Point geom.Point `json:"point"`
}

// InverseRequest is the body of POST /api/inverse. Units default to the
// server's configured units.
type InverseRequest struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Units string   `json:"units,omitempty"`
}

// InverseResponse is returned by POST /api/inverse. Target, Finger and
// Distance are in Units.
type InverseResponse struct {
	SolutionID string                 `json:"solution_id,omitempty"`
	Target     geom.Point             `json:"target"`
	Angles     kinematics.JointAngles `json:"angles"`
	Finger     geom.Point             `json:"finger"`
	Distance   float64                `json:"distance"`
	Evaluated  int                    `json:"evaluated"`
	Units      string                 `json:"units"`
	Cached     bool                   `json:"cached"`
	DurationMS float64                `json:"duration_ms"`
}

// GridResponse describes the server's search grid.
type GridResponse struct {
	S          string `json:"s"`
	L          string `json:"l"`
	U          string `json:"u"`
	Key        string `json:"key"`
	Candidates int    `json:"candidates"`
	Workers    int    `json:"workers"`
	Units      string `json:"units"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version   string `json:"version"`
	GitSHA    string `json:"git_sha"`
	BuildTime string `json:"build_time"`
}
