package kinematics

import (
	"github.com/banshee-data/armkin/internal/geom"
)

// LinkOffset is the fixed translation between two consecutive joints, in meters.
type LinkOffset struct {
	Name   string
	Offset geom.Point
}

// Link offsets measured from the diagram on page 19 of the K10S manual
// (lengths there are in tenths of a centimeter). Some are estimates that
// still need to be physically measured.
var (
	WristToFinger   = LinkOffset{"wrist -> finger", geom.NewPoint(0, 0, 0.100)}
	ForearmToWrist  = LinkOffset{"forearm -> wrist", geom.NewPoint(0, 0, 0.770/2)}
	ElbowToForearm  = LinkOffset{"elbow -> forearm", geom.NewPoint(0, 0.077, 0.770/2)}
	ShoulderToElbow = LinkOffset{"shoulder -> elbow", geom.NewPoint(0, 0.500, 0)}
	BaseToShoulder  = LinkOffset{"base -> shoulder", geom.NewPoint(0, 0.585, 0.152)}
)

var allLinkOffsets = []LinkOffset{WristToFinger, ForearmToWrist, ElbowToForearm, ShoulderToElbow, BaseToShoulder}

// RestPosition is where the finger sits with every angle at zero: lower arm
// vertical, forearm horizontal, wrist in line with the forearm. It is the
// plain sum of the link offsets, (0, 1.162, 1.022).
func RestPosition() geom.Point {
	return sumOffsets(allLinkOffsets)
}

// LinkOffsets returns the arm's link offsets from the finger back to the base.
func LinkOffsets() []LinkOffset {
	out := make([]LinkOffset, len(allLinkOffsets))
	copy(out, allLinkOffsets)
	return out
}

func sumOffsets(links []LinkOffset) geom.Point {
	p := geom.Origin
	for _, l := range links {
		p = p.Plus(l.Offset)
	}
	return p
}

// StepKind distinguishes rotation steps from translation steps.
type StepKind int

const (
	StepRotate StepKind = iota
	StepTranslate
)

// Step is one transform in a kinematic chain. Rotation steps read their angle
// from the joint named by Joint (index into S, L, U, R, B, T).
type Step struct {
	Label  string
	Kind   StepKind
	Axis   geom.Axis
	Joint  int
	Offset geom.Point
}

func rotate(label string, axis geom.Axis, joint int) Step {
	return Step{Label: label, Kind: StepRotate, Axis: axis, Joint: joint}
}

func translate(l LinkOffset) Step {
	return Step{Label: l.Name, Kind: StepTranslate, Offset: l.Offset}
}

// Apply applies the step to p for the given angles.
func (s Step) Apply(p geom.Point, angles []float64) geom.Point {
	if s.Kind == StepTranslate {
		return p.Translate(s.Offset)
	}
	return p.RotateAround(s.Axis, angles[s.Joint], geom.Origin)
}

// Chain is an ordered list of steps applied hand first, base last.
type Chain []Step

// Joint indexes into JointAngles.AsSlice.
const (
	JointS = iota
	JointL
	JointU
	JointR
	JointB
	JointT
)

// K10S is the forward kinematic chain of the arm. It yields the point at the
// end of the finger where tools attach; tool offsets are not included.
var K10S = Chain{
	rotate("finger twist", geom.AxisZ, JointT),
	translate(WristToFinger),
	rotate("wrist pitch", geom.AxisX, JointB),
	translate(ForearmToWrist),
	rotate("forearm twist", geom.AxisZ, JointR),
	translate(ElbowToForearm),
	rotate("elbow angle", geom.AxisX, JointU),
	translate(ShoulderToElbow),
	rotate("shoulder angle", geom.AxisX, JointL),
	translate(BaseToShoulder),
	rotate("base yaw", geom.AxisY, JointS),
}

// Apply runs the chain from the origin and returns the final point.
func (c Chain) Apply(a JointAngles) geom.Point {
	angles := a.AsSlice()
	p := geom.Origin
	for _, s := range c {
		p = s.Apply(p, angles)
	}
	return p
}

// TracePoint is the chain position after one step.
type TracePoint struct {
	Label string     `json:"label"`
	Point geom.Point `json:"point"`
}

// Trace runs the chain and records the point after every step.
func (c Chain) Trace(a JointAngles) []TracePoint {
	angles := a.AsSlice()
	out := make([]TracePoint, 0, len(c))
	p := geom.Origin
	for _, s := range c {
		p = s.Apply(p, angles)
		out = append(out, TracePoint{Label: s.Label, Point: p})
	}
	return out
}

// ForwardKinematics returns the position of the finger for the given angles,
// in the base frame and in meters.
func ForwardKinematics(a JointAngles) geom.Point {
	return K10S.Apply(a)
}
