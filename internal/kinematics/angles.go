// Package kinematics maps joint angles of a six-axis Motoman K10S style arm
// to the position of its tool attachment point, and searches for joint
// angles that reach a given point.
//
// Axes, base to tool:
//
//	S  base yaw, turns left and right
//	L  lower arm pitch, general tilt up and down
//	U  elbow angle
//	R  forearm roll, twists the middle of the upper arm
//	B  wrist pitch, tool tilts up and down (or sideways, depending on R)
//	T  finger twist, spins the tool attachment
//
// Angles are in degrees and lengths in meters. The arm's native pulse-count
// units are not handled here.
package kinematics

import (
	"fmt"
	"strconv"
	"strings"
)

// JointAngles holds one angle per axis in degrees. No range is enforced.
type JointAngles struct {
	S float64 `json:"s"`
	L float64 `json:"l"`
	U float64 `json:"u"`
	R float64 `json:"r"`
	B float64 `json:"b"`
	T float64 `json:"t"`
}

// AxisNames lists the joint axes in (S, L, U, R, B, T) order.
var AxisNames = []string{"S", "L", "U", "R", "B", "T"}

// JointAnglesFromSlice builds JointAngles from six values in (S, L, U, R, B, T) order.
func JointAnglesFromSlice(v []float64) (JointAngles, error) {
	if len(v) != 6 {
		return JointAngles{}, fmt.Errorf("joint angles require 6 values (S L U R B T), got %d", len(v))
	}
	return JointAngles{S: v[0], L: v[1], U: v[2], R: v[3], B: v[4], T: v[5]}, nil
}

// ParseJointAngles parses six comma or space separated degree values.
func ParseJointAngles(s string) (JointAngles, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return JointAngles{}, fmt.Errorf("invalid angle %q: %w", f, err)
		}
		vals = append(vals, v)
	}
	return JointAnglesFromSlice(vals)
}

// AsSlice returns the angles in (S, L, U, R, B, T) order.
func (a JointAngles) AsSlice() []float64 {
	return []float64{a.S, a.L, a.U, a.R, a.B, a.T}
}

// String formats the angles as a list, e.g. [90, 0, -45, 0, 0, 0].
func (a JointAngles) String() string {
	parts := make([]string, 6)
	for i, v := range a.AsSlice() {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
