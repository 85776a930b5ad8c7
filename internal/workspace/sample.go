// Package workspace samples the arm's reachable points over a search grid and
// renders them as statistics, PNG plots and echarts scatter charts.
package workspace

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/armkin/internal/geom"
	"github.com/banshee-data/armkin/internal/kinematics"
)

// Sample is one grid candidate and where it puts the finger.
type Sample struct {
	Angles kinematics.JointAngles `json:"angles"`
	Finger geom.Point             `json:"finger"`
}

// Reach is the horizontal distance of the finger from the base axis.
func (s Sample) Reach() float64 {
	return math.Hypot(s.Finger.X, s.Finger.Z)
}

// SampleGrid evaluates every stride-th candidate of g, in enumeration order,
// through chain. A nil chain uses kinematics.K10S; stride below 1 is treated
// as 1.
func SampleGrid(g kinematics.Grid, stride int, chain kinematics.Chain) ([]Sample, error) {
	if err := g.Validate(); err != nil || g.Len() == 0 {
		return nil, kinematics.ErrEmptyGrid
	}
	if stride < 1 {
		stride = 1
	}
	if chain == nil {
		chain = kinematics.K10S
	}

	out := make([]Sample, 0, g.Len()/stride+1)
	for i := 0; i < g.Len(); i += stride {
		a := g.At(i)
		out = append(out, Sample{Angles: a, Finger: chain.Apply(a)})
	}
	return out, nil
}

// ErrNoSamples is returned when statistics are requested for nothing.
var ErrNoSamples = errors.New("no samples")

// Stats summarises a set of samples. Distances are from the origin in meters;
// reach is measured from the vertical base axis.
type Stats struct {
	Count        int        `json:"count"`
	MinDistance  float64    `json:"min_distance"`
	MaxDistance  float64    `json:"max_distance"`
	MeanDistance float64    `json:"mean_distance"`
	StdDistance  float64    `json:"std_distance"`
	MaxReach     float64    `json:"max_reach"`
	MinBound     geom.Point `json:"min_bound"`
	MaxBound     geom.Point `json:"max_bound"`
}

// ComputeStats returns distance, reach and bounding box statistics.
func ComputeStats(samples []Sample) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, ErrNoSamples
	}

	n := len(samples)
	dist := make([]float64, n)
	reach := make([]float64, n)
	xs, ys, zs := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, s := range samples {
		dist[i] = s.Finger.Norm()
		reach[i] = s.Reach()
		xs[i], ys[i], zs[i] = s.Finger.X, s.Finger.Y, s.Finger.Z
	}

	st := Stats{
		Count:        n,
		MinDistance:  floats.Min(dist),
		MaxDistance:  floats.Max(dist),
		MeanDistance: stat.Mean(dist, nil),
		MaxReach:     floats.Max(reach),
		MinBound:     geom.NewPoint(floats.Min(xs), floats.Min(ys), floats.Min(zs)),
		MaxBound:     geom.NewPoint(floats.Max(xs), floats.Max(ys), floats.Max(zs)),
	}
	if n > 1 {
		st.StdDistance = stat.StdDev(dist, nil)
	}
	return st, nil
}
