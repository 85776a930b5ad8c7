package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis names one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RotationMatrix returns the right-handed rotation matrix about axis for
// theta radians, row-major, applied to column vectors:
//
//	X: [1 0 0; 0 c -s; 0 s c]
//	Y: [c 0 s; 0 1 0; -s 0 c]
//	Z: [c -s 0; s c 0; 0 0 1]
//
// The handedness has not been checked against the physical arm; these exact
// matrices are part of the forward kinematics contract.
func RotationMatrix(axis Axis, theta float64) *r3.Mat {
	c, s := math.Cos(theta), math.Sin(theta)
	switch axis {
	case AxisX:
		return r3.NewMat([]float64{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		})
	case AxisY:
		return r3.NewMat([]float64{
			c, 0, s,
			0, 1, 0,
			-s, 0, c,
		})
	case AxisZ:
		return r3.NewMat([]float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		})
	default:
		panic(fmt.Sprintf("geom: invalid rotation axis %d", int(axis)))
	}
}
