// Package geom provides the 3D point and rotation primitives used by the
// kinematics engine. All lengths are in meters.
//
// Coordinate convention (sitting behind the arm, which reaches away from you):
// X = sideways, Y = up, Z = forward from the base towards the hand.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is an immutable 3D coordinate. Every transform returns a new Point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Origin is the point (0, 0, 0).
var Origin = Point{}

// NewPoint returns the point (x, y, z).
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// PointFromSlice builds a point from exactly three coordinates.
func PointFromSlice(v []float64) (Point, error) {
	if len(v) != 3 {
		return Point{}, fmt.Errorf("point requires 3 coordinates, got %d", len(v))
	}
	return Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

func (p Point) vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

func fromVec(v r3.Vec) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

// Plus returns p + o.
func (p Point) Plus(o Point) Point {
	return fromVec(r3.Add(p.vec(), o.vec()))
}

// Translate moves p by offset. Same as Plus.
func (p Point) Translate(offset Point) Point {
	return p.Plus(offset)
}

// Minus returns p - o.
func (p Point) Minus(o Point) Point {
	return fromVec(r3.Sub(p.vec(), o.vec()))
}

// Scale returns p with every component multiplied by f.
func (p Point) Scale(f float64) Point {
	return fromVec(r3.Scale(f, p.vec()))
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point) DistanceTo(o Point) float64 {
	return r3.Norm(r3.Sub(p.vec(), o.vec()))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.DistanceTo(b)
}

// Norm returns the distance from the origin.
func (p Point) Norm() float64 {
	return r3.Norm(p.vec())
}

// RotateX rotates p about the X axis through the origin.
func (p Point) RotateX(degrees float64) Point {
	return p.RotateAround(AxisX, degrees, Origin)
}

// RotateY rotates p about the Y axis through the origin.
func (p Point) RotateY(degrees float64) Point {
	return p.RotateAround(AxisY, degrees, Origin)
}

// RotateZ rotates p about the Z axis through the origin.
func (p Point) RotateZ(degrees float64) Point {
	return p.RotateAround(AxisZ, degrees, Origin)
}

// RotateAround rotates p by degrees about the line parallel to axis that
// passes through center. The point is shifted so center is the origin, the
// rotation matrix is applied, and the shift is undone.
func (p Point) RotateAround(axis Axis, degrees float64, center Point) Point {
	m := RotationMatrix(axis, Radians(degrees))
	rel := p.Minus(center).vec()
	return fromVec(m.MulVec(rel)).Plus(center)
}

// AsSlice returns the coordinates as [x, y, z].
func (p Point) AsSlice() []float64 {
	return []float64{p.X, p.Y, p.Z}
}

// String formats p for debug output.
func (p Point) String() string {
	return fmt.Sprintf("<%9.2f %9.2f %9.2f>", p.X, p.Y, p.Z)
}

// AlmostEqual reports whether every component of a and b differs by at most eps.
func AlmostEqual(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
