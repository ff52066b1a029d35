package common

import "math"

// Vec3 is a world-space position. Y is up; combat happens on the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.Dot(a)) }

func (a Vec3) Norm() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Flat drops the vertical component.
func (a Vec3) Flat() Vec3 { return Vec3{X: a.X, Z: a.Z} }

// Heading returns the unit direction on the XZ plane for a yaw angle in
// radians. Yaw 0 faces +Z.
func Heading(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// Yaw is the inverse of Heading for a horizontal vector.
func Yaw(v Vec3) float64 {
	return math.Atan2(v.X, v.Z)
}

// AngleBetween returns the angle in radians between two unit vectors.
func AngleBetween(a, b Vec3) float64 {
	return math.Acos(Clamp(a.Dot(b), -1, 1))
}
