// Package controlpoints builds the control polygons handed to a cubic
// B-spline evaluator.
//
// Every builder is a pure function of its geometric inputs and is safe for
// concurrent use. The fixed shapes (self-loop, straight, direct,
// through-midpoint) always have four points with the two middle points
// identical; a hierarchical path has one point per node on the path.
//
// The Y axis is "up" throughout.
package controlpoints

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Direction selects whether raised points go above (Up) or below (Down) the anchors.
type Direction float64

const (
	Up   Direction = 1
	Down Direction = -1
)

// Points is an ordered control polygon.
type Points []r3.Vec

// Len returns the number of control points.
func (p Points) Len() int { return len(p) }

// Start returns the first control point.
func (p Points) Start() r3.Vec { return p[0] }

// End returns the last control point.
func (p Points) End() r3.Vec { return p[len(p)-1] }

// Clone returns a copy that shares no memory with p.
func (p Points) Clone() Points { return append(Points(nil), p...) }

// Length returns the length of the control polygon.
func (p Points) Length() float64 {
	var l float64
	for i := 1; i < len(p); i++ {
		l += r3.Norm(r3.Sub(p[i], p[i-1]))
	}
	return l
}

// Bounds returns the axis-aligned box enclosing all points.
func (p Points) Bounds() r3.Box {
	if len(p) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		b.Min = r3.Vec{X: math.Min(b.Min.X, v.X), Y: math.Min(b.Min.Y, v.Y), Z: math.Min(b.Min.Z, v.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, v.X), Y: math.Max(b.Max.Y, v.Y), Z: math.Max(b.Max.Z, v.Z)}
	}
	return b
}

// ApproxEqual reports whether p and q have the same length and every pair of
// points lies within tol of each other.
func (p Points) ApproxEqual(q Points, tol float64) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if r3.Norm(r3.Sub(p[i], q[i])) > tol {
			return false
		}
	}
	return true
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r3.Vec) r3.Vec { return r3.Scale(0.5, r3.Add(a, b)) }

// Raise moves p along the Y axis by dy.
func Raise(p r3.Vec, dy float64) r3.Vec {
	p.Y += dy
	return p
}

// WithY returns p with its Y coordinate replaced by y.
func WithY(p r3.Vec, y float64) r3.Vec {
	p.Y = y
	return p
}

// Corners returns the front-left and back-right corners of a footprint of
// the given scale centered on anchor. Both corners share the anchor's Y.
func Corners(anchor, scale r3.Vec) (r3.Vec, r3.Vec) {
	half := r3.Vec{X: scale.X / 2, Z: scale.Z / 2}
	return r3.Sub(anchor, half), r3.Add(anchor, half)
}

// SelfLoop returns a diagonal loop over a node's footprint: it starts at one
// footprint corner on the anchor plane, peaks at the anchor moved in dir by
// the corner-to-corner distance, and ends at the opposite corner. The peak
// is moved by at least minLift, so nodes without a footprint still get a
// visible loop.
func SelfLoop(anchor, scale r3.Vec, dir Direction, minLift float64) Points {
	from, to := Corners(anchor, scale)
	lift := max(r3.Norm(r3.Sub(to, from)), minLift)
	peak := Raise(anchor, float64(dir)*lift)
	return Points{from, peak, peak, to}
}

// Straight returns the degenerate cubic for the segment start→end.
func Straight(start, end r3.Vec) Points {
	mid := Midpoint(start, end)
	return Points{start, mid, mid, end}
}

// Direct returns a single arc from start to end whose midpoint is raised by lift.
func Direct(start, end r3.Vec, lift float64) Points {
	mid := Raise(Midpoint(start, end), lift)
	return Points{start, mid, mid, end}
}

// ThroughMidpoint returns an arc from start to end through the midpoint of
// the anchors, moved by lift past the outer anchor: the higher one for a
// positive lift, the lower one for a negative lift.
func ThroughMidpoint(start, end r3.Vec, lift float64) Points {
	y := math.Max(start.Y, end.Y)
	if lift < 0 {
		y = math.Min(start.Y, end.Y)
	}
	mid := WithY(Midpoint(start, end), y+lift)
	return Points{start, mid, mid, end}
}

// Path returns start, the interior points in order, then end.
func Path(start r3.Vec, interior []r3.Vec, end r3.Vec) Points {
	p := make(Points, 0, len(interior)+2)
	p = append(p, start)
	p = append(p, interior...)
	return append(p, end)
}
