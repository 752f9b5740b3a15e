package arena

import "math"

// Vector2D is a point or displacement in the arena's 2D plane.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vector2D) Scale(s float64) Vector2D {
	return Vector2D{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean length of v.
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the direction of v, or the zero
// vector if v has zero length.
func (v Vector2D) Normalize() Vector2D {
	l := v.Length()
	if l == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / l, Y: v.Y / l}
}

// Dot returns the dot product of v and o.
func (v Vector2D) Dot(o Vector2D) float64 {
	return v.X*o.X + v.Y*o.Y
}

// IsCardinalOpposite reports whether v and o are unit cardinal vectors
// pointing in exactly opposite directions (dot product == -1).
func (v Vector2D) IsCardinalOpposite(o Vector2D) bool {
	return v.Dot(o) == -1
}

// Equal reports exact coordinate equality, used to detect a change of
// direction between ticks.
func (v Vector2D) Equal(o Vector2D) bool {
	return v.X == o.X && v.Y == o.Y
}

var (
	DirUp    = Vector2D{X: 0, Y: 1}
	DirDown  = Vector2D{X: 0, Y: -1}
	DirLeft  = Vector2D{X: -1, Y: 0}
	DirRight = Vector2D{X: 1, Y: 0}
)

// AABB is an axis-aligned bounding box, inclusive of both corners.
type AABB struct {
	Min Vector2D
	Max Vector2D
}

// NewAABB builds the bounding box spanning two arbitrary points.
func NewAABB(a, b Vector2D) AABB {
	box := AABB{
		Min: Vector2D{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Vector2D{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
	return box
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float64) AABB {
	return AABB{
		Min: Vector2D{X: b.Min.X - margin, Y: b.Min.Y - margin},
		Max: Vector2D{X: b.Max.X + margin, Y: b.Max.Y + margin},
	}
}

// Contains reports whether p lies within the box, inclusive of edges.
func (b AABB) Contains(p Vector2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
