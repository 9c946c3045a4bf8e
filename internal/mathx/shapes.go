package mathx

import "math"

// ShapeKind enumerates the collision primitives an entity may carry.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCapsule   ShapeKind = "capsule"
)

// Shape is the union of the three collision primitives named in the data
// model: a circle of radius R, a W×H rectangle, or a capsule of radius R and
// length H. Offset lets a shape be carried off an entity's logical center
// (e.g. a melee hitbox projecting in front of a champion).
type Shape struct {
	Kind   ShapeKind
	R      float64
	W      float64
	H      float64
	Offset Vec2
}

// Circle returns a circle shape of the given radius.
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, R: r}
}

// Rectangle returns a w×h rectangle shape.
func Rectangle(w, h float64) Shape {
	return Shape{Kind: ShapeRectangle, W: w, H: h}
}

// Capsule returns a capsule shape of radius r and length h.
func Capsule(r, h float64) Shape {
	return Shape{Kind: ShapeCapsule, R: r, H: h}
}

// EffectiveRadius returns the radius used for narrow-phase dispatch. Per
// §4.2 of the design, a capsule is treated as a circle on its radius for
// simplicity; a rectangle's effective radius is its half-diagonal, used only
// for conservative broad-phase bounding, never for the exact rectangle test.
func (s Shape) EffectiveRadius() float64 {
	switch s.Kind {
	case ShapeCircle, ShapeCapsule:
		return s.R
	case ShapeRectangle:
		return 0.5 * math.Hypot(s.W, s.H)
	default:
		return 0
	}
}

// AABB returns the axis-aligned bounding box of the shape centered at pos.
func (s Shape) AABB(pos Vec2) (min, max Vec2) {
	center := pos.Add(s.Offset)
	switch s.Kind {
	case ShapeRectangle:
		half := V2(s.W/2, s.H/2)
		return center.Sub(half), center.Add(half)
	default:
		r := s.EffectiveRadius()
		half := V2(r, r)
		return center.Sub(half), center.Add(half)
	}
}

