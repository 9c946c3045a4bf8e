package spatial

import (
	"math"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/entity"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/mathx"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/simrand"
)

// Narrow dispatches a single candidate pair to the shape-combination test
// named in §4.2: circle/circle, circle/rectangle via clamped-closest-point,
// rectangle/rectangle as AABB overlap, capsule treated as a circle on its
// radius.
func Narrow(a, b *entity.Entity) mathx.Overlap {
	aKind, bKind := a.Shape.Kind, b.Shape.Kind
	aPos, bPos := a.Pos.Add(a.Shape.Offset), b.Pos.Add(b.Shape.Offset)

	if aKind == mathx.ShapeRectangle && bKind == mathx.ShapeRectangle {
		return mathx.RectRect(aPos, a.Shape.W, a.Shape.H, bPos, b.Shape.W, b.Shape.H)
	}
	if aKind == mathx.ShapeRectangle {
		ov := mathx.CircleRect(bPos, b.Shape.EffectiveRadius(), aPos, a.Shape.W, a.Shape.H)
		return mathx.Overlap{Colliding: ov.Colliding, Gap: ov.Gap, Axis: ov.Axis.Mul(-1)}
	}
	if bKind == mathx.ShapeRectangle {
		return mathx.CircleRect(aPos, a.Shape.EffectiveRadius(), bPos, b.Shape.W, b.Shape.H)
	}
	return mathx.CircleCircle(aPos, a.Shape.EffectiveRadius(), bPos, b.Shape.EffectiveRadius())
}

// Resolve walks every broad-phase candidate pair, narrow-phase tests it, and
// applies mass-weighted separation to overlapping collidable+alive pairs
// (§4.2, §8 scenario 2). Dead, intangible, or opt-out entities are skipped
// entirely. Exactly one pass runs per tick; the grid is rebuilt next tick so
// a second pass buys nothing the spec requires.
func Resolve(grid *Grid, lookup func(id string) *entity.Entity, rng *simrand.Source) {
	for _, pair := range grid.CandidatePairs() {
		a := lookup(pair[0])
		b := lookup(pair[1])
		if a == nil || b == nil {
			continue
		}
		if !a.Collidable() || !b.Collidable() {
			continue
		}

		ov := Narrow(a, b)
		if !ov.Colliding {
			continue
		}

		separate(a, b, ov, rng)
	}
}

func separate(a, b *entity.Entity, ov mathx.Overlap, rng *simrand.Source) {
	overlap := -ov.Gap
	axis := ov.Axis
	if axis.Len() < 1e-9 {
		x, y := rng.UnitVector()
		axis = mathx.V2(x, y)
	}

	aInf := a.Mass == entity.InfiniteMass
	bInf := b.Mass == entity.InfiniteMass

	switch {
	case aInf && bInf:
		// Both immovable (e.g. two towers): nothing to do.
		return
	case aInf:
		b.Pos = b.Pos.Sub(axis.Mul(overlap))
	case bInf:
		a.Pos = a.Pos.Add(axis.Mul(overlap))
	default:
		total := a.Mass + b.Mass
		aShare := overlap * b.Mass / total
		bShare := overlap * a.Mass / total
		a.Pos = a.Pos.Add(axis.Mul(aShare))
		b.Pos = b.Pos.Sub(axis.Mul(bShare))
	}

	repairIfNonFinite(a)
	repairIfNonFinite(b)
}

// repairIfNonFinite is a last-resort guard that resets a non-finite
// position to the origin, so a NaN does not propagate out of Resolve. No
// last-finite position is kept to restore instead.
func repairIfNonFinite(e *entity.Entity) {
	if !mathx.IsFinite(e.Pos) {
		e.Pos = mathx.V2(0, 0)
	}
}

// MinSeparation returns the minimum allowed center distance between a and b
// given their effective radii — used by the conformance-test invariant in
// §8 ("center distance >= sum of effective radii - epsilon").
func MinSeparation(a, b *entity.Entity) float64 {
	return a.Shape.EffectiveRadius() + b.Shape.EffectiveRadius()
}

// CandidateRadius returns a conservative bounding radius for grid insertion:
// the shape's effective radius, or half the rectangle diagonal.
func CandidateRadius(e *entity.Entity) float64 {
	r := e.Shape.EffectiveRadius()
	return math.Max(r, 1)
}
