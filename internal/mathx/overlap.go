package mathx

// Overlap reports a narrow-phase collision result between two shaped bodies.
// Gap is the signed separation along Axis: negative means overlapping by
// |Gap|, and per §4.2 a collision is only reported when Gap < 0 (exact touch
// is not a collision).
type Overlap struct {
	Colliding bool
	Gap       float64
	Axis      Vec2 // unit vector from b toward a; used to separate the pair
}

// ClosestPointOnRect returns the point on (or in) an axis-aligned w×h
// rectangle centered at rectCenter that is closest to p.
func ClosestPointOnRect(p, rectCenter Vec2, w, h float64) Vec2 {
	half := V2(w/2, h/2)
	min := rectCenter.Sub(half)
	max := rectCenter.Add(half)
	return V2(Clamp(p[0], min[0], max[0]), Clamp(p[1], min[1], max[1]))
}

// CircleCircle tests two circles by center/radius.
func CircleCircle(aPos Vec2, aR float64, bPos Vec2, bR float64) Overlap {
	delta := aPos.Sub(bPos)
	dist := delta.Len()
	gap := dist - (aR + bR)
	axis := Vec2{0, 0} // co-located centers: caller picks a direction
	if dist > 1e-9 {
		axis = delta.Mul(1 / dist)
	}
	return Overlap{Colliding: gap < 0, Gap: gap, Axis: axis}
}

// CircleRect tests a circle against an axis-aligned rectangle using the
// clamped-closest-point method named in §4.2.
func CircleRect(circlePos Vec2, circleR float64, rectCenter Vec2, w, h float64) Overlap {
	closest := ClosestPointOnRect(circlePos, rectCenter, w, h)
	delta := circlePos.Sub(closest)
	dist := delta.Len()
	gap := dist - circleR
	axis := Vec2{0, 0} // co-located centers: caller picks a direction
	if dist > 1e-9 {
		axis = delta.Mul(1 / dist)
	} else if circlePos.Sub(rectCenter).Len() > 1e-9 {
		// Circle center is inside the rectangle but off-center; push along
		// the shallower axis.
		axis = pushOutOfRect(circlePos, rectCenter, w, h)
		gap = -circleR
	} else {
		gap = -circleR
	}
	return Overlap{Colliding: gap < 0, Gap: gap, Axis: axis}
}

func pushOutOfRect(p, rectCenter Vec2, w, h float64) Vec2 {
	dx := p[0] - rectCenter[0]
	dy := p[1] - rectCenter[1]
	penX := w/2 - absf(dx)
	penY := h/2 - absf(dy)
	if penX < penY {
		if dx < 0 {
			return Vec2{-1, 0}
		}
		return Vec2{1, 0}
	}
	if dy < 0 {
		return Vec2{0, -1}
	}
	return Vec2{0, 1}
}

// RectRect tests two axis-aligned rectangles as an AABB overlap.
func RectRect(aCenter Vec2, aw, ah float64, bCenter Vec2, bw, bh float64) Overlap {
	delta := aCenter.Sub(bCenter)
	overlapX := (aw+bw)/2 - absf(delta[0])
	overlapY := (ah+bh)/2 - absf(delta[1])
	gap := -minf(overlapX, overlapY)
	if delta.Len() <= 1e-9 {
		return Overlap{Colliding: gap < 0, Gap: gap, Axis: Vec2{0, 0}}
	}
	axis := Vec2{1, 0}
	if overlapX < overlapY {
		if delta[0] < 0 {
			axis = Vec2{-1, 0}
		}
	} else {
		axis = Vec2{0, 1}
		if delta[1] < 0 {
			axis = Vec2{0, -1}
		}
	}
	return Overlap{Colliding: gap < 0, Gap: gap, Axis: axis}
}

// AABBOverlap reports whether two axis-aligned boxes overlap, with optional
// symmetric padding (used by broad-phase bounding-box range queries).
func AABBOverlap(aMin, aMax, bMin, bMax Vec2, padding float64) bool {
	return aMin[0]-padding < bMax[0]+padding &&
		aMax[0]+padding > bMin[0]-padding &&
		aMin[1]-padding < bMax[1]+padding &&
		aMax[1]+padding > bMin[1]-padding
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
