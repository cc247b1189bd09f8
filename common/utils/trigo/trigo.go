package trigo

import (
	"math"

	"github.com/bytearena/whiskers/common/utils/number"
	"github.com/bytearena/whiskers/common/utils/vector"
)

// SegmentIntersection intersects segment p->p2 with segment q->q2.
// t is the parameter of the intersection along p->p2 (0 at p, 1 at p2).
// Collinear and parallel segments never intersect.
func SegmentIntersection(p vector.Vector2, p2 vector.Vector2, q vector.Vector2, q2 vector.Vector2) (intersection vector.Vector2, t float64, intersects bool) {

	r := p2.Sub(p)
	s := q2.Sub(q)
	rxs := r.Cross(s)

	// r x s = 0: the two lines are either collinear or parallel
	if number.IsZero(rxs) {
		return vector.MakeNullVector2(), 0, false
	}

	qp := q.Sub(p)
	t = qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs

	// the two segments meet at the point p + t r = q + u s
	if (0 <= t && t <= 1) && (0 <= u && u <= 1) {
		return p.Add(r.MultScalar(t)), t, true
	}

	return vector.MakeNullVector2(), 0, false
}

// SegmentCircleIntersection returns the intersection of segment p->p2 with the
// circle boundary that is closest to p.
// http://devmag.org.za/2009/04/17/basic-collision-detection-in-2d-part-2/
func SegmentCircleIntersection(p vector.Vector2, p2 vector.Vector2, center vector.Vector2, radius float64) (intersection vector.Vector2, t float64, intersects bool) {

	localP := p.Sub(center)
	direction := p2.Sub(p)

	a := direction.MagSq()
	if number.IsZero(a) {
		return vector.MakeNullVector2(), 0, false
	}

	b := 2 * direction.Dot(localP)
	c := localP.MagSq() - (radius * radius)

	delta := b*b - (4 * a * c)
	if delta < 0 {
		return vector.MakeNullVector2(), 0, false
	}

	sqrtDelta := math.Sqrt(delta)

	// t1 <= t2
	t1 := (-b - sqrtDelta) / (2 * a)
	t2 := (-b + sqrtDelta) / (2 * a)

	switch {
	case t1 >= 0 && t1 <= 1:
		t = t1
	case t2 >= 0 && t2 <= 1:
		// p is inside the circle; the ray leaves through the far surface
		t = t2
	default:
		return vector.MakeNullVector2(), 0, false
	}

	return p.Add(direction.MultScalar(t)), t, true
}

func PointInPolygon(point vector.Vector2, vertices []vector.Vector2) bool {
	inside := false
	px, py := point.Get()

	for i, j := 0, len(vertices)-1; i < len(vertices); j, i = i, i+1 {
		ix, iy := vertices[i].Get()
		jx, jy := vertices[j].Get()

		if (iy > py) != (jy > py) && px < (jx-ix)*(py-iy)/(jy-iy)+ix {
			inside = !inside
		}
	}

	return inside
}

func FullCircleAngleToSignedHalfCircleAngle(rad float64) float64 {
	if rad > math.Pi { // 180° en radians
		rad -= math.Pi * 2 // 360° en radian
	} else if rad < -math.Pi {
		rad += math.Pi * 2 // 360° en radian
	}

	return rad
}
