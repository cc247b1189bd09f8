package raycast

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/bytearena/whiskers/common/utils/vector"
)

// ClipPolygon intersects the polygon with the axis aligned rectangle
// [boundsMin, boundsMax]. Returns false when nothing of the polygon is left.
// Segments (two vertices) are kept only if both ends are inside the bounds.
func ClipPolygon(polygon *Polygon, boundsMin vector.Vector2, boundsMax vector.Vector2) (*Polygon, bool) {
	if len(polygon.vertices) < 3 {
		for _, vertex := range polygon.vertices {
			if !insideBounds(vertex, boundsMin, boundsMax) {
				return nil, false
			}
		}

		return polygon, len(polygon.vertices) == 2
	}

	contour := make(polyclip.Contour, len(polygon.vertices))
	for i, p := range polygon.vertices {
		contour[i] = polyclip.Point{X: p.GetX(), Y: p.GetY()}
	}

	minX, minY := boundsMin.Get()
	maxX, maxY := boundsMax.Get()

	subject := polyclip.Polygon{contour}
	clipping := polyclip.Polygon{{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}}

	result := subject.Construct(polyclip.INTERSECTION, clipping)
	if len(result) == 0 || len(result[0]) < 3 {
		return nil, false
	}

	vertices := make([]vector.Vector2, len(result[0]))
	for i, p := range result[0] {
		vertices[i] = vector.MakeVector2(p.X, p.Y)
	}

	return &Polygon{
		id:       polygon.id,
		vertices: vertices,
		static:   polygon.static,
	}, true
}

func insideBounds(point vector.Vector2, boundsMin vector.Vector2, boundsMax vector.Vector2) bool {
	x, y := point.Get()
	return x >= boundsMin.GetX() && x <= boundsMax.GetX() && y >= boundsMin.GetY() && y <= boundsMax.GetY()
}
