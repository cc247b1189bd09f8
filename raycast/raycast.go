package raycast

import (
	"sort"

	"github.com/bytearena/whiskers/common/utils/vector"
)

type Hit struct {
	Point    vector.Vector2
	Distance float64 // from the ray origin
	Fraction float64 // position on the ray, in [0, 1]
	Obstacle Obstacle
}

func makeHit(obstacle Obstacle, origin vector.Vector2, point vector.Vector2, fraction float64) Hit {
	return Hit{
		Point:    point,
		Distance: point.Sub(origin).Mag(),
		Fraction: fraction,
		Obstacle: obstacle,
	}
}

// CastRay returns every obstacle hit along the segment origin->target, at most
// one hit per obstacle, nearest first. A degenerate ray hits nothing.
func CastRay(obstacles []Obstacle, origin vector.Vector2, target vector.Vector2) []Hit {
	hits := make([]Hit, 0)

	if origin.Equals(target) {
		return hits
	}

	for _, obstacle := range obstacles {
		if obstacle == nil {
			continue
		}

		if hit, ok := obstacle.Intersect(origin, target); ok {
			hits = append(hits, hit)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	return hits
}

// Nearest is CastRay restricted to the first hit.
func Nearest(obstacles []Obstacle, origin vector.Vector2, target vector.Vector2) (Hit, bool) {
	if origin.Equals(target) {
		return Hit{}, false
	}

	found := false
	var nearest Hit

	for _, obstacle := range obstacles {
		if obstacle == nil {
			continue
		}

		if hit, ok := obstacle.Intersect(origin, target); ok && (!found || hit.Distance < nearest.Distance) {
			nearest = hit
			found = true
		}
	}

	return nearest, found
}
