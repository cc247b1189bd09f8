package raycast

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(x, y float64) vector.Vector2 {
	return vector.MakeVector2(x, y)
}

func TestCastRayEmpty(t *testing.T) {
	hits := CastRay(nil, v(0, 0), v(100, 0))
	assert.NotNil(t, hits)
	assert.Len(t, hits, 0)
}

func TestCastRayDegenerate(t *testing.T) {
	obstacles := []Obstacle{MakeCircle("c", v(0, 0), 10, true)}
	assert.Len(t, CastRay(obstacles, v(5, 5), v(5, 5)), 0)

	_, ok := Nearest(obstacles, v(5, 5), v(5, 5))
	assert.False(t, ok)
}

func TestCastRaySortedNearestFirst(t *testing.T) {
	far := MakeCircle("far", v(120, 0), 10, true)
	wall := MakePolygon("wall", []vector.Vector2{v(50, -20), v(50, 20)}, true)
	near := MakeCircle("near", v(30, 0), 5, true)
	offside := MakeCircle("offside", v(30, 50), 5, true)

	hits := CastRay([]Obstacle{far, wall, near, offside}, v(0, 0), v(150, 0))
	require.Len(t, hits, 3)

	assert.Equal(t, "near", hits[0].Obstacle.GetID())
	assert.InDelta(t, 25, hits[0].Distance, 1e-9)
	assert.Equal(t, "wall", hits[1].Obstacle.GetID())
	assert.InDelta(t, 50, hits[1].Distance, 1e-9)
	assert.Equal(t, "far", hits[2].Obstacle.GetID())
	assert.InDelta(t, 110, hits[2].Distance, 1e-9)

	nearest, ok := Nearest([]Obstacle{far, wall, near, offside}, v(0, 0), v(150, 0))
	assert.True(t, ok)
	assert.Equal(t, hits[0], nearest)
}

func TestPolygonContributesNearestEdgeOnly(t *testing.T) {
	box := MakeOrientedRectangle("box", v(100, 0), 20, 20, 0, true)

	hits := CastRay([]Obstacle{box}, v(0, 0), v(200, 0))
	require.Len(t, hits, 1)
	assert.InDelta(t, 90, hits[0].Distance, 1e-9)
	assert.InDelta(t, 0.45, hits[0].Fraction, 1e-9)
}

func TestOrientedRectangle(t *testing.T) {
	wall := MakeOrientedRectangle("wall", v(0, 0), 100, 6, math.Pi/2, true)

	min, max := wall.Bounds()
	assert.InDelta(t, -3, min.GetX(), 1e-9)
	assert.InDelta(t, -50, min.GetY(), 1e-9)
	assert.InDelta(t, 3, max.GetX(), 1e-9)
	assert.InDelta(t, 50, max.GetY(), 1e-9)

	assert.True(t, wall.Contains(v(0, 40)))
	assert.False(t, wall.Contains(v(10, 0)))
}

func randomObstacles(rng *rand.Rand, n int) []Obstacle {
	obstacles := make([]Obstacle, 0, n)
	for i := 0; i < n; i++ {
		center := v(rng.Float64()*1000, rng.Float64()*1000)
		id := strconv.Itoa(i)
		if rng.Intn(2) == 0 {
			obstacles = append(obstacles, MakeCircle(id, center, 5+rng.Float64()*40, true))
		} else {
			obstacles = append(obstacles, MakeOrientedRectangle(id, center, 10+rng.Float64()*200, 6, rng.Float64()*math.Pi, true))
		}
	}

	return obstacles
}

func TestCastRayFractionWithinSegment(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	obstacles := randomObstacles(rng, 60)

	for i := 0; i < 500; i++ {
		origin := v(rng.Float64()*1000, rng.Float64()*1000)
		target := origin.Add(vector.MakeUnitVector2(rng.Float64() * 2 * math.Pi).Scale(rng.Float64() * 300))
		length := target.Sub(origin).Mag()

		hits := CastRay(obstacles, origin, target)
		for j, hit := range hits {
			assert.True(t, hit.Fraction >= 0 && hit.Fraction <= 1, "fraction %f", hit.Fraction)
			assert.True(t, hit.Distance <= length+1e-9)
			if j > 0 {
				assert.True(t, hits[j-1].Distance <= hit.Distance)
			}
		}
	}
}

func TestIndexMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	obstacles := randomObstacles(rng, 80)
	index := NewIndex(obstacles...)

	for i := 0; i < 300; i++ {
		origin := v(rng.Float64()*1000, rng.Float64()*1000)
		target := origin.Add(vector.MakeUnitVector2(rng.Float64() * 2 * math.Pi).Scale(200))

		expected, expectedOk := Nearest(obstacles, origin, target)
		actual, actualOk := index.Nearest(origin, target)

		require.Equal(t, expectedOk, actualOk)
		if expectedOk {
			assert.InDelta(t, expected.Distance, actual.Distance, 1e-9)
		}
		assert.Equal(t, len(CastRay(obstacles, origin, target)), len(index.CastRay(origin, target)))
	}
}

func TestIndexAxisAlignedRay(t *testing.T) {
	index := NewIndex(MakeCircle("c", v(100, 0), 40, true))

	hits := index.CastRay(v(0, 0), v(150, 0))
	require.Len(t, hits, 1)
	assert.InDelta(t, 60, hits[0].Distance, 1e-9)
}

func TestIndexMutations(t *testing.T) {
	index := NewIndex()
	assert.Len(t, index.CastRay(v(0, 0), v(150, 0)), 0)

	index.Add(MakeCircle("a", v(100, 0), 40, true))
	assert.Len(t, index.CastRay(v(0, 0), v(150, 0)), 1)

	index.Add(MakeCircle("b", v(50, 0), 10, true))
	hits := index.CastRay(v(0, 0), v(150, 0))
	require.Len(t, hits, 2)
	assert.Equal(t, "b", hits[0].Obstacle.GetID())

	popped, ok := index.Pop()
	assert.True(t, ok)
	assert.Equal(t, "b", popped.GetID())
	assert.Len(t, index.CastRay(v(0, 0), v(150, 0)), 1)

	assert.True(t, index.Remove("a"))
	assert.False(t, index.Remove("a"))
	assert.Len(t, index.CastRay(v(0, 0), v(150, 0)), 0)
	assert.Equal(t, 0, index.Len())

	_, ok = index.Pop()
	assert.False(t, ok)
}

func TestClipPolygon(t *testing.T) {
	inside := MakeOrientedRectangle("inside", v(50, 50), 20, 6, 0, true)
	clipped, ok := ClipPolygon(inside, v(0, 0), v(100, 100))
	require.True(t, ok)
	min, max := clipped.Bounds()
	assert.InDelta(t, 40, min.GetX(), 1e-9)
	assert.InDelta(t, 60, max.GetX(), 1e-9)

	overflowing := MakeOrientedRectangle("overflowing", v(90, 50), 40, 6, 0, true)
	clipped, ok = ClipPolygon(overflowing, v(0, 0), v(100, 100))
	require.True(t, ok)
	_, max = clipped.Bounds()
	assert.InDelta(t, 100, max.GetX(), 1e-9)
	assert.Equal(t, "overflowing", clipped.GetID())

	outside := MakeOrientedRectangle("outside", v(500, 500), 40, 6, 0, true)
	_, ok = ClipPolygon(outside, v(0, 0), v(100, 100))
	assert.False(t, ok)

	segment := MakePolygon("segment", []vector.Vector2{v(10, 10), v(20, 20)}, true)
	_, ok = ClipPolygon(segment, v(0, 0), v(100, 100))
	assert.True(t, ok)
}
