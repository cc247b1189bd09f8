package trigo

import (
	"math"
	"testing"

	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/stretchr/testify/assert"
)

func v(x, y float64) vector.Vector2 {
	return vector.MakeVector2(x, y)
}

func TestSegmentIntersection(t *testing.T) {
	examples := []struct {
		Name       string
		P, P2      vector.Vector2
		Q, Q2      vector.Vector2
		Intersects bool
		T          float64
		Point      vector.Vector2
	}{
		{Name: "crossing", P: v(0, 0), P2: v(10, 0), Q: v(5, -5), Q2: v(5, 5), Intersects: true, T: 0.5, Point: v(5, 0)},
		{Name: "touching end", P: v(0, 0), P2: v(10, 0), Q: v(10, -5), Q2: v(10, 5), Intersects: true, T: 1, Point: v(10, 0)},
		{Name: "beyond segment", P: v(0, 0), P2: v(10, 0), Q: v(15, -5), Q2: v(15, 5), Intersects: false},
		{Name: "behind origin", P: v(0, 0), P2: v(10, 0), Q: v(-1, -5), Q2: v(-1, 5), Intersects: false},
		{Name: "parallel", P: v(0, 0), P2: v(10, 0), Q: v(0, 1), Q2: v(10, 1), Intersects: false},
		{Name: "collinear", P: v(0, 0), P2: v(10, 0), Q: v(2, 0), Q2: v(4, 0), Intersects: false},
		{Name: "degenerate query", P: v(3, 3), P2: v(3, 3), Q: v(0, 0), Q2: v(5, 5), Intersects: false},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			point, param, ok := SegmentIntersection(example.P, example.P2, example.Q, example.Q2)
			assert.Equal(t, example.Intersects, ok)
			if example.Intersects {
				assert.InDelta(t, example.T, param, 1e-9)
				assert.True(t, point.Equals(example.Point), "got %s", point)
			}
		})
	}
}

func TestSegmentCircleIntersection(t *testing.T) {
	examples := []struct {
		Name       string
		P, P2      vector.Vector2
		Center     vector.Vector2
		Radius     float64
		Intersects bool
		T          float64
	}{
		{Name: "nearest root", P: v(0, 0), P2: v(150, 0), Center: v(100, 0), Radius: 40, Intersects: true, T: 60.0 / 150},
		{Name: "tangent", P: v(0, 0), P2: v(10, 0), Center: v(5, 1), Radius: 1, Intersects: true, T: 0.5},
		{Name: "too short", P: v(0, 0), P2: v(50, 0), Center: v(100, 0), Radius: 40, Intersects: false},
		{Name: "behind", P: v(0, 0), P2: v(50, 0), Center: v(-100, 0), Radius: 40, Intersects: false},
		{Name: "miss", P: v(0, 0), P2: v(150, 0), Center: v(100, 50), Radius: 40, Intersects: false},
		{Name: "origin inside", P: v(100, 0), P2: v(200, 0), Center: v(100, 0), Radius: 40, Intersects: true, T: 0.4},
		{Name: "degenerate", P: v(0, 0), P2: v(0, 0), Center: v(0, 0), Radius: 40, Intersects: false},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			point, param, ok := SegmentCircleIntersection(example.P, example.P2, example.Center, example.Radius)
			assert.Equal(t, example.Intersects, ok)
			if example.Intersects {
				assert.InDelta(t, example.T, param, 1e-9)
				assert.InDelta(t, example.Radius, point.Sub(example.Center).Mag(), 1e-6)
			}
			assert.True(t, param >= 0 && param <= 1)
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []vector.Vector2{v(0, 0), v(10, 0), v(10, 10), v(0, 10)}
	assert.True(t, PointInPolygon(v(5, 5), square))
	assert.False(t, PointInPolygon(v(15, 5), square))
	assert.False(t, PointInPolygon(v(5, 5), square[:2]))
}

func TestFullCircleAngleToSignedHalfCircleAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, FullCircleAngleToSignedHalfCircleAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, FullCircleAngleToSignedHalfCircleAngle(-3*math.Pi/2), 1e-12)
}
