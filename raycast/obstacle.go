package raycast

import (
	"math"

	"github.com/bytearena/whiskers/common/utils/trigo"
	"github.com/bytearena/whiskers/common/utils/vector"
)

type _obstaclekind string

func (k _obstaclekind) String() string {
	switch k {
	case ObstacleKind.Circle:
		return "Circle"
	case ObstacleKind.Polygon:
		return "Polygon"
	}

	return "UnknownKind"
}

var ObstacleKind = struct {
	Circle  _obstaclekind
	Polygon _obstaclekind
}{
	Circle:  _obstaclekind("c"),
	Polygon: _obstaclekind("p"),
}

// Obstacle is anything a sensor ray can hit. Implementations must be safe to
// query repeatedly; the raycaster never mutates them.
type Obstacle interface {
	GetID() string
	Kind() _obstaclekind
	IsStatic() bool

	// Intersect returns the hit closest to origin on the segment origin->target
	Intersect(origin vector.Vector2, target vector.Vector2) (Hit, bool)

	// Bounds returns the axis aligned bounding box of the obstacle
	Bounds() (min vector.Vector2, max vector.Vector2)
}

type Circle struct {
	id     string
	center vector.Vector2
	radius float64
	static bool
}

func MakeCircle(id string, center vector.Vector2, radius float64, static bool) *Circle {
	return &Circle{
		id:     id,
		center: center,
		radius: radius,
		static: static,
	}
}

func (c *Circle) GetID() string { return c.id }
func (c *Circle) Kind() _obstaclekind { return ObstacleKind.Circle }
func (c *Circle) IsStatic() bool { return c.static }
func (c *Circle) GetCenter() vector.Vector2 { return c.center }
func (c *Circle) GetRadius() float64 { return c.radius }

func (c *Circle) Intersect(origin vector.Vector2, target vector.Vector2) (Hit, bool) {
	point, t, ok := trigo.SegmentCircleIntersection(origin, target, c.center, c.radius)
	if !ok {
		return Hit{}, false
	}

	return makeHit(c, origin, point, t), true
}

func (c *Circle) Bounds() (vector.Vector2, vector.Vector2) {
	x, y := c.center.Get()
	return vector.MakeVector2(x-c.radius, y-c.radius), vector.MakeVector2(x+c.radius, y+c.radius)
}

func (c *Circle) Contains(point vector.Vector2) bool {
	return point.Sub(c.center).MagSq() <= c.radius*c.radius
}

// Polygon is a closed convex boundary; with exactly two vertices it is a
// single segment.
type Polygon struct {
	id       string
	vertices []vector.Vector2
	static   bool
}

func MakePolygon(id string, vertices []vector.Vector2, static bool) *Polygon {
	copied := make([]vector.Vector2, len(vertices))
	copy(copied, vertices)

	return &Polygon{
		id:       id,
		vertices: copied,
		static:   static,
	}
}

// MakeOrientedRectangle builds the 4 corners of a width x height rectangle
// centered on center and rotated by angle.
func MakeOrientedRectangle(id string, center vector.Vector2, width float64, height float64, angle float64, static bool) *Polygon {
	hw, hh := width/2, height/2
	corners := []vector.Vector2{
		vector.MakeVector2(-hw, -hh),
		vector.MakeVector2(hw, -hh),
		vector.MakeVector2(hw, hh),
		vector.MakeVector2(-hw, hh),
	}

	for i, corner := range corners {
		corners[i] = corner.Rotate(angle).Add(center)
	}

	return &Polygon{
		id:       id,
		vertices: corners,
		static:   static,
	}
}

func (p *Polygon) GetID() string { return p.id }
func (p *Polygon) Kind() _obstaclekind { return ObstacleKind.Polygon }
func (p *Polygon) IsStatic() bool { return p.static }
func (p *Polygon) GetVertices() []vector.Vector2 { return p.vertices }

func (p *Polygon) edges() int {
	switch len(p.vertices) {
	case 0, 1:
		return 0
	case 2:
		return 1
	}

	return len(p.vertices)
}

func (p *Polygon) Intersect(origin vector.Vector2, target vector.Vector2) (Hit, bool) {
	found := false
	best := math.Inf(1)
	var bestPoint vector.Vector2

	nbedges := p.edges()
	for i := 0; i < nbedges; i++ {
		a := p.vertices[i]
		b := p.vertices[(i+1)%len(p.vertices)]

		point, t, ok := trigo.SegmentIntersection(origin, target, a, b)
		if ok && t < best {
			best = t
			bestPoint = point
			found = true
		}
	}

	if !found {
		return Hit{}, false
	}

	return makeHit(p, origin, bestPoint, best), true
}

func (p *Polygon) Bounds() (vector.Vector2, vector.Vector2) {
	return boundingBox(p.vertices)
}

func (p *Polygon) Contains(point vector.Vector2) bool {
	return trigo.PointInPolygon(point, p.vertices)
}

func boundingBox(points []vector.Vector2) (vector.Vector2, vector.Vector2) {
	if len(points) == 0 {
		return vector.MakeNullVector2(), vector.MakeNullVector2()
	}

	minX, minY := points[0].Get()
	maxX, maxY := minX, minY

	for _, point := range points[1:] {
		x, y := point.Get()
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	return vector.MakeVector2(minX, minY), vector.MakeVector2(maxX, maxY)
}
