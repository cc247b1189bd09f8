package raycast

import (
	"math"

	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/dhconnelly/rtreego"
)

const minRectExtent = 0.001

type spatialObstacle struct {
	obstacle Obstacle
	rect     *rtreego.Rect
}

func (s *spatialObstacle) Bounds() *rtreego.Rect {
	return s.rect
}

// Index holds the live obstacle set of a world. Every mutation drops the
// rtree; it is rebuilt on the next query.
type Index struct {
	obstacles []Obstacle
	tree      *rtreego.Rtree
	dirty     bool
}

func NewIndex(obstacles ...Obstacle) *Index {
	index := &Index{
		obstacles: make([]Obstacle, 0, len(obstacles)),
		dirty:     true,
	}

	for _, obstacle := range obstacles {
		index.Add(obstacle)
	}

	return index
}

func (index *Index) Add(obstacle Obstacle) {
	if obstacle == nil {
		return
	}

	index.obstacles = append(index.obstacles, obstacle)
	index.dirty = true
}

func (index *Index) Remove(id string) bool {
	for i, obstacle := range index.obstacles {
		if obstacle.GetID() == id {
			index.obstacles = append(index.obstacles[:i], index.obstacles[i+1:]...)
			index.dirty = true
			return true
		}
	}

	return false
}

// Pop removes the most recently added obstacle
func (index *Index) Pop() (Obstacle, bool) {
	if len(index.obstacles) == 0 {
		return nil, false
	}

	last := index.obstacles[len(index.obstacles)-1]
	index.obstacles = index.obstacles[:len(index.obstacles)-1]
	index.dirty = true

	return last, true
}

func (index *Index) Clear() {
	index.obstacles = index.obstacles[:0]
	index.dirty = true
}

// Obstacles returns the live ordered obstacle slice; callers must not keep it
// across mutations.
func (index *Index) Obstacles() []Obstacle {
	return index.obstacles
}

func (index *Index) Len() int {
	return len(index.obstacles)
}

func (index *Index) rebuild() {
	spatials := make([]rtreego.Spatial, 0, len(index.obstacles))
	for _, obstacle := range index.obstacles {
		min, max := obstacle.Bounds()
		rect, err := makeRect(min, max)
		if err != nil {
			continue
		}

		spatials = append(spatials, &spatialObstacle{
			obstacle: obstacle,
			rect:     rect,
		})
	}

	index.tree = rtreego.NewTree(2, 25, 50, spatials...)
	index.dirty = false
}

// Candidates returns the obstacles whose bounding box intersects the bounding
// box of the segment origin->target, in insertion order.
func (index *Index) Candidates(origin vector.Vector2, target vector.Vector2) []Obstacle {
	if index.dirty || index.tree == nil {
		index.rebuild()
	}

	min, max := boundingBox([]vector.Vector2{origin, target})
	bb, err := makeRect(min, max)
	if err != nil {
		return index.obstacles
	}

	matching := index.tree.SearchIntersect(bb)
	if len(matching) == 0 {
		return nil
	}

	selected := make(map[Obstacle]struct{}, len(matching))
	for _, spatial := range matching {
		selected[spatial.(*spatialObstacle).obstacle] = struct{}{}
	}

	candidates := make([]Obstacle, 0, len(matching))
	for _, obstacle := range index.obstacles {
		if _, ok := selected[obstacle]; ok {
			candidates = append(candidates, obstacle)
		}
	}

	return candidates
}

func (index *Index) CastRay(origin vector.Vector2, target vector.Vector2) []Hit {
	if origin.Equals(target) {
		return make([]Hit, 0)
	}

	return CastRay(index.Candidates(origin, target), origin, target)
}

func (index *Index) Nearest(origin vector.Vector2, target vector.Vector2) (Hit, bool) {
	if origin.Equals(target) {
		return Hit{}, false
	}

	return Nearest(index.Candidates(origin, target), origin, target)
}

// Rtree rects need strictly positive lengths; flat boxes (axis aligned rays
// and walls) are padded.
func makeRect(min vector.Vector2, max vector.Vector2) (*rtreego.Rect, error) {
	minX, minY := min.Get()
	maxX, maxY := max.Get()

	return rtreego.NewRect(
		rtreego.Point{minX - minRectExtent, minY - minRectExtent},
		[]float64{
			math.Max(maxX-minX, 0) + 2*minRectExtent,
			math.Max(maxY-minY, 0) + 2*minRectExtent,
		},
	)
}
