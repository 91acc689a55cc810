package systems

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hunter/components"
)

// WorldView is the read-only obstacle snapshot a hunter queries each tick.
type WorldView interface {
	// Obstacles returns the full snapshot in stable order.
	Obstacles() []components.Obstacle
	// Near returns obstacles whose boxes come within radius of p.
	Near(p components.Vec2, radius float64) []components.Obstacle
	// Sightline returns obstacles that can block travel or sight between
	// two points, including ones whose corners a detour would use.
	Sightline(from, to components.Vec2) []components.Obstacle
}

// obstacleEntry is an obstacle's slot in the R-tree.
type obstacleEntry struct {
	index int
	rect  rtreego.Rect
}

func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.rect
}

// ObstacleIndex is a static obstacle snapshot with an R-tree broad phase.
// Query results preserve snapshot order so steering stays deterministic.
type ObstacleIndex struct {
	obstacles []components.Obstacle
	tree      *rtreego.Rtree
	maxExtent float64 // Largest half diagonal
}

// NewObstacleIndex builds the index. Boxes with non-positive extents are rejected.
func NewObstacleIndex(obstacles []components.Obstacle) (*ObstacleIndex, error) {
	idx := &ObstacleIndex{obstacles: obstacles}
	if len(obstacles) == 0 {
		return idx, nil
	}

	spatials := make([]rtreego.Spatial, len(obstacles))
	for i, o := range obstacles {
		rect, err := rtreego.NewRect(
			rtreego.Point{o.Position.X - o.HalfWidth, o.Position.Z - o.HalfDepth},
			[]float64{2 * o.HalfWidth, 2 * o.HalfDepth},
		)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d at (%.2f, %.2f): %w", i, o.Position.X, o.Position.Z, err)
		}
		spatials[i] = &obstacleEntry{index: i, rect: rect}
		idx.maxExtent = math.Max(idx.maxExtent, math.Hypot(o.HalfWidth, o.HalfDepth))
	}
	idx.tree = rtreego.NewTree(2, 25, 50, spatials...)
	return idx, nil
}

// Obstacles returns the full snapshot.
func (x *ObstacleIndex) Obstacles() []components.Obstacle {
	return x.obstacles
}

// Near returns obstacles intersecting the square of half size radius around p.
func (x *ObstacleIndex) Near(p components.Vec2, radius float64) []components.Obstacle {
	r := math.Max(radius, 1e-6)
	return x.search(p.X-r, p.Z-r, p.X+r, p.Z+r)
}

// Sightline returns obstacles overlapping the segment's bounding box grown by
// twice the largest obstacle extent, enough to cover every corner a detour
// around a blocker could route through.
func (x *ObstacleIndex) Sightline(from, to components.Vec2) []components.Obstacle {
	pad := 2*x.maxExtent + 1e-6
	return x.search(
		math.Min(from.X, to.X)-pad, math.Min(from.Z, to.Z)-pad,
		math.Max(from.X, to.X)+pad, math.Max(from.Z, to.Z)+pad,
	)
}

func (x *ObstacleIndex) search(minX, minZ, maxX, maxZ float64) []components.Obstacle {
	if x.tree == nil {
		return nil
	}
	bb, err := rtreego.NewRect(rtreego.Point{minX, minZ}, []float64{maxX - minX, maxZ - minZ})
	if err != nil {
		return nil
	}

	hits := x.tree.SearchIntersect(bb)
	if len(hits) == 0 {
		return nil
	}
	indices := make([]int, len(hits))
	for i, h := range hits {
		indices[i] = h.(*obstacleEntry).index
	}
	sort.Ints(indices)

	out := make([]components.Obstacle, len(indices))
	for i, j := range indices {
		out[i] = x.obstacles[j]
	}
	return out
}

// ObstacleCollector snapshots obstacle entities from the world.
type ObstacleCollector struct {
	filter ecs.Filter1[components.Obstacle]
}

// NewObstacleCollector creates a collector over all obstacle entities.
func NewObstacleCollector(w *ecs.World) *ObstacleCollector {
	return &ObstacleCollector{
		filter: *ecs.NewFilter1[components.Obstacle](w),
	}
}

// Collect copies every obstacle into a fresh slice.
func (c *ObstacleCollector) Collect() []components.Obstacle {
	var out []components.Obstacle
	query := c.filter.Query()
	for query.Next() {
		out = append(out, *query.Get())
	}
	return out
}

// Index collects obstacles and builds a fresh index.
func (c *ObstacleCollector) Index() (*ObstacleIndex, error) {
	return NewObstacleIndex(c.Collect())
}
