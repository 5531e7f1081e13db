// Package hashgrid implements the uniform grid used to find light vertices
// within the merging radius of an eye vertex.
package hashgrid

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// GridResolution is the number of cells along the longest possible axis
const GridResolution = 70

// OutOfRange is the cell index of positions outside the grid
const OutOfRange = -1

// Locatable is anything with a world position
type Locatable interface {
	Position() core.Vec3
}

// Grid indexes vertices by cell. Cells are stored in compressed sparse row
// form: the vertices of cell c are indices[cellStarts[c]:cellStarts[c+1]].
// The grid stores indices only; the caller keeps the vertex slice alive and
// unmodified between Build and the last Query.
type Grid[V Locatable] struct {
	bounds     core.AABB
	cellSize   core.Vec3
	resolution [3]int
	cellStarts []int
	indices    []int
	vertices   []V
	radius     float64
}

// New creates an empty grid
func New[V Locatable]() *Grid[V] {
	return &Grid[V]{}
}

// Clear empties the grid, keeping its buffers for reuse
func (g *Grid[V]) Clear() {
	g.bounds = core.AABB{}
	g.cellSize = core.Vec3{}
	g.resolution = [3]int{}
	g.cellStarts = g.cellStarts[:0]
	g.indices = g.indices[:0]
	g.vertices = nil
	g.radius = 0
}

// Build indexes the vertices for queries of the given radius. Cells are never
// smaller than the radius, so a query only has to visit neighbouring cells.
func (g *Grid[V]) Build(vertices []V, radius float64) {
	g.Clear()
	if len(vertices) == 0 {
		return
	}
	radius = math.Max(0, radius)
	g.vertices = vertices
	g.radius = radius

	bounds := core.NewAABB(vertices[0].Position(), vertices[0].Position())
	for _, v := range vertices[1:] {
		bounds = bounds.Include(v.Position())
	}
	g.bounds = bounds.Expand(radius)

	extent := g.bounds.Size()
	cellCount := 1
	for axis := 0; axis < 3; axis++ {
		size := math.Max(extent.Component(axis)/GridResolution, radius)
		if size <= 0 {
			size = 1
		}
		res := int(math.Ceil(extent.Component(axis) / size))
		res = max(1, min(GridResolution, res))
		g.resolution[axis] = res
		cellCount *= res
		switch axis {
		case 0:
			g.cellSize.X = size
		case 1:
			g.cellSize.Y = size
		default:
			g.cellSize.Z = size
		}
	}

	// counting sort of vertex indices into cells
	g.cellStarts = growInts(g.cellStarts, cellCount+1)
	for i := range g.cellStarts {
		g.cellStarts[i] = 0
	}
	cells := make([]int, len(vertices))
	for i, v := range vertices {
		cell := g.CellIndex(v.Position())
		cells[i] = cell
		g.cellStarts[cell+1]++
	}
	for c := 0; c < cellCount; c++ {
		g.cellStarts[c+1] += g.cellStarts[c]
	}

	g.indices = growInts(g.indices, len(vertices))
	fill := make([]int, cellCount)
	copy(fill, g.cellStarts[:cellCount])
	for i, cell := range cells {
		g.indices[fill[cell]] = i
		fill[cell]++
	}
}

// CellIndex returns the cell containing the position, or OutOfRange
func (g *Grid[V]) CellIndex(p core.Vec3) int {
	if len(g.cellStarts) == 0 || !g.bounds.Contains(p) {
		return OutOfRange
	}
	x, y, z := g.cellCoords(p)
	x = clampCoord(x, g.resolution[0])
	y = clampCoord(y, g.resolution[1])
	z = clampCoord(z, g.resolution[2])
	return g.linearIndex(x, y, z)
}

// CellRange returns the half-open range of indices belonging to the cell
func (g *Grid[V]) CellRange(cell int) (int, int) {
	if cell < 0 || cell+1 >= len(g.cellStarts) {
		return 0, 0
	}
	return g.cellStarts[cell], g.cellStarts[cell+1]
}

// Radius returns the radius the grid was built for
func (g *Grid[V]) Radius() float64 {
	return g.radius
}

// Len returns the number of indexed vertices
func (g *Grid[V]) Len() int {
	return len(g.indices)
}

// Query calls fn for every vertex within the build radius of p
func (g *Grid[V]) Query(p core.Vec3, fn func(v V, distSquared float64)) {
	// the bounds already include the radius around every vertex
	if len(g.indices) == 0 || !g.bounds.Contains(p) {
		return
	}
	radiusSquared := g.radius * g.radius
	cx, cy, cz := g.cellCoords(p)

	for z := cz - 1; z <= cz+1; z++ {
		if z < 0 || z >= g.resolution[2] {
			continue
		}
		for y := cy - 1; y <= cy+1; y++ {
			if y < 0 || y >= g.resolution[1] {
				continue
			}
			for x := cx - 1; x <= cx+1; x++ {
				if x < 0 || x >= g.resolution[0] {
					continue
				}
				start, end := g.CellRange(g.linearIndex(x, y, z))
				for _, index := range g.indices[start:end] {
					v := g.vertices[index]
					distSquared := v.Position().Subtract(p).LengthSquared()
					if distSquared <= radiusSquared {
						fn(v, distSquared)
					}
				}
			}
		}
	}
}

// cellCoords returns the unclamped integer cell coordinates of p
func (g *Grid[V]) cellCoords(p core.Vec3) (int, int, int) {
	rel := p.Subtract(g.bounds.Min)
	return int(math.Floor(rel.X / g.cellSize.X)),
		int(math.Floor(rel.Y / g.cellSize.Y)),
		int(math.Floor(rel.Z / g.cellSize.Z))
}

func (g *Grid[V]) linearIndex(x, y, z int) int {
	return x + g.resolution[0]*(y+g.resolution[1]*z)
}

func clampCoord(c, res int) int {
	return max(0, min(res-1, c))
}

func growInts(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}
