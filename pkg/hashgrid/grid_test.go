package hashgrid

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

type point struct {
	id  int
	pos core.Vec3
}

func (p *point) Position() core.Vec3 {
	return p.pos
}

func randomCloud(random *rand.Rand, n int, scale float64) []*point {
	points := make([]*point, n)
	for i := range points {
		points[i] = &point{
			id:  i,
			pos: core.NewVec3(random.Float64()*scale, random.Float64()*scale*0.5, random.Float64()*scale*0.1),
		}
	}
	return points
}

func queryIDs(g *Grid[*point], p core.Vec3) []int {
	var ids []int
	g.Query(p, func(v *point, distSquared float64) {
		ids = append(ids, v.id)
	})
	slices.Sort(ids)
	return ids
}

func bruteForce(points []*point, p core.Vec3, radius float64) []int {
	var ids []int
	for _, v := range points {
		if v.pos.Subtract(p).LengthSquared() <= radius*radius {
			ids = append(ids, v.id)
		}
	}
	slices.Sort(ids)
	return ids
}

func TestGrid_MatchesBruteForce(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		scale  float64
		radius float64
	}{
		{"Sparse cloud small radius", 500, 10, 0.3},
		{"Dense cloud", 3000, 1, 0.05},
		{"Radius larger than extent/resolution", 200, 1, 0.5},
		{"Tiny radius", 1000, 100, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			random := rand.New(rand.NewSource(42))
			points := randomCloud(random, tt.n, tt.scale)

			grid := New[*point]()
			grid.Build(points, tt.radius)
			if grid.Len() != tt.n {
				t.Fatalf("Expected %d indexed vertices, got %d", tt.n, grid.Len())
			}

			for q := 0; q < 300; q++ {
				var p core.Vec3
				if q%2 == 0 {
					// query at a vertex so matches are guaranteed
					p = points[random.Intn(len(points))].pos
				} else {
					p = core.NewVec3(random.Float64()*tt.scale*1.2-0.1*tt.scale, random.Float64()*tt.scale*0.6, random.Float64()*tt.scale*0.12)
				}
				got := queryIDs(grid, p)
				expected := bruteForce(points, p, tt.radius)
				if !slices.Equal(got, expected) {
					t.Fatalf("Query at %v: expected %v, got %v", p, expected, got)
				}
			}
		})
	}
}

func TestGrid_CellIndexDeterministic(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	points := randomCloud(random, 400, 5)
	grid := New[*point]()
	grid.Build(points, 0.2)

	for _, v := range points {
		first := grid.CellIndex(v.pos)
		if first == OutOfRange {
			t.Fatalf("Expected vertex %v inside the grid", v.pos)
		}
		for i := 0; i < 3; i++ {
			if grid.CellIndex(v.pos) != first {
				t.Fatalf("CellIndex changed between calls for %v", v.pos)
			}
		}

		// the vertex must be listed in its own cell
		start, end := grid.CellRange(first)
		found := false
		for _, index := range grid.indices[start:end] {
			if index == v.id {
				found = true
			}
		}
		if !found {
			t.Errorf("Vertex %d not found in its cell %d", v.id, first)
		}
	}

	if grid.CellIndex(core.NewVec3(-100, 0, 0)) != OutOfRange {
		t.Error("Expected OutOfRange for a position outside the grid")
	}
}

func TestGrid_IdempotentRebuild(t *testing.T) {
	random := rand.New(rand.NewSource(11))
	points := randomCloud(random, 800, 3)
	grid := New[*point]()

	grid.Build(points, 0.15)
	queries := make([]core.Vec3, 50)
	first := make([][]int, len(queries))
	for i := range queries {
		queries[i] = points[random.Intn(len(points))].pos
		first[i] = queryIDs(grid, queries[i])
	}

	grid.Clear()
	grid.Build(points, 0.15)
	for i, q := range queries {
		if got := queryIDs(grid, q); !slices.Equal(got, first[i]) {
			t.Errorf("Query %d differs after rebuild: %v vs %v", i, first[i], got)
		}
	}
}

func TestGrid_Empty(t *testing.T) {
	grid := New[*point]()
	grid.Build(nil, 1)
	called := false
	grid.Query(core.NewVec3(0, 0, 0), func(v *point, distSquared float64) { called = true })
	if called {
		t.Error("Expected no callbacks from an empty grid")
	}
	if grid.CellIndex(core.NewVec3(0, 0, 0)) != OutOfRange {
		t.Error("Expected OutOfRange from an empty grid")
	}
	if start, end := grid.CellRange(0); start != end {
		t.Error("Expected empty cell range from an empty grid")
	}
}

func TestGrid_ZeroRadiusFindsCoincidentVertices(t *testing.T) {
	points := []*point{
		{id: 0, pos: core.NewVec3(1, 1, 1)},
		{id: 1, pos: core.NewVec3(1, 1, 1)},
		{id: 2, pos: core.NewVec3(1, 1, 1.0001)},
	}
	grid := New[*point]()
	grid.Build(points, 0)

	got := queryIDs(grid, core.NewVec3(1, 1, 1))
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Expected exact matches [0 1], got %v", got)
	}
}

func TestGrid_SinglePoint(t *testing.T) {
	points := []*point{{id: 0, pos: core.NewVec3(2, 3, 4)}}
	grid := New[*point]()
	grid.Build(points, 0.5)

	if got := queryIDs(grid, core.NewVec3(2.3, 3, 4)); !slices.Equal(got, []int{0}) {
		t.Errorf("Expected [0], got %v", got)
	}
	if got := queryIDs(grid, core.NewVec3(2.6, 3, 4)); len(got) != 0 {
		t.Errorf("Expected no match outside the radius, got %v", got)
	}
}
