package core

import (
	"cmp"
	"slices"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes of a leaf node (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// maxTraversalDepth bounds the explicit traversal stack
const maxTraversalDepth = 64

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{Root: nil}
	}

	// Sorting happens in place, so work on a copy
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return &BVH{Root: buildBVH(shapesCopy)}
}

// buildBVH splits at the median along the longest axis until leaves are small
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		boundingBox = boundingBox.Union(shape.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	slices.SortFunc(shapes, func(a, b Shape) int {
		return cmp.Compare(a.BoundingBox().Center().Component(axis), b.BoundingBox().Center().Component(axis))
	})

	mid := len(shapes) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(shapes[:mid]),
		Right:       buildBVH(shapes[mid:]),
	}
}

// Bounds returns the bounding box of every shape in the hierarchy
func (bvh *BVH) Bounds() AABB {
	if bvh.Root == nil {
		return AABB{}
	}
	return bvh.Root.BoundingBox
}

// Hit returns the closest intersection along the ray within [tMin, tMax]
func (bvh *BVH) Hit(ray Ray, tMin, tMax float64) (*SurfaceInteraction, bool) {
	return bvh.traverse(ray, tMin, tMax, false)
}

// AnyHit reports whether anything intersects the ray within [tMin, tMax]
func (bvh *BVH) AnyHit(ray Ray, tMin, tMax float64) bool {
	_, hit := bvh.traverse(ray, tMin, tMax, true)
	return hit
}

func (bvh *BVH) traverse(ray Ray, tMin, tMax float64, anyHit bool) (*SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}

	var stack [maxTraversalDepth]*BVHNode
	stack[0] = bvh.Root
	top := 1

	var closest *SurfaceInteraction
	closestSoFar := tMax

	for top > 0 {
		top--
		node := stack[top]
		if !node.BoundingBox.Hit(ray, tMin, closestSoFar) {
			continue
		}

		if node.Shapes != nil {
			for _, shape := range node.Shapes {
				if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
					if anyHit {
						return hit, true
					}
					closestSoFar = hit.T
					closest = hit
				}
			}
			continue
		}

		if top+2 > maxTraversalDepth {
			// median splits keep the tree shallow; a full stack means a malformed tree
			continue
		}
		if node.Right != nil {
			stack[top] = node.Right
			top++
		}
		if node.Left != nil {
			stack[top] = node.Left
			top++
		}
	}

	return closest, closest != nil
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)

	if node.Shapes != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.Shapes)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, stats)
	}
}
