package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		box = box.Include(point)
	}
	return box
}

// Include returns the AABB grown to contain the point
func (aabb AABB) Include(p Vec3) AABB {
	return AABB{
		Min: Vec3{X: math.Min(aabb.Min.X, p.X), Y: math.Min(aabb.Min.Y, p.Y), Z: math.Min(aabb.Min.Z, p.Z)},
		Max: Vec3{X: math.Max(aabb.Max.X, p.X), Y: math.Max(aabb.Max.Y, p.Y), Z: math.Max(aabb.Max.Z, p.Z)},
	}
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		lo := aabb.Min.Component(axis)
		hi := aabb.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		// Parallel rays only hit when the origin lies inside the slab
		if math.Abs(direction) < 1e-8 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return aabb.Include(other.Min).Include(other.Max)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Contains reports whether the point lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

// BoundingSphereRadius returns the radius of the sphere around Center enclosing the box
func (aabb AABB) BoundingSphereRadius() float64 {
	return aabb.Size().Length() * 0.5
}
