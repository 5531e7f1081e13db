package geometry

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3     // One corner of the quad
	U        core.Vec3     // First edge vector
	V        core.Vec3     // Second edge vector
	Normal   core.Vec3     // Unit normal along U × V
	Material core.Material // Material of the quad
	Light    core.Light    // Emitter attached to this surface, if any
	D        float64       // Plane equation constant: n · p = d
	W        core.Vec3     // Cached vector for barycentric coordinates
	area     float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material core.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		D:        normal.Dot(corner),
		W:        cross.Multiply(1.0 / cross.Dot(cross)),
		area:     cross.Length(),
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.SurfaceInteraction, bool) {
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-8 {
		return nil, false // parallel to the plane
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &core.SurfaceInteraction{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
		Light:    q.Light,
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox returns the box around the four corners, padded on flat axes
func (q *Quad) BoundingBox() core.AABB {
	box := core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	)
	const padding = 1e-4
	size := box.Size()
	if size.X < padding {
		box.Min.X -= padding
		box.Max.X += padding
	}
	if size.Y < padding {
		box.Min.Y -= padding
		box.Max.Y += padding
	}
	if size.Z < padding {
		box.Min.Z -= padding
		box.Max.Z += padding
	}
	return box
}

// Area returns the surface area
func (q *Quad) Area() float64 {
	return q.area
}

// SamplePoint maps a 2D sample uniformly onto the quad
func (q *Quad) SamplePoint(u core.Vec2) core.Vec3 {
	return q.Corner.Add(q.U.Multiply(u.X)).Add(q.V.Multiply(u.Y))
}
