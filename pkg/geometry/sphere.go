package geometry

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Sphere is a solid sphere. A sphere with a Light reports it in every hit.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
	Light    core.Light
}

func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// Hit returns the nearest intersection in [tMin, tMax]. From inside the
// sphere that is the far root.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.SurfaceInteraction, bool) {
	toCenter := s.Center.Subtract(ray.Origin)
	a := ray.Direction.LengthSquared()
	h := ray.Direction.Dot(toCenter)
	disc := h*h - a*(toCenter.LengthSquared()-s.Radius*s.Radius)
	if disc < 0 {
		return nil, false
	}

	sq := math.Sqrt(disc)
	t := (h - sq) / a
	if t < tMin || t > tMax {
		t = (h + sq) / a
		if t < tMin || t > tMax {
			return nil, false
		}
	}

	point := ray.At(t)
	hit := &core.SurfaceInteraction{T: t, Point: point, Material: s.Material, Light: s.Light}
	hit.SetFaceNormal(ray, s.NormalAt(point))
	return hit, true
}

// NormalAt is the outward unit normal at a point on the surface
func (s *Sphere) NormalAt(p core.Vec3) core.Vec3 {
	return p.Subtract(s.Center).Multiply(1 / s.Radius)
}

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// SamplePoint maps a 2D sample uniformly onto the surface
func (s *Sphere) SamplePoint(u core.Vec2) core.Vec3 {
	return s.Center.Add(core.SampleOnUnitSphere(u).Multiply(s.Radius))
}
