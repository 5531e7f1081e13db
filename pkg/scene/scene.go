// Package scene assembles shapes, lights, a camera and an optional medium
// into something integrators can trace against.
package scene

import (
	"fmt"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/lights"
)

// shadowEpsilon keeps visibility tests from hitting either endpoint's surface
const shadowEpsilon = 1e-4

// Scene contains all the elements needed for rendering
type Scene struct {
	Name   string
	camera core.Camera
	shapes []core.Shape
	lights *lights.Collection
	medium core.Medium
	bvh    *core.BVH // Acceleration structure for ray-object intersection
}

// New creates a scene. Lights that are also shapes become visible geometry.
// Lights are sampled in proportion to their power.
func New(name string, camera core.Camera, shapes []core.Shape, sceneLights []core.Light, medium core.Medium) *Scene {
	all := make([]core.Shape, 0, len(shapes)+len(sceneLights))
	all = append(all, shapes...)
	for _, light := range sceneLights {
		if shape, ok := light.(core.Shape); ok {
			all = append(all, shape)
		}
	}

	return &Scene{
		Name:   name,
		camera: camera,
		shapes: all,
		lights: lights.NewCollection(sceneLights),
		medium: medium,
		bvh:    core.NewBVH(all),
	}
}

// CastRay returns the closest surface along the ray within [tMin, tMax]
func (s *Scene) CastRay(ray core.Ray, tMin, tMax float64) (*core.SurfaceInteraction, bool) {
	return s.bvh.Hit(ray, tMin, tMax)
}

// Occluded reports whether any surface lies strictly between the two points
func (s *Scene) Occluded(from, to core.Vec3) bool {
	toTarget := to.Subtract(from)
	distance := toTarget.Length()
	if distance <= 2*shadowEpsilon {
		return false
	}
	ray := core.NewRay(from, toTarget.Multiply(1/distance))
	return s.bvh.AnyHit(ray, shadowEpsilon, distance*(1-shadowEpsilon)-shadowEpsilon)
}

// Bounds returns the bounding box of every shape
func (s *Scene) Bounds() core.AABB {
	return s.bvh.Bounds()
}

// Lights returns the light sampler shared by light selection and emission
func (s *Scene) Lights() core.LightSampler {
	return s.lights
}

// Camera returns the scene camera
func (s *Scene) Camera() core.Camera {
	return s.camera
}

// Medium returns the medium filling the scene, nil in vacuum
func (s *Scene) Medium() core.Medium {
	return s.medium
}

// ShapeCount returns the number of intersectable shapes, lights included
func (s *Scene) ShapeCount() int {
	return len(s.shapes)
}

func (s *Scene) String() string {
	width, height := s.camera.Resolution()
	medium := "vacuum"
	if s.medium != nil {
		medium = "medium"
	}
	return fmt.Sprintf("%s: %dx%d, %d shapes, %d lights, %s", s.Name, width, height, len(s.shapes), len(s.lights.Lights()), medium)
}
