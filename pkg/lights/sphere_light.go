package lights

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/geometry"
	"github.com/df07/go-pathspace-renderer/pkg/material"
)

// SphereLight is a spherical area light emitting outward from every point
type SphereLight struct {
	*geometry.Sphere
	Emission core.SpectralCurve
	invArea  float64
}

// NewSphereLight creates a sphere light; rays hitting it report the light in their hit
func NewSphereLight(center core.Vec3, radius float64, emission core.SpectralCurve) *SphereLight {
	sphere := geometry.NewSphere(center, radius, material.NewEmissive())
	sl := &SphereLight{
		Sphere:   sphere,
		Emission: emission,
		invArea:  1 / sphere.Area(),
	}
	sphere.Light = sl
	return sl
}

func (sl *SphereLight) IsDelta() bool {
	return false
}

func (sl *SphereLight) Power() float64 {
	return math.Pi * sl.Area() * core.CurveAverage(sl.Emission)
}

// Illuminate samples the whole surface uniformly. Points on the far side of
// the sphere fail, so about half the samples are lost.
func (sl *SphereLight) Illuminate(receiver core.Vec3, wl core.WavelengthSample, u core.Vec2) (core.Illumination, bool) {
	point := sl.SamplePoint(u)
	toLight := point.Subtract(receiver)
	distSquared := toLight.LengthSquared()
	if distSquared == 0 {
		return core.Illumination{}, false
	}
	distance := math.Sqrt(distSquared)
	direction := toLight.Multiply(1 / distance)

	cosAtLight := -sl.NormalAt(point).Dot(direction)
	if cosAtLight < 1e-8 {
		return core.Illumination{}, false
	}

	return core.Illumination{
		Radiance:     core.SampleCurve(sl.Emission, wl),
		Direction:    direction,
		Distance:     distance,
		DirectPdfW:   sl.invArea * distSquared / cosAtLight,
		EmissionPdfW: sl.invArea * cosAtLight / math.Pi,
		CosAtLight:   cosAtLight,
	}, true
}

// Emit samples a surface point and a cosine-weighted outward direction
func (sl *SphereLight) Emit(wl core.WavelengthSample, uPosition, uDirection core.Vec2) (core.Emission, bool) {
	point := sl.SamplePoint(uPosition)
	normal := sl.NormalAt(point)
	direction := core.SampleCosineHemisphere(normal, uDirection)
	cos := direction.Dot(normal)
	if cos <= 0 {
		return core.Emission{}, false
	}

	return core.Emission{
		Point:        point,
		Normal:       normal,
		Direction:    direction,
		Radiance:     core.SampleCurve(sl.Emission, wl),
		EmissionPdfW: sl.invArea * cos / math.Pi,
		DirectPdfA:   sl.invArea,
		CosAtLight:   cos,
	}, true
}

// Radiance is the emission seen by a ray hitting the outside of the sphere
func (sl *SphereLight) Radiance(point, rayDirection core.Vec3, wl core.WavelengthSample) (core.LightHit, bool) {
	cos := -sl.NormalAt(point).Dot(rayDirection)
	if cos <= 0 {
		return core.LightHit{}, false
	}
	return core.LightHit{
		Radiance:     core.SampleCurve(sl.Emission, wl),
		DirectPdfA:   sl.invArea,
		EmissionPdfW: sl.invArea * cos / math.Pi,
	}, true
}
