package lights

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// PointLight emits uniformly in all directions from a single position
type PointLight struct {
	Position  core.Vec3
	Intensity core.SpectralCurve // Radiant intensity
}

// NewPointLight creates a point light
func NewPointLight(position core.Vec3, intensity core.SpectralCurve) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// IsDelta is true: the position has zero area
func (pl *PointLight) IsDelta() bool {
	return true
}

// Power returns the radiant flux used for light selection
func (pl *PointLight) Power() float64 {
	return 4 * math.Pi * core.CurveAverage(pl.Intensity)
}

// Illuminate returns the only point of the light. DirectPdfW carries the squared
// distance so that Radiance/DirectPdfW is the inverse-square falloff.
func (pl *PointLight) Illuminate(receiver core.Vec3, wl core.WavelengthSample, u core.Vec2) (core.Illumination, bool) {
	toLight := pl.Position.Subtract(receiver)
	distSquared := toLight.LengthSquared()
	if distSquared == 0 {
		return core.Illumination{}, false
	}
	distance := math.Sqrt(distSquared)

	return core.Illumination{
		Radiance:     core.SampleCurve(pl.Intensity, wl),
		Direction:    toLight.Multiply(1.0 / distance),
		Distance:     distance,
		DirectPdfW:   distSquared,
		EmissionPdfW: core.UniformSpherePDF,
		CosAtLight:   1,
	}, true
}

// Emit samples a uniform direction on the sphere
func (pl *PointLight) Emit(wl core.WavelengthSample, uPosition, uDirection core.Vec2) (core.Emission, bool) {
	direction := core.SampleOnUnitSphere(uDirection)
	return core.Emission{
		Point:        pl.Position,
		Normal:       direction,
		Direction:    direction,
		Radiance:     core.SampleCurve(pl.Intensity, wl),
		EmissionPdfW: core.UniformSpherePDF,
		DirectPdfA:   1,
		CosAtLight:   1,
	}, true
}

// Radiance is never visible: rays cannot hit a point
func (pl *PointLight) Radiance(point, rayDirection core.Vec3, wl core.WavelengthSample) (core.LightHit, bool) {
	return core.LightHit{}, false
}
