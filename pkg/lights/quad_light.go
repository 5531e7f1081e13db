package lights

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/geometry"
	"github.com/df07/go-pathspace-renderer/pkg/material"
)

// QuadLight is a one-sided rectangular area light emitting along the quad normal
type QuadLight struct {
	*geometry.Quad                    // Embed quad for hit testing
	Emission       core.SpectralCurve // Emitted radiance
	invArea        float64
}

// NewQuadLight creates a quad light; rays hitting it report the light in their hit
func NewQuadLight(corner, u, v core.Vec3, emission core.SpectralCurve) *QuadLight {
	quad := geometry.NewQuad(corner, u, v, material.NewEmissive())
	ql := &QuadLight{
		Quad:     quad,
		Emission: emission,
		invArea:  1.0 / quad.Area(),
	}
	quad.Light = ql
	return ql
}

// IsDelta is false: the light has area
func (ql *QuadLight) IsDelta() bool {
	return false
}

// Power returns the radiant flux used for light selection
func (ql *QuadLight) Power() float64 {
	return math.Pi * ql.Area() * core.CurveAverage(ql.Emission)
}

// Illuminate samples a point uniformly on the quad
func (ql *QuadLight) Illuminate(receiver core.Vec3, wl core.WavelengthSample, u core.Vec2) (core.Illumination, bool) {
	point := ql.SamplePoint(u)
	toLight := point.Subtract(receiver)
	distSquared := toLight.LengthSquared()
	distance := math.Sqrt(distSquared)
	if distance == 0 {
		return core.Illumination{}, false
	}
	direction := toLight.Multiply(1.0 / distance)

	cosNormalDir := ql.Normal.Dot(direction.Negate())
	if cosNormalDir < 1e-8 {
		return core.Illumination{}, false // back side or edge-on
	}

	return core.Illumination{
		Radiance:     core.SampleCurve(ql.Emission, wl),
		Direction:    direction,
		Distance:     distance,
		DirectPdfW:   ql.invArea * distSquared / cosNormalDir,
		EmissionPdfW: ql.invArea * cosNormalDir / math.Pi,
		CosAtLight:   cosNormalDir,
	}, true
}

// Emit samples a point uniformly and a cosine-weighted direction
func (ql *QuadLight) Emit(wl core.WavelengthSample, uPosition, uDirection core.Vec2) (core.Emission, bool) {
	point := ql.SamplePoint(uPosition)
	direction := core.SampleCosineHemisphere(ql.Normal, uDirection)
	cosTheta := direction.Dot(ql.Normal)
	if cosTheta <= 0 {
		return core.Emission{}, false
	}

	return core.Emission{
		Point:        point,
		Normal:       ql.Normal,
		Direction:    direction,
		Radiance:     core.SampleCurve(ql.Emission, wl),
		EmissionPdfW: ql.invArea * cosTheta / math.Pi,
		DirectPdfA:   ql.invArea,
		CosAtLight:   cosTheta,
	}, true
}

// Radiance evaluates emission seen by a ray hitting the front of the quad
func (ql *QuadLight) Radiance(point, rayDirection core.Vec3, wl core.WavelengthSample) (core.LightHit, bool) {
	cosOut := ql.Normal.Dot(rayDirection.Negate())
	if cosOut <= 0 {
		return core.LightHit{}, false
	}
	return core.LightHit{
		Radiance:     core.SampleCurve(ql.Emission, wl),
		DirectPdfA:   ql.invArea,
		EmissionPdfW: ql.invArea * cosOut / math.Pi,
	}, true
}
