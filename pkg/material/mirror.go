package material

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Mirror is a perfect specular reflector
type Mirror struct {
	Reflectance core.SpectralCurve
}

// NewMirror creates a mirror with the given reflectance
func NewMirror(reflectance core.SpectralCurve) *Mirror {
	return &Mirror{Reflectance: reflectance}
}

// IsDelta is true: the only scattered direction is the reflection
func (m *Mirror) IsDelta() bool {
	return true
}

// Sample returns the mirror direction. F is divided by the cosine so that
// F*cos/PDF equals the reflectance.
func (m *Mirror) Sample(wo core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode, u core.Vec2) (core.BSDFSample, bool) {
	normal := facingNormal(wo, hit)
	wi := reflect(wo, normal).Normalize()
	cosIn := math.Abs(wi.Dot(normal))
	if cosIn == 0 {
		return core.BSDFSample{}, false
	}

	return core.BSDFSample{
		Direction:  wi,
		F:          core.SampleCurve(m.Reflectance, wl).Multiply(1.0 / cosIn),
		PDF:        1,
		ReversePDF: 1,
		Specular:   true,
	}, true
}

// Evaluate is zero: a delta lobe is never hit by a connection
func (m *Mirror) Evaluate(wo, wi core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64) {
	return core.Spectrum{}, 0, 0
}

// ContinuationProbability is the largest reflectance over the path's wavelengths
func (m *Mirror) ContinuationProbability(hit *core.SurfaceInteraction, wl core.WavelengthSample) float64 {
	return maxReflectance(m.Reflectance, wl)
}
