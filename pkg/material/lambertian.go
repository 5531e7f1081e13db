package material

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Lambertian represents a perfectly diffuse, two-sided material
type Lambertian struct {
	Albedo core.SpectralCurve
}

// NewLambertian creates a lambertian material from a reflectance curve
func NewLambertian(albedo core.SpectralCurve) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Sample draws a cosine-weighted direction on the side of wo
func (l *Lambertian) Sample(wo core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode, u core.Vec2) (core.BSDFSample, bool) {
	normal := facingNormal(wo, hit)
	wi := core.SampleCosineHemisphere(normal, u)

	cosIn := wi.Dot(normal)
	cosOut := wo.Dot(normal)
	if cosIn <= 0 || cosOut <= 0 {
		return core.BSDFSample{}, false
	}

	return core.BSDFSample{
		Direction:  wi,
		F:          core.SampleCurve(l.Albedo, wl).Multiply(1.0 / math.Pi),
		PDF:        cosIn / math.Pi,
		ReversePDF: cosOut / math.Pi,
	}, true
}

// Evaluate returns albedo/π when wo and wi lie on the same side of the surface
func (l *Lambertian) Evaluate(wo, wi core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64) {
	normal := facingNormal(wo, hit)
	cosIn := wi.Dot(normal)
	cosOut := wo.Dot(normal)
	if cosIn <= 0 || cosOut <= 0 {
		return core.Spectrum{}, 0, 0
	}
	return core.SampleCurve(l.Albedo, wl).Multiply(1.0 / math.Pi), cosIn / math.Pi, cosOut / math.Pi
}

// ContinuationProbability is the largest reflectance over the path's wavelengths
func (l *Lambertian) ContinuationProbability(hit *core.SurfaceInteraction, wl core.WavelengthSample) float64 {
	return maxReflectance(l.Albedo, wl)
}
