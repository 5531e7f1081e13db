package material

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Dielectric is a smooth transparent interface like glass. Each sample either
// reflects or refracts, chosen by the Fresnel reflectance.
type Dielectric struct {
	IOR  float64            // index of refraction of the inside
	Tint core.SpectralCurve // spectral transmittance of the interface
}

// NewDielectric creates a dielectric with the given index of refraction
func NewDielectric(ior float64, tint core.SpectralCurve) *Dielectric {
	return &Dielectric{IOR: ior, Tint: tint}
}

func (d *Dielectric) IsDelta() bool {
	return true
}

// Sample picks reflection with probability equal to the Fresnel reflectance
// and refraction otherwise. Total internal reflection ends the path.
func (d *Dielectric) Sample(wo core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode, u core.Vec2) (core.BSDFSample, bool) {
	normal := facingNormal(wo, hit)
	cosIn := math.Min(wo.Dot(normal), 1)
	if cosIn <= 0 {
		return core.BSDFSample{}, false
	}

	ratio := d.IOR
	if hit.FrontFace {
		ratio = 1 / d.IOR
	}
	sin2Out := ratio * ratio * (1 - cosIn*cosIn)
	if sin2Out >= 1 {
		return core.BSDFSample{}, false
	}

	tint := core.SampleCurve(d.Tint, wl)
	fresnel := schlick(cosIn, ratio)

	if u.X < fresnel {
		return core.BSDFSample{
			Direction:  reflect(wo, normal).Normalize(),
			F:          tint.Multiply(fresnel / cosIn),
			PDF:        fresnel,
			ReversePDF: fresnel,
			Specular:   true,
		}, true
	}

	cosOut := math.Sqrt(1 - sin2Out)
	wi := wo.Negate().Multiply(ratio).Add(normal.Multiply(ratio*cosIn - cosOut)).Normalize()

	// radiance is compressed into the narrower cone; importance is not
	scale := 1.0
	if mode == core.TransportRadiance {
		scale = ratio * ratio
	}
	return core.BSDFSample{
		Direction:  wi,
		F:          tint.Multiply((1 - fresnel) * scale / cosOut),
		PDF:        1 - fresnel,
		ReversePDF: 1 - fresnel,
		Specular:   true,
	}, true
}

// Evaluate is zero for both delta lobes
func (d *Dielectric) Evaluate(wo, wi core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64) {
	return core.Spectrum{}, 0, 0
}

func (d *Dielectric) ContinuationProbability(hit *core.SurfaceInteraction, wl core.WavelengthSample) float64 {
	return maxReflectance(d.Tint, wl)
}

// schlick approximates the Fresnel reflectance for a relative index ratio
func schlick(cos, ratio float64) float64 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}
