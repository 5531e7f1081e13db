package volume

import "github.com/df07/go-pathspace-renderer/pkg/core"

// Homogeneous is a medium with constant absorption and scattering everywhere.
// Scattering is isotropic.
type Homogeneous struct {
	SigmaA core.SpectralCurve // absorption coefficient, per unit length
	SigmaS core.SpectralCurve // scattering coefficient, per unit length
}

// NewHomogeneous creates a homogeneous medium
func NewHomogeneous(sigmaA, sigmaS core.SpectralCurve) *Homogeneous {
	return &Homogeneous{SigmaA: sigmaA, SigmaS: sigmaS}
}

// Coefficients evaluates absorption and scattering at the path's wavelengths
func (h *Homogeneous) Coefficients(wl core.WavelengthSample) (core.Spectrum, core.Spectrum) {
	return core.SampleCurve(h.SigmaA, wl), core.SampleCurve(h.SigmaS, wl)
}

// IsotropicPhase is the phase function value for every pair of directions
const IsotropicPhase = core.UniformSpherePDF
