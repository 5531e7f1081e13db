package material

import "github.com/df07/go-pathspace-renderer/pkg/core"

// Emissive is the surface material of a light source. Emission comes from the
// light attached to the hit; the surface itself absorbs everything.
type Emissive struct{}

// NewEmissive creates the material for emitter surfaces
func NewEmissive() *Emissive {
	return &Emissive{}
}

// Sample never scatters
func (e *Emissive) Sample(wo core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode, u core.Vec2) (core.BSDFSample, bool) {
	return core.BSDFSample{}, false
}

// Evaluate is zero: lights don't reflect
func (e *Emissive) Evaluate(wo, wi core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64) {
	return core.Spectrum{}, 0, 0
}

// ContinuationProbability is zero so paths end on emitters
func (e *Emissive) ContinuationProbability(hit *core.SurfaceInteraction, wl core.WavelengthSample) float64 {
	return 0
}
