package integrator

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// MISGlobals are the per-pass constants shared by every worker's weights
type MISGlobals struct {
	LightPathCount  int
	Radius          float64
	VMNormalization float64 // 1/(π r² N)
	VMWeight        float64 // π r² N, zero without merging
	VCWeight        float64 // 1/(π r² N), zero without connections
}

// minimumRadius keeps the merge normalization finite after many passes
const minimumRadius = 1e-7

// NewMISGlobals computes the constants of a pass. The merge radius shrinks as
// r_i = r_0 / (i+1)^((1-α)/2).
func NewMISGlobals(config Config, baseRadius float64, pass int) MISGlobals {
	radius := baseRadius / math.Pow(float64(pass+1), 0.5*(1-config.RadiusAlpha))
	radius = math.Max(radius, minimumRadius)

	n := float64(max(config.LightPathCount, 1))
	etaVCM := math.Pi * radius * radius * n

	g := MISGlobals{
		LightPathCount:  max(config.LightPathCount, 1),
		Radius:          radius,
		VMNormalization: 1 / etaVCM,
	}
	if config.Mode&ModeMerging != 0 {
		g.VMWeight = mis(etaVCM)
	}
	if config.Mode&ModeConnection != 0 {
		g.VCWeight = mis(1 / etaVCM)
	}
	return g
}

// mis maps a density ratio to its weight term; the identity gives the balance heuristic
func mis(x float64) float64 {
	return x
}

// subpath is the running state of a light or eye subpath. The d* quantities
// let any strategy ending at the current vertex compute its weight in constant
// time (Georgiev et al. 2012).
type subpath struct {
	direction    core.Vec3
	throughput   core.Spectrum
	pathLength   uint
	pathPDF      float64 // area density of the vertices sampled so far
	lastPdfW     float64 // solid angle density of the last direction
	dVCM         float64
	dVC          float64
	dVM          float64
	specularPath bool // every scattering so far was specular
}

// newLightSubpath starts a subpath at an emitted ray. The densities include
// the light selection probability.
func newLightSubpath(emission core.Emission, pick float64, delta bool, g MISGlobals) subpath {
	emissionPdfW := emission.EmissionPdfW * pick
	directPdfA := emission.DirectPdfA * pick

	s := subpath{
		direction:    emission.Direction,
		throughput:   emission.Radiance.Multiply(emission.CosAtLight / emissionPdfW),
		pathLength:   1,
		pathPDF:      directPdfA,
		lastPdfW:     emissionPdfW / directPdfA,
		dVCM:         mis(directPdfA / emissionPdfW),
		specularPath: true,
	}
	if !delta {
		s.dVC = mis(emission.CosAtLight / emissionPdfW)
	}
	s.dVM = s.dVC * g.VCWeight
	return s
}

// newEyeSubpath starts a subpath at a primary ray with the camera's film density
func newEyeSubpath(direction core.Vec3, cameraPdf float64, g MISGlobals) subpath {
	return subpath{
		direction:    direction,
		throughput:   core.NewVec3(1, 1, 1),
		pathLength:   1,
		pathPDF:      1,
		lastPdfW:     cameraPdf,
		dVCM:         mis(float64(g.LightPathCount) / cameraPdf),
		specularPath: true,
	}
}

// arrive accounts for the segment that reached a surface with cosine cosIn.
// The squared distance is skipped when the previous density was already per area.
func (s *subpath) arrive(distSquared, cosIn float64, solidAngle bool) {
	if solidAngle {
		s.dVCM *= mis(distSquared)
		s.pathPDF *= core.SolidAnglePDF(s.lastPdfW).ToArea(distSquared, cosIn).Value
	} else {
		s.pathPDF *= s.lastPdfW * math.Abs(cosIn)
	}
	cos := mis(math.Abs(cosIn))
	s.dVCM /= cos
	s.dVC /= cos
	s.dVM /= cos
}

// scatter accounts for a sampled continuation with outgoing cosine cosOut,
// forward density pdfW and reverse density revPdfW (both in solid angle,
// both including the continuation probability). Vertices in a medium are not
// mergeable, so merging at them is left out of the weights.
func (s *subpath) scatter(g MISGlobals, cosOut, pdfW, revPdfW float64, specular, mergeable bool) {
	if specular {
		s.dVCM = 0
		s.dVC *= mis(cosOut/pdfW) * mis(revPdfW)
		s.dVM *= mis(cosOut/pdfW) * mis(revPdfW)
	} else {
		vmWeight, mergeHere := g.VMWeight, 1.0
		if !mergeable {
			vmWeight, mergeHere = 0, 0
		}
		s.dVC = mis(cosOut/pdfW) * (s.dVC*mis(revPdfW) + s.dVCM + vmWeight)
		s.dVM = mis(cosOut/pdfW) * (s.dVM*mis(revPdfW) + s.dVCM*g.VCWeight + mergeHere)
		s.dVCM = mis(1 / pdfW)
	}
	s.lastPdfW = pdfW
	s.specularPath = s.specularPath && specular
}
