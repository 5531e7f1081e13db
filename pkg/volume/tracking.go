package volume

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Tracker samples free-flight distances using one of the distance-tracking strategies
type Tracker struct {
	Mode core.DistanceTracking
}

// NewTracker creates a distance tracker
func NewTracker(mode core.DistanceTracking) *Tracker {
	return &Tracker{Mode: mode}
}

// samplingCoefficient is the extinction the exponential distance distribution uses
func (tr *Tracker) samplingCoefficient(sigmaA, sigmaS core.Spectrum) float64 {
	sigmaT := sigmaA.Add(sigmaS)
	switch tr.Mode {
	case core.TrackingMaximalExponential:
		return sigmaT.MaxComponent()
	case core.TrackingScatteringAware:
		return sigmaS.MaxComponent()
	default:
		return sigmaT.X
	}
}

// SampleDistance draws a scattering distance along the ray or passes through to
// the surface at maxDistance. The weight makes the estimate unbiased for every
// wavelength, whichever coefficient drove the sampling.
func (tr *Tracker) SampleDistance(medium core.Medium, ray core.Ray, maxDistance float64, wl core.WavelengthSample, u float64) core.DistanceSample {
	sigmaA, sigmaS := medium.Coefficients(wl)
	sigmaT := sigmaA.Add(sigmaS)
	sampling := tr.samplingCoefficient(sigmaA, sigmaS)

	if sampling > 0 {
		t := -math.Log(1-u) / sampling
		if t < maxDistance {
			pdf := sampling * math.Exp(-sampling*t)
			return core.DistanceSample{
				Distance:  t,
				Scattered: true,
				Weight:    sigmaS.MultiplyVec(transmittance(sigmaT, t)).Multiply(1.0 / pdf),
				PDF:       pdf,
			}
		}
	}

	probability := 1.0
	if sampling > 0 {
		probability = math.Exp(-sampling * maxDistance)
	}
	if probability == 0 {
		return core.DistanceSample{Distance: maxDistance, PDF: 0}
	}
	return core.DistanceSample{
		Distance: maxDistance,
		Weight:   transmittance(sigmaT, maxDistance).Multiply(1.0 / probability),
		PDF:      probability,
	}
}

// Transmittance is the fraction of light surviving distance in the medium
func (tr *Tracker) Transmittance(medium core.Medium, distance float64, wl core.WavelengthSample) core.Spectrum {
	sigmaA, sigmaS := medium.Coefficients(wl)
	return transmittance(sigmaA.Add(sigmaS), distance)
}

// transmittance evaluates exp(-sigmaT*d), treating 0*Inf as no attenuation
func transmittance(sigmaT core.Spectrum, distance float64) core.Spectrum {
	channel := func(sigma float64) float64 {
		if sigma == 0 {
			return 1
		}
		return math.Exp(-sigma * distance)
	}
	return core.NewVec3(channel(sigmaT.X), channel(sigmaT.Y), channel(sigmaT.Z))
}
