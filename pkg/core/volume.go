package core

import (
	"fmt"
	"strings"
)

// Medium is a participating medium with spectral absorption and scattering
type Medium interface {
	Coefficients(wl WavelengthSample) (sigmaA, sigmaS Spectrum)
}

// DistanceTracking selects how free-flight distances are drawn in a medium
type DistanceTracking int

const (
	// TrackingExponential samples with the hero wavelength's extinction
	TrackingExponential DistanceTracking = iota
	// TrackingMaximalExponential samples with the largest extinction over the wavelengths
	TrackingMaximalExponential
	// TrackingScatteringAware samples with the largest scattering coefficient and
	// carries absorption in the weight
	TrackingScatteringAware
)

func (d DistanceTracking) String() string {
	switch d {
	case TrackingExponential:
		return "exponential"
	case TrackingMaximalExponential:
		return "maximal-exponential"
	case TrackingScatteringAware:
		return "scattering-aware"
	default:
		return "unknown"
	}
}

// ParseDistanceTracking converts a tracking name to a DistanceTracking
func ParseDistanceTracking(s string) (DistanceTracking, error) {
	for _, d := range []DistanceTracking{TrackingExponential, TrackingMaximalExponential, TrackingScatteringAware} {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown distance tracking %q", s)
}

// DistanceSample is the outcome of free-flight sampling along a segment
type DistanceSample struct {
	Distance  float64
	Scattered bool     // false when the segment reached the surface
	Weight    Spectrum // transmittance (and scattering coefficient) over the sampling density
	PDF       float64  // density of the event: per unit length if scattered, probability otherwise
}

// VolumeIntegrator samples distances and estimates transmittance in a medium
type VolumeIntegrator interface {
	SampleDistance(medium Medium, ray Ray, maxDistance float64, wl WavelengthSample, u float64) DistanceSample
	Transmittance(medium Medium, distance float64, wl WavelengthSample) Spectrum
}
