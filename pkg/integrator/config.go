package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Mode selects the estimators VCM combines
type Mode int

const (
	// ModeLightTracing splats light subpaths onto the camera only
	ModeLightTracing Mode = 1 << iota
	// ModeConnection connects eye vertices to light vertices and light sources
	ModeConnection
	// ModeMerging density-estimates light vertices around eye vertices
	ModeMerging

	// ModeVCM combines connection and merging
	ModeVCM = ModeConnection | ModeMerging
)

// ParseMode converts "lt", "vc", "vm" or "vcm" to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "lt":
		return ModeLightTracing, nil
	case "vc":
		return ModeConnection, nil
	case "vm", "ppm":
		return ModeMerging, nil
	case "vcm":
		return ModeVCM, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

func (m Mode) String() string {
	switch m {
	case ModeLightTracing:
		return "lt"
	case ModeConnection:
		return "vc"
	case ModeMerging:
		return "vm"
	case ModeVCM:
		return "vcm"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Strategy selects how the path tracer finds light
type Strategy int

const (
	// DirectionSampling only counts emission found by BSDF sampling
	DirectionSampling Strategy = iota
	// LightSampling only counts emission found by sampling lights
	LightSampling
	// MIS combines both with the balance heuristic
	MIS
)

// ParseStrategy converts "direction", "light" or "mis" to a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "direction", "bsdf":
		return DirectionSampling, nil
	case "light", "nee":
		return LightSampling, nil
	case "mis":
		return MIS, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, s)
}

func (s Strategy) String() string {
	switch s {
	case DirectionSampling:
		return "direction"
	case LightSampling:
		return "light"
	case MIS:
		return "mis"
	default:
		return "unknown"
	}
}

// Config contains the settings every integrator is constructed with
type Config struct {
	MaxPathLength             int     // Maximum number of segments in a complete path
	MinimalContribution       float64 // Paths whose throughput falls below this are dropped (biased, 0 disables)
	RussianRouletteMinBounces int     // Bounces before Russian roulette starts (path and light tracer)

	Strategy Strategy // Path tracer light finding

	LightPathCount   int     // Light subpaths per pass (0 = one per pixel)
	Mode             Mode    // VCM estimators
	MergeRadius      float64 // Initial merge radius as a fraction of the scene's bounding sphere radius
	RadiusAlpha      float64 // Progressive radius reduction, 1 keeps the radius fixed
	MaxLightVertices int     // Capacity of the light vertex arena (0 = unbounded)

	DistanceTracking core.DistanceTracking
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		MaxPathLength:             10,
		MinimalContribution:       0,
		RussianRouletteMinBounces: 3,
		Strategy:                  MIS,
		LightPathCount:            0,
		Mode:                      ModeVCM,
		MergeRadius:               0.003,
		RadiusAlpha:               0.75,
		MaxLightVertices:          0,
		DistanceTracking:          core.TrackingMaximalExponential,
	}
}

// Validate reports the first setting that cannot be rendered with
func (c Config) Validate() error {
	switch {
	case c.MaxPathLength < 1:
		return fmt.Errorf("%w: max path length must be at least 1, got %d", ErrInvalidConfig, c.MaxPathLength)
	case c.MinimalContribution < 0:
		return fmt.Errorf("%w: minimal contribution must not be negative, got %g", ErrInvalidConfig, c.MinimalContribution)
	case c.RussianRouletteMinBounces < 0:
		return fmt.Errorf("%w: russian roulette bounces must not be negative, got %d", ErrInvalidConfig, c.RussianRouletteMinBounces)
	case c.Strategy < DirectionSampling || c.Strategy > MIS:
		return fmt.Errorf("%w: unknown strategy %d", ErrInvalidConfig, int(c.Strategy))
	case c.LightPathCount < 0:
		return fmt.Errorf("%w: light path count must not be negative, got %d", ErrInvalidConfig, c.LightPathCount)
	case c.MaxLightVertices < 0:
		return fmt.Errorf("%w: light vertex capacity must not be negative, got %d", ErrInvalidConfig, c.MaxLightVertices)
	case c.Mode == 0 || c.Mode&^(ModeLightTracing|ModeVCM) != 0:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(c.Mode))
	case c.Mode&ModeLightTracing != 0 && c.Mode != ModeLightTracing:
		return fmt.Errorf("%w: light tracing cannot be combined with %v", ErrInvalidConfig, c.Mode&^ModeLightTracing)
	case c.Mode&ModeMerging != 0 && c.MergeRadius <= 0:
		return fmt.Errorf("%w: merging needs a positive merge radius, got %g", ErrInvalidConfig, c.MergeRadius)
	case c.RadiusAlpha <= 0 || c.RadiusAlpha > 1:
		return fmt.Errorf("%w: radius alpha must be in (0, 1], got %g", ErrInvalidConfig, c.RadiusAlpha)
	case c.DistanceTracking < core.TrackingExponential || c.DistanceTracking > core.TrackingScatteringAware:
		return fmt.Errorf("%w: unknown distance tracking %d", ErrInvalidConfig, int(c.DistanceTracking))
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("depth=%d strategy=%v mode=%v lightPaths=%d radius=%g alpha=%g tracking=%v floor=%g rr=%d",
		c.MaxPathLength, c.Strategy, c.Mode, c.LightPathCount, c.MergeRadius, c.RadiusAlpha,
		c.DistanceTracking, c.MinimalContribution, c.RussianRouletteMinBounces)
}
