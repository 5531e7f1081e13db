// Package integrator estimates light transport along paths: unidirectional
// path tracing, light tracing, and vertex connection and merging.
package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/log"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

var logger = log.New("integrator")

// Scene is everything an integrator traces against
type Scene interface {
	core.RayCaster
	Lights() core.LightSampler
	Camera() core.Camera
	Medium() core.Medium // nil in vacuum
}

// Integrator defines the interface for light transport algorithms.
// An integrator is owned by one worker and is not safe for concurrent use.
type Integrator interface {
	// BeginPass prepares a rendering pass and returns light path splats. Every
	// TracePath call until the next BeginPass must use the same wavelengths.
	BeginPass(pass int, wl core.WavelengthSample, sampler core.Sampler) (*pathspace.Result, error)
	// TracePath estimates radiance along a primary ray. sampleIndex pairs the
	// eye path with a light path of the current pass.
	TracePath(ray core.Ray, raster core.Vec2, sampleIndex int, wl core.WavelengthSample, sampler core.Sampler) *pathspace.Result
	// Release returns results to the integrator once they are accumulated
	Release(results *pathspace.Result)
}

// Kind names one of the integrators
type Kind string

const (
	KindPathTracer  Kind = "pt"
	KindLightTracer Kind = "lt"
	KindVCM         Kind = "vcm"
)

// ParseKind converts a name to a Kind
func ParseKind(s string) (Kind, error) {
	switch kind := Kind(strings.ToLower(s)); kind {
	case KindPathTracer, KindLightTracer, KindVCM:
		return kind, nil
	}
	return "", fmt.Errorf("%w: unknown integrator %q", ErrInvalidConfig, s)
}

// Factory creates one integrator per render worker
type Factory func() (Integrator, error)

// NewFactory validates the configuration against the scene and returns a
// factory for the requested integrator
func NewFactory(kind Kind, scene Scene, config Config) (Factory, error) {
	config = resolveConfig(scene, config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(scene.Lights().Lights()) == 0 {
		return nil, ErrNoLights
	}

	logger.Infof("%s integrator: %v", kind, config)

	switch kind {
	case KindPathTracer:
		return func() (Integrator, error) { return NewPathTracer(scene, config) }, nil
	case KindLightTracer:
		return func() (Integrator, error) { return NewLightTracer(scene, config) }, nil
	case KindVCM:
		if err := checkMedium(config.Mode, scene.Medium()); err != nil {
			return nil, err
		}
		return func() (Integrator, error) { return NewVCM(scene, config) }, nil
	}
	return nil, fmt.Errorf("%w: unknown integrator %q", ErrInvalidConfig, kind)
}

// resolveConfig fills the settings that default to scene properties
func resolveConfig(scene Scene, config Config) Config {
	if config.LightPathCount == 0 {
		width, height := scene.Camera().Resolution()
		config.LightPathCount = width * height
	}
	return config
}
