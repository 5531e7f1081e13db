package integrator

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/camera"
	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/geometry"
	"github.com/df07/go-pathspace-renderer/pkg/material"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
	"github.com/df07/go-pathspace-renderer/pkg/scene"
)

// sumRadiance adds the channel means of every result of the given kind and
// fails on degenerate values
func sumRadiance(t *testing.T, head *pathspace.Result, kind pathspace.ResultKind) float64 {
	t.Helper()
	sum := 0.0
	for r := head; r != nil; r = r.Next {
		if r.Kind != kind {
			t.Fatalf("Expected result kind %d, got %d", kind, r.Kind)
		}
		if !r.Radiance.IsFinite() || r.Radiance.X < 0 || r.Radiance.Y < 0 || r.Radiance.Z < 0 {
			t.Fatalf("Expected finite non-negative radiance, got %v", r.Radiance)
		}
		sum += (r.Radiance.X + r.Radiance.Y + r.Radiance.Z) / 3
	}
	return sum
}

// renderImageMean renders passes of one jittered sample per pixel and returns
// the mean pixel value: eye results over samples plus splats over passes
func renderImageMean(t *testing.T, integ Integrator, s Scene, passes int, seed int64) float64 {
	t.Helper()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	cam := s.Camera()
	width, height := cam.Resolution()

	var eye, splat float64
	for pass := 0; pass < passes; pass++ {
		wl := core.SampleWavelengths(sampler.Get1D())
		splats, err := integ.BeginPass(pass, wl, sampler)
		if err != nil {
			t.Fatalf("Expected pass %d to begin, got %v", pass, err)
		}
		splat += sumRadiance(t, splats, pathspace.LightPath)
		integ.Release(splats)

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				raster := core.NewVec2(float64(x)+sampler.Get1D(), float64(y)+sampler.Get1D())
				result := integ.TracePath(cam.GenerateRay(raster), raster, y*width+x, wl, sampler)
				eye += sumRadiance(t, result, pathspace.EyePath)
				integ.Release(result)
			}
		}
	}
	return (eye + splat) / float64(passes*width*height)
}

// directReference integrates the closed form of the direct scene over the film
func directReference(s Scene, subdivisions int) float64 {
	width, height := s.Camera().Resolution()
	sum := 0.0
	for y := 0; y < height*subdivisions; y++ {
		for x := 0; x < width*subdivisions; x++ {
			raster := core.NewVec2((float64(x)+0.5)/float64(subdivisions), (float64(y)+0.5)/float64(subdivisions))
			hit, ok := s.CastRay(s.Camera().GenerateRay(raster), 1e-4, math.Inf(1))
			if !ok {
				continue
			}
			toLight := scene.DirectLightPosition.Subtract(hit.Point)
			distSquared := toLight.LengthSquared()
			cos := hit.Normal.Dot(toLight) / math.Sqrt(distSquared)
			if cos <= 0 {
				continue
			}
			sum += scene.DirectAlbedo / math.Pi * scene.DirectIntensity * cos / distSquared
		}
	}
	return sum / float64(width*height*subdivisions*subdivisions)
}

func expectClose(t *testing.T, name string, expected, got, tolerance float64) {
	t.Helper()
	if expected == 0 {
		t.Fatalf("%s: reference is zero", name)
	}
	if relative := math.Abs(got-expected) / expected; relative > tolerance {
		t.Errorf("%s: expected %f, got %f (%.1f%% off)", name, expected, got, 100*relative)
	}
}

// nanMaterial returns degenerate values from every method
type nanMaterial struct{}

func (nanMaterial) Sample(wo core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode, u core.Vec2) (core.BSDFSample, bool) {
	nan := math.NaN()
	return core.BSDFSample{
		Direction:  hit.Normal,
		F:          core.NewVec3(nan, math.Inf(1), -1),
		PDF:        nan,
		ReversePDF: nan,
	}, true
}

func (nanMaterial) Evaluate(wo, wi core.Vec3, hit *core.SurfaceInteraction, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64) {
	nan := math.NaN()
	return core.NewVec3(nan, nan, nan), nan, nan
}

func (nanMaterial) ContinuationProbability(hit *core.SurfaceInteraction, wl core.WavelengthSample) float64 {
	return math.NaN()
}

func degenerateScene() *scene.Scene {
	direct := scene.NewDirectScene(8, 8)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, nanMaterial{})
	floor := geometry.NewQuad(core.NewVec3(-5, -1, -5), core.NewVec3(10, 0, 0), core.NewVec3(0, 0, 10), material.NewLambertian(core.ConstantCurve(0.5)))
	return scene.New("degenerate", direct.Camera(), []core.Shape{sphere, floor}, direct.Lights().Lights(), nil)
}

func TestNewFactory(t *testing.T) {
	s := scene.NewDiffuseCornellScene(8, 8)

	for _, kind := range []Kind{KindPathTracer, KindLightTracer, KindVCM} {
		t.Run(string(kind), func(t *testing.T) {
			factory, err := NewFactory(kind, s, DefaultConfig())
			if err != nil {
				t.Fatalf("Expected factory, got %v", err)
			}
			first, err := factory()
			if err != nil {
				t.Fatalf("Expected integrator, got %v", err)
			}
			second, _ := factory()
			if first == second {
				t.Error("Expected every worker to get its own integrator")
			}
		})
	}
}

func TestNewFactory_Errors(t *testing.T) {
	cornell := scene.NewDiffuseCornellScene(8, 8)
	dark := scene.New("dark", cornell.Camera(), []core.Shape{
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.ConstantCurve(0.5))),
	}, nil, nil)

	invalid := DefaultConfig()
	invalid.MaxPathLength = 0

	tests := []struct {
		name     string
		kind     Kind
		scene    Scene
		config   Config
		expected error
	}{
		{"No lights", KindVCM, dark, DefaultConfig(), ErrNoLights},
		{"Invalid config", KindPathTracer, cornell, invalid, ErrInvalidConfig},
		{"Unknown kind", Kind("bdpt"), cornell, DefaultConfig(), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFactory(tt.kind, tt.scene, tt.config); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	if _, err := NewVCM(dark, DefaultConfig()); !errors.Is(err, ErrNoLights) {
		t.Errorf("Expected ErrNoLights from NewVCM, got %v", err)
	}
}

func TestIntegrators_DegenerateMaterial(t *testing.T) {
	s := degenerateScene()
	config := DefaultConfig()
	config.LightPathCount = 500

	for _, kind := range []Kind{KindPathTracer, KindLightTracer, KindVCM} {
		t.Run(string(kind), func(t *testing.T) {
			factory, err := NewFactory(kind, s, config)
			if err != nil {
				t.Fatalf("Expected factory, got %v", err)
			}
			integ, err := factory()
			if err != nil {
				t.Fatalf("Expected integrator, got %v", err)
			}
			// sumRadiance fails on any NaN, infinite or negative value
			mean := renderImageMean(t, integ, s, 2, 42)
			if math.IsNaN(mean) || mean < 0 {
				t.Errorf("Expected a finite non-negative image, got %f", mean)
			}
		})
	}
}

func TestIntegrators_EmptyView(t *testing.T) {
	// a camera looking away from everything sees nothing and splats nothing
	cornell := scene.NewDiffuseCornellScene(8, 8)
	away := camera.NewPerspective(camera.Config{
		Position: core.NewVec3(278, 278, -800),
		LookAt:   core.NewVec3(278, 278, -1600),
		Up:       core.NewVec3(0, 1, 0),
		Width:    8,
		Height:   8,
		VFov:     40,
	})
	s := scene.New("away", away, nil, cornell.Lights().Lights(), nil)

	for _, kind := range []Kind{KindPathTracer, KindLightTracer, KindVCM} {
		t.Run(string(kind), func(t *testing.T) {
			config := DefaultConfig()
			config.LightPathCount = 200
			factory, err := NewFactory(kind, s, config)
			if err != nil {
				t.Fatalf("Expected factory, got %v", err)
			}
			integ, _ := factory()
			if mean := renderImageMean(t, integ, s, 2, 42); mean != 0 {
				t.Errorf("Expected a black image, got mean %f", mean)
			}
		})
	}
}

func TestDegenerateTermsStayLocal(t *testing.T) {
	s := degenerateScene()
	wl := core.SampleWavelengths(0.5)

	castAt := func(origin, direction core.Vec3) scatterPoint {
		t.Helper()
		ray := core.NewRay(origin, direction)
		hit, ok := s.CastRay(ray, rayEpsilon, math.Inf(1))
		if !ok {
			t.Fatalf("Expected %v to hit the scene", ray)
		}
		return scatterPoint{position: hit.Point, wo: direction.Negate(), hit: hit}
	}
	broken := castAt(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	floor := castAt(core.NewVec3(3, 5, 3), core.NewVec3(0, -1, 0))
	if _, ok := broken.hit.Material.(nanMaterial); !ok {
		t.Fatal("Expected the first ray to hit the degenerate sphere")
	}

	finiteZero := func(name string, got core.Spectrum) {
		t.Helper()
		if !got.IsFinite() || !got.IsZero() {
			t.Errorf("%s: expected a finite zero term, got %v", name, got)
		}
	}

	t.Run("path tracer", func(t *testing.T) {
		pt := newTestPathTracer(t, s, func(c *Config) { c.Strategy = LightSampling })
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

		finiteZero("degenerate vertex", pt.directLight(broken, wl, sampler))
		if got := pt.directLight(floor, wl, sampler); got.IsZero() || !got.IsFinite() {
			t.Errorf("Expected finite light on the floor, got %v", got)
		}
	})

	t.Run("vcm", func(t *testing.T) {
		v := newTestVCM(t, s, func(c *Config) { c.LightPathCount = 16 })
		v.globals = NewMISGlobals(v.config, v.baseRadius, 0)
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
		eye := newEyeSubpath(core.NewVec3(0, -1, 0), 1, v.globals)

		finiteZero("degenerate direct illumination", v.directIllumination(&eye, broken, wl, sampler))
		if got := v.directIllumination(&eye, floor, wl, sampler); got.IsZero() || !got.IsFinite() {
			t.Errorf("Expected finite direct illumination on the floor, got %v", got)
		}

		lightVertex := &pathspace.Vertex{
			Hit:               broken.hit,
			PathLength:        1,
			Throughput:        core.NewVec3(1, 1, 1),
			DVCM:              1,
			DVC:               1,
			DVM:               1,
			WorldNormal:       broken.hit.Normal,
			IncomingDirection: broken.hit.Normal,
			Point:             broken.position,
		}
		finiteZero("connection to a degenerate light vertex", v.connectVertices(lightVertex, &eye, floor, wl))
		finiteZero("connection from a degenerate eye vertex", v.connectVertices(lightVertex, &eye, broken, wl))
	})
}
