package integrator

import (
	"math/rand"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
	"github.com/df07/go-pathspace-renderer/pkg/scene"
)

func newTestLightTracer(t *testing.T, s Scene, modify func(c *Config)) *LightTracer {
	t.Helper()
	config := DefaultConfig()
	modify(&config)
	lt, err := NewLightTracer(s, config)
	if err != nil {
		t.Fatalf("Expected light tracer, got %v", err)
	}
	return lt
}

func TestLightTracer_DirectImage(t *testing.T) {
	s := scene.NewDirectScene(16, 16)
	reference := directReference(s, 8)

	lt := newTestLightTracer(t, s, func(c *Config) { c.LightPathCount = 50000 })
	expectClose(t, "light tracer", reference, renderImageMean(t, lt, s, 4, 42), 0.1)
}

func TestLightTracer_TracePathIsEmpty(t *testing.T) {
	s := scene.NewDirectScene(4, 4)
	lt := newTestLightTracer(t, s, func(c *Config) {})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	raster := core.NewVec2(2, 2)

	if result := lt.TracePath(s.Camera().GenerateRay(raster), raster, 0, core.SampleWavelengths(0.5), sampler); result != nil {
		t.Errorf("Expected no eye results, got %v", result)
	}
}

func TestLightTracer_TraceLightPath(t *testing.T) {
	s := scene.NewDiffuseCornellScene(8, 8)
	lt := newTestLightTracer(t, s, func(c *Config) { c.LightPathCount = 1 })
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	wl := core.SampleWavelengths(0.5)
	width, height := s.Camera().Resolution()

	var head *pathspace.Result
	for i := 0; i < 200; i++ {
		head = lt.TraceLightPath(head, wl, sampler)
	}
	if head == nil {
		t.Fatal("Expected camera connections from 200 light paths")
	}
	defer lt.Release(head)

	for r := head; r != nil; r = r.Next {
		if r.Kind != pathspace.LightPath {
			t.Errorf("Expected light path results, got kind %d", r.Kind)
		}
		if r.Raster.X < 0 || r.Raster.X >= float64(width) || r.Raster.Y < 0 || r.Raster.Y >= float64(height) {
			t.Errorf("Expected raster inside the film, got %v", r.Raster)
		}
		if r.Radiance.IsZero() {
			t.Error("Expected zero contributions to be dropped")
		}
	}
}

func TestLightTracer_MatchesVCMLightTracing(t *testing.T) {
	s := scene.NewDiffuseCornellScene(12, 12)
	modify := func(c *Config) {
		c.LightPathCount = 4000
		c.MaxPathLength = 4
		c.Mode = ModeLightTracing
	}

	lt := newTestLightTracer(t, s, modify)
	vcm := newTestVCM(t, s, modify)

	expectClose(t, "vcm lt mode vs light tracer", renderImageMean(t, lt, s, 8, 42), renderImageMean(t, vcm, s, 8, 7), 0.1)
}
