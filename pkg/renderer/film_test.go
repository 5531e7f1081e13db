package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

func TestFilm_Accumulate(t *testing.T) {
	film := NewFilm(4, 4)
	queue := NewSplatQueue()
	pool := pathspace.NewResultPool()
	wl := core.SampleWavelengths(0.5)

	one := core.NewVec3(1, 1, 1)
	expected := core.ToXYZ(one, wl)

	results := pool.Prepend(nil, pathspace.EyePath, core.NewVec2(1.5, 2.5), one, wl)
	results = pool.Prepend(results, pathspace.LightPath, core.NewVec2(3.2, 0.1), one, wl)
	film.Accumulate(1, 2, results, queue)
	film.Accumulate(1, 2, nil, queue)
	pool.Release(results)

	// two samples, one of them black
	got := film.XYZ(1, 2)
	if math.Abs(got.Y-expected.Y/2) > 1e-12 {
		t.Errorf("Expected Y %f, got %f", expected.Y/2, got.Y)
	}

	if queue.Count() != 1 {
		t.Fatalf("Expected the light path result to be queued, got %d", queue.Count())
	}
	queue.Drain(film.AddSplat)

	// splats are invisible until a batch is recorded
	if film.XYZ(3, 0) != (core.Vec3{}) {
		t.Errorf("Expected no splat contribution without batches, got %v", film.XYZ(3, 0))
	}

	film.AddBatches(2)
	got = film.XYZ(3, 0)
	if math.Abs(got.Y-expected.Y/2) > 1e-12 {
		t.Errorf("Expected splat Y averaged over 2 batches = %f, got %f", expected.Y/2, got.Y)
	}
}

func TestFilm_AddSplatOutside(t *testing.T) {
	film := NewFilm(2, 2)
	film.AddSplat(Splat{X: -1, Y: 0, XYZ: core.NewVec3(1, 1, 1)})
	film.AddSplat(Splat{X: 0, Y: 2, XYZ: core.NewVec3(1, 1, 1)})
	film.AddBatches(1)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if film.XYZ(x, y) != (core.Vec3{}) {
				t.Errorf("Expected pixel (%d, %d) to stay black", x, y)
			}
		}
	}
}

func TestFilm_Stats(t *testing.T) {
	film := NewFilm(2, 1)
	queue := NewSplatQueue()
	film.Accumulate(0, 0, nil, queue)
	film.Accumulate(0, 0, nil, queue)
	film.Accumulate(1, 0, nil, queue)

	stats := film.Stats()
	if stats.TotalSamples != 3 || stats.MinSamples != 1 || stats.MaxSamplesUsed != 2 {
		t.Errorf("Expected 3 samples, min 1, max 2, got %+v", stats)
	}
	if stats.AverageSamples != 1.5 {
		t.Errorf("Expected 1.5 average samples, got %f", stats.AverageSamples)
	}
}

func TestVec3ToColor(t *testing.T) {
	tests := []struct {
		name     string
		input    core.Vec3
		expected uint8
	}{
		{"Black", core.NewVec3(0, 0, 0), 0},
		{"Quarter is half after gamma", core.NewVec3(0.25, 0.25, 0.25), 127},
		{"Overexposed", core.NewVec3(4, 4, 4), 255},
		{"Negative", core.NewVec3(-1, -1, -1), 0},
		{"NaN", core.NewVec3(math.NaN(), 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := vec3ToColor(tt.input)
			if c.R != tt.expected || c.A != 255 {
				t.Errorf("Expected R=%d, got %d", tt.expected, c.R)
			}
		})
	}
}
