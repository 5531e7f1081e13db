package cmd

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/integrator"
	"github.com/df07/go-pathspace-renderer/pkg/scene"
	"github.com/urfave/cli"
)

func newRenderContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("render", flag.ContinueOnError)
	for _, f := range RenderFlags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("Failed to parse %v: %v", args, err)
	}
	return cli.NewContext(nil, set, nil)
}

func TestParseRenderOptions_Defaults(t *testing.T) {
	opts, err := parseRenderOptions(newRenderContext(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if opts.scene.Name != "cornell" {
		t.Errorf("Expected cornell scene, got %q", opts.scene.Name)
	}
	if opts.width != opts.scene.DefaultWidth || opts.height != opts.scene.DefaultHeight {
		t.Errorf("Expected scene default size, got %dx%d", opts.width, opts.height)
	}
	if opts.kind != integrator.KindVCM {
		t.Errorf("Expected vcm, got %v", opts.kind)
	}
	if opts.integrator != integrator.DefaultConfig() {
		t.Errorf("Expected default integrator config, got %v", opts.integrator)
	}
	if opts.out != "render.png" {
		t.Errorf("Expected render.png, got %q", opts.out)
	}
}

func TestParseRenderOptions_Flags(t *testing.T) {
	opts, err := parseRenderOptions(newRenderContext(t,
		"-scene", "fog", "-width", "32", "-i", "pt", "-strategy", "light",
		"-tracking", "scattering-aware", "-passes", "4", "-spp", "8", "-seed", "7", "-o", "fog.tiff"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if opts.scene.Name != "fog" || opts.width != 32 || opts.height != opts.scene.DefaultHeight {
		t.Errorf("Expected fog at 32x%d, got %s at %dx%d", opts.scene.DefaultHeight, opts.scene.Name, opts.width, opts.height)
	}
	if opts.kind != integrator.KindPathTracer || opts.integrator.Strategy != integrator.LightSampling {
		t.Errorf("Expected pt with light sampling, got %v with %v", opts.kind, opts.integrator.Strategy)
	}
	if opts.integrator.DistanceTracking != core.TrackingScatteringAware {
		t.Errorf("Expected scattering-aware tracking, got %v", opts.integrator.DistanceTracking)
	}
	if opts.progressive.MaxPasses != 4 || opts.progressive.MaxSamplesPerPixel != 8 || opts.progressive.Seed != 7 {
		t.Errorf("Expected 4 passes, 8 spp and seed 7, got %+v", opts.progressive)
	}
}

func TestParseRenderOptions_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"Unknown scene", []string{"-scene", "teapot"}, scene.ErrUnknownScene},
		{"Unknown integrator", []string{"-i", "bdpt"}, integrator.ErrInvalidConfig},
		{"Unknown mode", []string{"-mode", "sppm"}, integrator.ErrInvalidConfig},
		{"Zero depth", []string{"-depth", "0"}, integrator.ErrInvalidConfig},
		{"Merging without radius", []string{"-mode", "vm", "-radius", "0"}, integrator.ErrInvalidConfig},
		{"Unknown tracking", []string{"-tracking", "delta"}, nil},
		{"Negative size", []string{"-width", "-1"}, nil},
		{"No passes", []string{"-passes", "0"}, nil},
		{"Unsupported output", []string{"-o", "render.exr"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRenderOptions(newRenderContext(t, tt.args...))
			if err == nil {
				t.Fatalf("Expected error for %v", tt.args)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestRender_DirectScene(t *testing.T) {
	out := filepath.Join(t.TempDir(), "direct.png")
	ctx := newRenderContext(t,
		"-scene", "direct", "-width", "16", "-height", "16",
		"-passes", "2", "-spp", "2", "-workers", "2", "-light-paths", "64", "-o", out)

	if err := Render(ctx); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("Expected output image: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty output image")
	}
}

func TestRender_InvalidConfig(t *testing.T) {
	ctx := newRenderContext(t, "-scene", "direct", "-width", "8", "-height", "8", "-i", "lt", "-rr", "-2")
	if err := Render(ctx); !errors.Is(err, integrator.ErrInvalidConfig) {
		t.Errorf("Expected invalid config error, got %v", err)
	}
}
