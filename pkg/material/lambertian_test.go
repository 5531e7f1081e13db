package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

var testWavelengths = core.SampleWavelengths(0.3)

func TestLambertian_SamplePDF(t *testing.T) {
	lambertian := NewLambertian(core.ConstantCurve(0.8))
	random := rand.New(rand.NewSource(42))

	hit := &core.SurfaceInteraction{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 0, 1)}
	wo := core.NewVec3(0, 0.6, 0.8)

	for i := 0; i < 100; i++ {
		sample, ok := lambertian.Sample(wo, hit, testWavelengths, core.TransportRadiance, core.NewVec2(random.Float64(), random.Float64()))
		if !ok {
			continue
		}
		cosTheta := sample.Direction.Dot(hit.Normal)
		if math.Abs(sample.PDF-cosTheta/math.Pi) > 1e-10 {
			t.Errorf("PDF mismatch: got %f, expected %f", sample.PDF, cosTheta/math.Pi)
		}
		if math.Abs(sample.ReversePDF-0.8/math.Pi) > 1e-10 {
			t.Errorf("Reverse PDF mismatch: got %f, expected %f", sample.ReversePDF, 0.8/math.Pi)
		}
		if sample.Specular {
			t.Error("Lambertian samples must not be specular")
		}
	}
}

func TestLambertian_EvaluateMatchesSample(t *testing.T) {
	lambertian := NewLambertian(core.NewRGBCurve(0.5, 0.7, 0.9))
	hit := &core.SurfaceInteraction{Normal: core.NewVec3(0, 1, 0)}
	wo := core.NewVec3(1, 1, 0).Normalize()

	sample, ok := lambertian.Sample(wo, hit, testWavelengths, core.TransportRadiance, core.NewVec2(0.3, 0.6))
	if !ok {
		t.Fatal("Expected a sample")
	}

	f, pdfFwd, pdfRev := lambertian.Evaluate(wo, sample.Direction, hit, testWavelengths, core.TransportRadiance)
	if f.Subtract(sample.F).Length() > 1e-12 {
		t.Errorf("Expected f %v, got %v", sample.F, f)
	}
	if math.Abs(pdfFwd-sample.PDF) > 1e-12 || math.Abs(pdfRev-sample.ReversePDF) > 1e-12 {
		t.Errorf("Expected pdfs (%f, %f), got (%f, %f)", sample.PDF, sample.ReversePDF, pdfFwd, pdfRev)
	}
}

func TestLambertian_TwoSided(t *testing.T) {
	lambertian := NewLambertian(core.ConstantCurve(1))
	hit := &core.SurfaceInteraction{Normal: core.NewVec3(0, 1, 0)}

	tests := []struct {
		name    string
		wo, wi  core.Vec3
		nonZero bool
	}{
		{"Both above", core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0).Normalize(), true},
		{"Both below", core.NewVec3(0, -1, 0), core.NewVec3(1, -1, 0).Normalize(), true},
		{"Transmission", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, _ := lambertian.Evaluate(tt.wo, tt.wi, hit, testWavelengths, core.TransportImportance)
			if f.IsZero() == tt.nonZero {
				t.Errorf("Expected non-zero=%v, got f=%v", tt.nonZero, f)
			}
		})
	}
}

func TestLambertian_ContinuationProbability(t *testing.T) {
	tests := []struct {
		albedo   core.SpectralCurve
		expected float64
	}{
		{core.ConstantCurve(0.4), 0.4},
		{core.ConstantCurve(1.5), 1.0},
		{core.ConstantCurve(0), 0},
	}

	for _, tt := range tests {
		got := NewLambertian(tt.albedo).ContinuationProbability(&core.SurfaceInteraction{}, testWavelengths)
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Expected continuation %f, got %f", tt.expected, got)
		}
	}
}
