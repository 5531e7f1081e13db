package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

func newBulb() *SphereLight {
	return NewSphereLight(core.NewVec3(0, 3, 0), 0.5, core.ConstantCurve(2))
}

func TestSphereLight_IlluminateMatchesHit(t *testing.T) {
	light := newBulb()
	receiver := core.NewVec3(0.4, 0, 0.2)
	random := rand.New(rand.NewSource(42))

	lit := 0
	for i := 0; i < 100; i++ {
		illum, ok := light.Illuminate(receiver, testWavelengths, core.NewVec2(random.Float64(), random.Float64()))
		if !ok {
			continue
		}
		lit++

		hit, isHit := light.Hit(core.NewRay(receiver, illum.Direction), 0.001, math.Inf(1))
		if !isHit {
			t.Fatal("Expected the sampled direction to hit the light")
		}
		if math.Abs(hit.T-illum.Distance) > 1e-9 {
			t.Errorf("Expected the sampled point to be the nearest hit, %f vs %f", illum.Distance, hit.T)
		}
		if hit.Light != light {
			t.Error("Expected hit to reference the light")
		}

		lightHit, ok := light.Radiance(hit.Point, illum.Direction, testWavelengths)
		if !ok {
			t.Fatal("Expected radiance from the outside")
		}
		pdfW := core.AreaPDF(lightHit.DirectPdfA).ToSolidAngle(illum.Distance*illum.Distance, illum.CosAtLight)
		if math.Abs(pdfW.Value-illum.DirectPdfW) > 1e-9*illum.DirectPdfW {
			t.Errorf("Expected direct pdf %f, got %f", illum.DirectPdfW, pdfW.Value)
		}
		if math.Abs(lightHit.EmissionPdfW-illum.EmissionPdfW) > 1e-9 {
			t.Errorf("Expected emission pdf %f, got %f", illum.EmissionPdfW, lightHit.EmissionPdfW)
		}
	}
	// only the near hemisphere is visible
	if lit < 30 || lit > 70 {
		t.Errorf("Expected about half the samples to face the receiver, got %d of 100", lit)
	}
}

func TestSphereLight_InsideIsDark(t *testing.T) {
	light := newBulb()
	if _, ok := light.Radiance(core.NewVec3(0, 3.5, 0), core.NewVec3(0, 1, 0), testWavelengths); ok {
		t.Error("Expected no radiance for a ray leaving the sphere")
	}
}

func TestSphereLight_Emit(t *testing.T) {
	light := newBulb()
	random := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		emission, ok := light.Emit(testWavelengths, core.NewVec2(random.Float64(), random.Float64()), core.NewVec2(random.Float64(), random.Float64()))
		if !ok {
			continue
		}
		if d := emission.Point.Subtract(light.Center).Length(); math.Abs(d-light.Radius) > 1e-9 {
			t.Fatalf("Expected emission from the surface, got distance %f", d)
		}
		if emission.Direction.Dot(emission.Normal) <= 0 {
			t.Fatalf("Expected outward emission, got %v", emission.Direction)
		}
		expected := emission.CosAtLight / (math.Pi * light.Area())
		if math.Abs(emission.EmissionPdfW-expected) > 1e-12 {
			t.Errorf("Expected emission pdf %f, got %f", expected, emission.EmissionPdfW)
		}
	}
}

func TestSphereLight_Power(t *testing.T) {
	light := newBulb()
	expected := math.Pi * math.Pi * 2
	if math.Abs(light.Power()-expected) > 1e-9 {
		t.Errorf("Expected power %f, got %f", expected, light.Power())
	}
}
