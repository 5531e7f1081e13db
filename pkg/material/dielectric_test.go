package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

func TestDielectric_Refraction(t *testing.T) {
	glass := NewDielectric(1.5, core.ConstantCurve(1))
	hit := &core.SurfaceInteraction{Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	wo := core.NewVec3(1, 1, 0).Normalize()

	// u.X above the reflectance picks the refracted lobe
	sample, ok := glass.Sample(wo, hit, testWavelengths, core.TransportRadiance, core.NewVec2(0.99, 0.5))
	if !ok {
		t.Fatal("Expected glass to refract")
	}
	if sample.Direction.Y >= 0 {
		t.Errorf("Expected refraction into the surface, got %v", sample.Direction)
	}

	// Snell: sin(out) = sin(in) / 1.5
	sinIn := math.Sqrt(0.5)
	sinOut := math.Sqrt(1 - sample.Direction.Y*sample.Direction.Y)
	if math.Abs(sinOut-sinIn/1.5) > 1e-9 {
		t.Errorf("Expected sin %f after refraction, got %f", sinIn/1.5, sinOut)
	}

	fresnel := schlick(wo.Y, 1/1.5)
	if math.Abs(sample.PDF-(1-fresnel)) > 1e-12 || sample.ReversePDF != sample.PDF || !sample.Specular {
		t.Errorf("Expected specular sample with pdf %f, got %+v", 1-fresnel, sample)
	}

	// radiance entering glass is scaled by (1/1.5)²
	weight := sample.F.Multiply(math.Abs(sample.Direction.Y) / sample.PDF)
	if math.Abs(weight.X-1/2.25) > 1e-9 {
		t.Errorf("Expected throughput weight %f, got %f", 1/2.25, weight.X)
	}

	importance, _ := glass.Sample(wo, hit, testWavelengths, core.TransportImportance, core.NewVec2(0.99, 0.5))
	weight = importance.F.Multiply(math.Abs(importance.Direction.Y) / importance.PDF)
	if math.Abs(weight.X-1) > 1e-9 {
		t.Errorf("Expected unscaled importance, got %f", weight.X)
	}
}

func TestDielectric_Reflection(t *testing.T) {
	glass := NewDielectric(1.5, core.ConstantCurve(0.8))
	hit := &core.SurfaceInteraction{Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	wo := core.NewVec3(1, 1, 0).Normalize()

	sample, ok := glass.Sample(wo, hit, testWavelengths, core.TransportRadiance, core.NewVec2(0, 0.5))
	if !ok {
		t.Fatal("Expected glass to reflect")
	}
	expected := core.NewVec3(-1, 1, 0).Normalize()
	if sample.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected reflection %v, got %v", expected, sample.Direction)
	}
	weight := sample.F.Multiply(math.Abs(sample.Direction.Y) / sample.PDF)
	if math.Abs(weight.X-0.8) > 1e-12 {
		t.Errorf("Expected throughput weight 0.8, got %f", weight.X)
	}
}

func TestDielectric_TotalInternalReflectionEndsPath(t *testing.T) {
	glass := NewDielectric(1.5, core.ConstantCurve(1))
	// leaving the glass at 60° is past the critical angle of about 41.8°
	hit := &core.SurfaceInteraction{Normal: core.NewVec3(0, 1, 0), FrontFace: false}
	wo := core.NewVec3(math.Sin(math.Pi/3), math.Cos(math.Pi/3), 0)

	for _, u := range []float64{0, 0.5, 0.99} {
		if sample, ok := glass.Sample(wo, hit, testWavelengths, core.TransportRadiance, core.NewVec2(u, 0.5)); ok {
			t.Errorf("Expected no sample past the critical angle, got %+v", sample)
		}
	}

	// below the critical angle the ray leaves the glass
	wo = core.NewVec3(math.Sin(math.Pi/9), math.Cos(math.Pi/9), 0)
	if _, ok := glass.Sample(wo, hit, testWavelengths, core.TransportRadiance, core.NewVec2(0.99, 0.5)); !ok {
		t.Error("Expected refraction out of the glass at 20°")
	}
}

func TestDielectric_IsDelta(t *testing.T) {
	var m core.Material = NewDielectric(1.5, core.ConstantCurve(1))
	delta, ok := m.(core.DeltaMaterial)
	if !ok || !delta.IsDelta() {
		t.Error("Expected dielectric to report a delta distribution")
	}
	f, pdfFwd, pdfRev := m.Evaluate(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), &core.SurfaceInteraction{Normal: core.NewVec3(0, 1, 0)}, testWavelengths, core.TransportRadiance)
	if !f.IsZero() || pdfFwd != 0 || pdfRev != 0 {
		t.Errorf("Expected zero evaluation, got f=%v pdfs=(%f,%f)", f, pdfFwd, pdfRev)
	}
}
