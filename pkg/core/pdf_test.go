package core

import (
	"math"
	"testing"
)

func TestPDF_Conversions(t *testing.T) {
	tests := []struct {
		name        string
		pdf         PDF
		distSquared float64
		cos         float64
		toArea      PDF
	}{
		{"Solid angle to area", SolidAnglePDF(2.0), 4.0, 0.5, AreaPDF(0.25)},
		{"Negative cosine uses magnitude", SolidAnglePDF(2.0), 4.0, -0.5, AreaPDF(0.25)},
		{"Area stays area", AreaPDF(3.0), 4.0, 0.5, AreaPDF(3.0)},
		{"Discrete stays discrete", DiscretePDF(1.0), 4.0, 0.5, DiscretePDF(1.0)},
		{"Zero distance", SolidAnglePDF(1.0), 0, 1, AreaPDF(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.pdf.ToArea(tt.distSquared, tt.cos)
			if result.Measure != tt.toArea.Measure || math.Abs(result.Value-tt.toArea.Value) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.toArea, result)
			}
		})
	}
}

func TestPDF_RoundTrip(t *testing.T) {
	original := SolidAnglePDF(0.7)
	back := original.ToArea(9.0, 0.3).ToSolidAngle(9.0, 0.3)
	if back.Measure != MeasureSolidAngle || math.Abs(back.Value-original.Value) > 1e-12 {
		t.Errorf("Expected %v after round trip, got %v", original, back)
	}
}

func TestPDF_IsValid(t *testing.T) {
	invalid := []PDF{AreaPDF(0), AreaPDF(-1), AreaPDF(math.NaN()), AreaPDF(math.Inf(1))}
	for _, p := range invalid {
		if p.IsValid() {
			t.Errorf("Expected %v to be invalid", p)
		}
	}
	if !SolidAnglePDF(0.1).IsValid() {
		t.Error("Expected positive density to be valid")
	}
}
