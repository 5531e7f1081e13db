package core

import "testing"

func TestParseDistanceTracking(t *testing.T) {
	tests := []struct {
		input    string
		expected DistanceTracking
		wantErr  bool
	}{
		{"exponential", TrackingExponential, false},
		{"Maximal-Exponential", TrackingMaximalExponential, false},
		{"scattering-aware", TrackingScatteringAware, false},
		{"delta", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDistanceTracking(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
