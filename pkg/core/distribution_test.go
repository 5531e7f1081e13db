package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestDistribution1D_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		weights  []float64
		expected []float64
	}{
		{"Proportional", []float64{1, 3}, []float64{0.25, 0.75}},
		{"All zero falls back to uniform", []float64{0, 0, 0, 0}, []float64{0.25, 0.25, 0.25, 0.25}},
		{"Single entry", []float64{5}, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDistribution1D(tt.weights)
			for i, expected := range tt.expected {
				if math.Abs(d.Probability(i)-expected) > 1e-12 {
					t.Errorf("Expected probability %f for index %d, got %f", expected, i, d.Probability(i))
				}
			}
		})
	}
}

func TestDistribution1D_SampleMatchesProbabilities(t *testing.T) {
	d := NewDistribution1D([]float64{1, 0, 2, 1})
	random := rand.New(rand.NewSource(42))
	counts := make([]int, d.Len())
	const samples = 40000
	for i := 0; i < samples; i++ {
		index, p := d.Sample(random.Float64())
		if p != d.Probability(index) {
			t.Fatalf("Sample returned probability %f, expected %f", p, d.Probability(index))
		}
		counts[index]++
	}

	if counts[1] != 0 {
		t.Errorf("Expected zero-weight entry never to be selected, got %d", counts[1])
	}
	for i := range counts {
		freq := float64(counts[i]) / samples
		if math.Abs(freq-d.Probability(i)) > 0.01 {
			t.Errorf("Index %d: expected frequency %f, got %f", i, d.Probability(i), freq)
		}
	}
}

func TestDistribution1D_Empty(t *testing.T) {
	d := NewDistribution1D(nil)
	if index, p := d.Sample(0.5); index != -1 || p != 0 {
		t.Errorf("Expected (-1, 0) from empty distribution, got (%d, %f)", index, p)
	}
	if d.Probability(0) != 0 {
		t.Error("Expected zero probability for out-of-range index")
	}
}

func TestDistribution1D_NegativeWeightPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for negative weight")
		}
	}()
	NewDistribution1D([]float64{1, -1})
}
