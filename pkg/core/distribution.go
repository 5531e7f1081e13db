package core

import (
	"fmt"
	"sort"
)

// Distribution1D selects an index proportionally to a set of fixed weights
type Distribution1D struct {
	probabilities []float64
	cdf           []float64
}

// NewDistribution1D creates a distribution from non-negative weights.
// Weights are normalized to sum to 1.0; all-zero weights fall back to uniform.
func NewDistribution1D(weights []float64) *Distribution1D {
	probabilities := make([]float64, len(weights))
	totalWeight := 0.0
	for _, weight := range weights {
		if weight < 0 {
			panic(fmt.Sprintf("weights must be non-negative, got %f", weight))
		}
		totalWeight += weight
	}

	for i, weight := range weights {
		if totalWeight == 0 {
			probabilities[i] = 1.0 / float64(len(weights))
		} else {
			probabilities[i] = weight / totalWeight
		}
	}

	cdf := make([]float64, len(weights))
	cumulative := 0.0
	for i, p := range probabilities {
		cumulative += p
		cdf[i] = cumulative
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0
	}

	return &Distribution1D{probabilities: probabilities, cdf: cdf}
}

// Sample returns the selected index and its probability, or -1 when empty
func (d *Distribution1D) Sample(u float64) (int, float64) {
	if len(d.cdf) == 0 {
		return -1, 0
	}
	i := sort.SearchFloat64s(d.cdf, u)
	if i >= len(d.cdf) {
		i = len(d.cdf) - 1
	}
	// skip zero-probability entries that share a cdf value with their successor
	for d.probabilities[i] == 0 && i < len(d.cdf)-1 {
		i++
	}
	return i, d.probabilities[i]
}

// Probability returns the selection probability of index i
func (d *Distribution1D) Probability(i int) float64 {
	if i < 0 || i >= len(d.probabilities) {
		return 0
	}
	return d.probabilities[i]
}

// Len returns the number of entries
func (d *Distribution1D) Len() int {
	return len(d.probabilities)
}

// String returns a string representation for debugging
func (d *Distribution1D) String() string {
	result := fmt.Sprintf("Distribution1D{%d entries:", len(d.probabilities))
	for i, p := range d.probabilities {
		result += fmt.Sprintf(" [%d] %.1f%%", i, p*100)
	}
	return result + "}"
}
