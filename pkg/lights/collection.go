package lights

import (
	"fmt"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Collection selects lights proportionally to their power. The same
// distribution serves next event estimation and light path emission.
type Collection struct {
	lights       []core.Light
	distribution *core.Distribution1D
	indices      map[core.Light]int
}

// NewCollection creates a power-weighted collection
func NewCollection(lights []core.Light) *Collection {
	weights := make([]float64, len(lights))
	indices := make(map[core.Light]int, len(lights))
	for i, light := range lights {
		weights[i] = light.Power()
		indices[light] = i
	}
	return &Collection{
		lights:       lights,
		distribution: core.NewDistribution1D(weights),
		indices:      indices,
	}
}

// NewUniformCollection creates a collection that picks every light equally
func NewUniformCollection(lights []core.Light) *Collection {
	c := NewCollection(lights)
	c.distribution = core.NewDistribution1D(make([]float64, len(lights)))
	return c
}

// Lights returns every light in the collection
func (c *Collection) Lights() []core.Light {
	return c.lights
}

// Pick selects a light and returns it with its selection probability
func (c *Collection) Pick(u float64) (core.Light, float64) {
	index, probability := c.distribution.Sample(u)
	if index < 0 {
		return nil, 0
	}
	return c.lights[index], probability
}

// PickProbability returns the selection probability of the light, zero if unknown
func (c *Collection) PickProbability(light core.Light) float64 {
	index, ok := c.indices[light]
	if !ok {
		return 0
	}
	return c.distribution.Probability(index)
}

// String returns a string representation for debugging
func (c *Collection) String() string {
	return fmt.Sprintf("Collection{%d lights, %s}", len(c.lights), c.distribution)
}
