package core

import "math"

// Measure identifies the domain a PDF value is expressed in
type Measure int

const (
	MeasureArea Measure = iota
	MeasureSolidAngle
	MeasureDiscrete
)

func (m Measure) String() string {
	switch m {
	case MeasureArea:
		return "area"
	case MeasureSolidAngle:
		return "solid-angle"
	case MeasureDiscrete:
		return "discrete"
	default:
		return "unknown"
	}
}

// PDF is a probability density tagged with its measure
type PDF struct {
	Value   float64
	Measure Measure
}

// AreaPDF creates a density with respect to surface area
func AreaPDF(v float64) PDF { return PDF{Value: v, Measure: MeasureArea} }

// SolidAnglePDF creates a density with respect to solid angle
func SolidAnglePDF(v float64) PDF { return PDF{Value: v, Measure: MeasureSolidAngle} }

// DiscretePDF creates a probability for a discrete (delta) event
func DiscretePDF(v float64) PDF { return PDF{Value: v, Measure: MeasureDiscrete} }

// ToArea converts a solid angle density to an area density at a point distSquared
// away whose surface makes cosine cosAtTarget with the connecting direction.
// Area and discrete densities are returned unchanged.
func (p PDF) ToArea(distSquared, cosAtTarget float64) PDF {
	if p.Measure != MeasureSolidAngle {
		return p
	}
	if distSquared <= 0 {
		return AreaPDF(0)
	}
	return AreaPDF(p.Value * math.Abs(cosAtTarget) / distSquared)
}

// ToSolidAngle converts an area density to a solid angle density.
// Solid angle and discrete densities are returned unchanged.
func (p PDF) ToSolidAngle(distSquared, cosAtTarget float64) PDF {
	if p.Measure != MeasureArea {
		return p
	}
	cos := math.Abs(cosAtTarget)
	if cos == 0 {
		return SolidAnglePDF(0)
	}
	return SolidAnglePDF(p.Value * distSquared / cos)
}

// Scale multiplies the density, keeping its measure
func (p PDF) Scale(s float64) PDF {
	return PDF{Value: p.Value * s, Measure: p.Measure}
}

// IsValid reports whether the density is finite and positive
func (p PDF) IsValid() bool {
	return p.Value > 0 && !math.IsInf(p.Value, 0) && !math.IsNaN(p.Value)
}
