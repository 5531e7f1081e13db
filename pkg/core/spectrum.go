package core

import "math"

// Visible range used for wavelength sampling, in nanometres
const (
	WavelengthMin = 380.0
	WavelengthMax = 780.0
)

// HeroWavelengths is the number of wavelengths carried by one path
const HeroWavelengths = 3

// Spectrum holds one value per hero wavelength of a WavelengthSample
type Spectrum = Vec3

// WavelengthSample is the set of wavelengths a path transports, with the
// density each one was drawn with
type WavelengthSample struct {
	Lambda [HeroWavelengths]float64
	PDF    float64
}

// SampleWavelengths draws a hero wavelength uniformly over the visible range and
// places the companions at equal offsets, wrapping around the range
func SampleWavelengths(u float64) WavelengthSample {
	span := WavelengthMax - WavelengthMin
	var ws WavelengthSample
	for i := 0; i < HeroWavelengths; i++ {
		offset := u + float64(i)/HeroWavelengths
		offset -= math.Floor(offset)
		ws.Lambda[i] = WavelengthMin + offset*span
	}
	ws.PDF = 1.0 / span
	return ws
}

// SpectralCurve is a function of wavelength (reflectance, emission, coefficients)
type SpectralCurve interface {
	Evaluate(lambda float64) float64
}

// ConstantCurve has the same value at every wavelength
type ConstantCurve float64

// Evaluate returns the constant value
func (c ConstantCurve) Evaluate(lambda float64) float64 {
	return float64(c)
}

// RGBCurve is a smooth three-band curve built from a red, green and blue weight.
// White (1,1,1) evaluates to exactly one at every wavelength.
type RGBCurve struct {
	R, G, B float64
}

// NewRGBCurve creates a curve from band weights
func NewRGBCurve(r, g, b float64) RGBCurve {
	return RGBCurve{R: r, G: g, B: b}
}

// Evaluate blends the three bands with smooth transitions at 495nm and 585nm
func (c RGBCurve) Evaluate(lambda float64) float64 {
	blue := 1 - smoothstep(480, 510, lambda)
	red := smoothstep(570, 600, lambda)
	green := 1 - blue - red
	return c.R*red + c.G*green + c.B*blue
}

// ScaledCurve multiplies another curve by a constant
type ScaledCurve struct {
	Curve SpectralCurve
	Scale float64
}

// Evaluate returns the scaled value
func (c ScaledCurve) Evaluate(lambda float64) float64 {
	return c.Scale * c.Curve.Evaluate(lambda)
}

// SampleCurve evaluates the curve at each wavelength of the sample
func SampleCurve(c SpectralCurve, wl WavelengthSample) Spectrum {
	return Spectrum{
		X: c.Evaluate(wl.Lambda[0]),
		Y: c.Evaluate(wl.Lambda[1]),
		Z: c.Evaluate(wl.Lambda[2]),
	}
}

// CurveAverage approximates the mean of the curve over the visible range
func CurveAverage(c SpectralCurve) float64 {
	const steps = 80
	sum := 0.0
	for i := 0; i < steps; i++ {
		lambda := WavelengthMin + (float64(i)+0.5)*(WavelengthMax-WavelengthMin)/steps
		sum += c.Evaluate(lambda)
	}
	return sum / steps
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-edge0)/(edge1-edge0)))
	return t * t * (3 - 2*t)
}

// cieYIntegral is the integral of cieY over the visible range
const cieYIntegral = 106.919735

// CIE 1931 colour matching functions, multi-lobe Gaussian fit (Wyman, Sloan, Shirley 2013)
func cieX(lambda float64) float64 {
	return 1.056*lobe(lambda, 599.8, 37.9, 31.0) + 0.362*lobe(lambda, 442.0, 16.0, 26.7) - 0.065*lobe(lambda, 501.1, 20.4, 26.2)
}

func cieY(lambda float64) float64 {
	return 0.821*lobe(lambda, 568.8, 46.9, 40.5) + 0.286*lobe(lambda, 530.9, 16.3, 31.1)
}

func cieZ(lambda float64) float64 {
	return 1.217*lobe(lambda, 437.0, 11.8, 36.0) + 0.681*lobe(lambda, 459.0, 26.0, 13.8)
}

func lobe(x, mu, sigmaLow, sigmaHigh float64) float64 {
	sigma := sigmaHigh
	if x < mu {
		sigma = sigmaLow
	}
	t := (x - mu) / sigma
	return math.Exp(-0.5 * t * t)
}

// ToXYZ converts a spectral estimate to CIE XYZ. A spectrum that is one at
// every wavelength maps to Y = 1 in expectation.
func ToXYZ(s Spectrum, wl WavelengthSample) Vec3 {
	if wl.PDF <= 0 {
		return Vec3{}
	}
	var xyz Vec3
	for i := 0; i < HeroWavelengths; i++ {
		lambda := wl.Lambda[i]
		value := s.Component(i)
		xyz = xyz.Add(NewVec3(cieX(lambda), cieY(lambda), cieZ(lambda)).Multiply(value))
	}
	return xyz.Multiply(1.0 / (wl.PDF * HeroWavelengths * cieYIntegral))
}

// XYZToLinearSRGB converts XYZ (D65) to linear sRGB
func XYZToLinearSRGB(xyz Vec3) Vec3 {
	return Vec3{
		X: 3.2404542*xyz.X - 1.5371385*xyz.Y - 0.4985314*xyz.Z,
		Y: -0.9692660*xyz.X + 1.8760108*xyz.Y + 0.0415560*xyz.Z,
		Z: 0.0556434*xyz.X - 0.2040259*xyz.Y + 1.0572252*xyz.Z,
	}
}
