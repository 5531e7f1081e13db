package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of eye samples taken
	AverageSamples float64 // Average samples per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
	Batches        int     // Light path batches splatted so far
	Splats         int     // Light path contributions added this pass
	Duration       time.Duration
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // XYZ accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new XYZ sample to the pixel statistics
func (ps *PixelStats) AddSample(xyz core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(xyz)
	luminance := xyz.Y
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// RelativeError returns the standard error of the mean luminance over the mean
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount < 2 {
		return math.Inf(1)
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	variance := math.Max(0, ps.LuminanceSqAccum/n-mean*mean)
	if mean <= 1e-8 {
		return 0
	}
	return math.Sqrt(variance/n) / mean
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image,
// with channels in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535
		}
	}
	return total / float64(pixels)
}
