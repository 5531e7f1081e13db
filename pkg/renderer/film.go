package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

// Film accumulates eye path samples per pixel and light path splats for the
// whole image, in CIE XYZ. A pixel's value is its eye samples averaged over
// the samples taken plus its splats averaged over the light path batches.
//
// Workers write eye samples to the pixels of their own tiles; splats go
// through a SplatQueue and are added between passes.
type Film struct {
	width, height int
	pixels        []PixelStats // Eye path accumulation, row-major
	splats        []core.Vec3  // Light path accumulation, row-major
	batches       int          // Light path batches (BeginPass calls) so far
}

// NewFilm creates an empty film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]PixelStats, width*height),
		splats: make([]core.Vec3, width*height),
	}
}

// Size returns the film resolution
func (f *Film) Size() (int, int) {
	return f.width, f.height
}

// Accumulate records one sample of pixel (x, y). Eye path results land on the
// pixel; light path results are queued at their own raster position.
func (f *Film) Accumulate(x, y int, results *pathspace.Result, queue *SplatQueue) {
	var eye core.Vec3
	for r := results; r != nil; r = r.Next {
		xyz := core.ToXYZ(r.Radiance, r.Wavelength)
		if r.Kind == pathspace.LightPath {
			queue.AddSplat(r.Raster, xyz)
			continue
		}
		eye = eye.Add(xyz)
	}
	f.pixels[y*f.width+x].AddSample(eye)
}

// AddSplat adds a light path contribution; splats outside the film are dropped
func (f *Film) AddSplat(splat Splat) {
	if splat.X < 0 || splat.X >= f.width || splat.Y < 0 || splat.Y >= f.height {
		return
	}
	i := splat.Y*f.width + splat.X
	f.splats[i] = f.splats[i].Add(splat.XYZ)
}

// AddBatches records completed light path batches
func (f *Film) AddBatches(n int) {
	f.batches += n
}

// Batches returns the number of light path batches recorded
func (f *Film) Batches() int {
	return f.batches
}

// XYZ returns the current estimate of a pixel
func (f *Film) XYZ(x, y int) core.Vec3 {
	i := y*f.width + x
	value := f.pixels[i].GetColor()
	if f.batches > 0 {
		value = value.Add(f.splats[i].Multiply(1.0 / float64(f.batches)))
	}
	return value
}

// LinearRGB returns the current estimate of a pixel in linear sRGB
func (f *Film) LinearRGB(x, y int) core.Vec3 {
	return core.XYZToLinearSRGB(f.XYZ(x, y))
}

// Image converts the film to 8-bit sRGB
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.LinearRGB(x, y)))
		}
	}
	return img
}

// Image64 converts the film to 16-bit sRGB
func (f *Film) Image64() *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := displayColor(f.LinearRGB(x, y))
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(math.Round(65535 * c.X)),
				G: uint16(math.Round(65535 * c.Y)),
				B: uint16(math.Round(65535 * c.Z)),
				A: 65535,
			})
		}
	}
	return img
}

// Stats summarizes the samples taken so far
func (f *Film) Stats() RenderStats {
	stats := RenderStats{
		TotalPixels: f.width * f.height,
		MinSamples:  math.MaxInt,
		Batches:     f.batches,
	}
	for i := range f.pixels {
		count := f.pixels[i].SampleCount
		stats.TotalSamples += count
		stats.MinSamples = min(stats.MinSamples, count)
		stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, count)
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	} else {
		stats.MinSamples = 0
	}
	return stats
}

// displayColor applies gamma correction (gamma = 2.0) and clamps to [0, 1]
func displayColor(linear core.Vec3) core.Vec3 {
	if !linear.IsFinite() {
		return core.Vec3{}
	}
	return linear.Clamp(0.0, math.Inf(1)).GammaCorrect(2.0).Clamp(0.0, 1.0)
}

// vec3ToColor converts a linear color to RGBA with clamping and gamma correction
func vec3ToColor(linear core.Vec3) color.RGBA {
	c := displayColor(linear)
	return color.RGBA{
		R: uint8(255 * c.X),
		G: uint8(255 * c.Y),
		B: uint8(255 * c.Z),
		A: 255,
	}
}
