package camera

import "github.com/df07/go-pathspace-renderer/pkg/core"

// Orthographic casts parallel rays from a film plane through the camera position
type Orthographic struct {
	frame
	pixelSize float64 // world size of one pixel edge
}

// NewOrthographic creates an orthographic camera whose film is ViewSize wide
func NewOrthographic(config Config) *Orthographic {
	return &Orthographic{
		frame:     newFrame(config),
		pixelSize: config.ViewSize / float64(config.Width),
	}
}

// Resolution returns the film size in pixels
func (c *Orthographic) Resolution() (int, int) {
	return c.width, c.height
}

// Forward returns the viewing direction
func (c *Orthographic) Forward() core.Vec3 {
	return c.forward
}

// Measure is area: primary ray densities are per unit film area
func (c *Orthographic) Measure() core.Measure {
	return core.MeasureArea
}

// GenerateRay returns the parallel ray starting at the raster position on the film
func (c *Orthographic) GenerateRay(raster core.Vec2) core.Ray {
	origin := c.position.
		Add(c.right.Multiply((raster.X - float64(c.width)/2) * c.pixelSize)).
		Add(c.up.Multiply((float64(c.height)/2 - raster.Y) * c.pixelSize))
	return core.NewRay(origin, c.forward)
}

// RayPDF is the film area density with one sample per pixel
func (c *Orthographic) RayPDF(direction core.Vec3) float64 {
	return 1.0 / (c.pixelSize * c.pixelSize)
}

// Connect projects a point along the viewing direction onto the film
func (c *Orthographic) Connect(point core.Vec3) (core.CameraConnection, bool) {
	relative := point.Subtract(c.position)
	depth := relative.Dot(c.forward)
	if depth <= 0 {
		return core.CameraConnection{}, false
	}

	raster := core.NewVec2(
		relative.Dot(c.right)/c.pixelSize+float64(c.width)/2,
		float64(c.height)/2-relative.Dot(c.up)/c.pixelSize,
	)
	if !c.inside(raster) {
		return core.CameraConnection{}, false
	}

	return core.CameraConnection{
		Raster:    raster,
		Direction: c.forward.Negate(),
		Distance:  depth,
		Position:  point.Subtract(c.forward.Multiply(depth)),
		Density:   c.RayPDF(c.forward),
	}, true
}
