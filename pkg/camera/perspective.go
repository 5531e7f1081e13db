package camera

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Config describes where a camera sits and what it looks at
type Config struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	Width    int     // Image width in pixels
	Height   int     // Image height in pixels
	VFov     float64 // Vertical field of view in degrees (perspective)
	ViewSize float64 // Width of the film in world units (orthographic)
}

// frame is the orthonormal camera basis shared by both projections
type frame struct {
	position core.Vec3
	forward  core.Vec3
	right    core.Vec3
	up       core.Vec3
	width    int
	height   int
}

func newFrame(config Config) frame {
	forward := config.LookAt.Subtract(config.Position).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)
	return frame{
		position: config.Position,
		forward:  forward,
		right:    right,
		up:       up,
		width:    config.Width,
		height:   config.Height,
	}
}

func (f frame) inside(raster core.Vec2) bool {
	return raster.X >= 0 && raster.X < float64(f.width) && raster.Y >= 0 && raster.Y < float64(f.height)
}

// Perspective is a pinhole camera. Raster coordinates are in pixels with the
// origin at the top-left corner.
type Perspective struct {
	frame
	imagePlaneDist float64 // distance to the image plane, in pixel units
}

// NewPerspective creates a pinhole camera
func NewPerspective(config Config) *Perspective {
	halfAngle := config.VFov * math.Pi / 360.0
	return &Perspective{
		frame:          newFrame(config),
		imagePlaneDist: float64(config.Height) / (2 * math.Tan(halfAngle)),
	}
}

// Resolution returns the film size in pixels
func (c *Perspective) Resolution() (int, int) {
	return c.width, c.height
}

// Forward returns the viewing direction
func (c *Perspective) Forward() core.Vec3 {
	return c.forward
}

// Measure is solid angle: primary ray densities are per steradian
func (c *Perspective) Measure() core.Measure {
	return core.MeasureSolidAngle
}

// GenerateRay returns the ray through the raster position
func (c *Perspective) GenerateRay(raster core.Vec2) core.Ray {
	direction := c.right.Multiply(raster.X - float64(c.width)/2).
		Add(c.up.Multiply(float64(c.height)/2 - raster.Y)).
		Add(c.forward.Multiply(c.imagePlaneDist))
	return core.NewRay(c.position, direction.Normalize())
}

// RayPDF is the solid angle density of sampling direction with one sample per unit pixel area
func (c *Perspective) RayPDF(direction core.Vec3) float64 {
	cosAtCamera := direction.Dot(c.forward)
	if cosAtCamera <= 0 {
		return 0
	}
	return c.imagePlaneDist * c.imagePlaneDist / (cosAtCamera * cosAtCamera * cosAtCamera)
}

// Connect projects a point onto the film
func (c *Perspective) Connect(point core.Vec3) (core.CameraConnection, bool) {
	toCamera := c.position.Subtract(point)
	distance := toCamera.Length()
	if distance == 0 {
		return core.CameraConnection{}, false
	}
	toCamera = toCamera.Multiply(1.0 / distance)

	outward := toCamera.Negate()
	cosAtCamera := outward.Dot(c.forward)
	if cosAtCamera <= 0 {
		return core.CameraConnection{}, false // behind the camera
	}

	scale := c.imagePlaneDist / cosAtCamera
	raster := core.NewVec2(
		outward.Dot(c.right)*scale+float64(c.width)/2,
		float64(c.height)/2-outward.Dot(c.up)*scale,
	)
	if !c.inside(raster) {
		return core.CameraConnection{}, false
	}

	return core.CameraConnection{
		Raster:    raster,
		Direction: toCamera,
		Distance:  distance,
		Position:  c.position,
		Density:   c.RayPDF(outward),
	}, true
}
