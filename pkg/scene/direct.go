package scene

import (
	"github.com/df07/go-pathspace-renderer/pkg/camera"
	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/geometry"
	"github.com/df07/go-pathspace-renderer/pkg/lights"
	"github.com/df07/go-pathspace-renderer/pkg/material"
)

// Direct scene parameters. With a single diffuse sphere lit by a point light
// the image has a closed form: L = albedo/pi * intensity * cos / d^2.
const (
	DirectAlbedo    = 0.5
	DirectIntensity = 20.0
	DirectRadius    = 1.0
)

// DirectLightPosition is where the point light sits in the direct scene
var DirectLightPosition = core.NewVec3(0, 3, 3)

// NewDirectScene creates a diffuse sphere at the origin viewed along -Z by an
// orthographic camera, lit by a point light
func NewDirectScene(width, height int) *Scene {
	cam := camera.NewOrthographic(camera.Config{
		Position: core.NewVec3(0, 0, 10),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		Width:    width,
		Height:   height,
		ViewSize: 3 * DirectRadius,
	})

	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), DirectRadius, material.NewLambertian(core.ConstantCurve(DirectAlbedo)))
	light := lights.NewPointLight(DirectLightPosition, core.ConstantCurve(DirectIntensity))

	return New("direct", cam, []core.Shape{sphere}, []core.Light{light}, nil)
}
