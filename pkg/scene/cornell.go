package scene

import (
	"github.com/df07/go-pathspace-renderer/pkg/camera"
	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/geometry"
	"github.com/df07/go-pathspace-renderer/pkg/lights"
	"github.com/df07/go-pathspace-renderer/pkg/material"
	"github.com/df07/go-pathspace-renderer/pkg/volume"
)

// boxSize is the edge length of the Cornell box
const boxSize = 555.0

// NewCornellScene creates a Cornell box with a diffuse, a mirror and a glass sphere
func NewCornellScene(width, height int) *Scene {
	shapes, sceneLights := cornellBox()
	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(370, 90, 370), 90, material.NewLambertian(core.ConstantCurve(0.73))),
		geometry.NewSphere(core.NewVec3(185, 90, 185), 90, material.NewMirror(core.ConstantCurve(0.9))),
		geometry.NewSphere(core.NewVec3(400, 60, 150), 60, material.NewDielectric(1.5, core.ConstantCurve(0.98))),
	)
	return New("cornell", cornellCamera(width, height), shapes, sceneLights, nil)
}

// NewFogScene creates a Cornell box with a diffuse sphere, filled with a thin scattering medium
func NewFogScene(width, height int) *Scene {
	shapes, sceneLights := cornellBox()
	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(278, 120, 278), 120, material.NewLambertian(core.ConstantCurve(0.73))),
	)
	fog := volume.NewHomogeneous(core.ConstantCurve(0.0002), core.NewRGBCurve(0.0015, 0.0018, 0.0022))
	return New("fog", cornellCamera(width, height), shapes, sceneLights, fog)
}

// NewDiffuseCornellScene creates a Cornell box where every surface is diffuse,
// so every integrator and mode can sample every path
func NewDiffuseCornellScene(width, height int) *Scene {
	shapes, sceneLights := cornellBox()
	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(278, 120, 278), 120, material.NewLambertian(core.ConstantCurve(0.73))),
	)
	return New("cornell-diffuse", cornellCamera(width, height), shapes, sceneLights, nil)
}

func cornellCamera(width, height int) core.Camera {
	return camera.NewPerspective(camera.Config{
		Position: core.NewVec3(278, 278, -800),
		LookAt:   core.NewVec3(278, 278, 0),
		Up:       core.NewVec3(0, 1, 0),
		Width:    width,
		Height:   height,
		VFov:     40.0,
	})
}

// NewSphereLightScene creates a Cornell box lit by a glowing sphere instead of
// the ceiling panel
func NewSphereLightScene(width, height int) *Scene {
	shapes := append(cornellWalls(),
		geometry.NewSphere(core.NewVec3(278, 90, 278), 90, material.NewLambertian(core.ConstantCurve(0.73))),
	)
	bulb := lights.NewSphereLight(core.NewVec3(278, 420, 278), 50, core.NewRGBCurve(6, 4.5, 2))
	return New("cornell-sphere", cornellCamera(width, height), shapes, []core.Light{bulb}, nil)
}

// cornellBox returns the five walls and the ceiling light
func cornellBox() ([]core.Shape, []core.Light) {
	// Ceiling light, slightly below the ceiling and facing down
	light := lights.NewQuadLight(
		core.NewVec3(213, boxSize-1, 227),
		core.NewVec3(130, 0, 0),
		core.NewVec3(0, 0, 105),
		core.NewRGBCurve(17, 12, 4),
	)
	return cornellWalls(), []core.Light{light}
}

func cornellWalls() []core.Shape {
	white := material.NewLambertian(core.ConstantCurve(0.73))
	red := material.NewLambertian(core.NewRGBCurve(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewRGBCurve(0.12, 0.45, 0.15))

	walls := []core.Shape{
		// Floor
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		// Ceiling
		geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white),
		// Back wall
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
		// Left wall (red)
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red),
		// Right wall (green)
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
	}

	return walls
}
