package scene

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScene is returned when no built-in scene has the requested name
var ErrUnknownScene = errors.New("unknown scene")

// Builder creates a scene rendered at the given resolution
type Builder func(width, height int) *Scene

// Info describes a built-in scene
type Info struct {
	Name          string
	Description   string
	DefaultWidth  int
	DefaultHeight int
	Build         Builder
}

var builtins = []Info{
	{
		Name:          "direct",
		Description:   "Point light above a diffuse sphere, orthographic camera",
		DefaultWidth:  64,
		DefaultHeight: 64,
		Build:         NewDirectScene,
	},
	{
		Name:          "cornell",
		Description:   "Cornell box with an area light and diffuse, mirror and glass spheres",
		DefaultWidth:  400,
		DefaultHeight: 400,
		Build:         NewCornellScene,
	},
	{
		Name:          "cornell-diffuse",
		Description:   "Cornell box with only diffuse surfaces",
		DefaultWidth:  400,
		DefaultHeight: 400,
		Build:         NewDiffuseCornellScene,
	},
	{
		Name:          "cornell-sphere",
		Description:   "Cornell box lit by a spherical area light",
		DefaultWidth:  400,
		DefaultHeight: 400,
		Build:         NewSphereLightScene,
	},
	{
		Name:          "fog",
		Description:   "Cornell box filled with a scattering medium",
		DefaultWidth:  400,
		DefaultHeight: 400,
		Build:         NewFogScene,
	},
}

// List returns the built-in scenes in display order
func List() []Info {
	return append([]Info(nil), builtins...)
}

// Lookup finds a built-in scene by name
func Lookup(name string) (Info, error) {
	for _, info := range builtins {
		if strings.EqualFold(info.Name, name) {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w %q", ErrUnknownScene, name)
}
