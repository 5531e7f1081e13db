package integrator

import "errors"

var (
	// ErrInvalidConfig is wrapped by every configuration validation failure
	ErrInvalidConfig = errors.New("integrator: invalid configuration")
	// ErrNoLights is returned when a scene has nothing to sample light from
	ErrNoLights = errors.New("integrator: scene has no lights")
)
