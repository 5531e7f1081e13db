package integrator

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

// LightTracer walks paths from the lights and splats every vertex it can
// connect to the camera
type LightTracer struct {
	base
}

// NewLightTracer creates a new light tracing integrator
func NewLightTracer(scene Scene, config Config) (*LightTracer, error) {
	b, err := newBase(string(KindLightTracer), scene, config)
	if err != nil {
		return nil, err
	}
	return &LightTracer{base: b}, nil
}

// BeginPass traces the pass's light paths and returns their splats
func (lt *LightTracer) BeginPass(pass int, wl core.WavelengthSample, sampler core.Sampler) (*pathspace.Result, error) {
	var head *pathspace.Result
	for i := 0; i < lt.config.LightPathCount; i++ {
		head = lt.TraceLightPath(head, wl, sampler)
	}
	logger.Debugf("light tracer pass %d: %d light paths", pass, lt.config.LightPathCount)
	return head, nil
}

// TracePath has nothing to add: every contribution is splatted in BeginPass
func (lt *LightTracer) TracePath(ray core.Ray, raster core.Vec2, sampleIndex int, wl core.WavelengthSample, sampler core.Sampler) *pathspace.Result {
	return nil
}

// TraceLightPath emits one path from a light chosen in proportion to its power
// and prepends a light path result for every camera connection along it.
// Contributions are divided by the configured light path count.
func (lt *LightTracer) TraceLightPath(head *pathspace.Result, wl core.WavelengthSample, sampler core.Sampler) *pathspace.Result {
	light, pick := lt.lights.Pick(sampler.Get1D())
	uPosition, uDirection := sampler.Get2D(), sampler.Get2D()
	if light == nil || !validPDF(pick) {
		return head
	}
	emission, ok := light.Emit(wl, uPosition, uDirection)
	if !ok || !validPDF(emission.EmissionPdfW) {
		return head
	}
	lt.metrics.lightPaths.Inc()

	throughput, ok := sanitize(emission.Radiance.Multiply(emission.CosAtLight / (emission.EmissionPdfW * pick)))
	if !ok {
		return head
	}
	ray := core.NewRay(emission.Point, emission.Direction)
	scale := 1 / float64(lt.config.LightPathCount)

	// pathLength counts the segments from the light to the current vertex
	for pathLength := 1; ; pathLength++ {
		hit, isHit := lt.scene.CastRay(ray, rayEpsilon, math.Inf(1))
		maxDistance := math.Inf(1)
		if isHit {
			maxDistance = hit.T
		}
		segment := lt.sampleVolumeTransmittanceAndDistance(ray, maxDistance, wl, sampler.Get1D())
		throughput = throughput.MultiplyVec(segment.Weight)

		var sp scatterPoint
		switch {
		case segment.Scattered:
			sp = scatterPoint{position: ray.At(segment.Distance), wo: ray.Direction.Negate()}
		case !isHit:
			lt.metrics.terminated(reasonMiss)
			return head
		case hit.Light != nil:
			lt.metrics.terminated(reasonAbsorbed)
			return head
		default:
			sp = scatterPoint{position: hit.Point, wo: ray.Direction.Negate(), hit: hit}
		}

		// the camera connection adds one segment
		if pathLength+1 <= lt.config.MaxPathLength && !sp.isDelta() {
			if cs, ok := lt.connectToCamera(sp, wl); ok {
				lt.metrics.cameraConnects.Inc()
				contribution := throughput.MultiplyVec(cs.f).Multiply(cs.cameraPdfA * scale)
				head = lt.emit(head, pathspace.LightPath, cs.raster, contribution, wl)
			}
		}

		if pathLength+2 > lt.config.MaxPathLength {
			lt.metrics.terminated(reasonDepth)
			return head
		}

		direction, weight, _, _, ok := lt.sampleDirection(sp, wl, core.TransportImportance, sampler)
		if !ok {
			lt.metrics.terminated(reasonAbsorbed)
			return head
		}
		throughput = throughput.MultiplyVec(weight)
		ray = core.NewRay(sp.position, direction)

		var reason string
		throughput, reason = lt.continueOrTerminate(pathLength-1, throughput, sampler.Get1D())
		if reason != "" {
			lt.metrics.terminated(reason)
			return head
		}
	}
}
