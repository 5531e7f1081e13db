package integrator

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

// PathTracer implements unidirectional path tracing
type PathTracer struct {
	base
}

// NewPathTracer creates a new path tracing integrator
func NewPathTracer(scene Scene, config Config) (*PathTracer, error) {
	b, err := newBase(string(KindPathTracer), scene, config)
	if err != nil {
		return nil, err
	}
	return &PathTracer{base: b}, nil
}

// BeginPass has nothing to prepare
func (pt *PathTracer) BeginPass(pass int, wl core.WavelengthSample, sampler core.Sampler) (*pathspace.Result, error) {
	return nil, nil
}

// TracePath returns one eye path result for the primary ray
func (pt *PathTracer) TracePath(ray core.Ray, raster core.Vec2, sampleIndex int, wl core.WavelengthSample, sampler core.Sampler) *pathspace.Result {
	pt.metrics.eyePaths.Inc()
	return pt.emit(nil, pathspace.EyePath, raster, pt.trace(ray, wl, sampler), wl)
}

// trace walks the path TRACE -> SCATTER -> (TERMINATE | CONTINUE)
func (pt *PathTracer) trace(ray core.Ray, wl core.WavelengthSample, sampler core.Sampler) core.Spectrum {
	var radiance core.Spectrum
	throughput := core.NewVec3(1, 1, 1)

	// how the current ray was sampled, for weighting emission it finds
	specular := true
	lastPdfW := 0.0
	from := ray.Origin

	for bounce := 0; ; bounce++ {
		// TRACE
		hit, isHit := pt.scene.CastRay(ray, rayEpsilon, math.Inf(1))
		maxDistance := math.Inf(1)
		if isHit {
			maxDistance = hit.T
		}
		segment := pt.sampleVolumeTransmittanceAndDistance(ray, maxDistance, wl, sampler.Get1D())
		throughput = throughput.MultiplyVec(segment.Weight)

		var sp scatterPoint
		switch {
		case segment.Scattered:
			sp = scatterPoint{position: ray.At(segment.Distance), wo: ray.Direction.Negate()}
		case !isHit:
			pt.metrics.terminated(reasonMiss)
			return radiance
		case hit.Light != nil:
			emitted := pt.emitted(hit, ray, wl, bounce, specular, lastPdfW, from)
			radiance = radiance.Add(throughput.MultiplyVec(emitted))
			pt.metrics.terminated(reasonAbsorbed)
			return radiance
		default:
			sp = scatterPoint{position: hit.Point, wo: ray.Direction.Negate(), hit: hit}
		}

		// the path has bounce+1 segments; sampling a light or continuing adds one
		if bounce+2 > pt.config.MaxPathLength {
			pt.metrics.terminated(reasonDepth)
			return radiance
		}

		// SCATTER
		if pt.config.Strategy != DirectionSampling && !sp.isDelta() {
			radiance = radiance.Add(throughput.MultiplyVec(pt.directLight(sp, wl, sampler)))
		}

		direction, weight, pdfW, isSpecular, ok := pt.sampleDirection(sp, wl, core.TransportRadiance, sampler)
		if !ok {
			pt.metrics.terminated(reasonAbsorbed)
			return radiance
		}
		throughput = throughput.MultiplyVec(weight)
		specular = isSpecular
		lastPdfW = pdfW
		from = sp.position
		ray = core.NewRay(sp.position, direction)

		// TERMINATE | CONTINUE
		var reason string
		throughput, reason = pt.continueOrTerminate(bounce, throughput, sampler.Get1D())
		if reason != "" {
			pt.metrics.terminated(reason)
			return radiance
		}
	}
}

// emitted weights the radiance of a light found by the ray
func (pt *PathTracer) emitted(hit *core.SurfaceInteraction, ray core.Ray, wl core.WavelengthSample, bounce int, specular bool, lastPdfW float64, from core.Vec3) core.Spectrum {
	lightHit, ok := hit.Light.Radiance(hit.Point, ray.Direction, wl)
	if !ok {
		return core.Spectrum{}
	}

	// light sampling cannot produce camera rays or specular bounces
	if bounce == 0 || specular {
		return lightHit.Radiance
	}

	switch pt.config.Strategy {
	case LightSampling:
		return core.Spectrum{}
	case DirectionSampling:
		return lightHit.Radiance
	}

	pick := pt.lights.PickProbability(hit.Light)
	distSquared := hit.Point.Subtract(from).LengthSquared()
	lightPdfW := core.AreaPDF(lightHit.DirectPdfA*pick).ToSolidAngle(distSquared, hit.Normal.Dot(ray.Direction)).Value
	return lightHit.Radiance.Multiply(core.BalanceHeuristic(1, lastPdfW, 1, lightPdfW))
}

// directLight samples one light from the scatter point
func (pt *PathTracer) directLight(sp scatterPoint, wl core.WavelengthSample, sampler core.Sampler) core.Spectrum {
	light, pick := pt.lights.Pick(sampler.Get1D())
	u := sampler.Get2D()
	if light == nil || !validPDF(pick) {
		return core.Spectrum{}
	}

	illumination, ok := light.Illuminate(sp.position, wl, u)
	if !ok || !validPDF(illumination.DirectPdfW) {
		return core.Spectrum{}
	}

	f, cos, pdfForward, _, ok := sp.evaluateValid(illumination.Direction, wl, core.TransportRadiance)
	if !ok {
		return core.Spectrum{}
	}

	lightPoint := sp.position.Add(illumination.Direction.Multiply(illumination.Distance))
	if pt.scene.Occluded(sp.position, lightPoint) {
		return core.Spectrum{}
	}
	pt.metrics.lightConnects.Inc()

	// both densities are per solid angle at the scatter point
	lightPdfW := illumination.DirectPdfW * pick
	weight := 1.0
	if pt.config.Strategy == MIS && !light.IsDelta() {
		weight = core.BalanceHeuristic(1, lightPdfW, 1, pdfForward)
	}

	contribution, _ := sanitize(illumination.Radiance.
		MultiplyVec(f).
		MultiplyVec(pt.transmittance(illumination.Distance, wl)).
		Multiply(cos * weight / lightPdfW))
	return contribution
}
