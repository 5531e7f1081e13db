package integrator

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
	"github.com/df07/go-pathspace-renderer/pkg/volume"
)

// rayEpsilon offsets new rays from the surface they leave
const rayEpsilon = 1e-4

// base holds what every integrator shares: the scene collaborators, the
// termination policy and the per-worker result freelist
type base struct {
	scene   Scene
	lights  core.LightSampler
	camera  core.Camera
	medium  core.Medium
	volume  core.VolumeIntegrator
	config  Config
	results *pathspace.ResultPool
	metrics *pathMetrics
}

func newBase(name string, scene Scene, config Config) (base, error) {
	config = resolveConfig(scene, config)
	if err := config.Validate(); err != nil {
		return base{}, err
	}
	if len(scene.Lights().Lights()) == 0 {
		return base{}, ErrNoLights
	}
	return base{
		scene:   scene,
		lights:  scene.Lights(),
		camera:  scene.Camera(),
		medium:  scene.Medium(),
		volume:  volume.NewTracker(config.DistanceTracking),
		config:  config,
		results: pathspace.NewResultPool(),
		metrics: newPathMetrics(name),
	}, nil
}

// Release returns accumulated results to the freelist
func (b *base) Release(results *pathspace.Result) {
	b.results.Release(results)
}

// sampleVolumeTransmittanceAndDistance decides where along the ray the next
// event happens. Every free-flight distance goes through here.
func (b *base) sampleVolumeTransmittanceAndDistance(ray core.Ray, maxDistance float64, wl core.WavelengthSample, u float64) core.DistanceSample {
	if b.medium == nil {
		return core.DistanceSample{Distance: maxDistance, Weight: core.NewVec3(1, 1, 1), PDF: 1}
	}
	sample := b.volume.SampleDistance(b.medium, ray, maxDistance, wl, u)
	if !sample.Weight.IsFinite() {
		rejectedSamples.Inc()
		sample.Weight = core.Spectrum{}
	}
	return sample
}

// transmittance is the fraction of light surviving a connection of the given length
func (b *base) transmittance(distance float64, wl core.WavelengthSample) core.Spectrum {
	if b.medium == nil {
		return core.NewVec3(1, 1, 1)
	}
	return b.volume.Transmittance(b.medium, distance, wl)
}

// survival returns the Russian roulette survival probability after bounce
func (b *base) survival(bounce int, throughput core.Spectrum) float64 {
	if bounce < b.config.RussianRouletteMinBounces {
		return 1
	}
	return math.Min(0.95, math.Max(0.5, throughput.MaxComponent()))
}

// belowFloor reports whether the throughput fell under the minimal contribution
func (b *base) belowFloor(throughput core.Spectrum) bool {
	return b.config.MinimalContribution > 0 && throughput.MaxComponent() < b.config.MinimalContribution
}

// continueOrTerminate applies the floor and Russian roulette, returning the
// compensated throughput and the termination reason if the path stops
func (b *base) continueOrTerminate(bounce int, throughput core.Spectrum, u float64) (core.Spectrum, string) {
	if throughput.IsZero() {
		return throughput, reasonAbsorbed
	}
	if b.belowFloor(throughput) {
		return throughput, reasonFloor
	}
	p := b.survival(bounce, throughput)
	if p < 1 {
		if u > p {
			return throughput, reasonRoulette
		}
		throughput = throughput.Multiply(1 / p)
	}
	return throughput, ""
}

// emit prepends a contribution after dropping degenerate values
func (b *base) emit(head *pathspace.Result, kind pathspace.ResultKind, raster core.Vec2, radiance core.Spectrum, wl core.WavelengthSample) *pathspace.Result {
	radiance, ok := sanitize(radiance)
	if !ok {
		return head
	}
	if kind == pathspace.LightPath && radiance.IsZero() {
		return head
	}
	return b.results.Prepend(head, kind, raster, radiance, wl)
}

// sanitize zeroes spectra with NaN, infinite or negative channels
func sanitize(s core.Spectrum) (core.Spectrum, bool) {
	if !s.IsFinite() || s.X < 0 || s.Y < 0 || s.Z < 0 {
		rejectedSamples.Inc()
		return core.Spectrum{}, false
	}
	return s, true
}

// validPDF reports whether a density can be divided by
func validPDF(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// isDelta reports whether a material scatters into a single direction
func isDelta(m core.Material) bool {
	d, ok := m.(core.DeltaMaterial)
	return ok && d.IsDelta()
}

// continuation returns the clamped continuation probability of a surface
func continuation(hit *core.SurfaceInteraction, wl core.WavelengthSample) float64 {
	p := hit.Material.ContinuationProbability(hit, wl)
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p))
}

// scatterPoint is where a path changes direction: a surface hit, or a point
// in the medium when hit is nil
type scatterPoint struct {
	position core.Vec3
	wo       core.Vec3 // toward the previous vertex
	hit      *core.SurfaceInteraction
}

// evaluate returns the scattering function toward wi, the cosine at the
// point and the forward and reverse solid angle densities
func (sp scatterPoint) evaluate(wi core.Vec3, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64, float64) {
	if sp.hit == nil {
		p := volume.IsotropicPhase
		return core.NewVec3(p, p, p), 1, p, p
	}
	f, pdfForward, pdfReverse := sp.hit.Material.Evaluate(sp.wo, wi, sp.hit, wl, mode)
	return f, math.Abs(wi.Dot(sp.hit.Normal)), pdfForward, pdfReverse
}

// evaluateValid is evaluate for a single estimator term: it fails when the
// scattering is zero or degenerate or when a density cannot be divided by
func (sp scatterPoint) evaluateValid(wi core.Vec3, wl core.WavelengthSample, mode core.TransportMode) (core.Spectrum, float64, float64, float64, bool) {
	f, cos, pdfForward, pdfReverse := sp.evaluate(wi, wl, mode)
	f, ok := sanitize(f)
	if !ok || f.IsZero() {
		return core.Spectrum{}, 0, 0, 0, false
	}
	if !validPDF(pdfForward) || !validPDF(pdfReverse) {
		return core.Spectrum{}, 0, 0, 0, false
	}
	return f, cos, pdfForward, pdfReverse, true
}

// cosine is |cos| between d and the surface normal, one in a medium
func (sp scatterPoint) cosine(d core.Vec3) float64 {
	if sp.hit == nil {
		return 1
	}
	return math.Abs(d.Dot(sp.hit.Normal))
}

// continuation is the surface's continuation probability; media always continue
func (sp scatterPoint) continuation(wl core.WavelengthSample) float64 {
	if sp.hit == nil {
		return 1
	}
	return continuation(sp.hit, wl)
}

func (sp scatterPoint) isDelta() bool {
	return sp.hit != nil && isDelta(sp.hit.Material)
}

// sampleDirection continues a path from a scatter point and returns the
// direction, the throughput factor f*cos/pdf, the solid angle density and
// whether the scattering was specular
func (b *base) sampleDirection(sp scatterPoint, wl core.WavelengthSample, mode core.TransportMode, sampler core.Sampler) (core.Vec3, core.Spectrum, float64, bool, bool) {
	u := sampler.Get2D()
	if sp.hit == nil {
		// isotropic phase: the weight is one
		return core.SampleOnUnitSphere(u), core.NewVec3(1, 1, 1), volume.IsotropicPhase, false, true
	}

	sample, ok := sp.hit.Material.Sample(sp.wo, sp.hit, wl, mode, u)
	if !ok {
		return core.Vec3{}, core.Spectrum{}, 0, false, false
	}
	if !validPDF(sample.PDF) {
		rejectedSamples.Inc()
		return core.Vec3{}, core.Spectrum{}, 0, false, false
	}

	cos := math.Abs(sample.Direction.Dot(sp.hit.Normal))
	weight, ok := sanitize(sample.F.Multiply(cos / sample.PDF))
	if !ok || weight.IsZero() {
		return core.Vec3{}, core.Spectrum{}, 0, false, false
	}
	return sample.Direction, weight, sample.PDF, sample.Specular, true
}

// cameraSample is a scatter point projected onto the film
type cameraSample struct {
	raster     core.Vec2
	f          core.Spectrum // scattering toward the camera, times transmittance
	cameraPdfA float64       // area density of the camera generating the point
	pdfReverse float64       // solid angle density of scattering from the camera direction back along the path
}

// connectToCamera projects a scatter point onto the film and tests visibility
func (b *base) connectToCamera(sp scatterPoint, wl core.WavelengthSample) (cameraSample, bool) {
	conn, ok := b.camera.Connect(sp.position)
	if !ok {
		return cameraSample{}, false
	}

	f, cos, _, pdfReverse, ok := sp.evaluateValid(conn.Direction, wl, core.TransportImportance)
	if !ok {
		return cameraSample{}, false
	}

	// a pinhole density is per solid angle; an orthographic one is already per film area
	cameraPdfA := conn.Density * cos
	if b.camera.Measure() == core.MeasureSolidAngle {
		cameraPdfA = core.SolidAnglePDF(conn.Density).ToArea(conn.Distance*conn.Distance, cos).Value
	}

	if b.scene.Occluded(sp.position, conn.Position) {
		return cameraSample{}, false
	}

	return cameraSample{
		raster:     conn.Raster,
		f:          f.MultiplyVec(b.transmittance(conn.Distance, wl)),
		cameraPdfA: cameraPdfA,
		pdfReverse: pdfReverse,
	}, true
}
