package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/hashgrid"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
	"github.com/df07/go-pathspace-renderer/pkg/volume"
)

// VCM implements vertex connection and merging. Each pass first traces a
// batch of light subpaths and stores their vertices, then every eye subpath
// connects to and merges with them. Both subpaths scatter in participating
// media; medium vertices take part in connections but never in merging.
type VCM struct {
	base
	mode       Mode
	baseRadius float64
	globals    MISGlobals

	arena         *pathspace.Arena
	lightVertices []*pathspace.Vertex
	pathEnds      []int // lightVertices[pathEnds[i-1]:pathEnds[i]] belong to light path i
	grid          *hashgrid.Grid[*pathspace.Vertex]
}

// NewVCM creates a VCM integrator; config.Mode selects the estimators
func NewVCM(scene Scene, config Config) (*VCM, error) {
	b, err := newBase(string(KindVCM), scene, config)
	if err != nil {
		return nil, err
	}
	if err := checkMedium(b.config.Mode, b.medium); err != nil {
		return nil, err
	}
	return &VCM{
		base:       b,
		mode:       b.config.Mode,
		baseRadius: b.config.MergeRadius * scene.Bounds().BoundingSphereRadius(),
		arena:      pathspace.NewArena(b.config.MaxLightVertices),
		grid:       hashgrid.New[*pathspace.Vertex](),
	}, nil
}

// checkMedium rejects photon mapping in scenes with a medium: it has no
// estimator for light scattered in the volume
func checkMedium(mode Mode, medium core.Medium) error {
	if mode == ModeMerging && medium != nil {
		return fmt.Errorf("%w: photon mapping cannot render participating media, use vcm", ErrInvalidConfig)
	}
	return nil
}

func (v *VCM) lightTracingOnly() bool {
	return v.mode == ModeLightTracing
}

func (v *VCM) connecting() bool {
	return v.mode&ModeConnection != 0
}

func (v *VCM) merging() bool {
	return v.mode&ModeMerging != 0
}

// ppm reports progressive photon mapping: merging without connections
func (v *VCM) ppm() bool {
	return v.mode == ModeMerging
}

// BeginPass traces the light subpaths of a pass, builds the merge grid and
// returns the light tracing splats
func (v *VCM) BeginPass(pass int, wl core.WavelengthSample, sampler core.Sampler) (*pathspace.Result, error) {
	v.grid.Clear()
	v.lightVertices = v.arena.ReleaseAll(v.lightVertices)
	v.pathEnds = v.pathEnds[:0]
	v.globals = NewMISGlobals(v.config, v.baseRadius, pass)

	var head *pathspace.Result
	for i := 0; i < v.globals.LightPathCount; i++ {
		var err error
		head, err = v.traceLightSubpath(head, wl, sampler)
		if err != nil {
			v.results.Release(head)
			v.lightVertices = v.arena.ReleaseAll(v.lightVertices)
			v.pathEnds = v.pathEnds[:0]
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		v.pathEnds = append(v.pathEnds, len(v.lightVertices))
	}

	if v.merging() {
		v.grid.Build(v.lightVertices, v.globals.Radius)
	}
	lightVerticesPerPass.Observe(float64(len(v.lightVertices)))
	logger.Debugf("vcm pass %d: %d light paths, %d vertices, radius %g",
		pass, v.globals.LightPathCount, len(v.lightVertices), v.globals.Radius)

	return head, nil
}

// traceLightSubpath walks one light subpath, storing its non-specular vertices
// and connecting them to the camera
func (v *VCM) traceLightSubpath(head *pathspace.Result, wl core.WavelengthSample, sampler core.Sampler) (*pathspace.Result, error) {
	light, pick := v.lights.Pick(sampler.Get1D())
	uPosition, uDirection := sampler.Get2D(), sampler.Get2D()
	if light == nil || !validPDF(pick) {
		return head, nil
	}
	emission, ok := light.Emit(wl, uPosition, uDirection)
	if !ok || !validPDF(emission.EmissionPdfW) || !validPDF(emission.DirectPdfA) {
		return head, nil
	}
	v.metrics.lightPaths.Inc()

	s := newLightSubpath(emission, pick, light.IsDelta(), v.globals)
	if _, ok := sanitize(s.throughput); !ok {
		return head, nil
	}
	ray := core.NewRay(emission.Point, s.direction)

	for {
		sp, reason := v.nextVertex(&s, ray, wl, sampler)
		if reason != "" {
			v.metrics.terminated(reason)
			return head, nil
		}
		if sp.hit != nil && sp.hit.Light != nil {
			v.metrics.terminated(reasonAbsorbed)
			return head, nil
		}
		s.arrive(sp.position.Subtract(ray.Origin).LengthSquared(), sp.cosine(ray.Direction), true)

		if !sp.isDelta() {
			if v.connecting() || v.merging() {
				if err := v.storeLightVertex(&s, sp, wl); err != nil {
					return head, err
				}
			}
			if v.connecting() || v.lightTracingOnly() {
				head = v.splatToCamera(head, &s, sp, wl)
			}
		}

		if int(s.pathLength)+2 > v.config.MaxPathLength {
			v.metrics.terminated(reasonDepth)
			return head, nil
		}
		if !v.sampleScattering(&s, sp, wl, core.TransportImportance, sampler) {
			return head, nil
		}
		ray = core.NewRay(sp.position, s.direction)
	}
}

// nextVertex finds where a subpath's ray next interacts: a surface, or a
// point in the medium. The segment weight is applied to the throughput.
func (v *VCM) nextVertex(s *subpath, ray core.Ray, wl core.WavelengthSample, sampler core.Sampler) (scatterPoint, string) {
	hit, isHit := v.scene.CastRay(ray, rayEpsilon, math.Inf(1))
	maxDistance := math.Inf(1)
	if isHit {
		maxDistance = hit.T
	}
	segment := v.sampleVolumeTransmittanceAndDistance(ray, maxDistance, wl, sampler.Get1D())
	s.throughput = s.throughput.MultiplyVec(segment.Weight)

	var sp scatterPoint
	switch {
	case segment.Scattered:
		sp = scatterPoint{position: ray.At(segment.Distance), wo: ray.Direction.Negate()}
	case !isHit:
		return sp, reasonMiss
	default:
		sp = scatterPoint{position: hit.Point, wo: ray.Direction.Negate(), hit: hit}
	}
	if s.throughput.IsZero() {
		return sp, reasonAbsorbed
	}
	return sp, ""
}

// storeLightVertex records the current light subpath vertex for connections and merging
func (v *VCM) storeLightVertex(s *subpath, sp scatterPoint, wl core.WavelengthSample) error {
	vertex, err := v.arena.Allocate()
	if err != nil {
		return err
	}
	vertex.Hit = sp.hit
	vertex.PathLength = s.pathLength
	vertex.Throughput = s.throughput
	vertex.PathPDF = core.AreaPDF(s.pathPDF)
	vertex.BasicPDF = core.SolidAnglePDF(s.lastPdfW)
	vertex.DVCM = s.dVCM
	vertex.DVC = s.dVC
	vertex.DVM = s.dVM
	vertex.IncomingWavelength = wl
	vertex.OutgoingWavelength = wl
	vertex.WorldNormal = core.Vec3{}
	if sp.hit != nil {
		vertex.WorldNormal = sp.hit.Normal
	}
	vertex.IncomingDirection = sp.wo
	vertex.Point = sp.position
	v.lightVertices = append(v.lightVertices, vertex)
	return nil
}

// vertexPoint rebuilds the scatter point of a stored light vertex
func vertexPoint(vertex *pathspace.Vertex) scatterPoint {
	return scatterPoint{position: vertex.Point, wo: vertex.IncomingDirection, hit: vertex.Hit}
}

// vmWeightAt is the merge weight of a vertex; merging only happens on surfaces
func (v *VCM) vmWeightAt(sp scatterPoint) float64 {
	if sp.hit == nil {
		return 0
	}
	return v.globals.VMWeight
}

// TracePath walks an eye subpath, connecting at every non-specular vertex and
// merging at every non-specular surface
func (v *VCM) TracePath(ray core.Ray, raster core.Vec2, sampleIndex int, wl core.WavelengthSample, sampler core.Sampler) *pathspace.Result {
	if v.lightTracingOnly() {
		return nil
	}
	v.metrics.eyePaths.Inc()

	cameraPdf := v.camera.RayPDF(ray.Direction)
	if !validPDF(cameraPdf) {
		return v.emit(nil, pathspace.EyePath, raster, core.Spectrum{}, wl)
	}
	s := newEyeSubpath(ray.Direction, cameraPdf, v.globals)
	radiance := v.gather(&s, ray, v.pairedLightPath(sampleIndex), wl, sampler)
	return v.emit(nil, pathspace.EyePath, raster, radiance, wl)
}

// gather accumulates every estimator along an eye subpath
func (v *VCM) gather(s *subpath, ray core.Ray, lightPath []*pathspace.Vertex, wl core.WavelengthSample, sampler core.Sampler) core.Spectrum {
	firstSolidAngle := v.camera.Measure() == core.MeasureSolidAngle

	var radiance core.Spectrum
	for {
		sp, reason := v.nextVertex(s, ray, wl, sampler)
		if reason != "" {
			v.metrics.terminated(reason)
			return radiance
		}
		s.arrive(sp.position.Subtract(ray.Origin).LengthSquared(), sp.cosine(ray.Direction), s.pathLength > 1 || firstSolidAngle)

		if sp.hit != nil && sp.hit.Light != nil {
			// photon mapping only sees lights through specular chains
			if !v.ppm() || s.specularPath {
				radiance = radiance.Add(s.throughput.MultiplyVec(v.lightRadiance(s, sp.hit, ray, wl)))
			}
			v.metrics.terminated(reasonAbsorbed)
			return radiance
		}

		if int(s.pathLength) >= v.config.MaxPathLength {
			v.metrics.terminated(reasonDepth)
			return radiance
		}

		if !sp.isDelta() {
			if v.connecting() {
				radiance = radiance.Add(s.throughput.MultiplyVec(v.directIllumination(s, sp, wl, sampler)))
				for _, lightVertex := range lightPath {
					if int(lightVertex.PathLength+1+s.pathLength) > v.config.MaxPathLength {
						break
					}
					contribution := v.connectVertices(lightVertex, s, sp, wl)
					radiance = radiance.Add(s.throughput.MultiplyVec(lightVertex.Throughput).MultiplyVec(contribution))
				}
			}
			if v.merging() && sp.hit != nil {
				merged := v.merge(s, sp, wl)
				radiance = radiance.Add(s.throughput.MultiplyVec(merged).Multiply(v.globals.VMNormalization))
				if v.ppm() {
					return radiance
				}
			}
		}

		if !v.sampleScattering(s, sp, wl, core.TransportRadiance, sampler) {
			return radiance
		}
		ray = core.NewRay(sp.position, s.direction)
	}
}

// pairedLightPath returns the stored vertices of the light path paired with
// an eye sample, in order of increasing path length
func (v *VCM) pairedLightPath(sampleIndex int) []*pathspace.Vertex {
	if len(v.pathEnds) == 0 {
		return nil
	}
	i := sampleIndex % len(v.pathEnds)
	if i < 0 {
		i += len(v.pathEnds)
	}
	start := 0
	if i > 0 {
		start = v.pathEnds[i-1]
	}
	return v.lightVertices[start:v.pathEnds[i]]
}

// sampleScattering continues a subpath from a scatter point, using the
// material's continuation probability as Russian roulette, and updates its
// MIS quantities. Medium vertices scatter isotropically and always continue.
func (v *VCM) sampleScattering(s *subpath, sp scatterPoint, wl core.WavelengthSample, mode core.TransportMode, sampler core.Sampler) bool {
	u := sampler.Get2D()
	survival := 1.0

	var sample core.BSDFSample
	if sp.hit == nil {
		p := volume.IsotropicPhase
		sample = core.BSDFSample{Direction: core.SampleOnUnitSphere(u), F: core.NewVec3(p, p, p), PDF: p, ReversePDF: p}
	} else {
		var ok bool
		sample, ok = sp.hit.Material.Sample(sp.wo, sp.hit, wl, mode, u)
		if !ok {
			v.metrics.terminated(reasonAbsorbed)
			return false
		}
		if !validPDF(sample.PDF) {
			rejectedSamples.Inc()
			v.metrics.terminated(reasonAbsorbed)
			return false
		}
		survival = sp.continuation(wl)
		if survival == 0 || sampler.Get1D() > survival {
			v.metrics.terminated(reasonRoulette)
			return false
		}
	}

	pdfW := sample.PDF * survival
	revPdfW := sample.ReversePDF * survival
	if sample.Specular {
		revPdfW = pdfW
	}
	cosOut := sp.cosine(sample.Direction)

	throughput, ok := sanitize(s.throughput.MultiplyVec(sample.F).Multiply(cosOut / pdfW))
	if !ok || throughput.IsZero() {
		v.metrics.terminated(reasonAbsorbed)
		return false
	}
	if v.belowFloor(throughput) {
		v.metrics.terminated(reasonFloor)
		return false
	}

	s.scatter(v.globals, cosOut, pdfW, revPdfW, sample.Specular, sp.hit != nil)
	s.throughput = throughput
	s.direction = sample.Direction
	s.pathLength++
	return true
}
