package integrator

import (
	"math"

	"github.com/df07/go-pathspace-renderer/pkg/core"
	"github.com/df07/go-pathspace-renderer/pkg/pathspace"
)

// splatToCamera connects a light subpath vertex to the camera (t=1)
func (v *VCM) splatToCamera(head *pathspace.Result, s *subpath, sp scatterPoint, wl core.WavelengthSample) *pathspace.Result {
	if int(s.pathLength)+1 > v.config.MaxPathLength {
		return head
	}
	cs, ok := v.connectToCamera(sp, wl)
	if !ok {
		return head
	}
	v.metrics.cameraConnects.Inc()

	n := float64(v.globals.LightPathCount)
	weight := 1.0
	if !v.lightTracingOnly() {
		revPdfW := cs.pdfReverse * sp.continuation(wl)
		wLight := mis(cs.cameraPdfA/n) * (v.vmWeightAt(sp) + s.dVCM + s.dVC*mis(revPdfW))
		weight = 1 / (wLight + 1)
	}

	contribution := s.throughput.MultiplyVec(cs.f).Multiply(weight * cs.cameraPdfA / n)
	return v.emit(head, pathspace.LightPath, cs.raster, contribution, wl)
}

// lightRadiance weights the emission an eye subpath finds by hitting a light
func (v *VCM) lightRadiance(s *subpath, hit *core.SurfaceInteraction, ray core.Ray, wl core.WavelengthSample) core.Spectrum {
	lightHit, ok := hit.Light.Radiance(hit.Point, ray.Direction, wl)
	if !ok {
		return core.Spectrum{}
	}
	if s.pathLength == 1 {
		return lightHit.Radiance
	}

	pick := v.lights.PickProbability(hit.Light)
	directPdfA := lightHit.DirectPdfA * pick
	emissionPdfW := lightHit.EmissionPdfW * pick

	wCamera := mis(directPdfA)*s.dVCM + mis(emissionPdfW)*s.dVC
	return lightHit.Radiance.Multiply(1 / (1 + wCamera))
}

// directIllumination connects an eye vertex to a point sampled on a light (s=1)
func (v *VCM) directIllumination(s *subpath, sp scatterPoint, wl core.WavelengthSample, sampler core.Sampler) core.Spectrum {
	if int(s.pathLength)+1 > v.config.MaxPathLength {
		return core.Spectrum{}
	}
	light, pick := v.lights.Pick(sampler.Get1D())
	u := sampler.Get2D()
	if light == nil || !validPDF(pick) {
		return core.Spectrum{}
	}

	illumination, ok := light.Illuminate(sp.position, wl, u)
	if !ok || !validPDF(illumination.DirectPdfW) || !validPDF(illumination.CosAtLight) {
		return core.Spectrum{}
	}

	f, cosToLight, pdfForward, pdfReverse, ok := sp.evaluateValid(illumination.Direction, wl, core.TransportRadiance)
	if !ok {
		return core.Spectrum{}
	}

	survival := sp.continuation(wl)
	bsdfDirPdfW := pdfForward * survival
	if light.IsDelta() {
		bsdfDirPdfW = 0
	}
	bsdfRevPdfW := pdfReverse * survival

	// the emission and direct densities both exclude the pick probability, so it cancels in wCamera
	wLight := mis(bsdfDirPdfW / (pick * illumination.DirectPdfW))
	wCamera := mis(illumination.EmissionPdfW*cosToLight/(illumination.DirectPdfW*illumination.CosAtLight)) *
		(v.vmWeightAt(sp) + s.dVCM + s.dVC*mis(bsdfRevPdfW))
	weight := 1 / (wLight + 1 + wCamera)

	lightPoint := sp.position.Add(illumination.Direction.Multiply(illumination.Distance))
	if v.scene.Occluded(sp.position, lightPoint) {
		return core.Spectrum{}
	}
	v.metrics.lightConnects.Inc()

	contribution, _ := sanitize(illumination.Radiance.
		MultiplyVec(f).
		MultiplyVec(v.transmittance(illumination.Distance, wl)).
		Multiply(weight * cosToLight / (pick * illumination.DirectPdfW)))
	return contribution
}

// connectVertices joins an eye vertex with a stored light vertex. The result
// excludes both subpath throughputs.
func (v *VCM) connectVertices(lightVertex *pathspace.Vertex, s *subpath, sp scatterPoint, wl core.WavelengthSample) core.Spectrum {
	lp := vertexPoint(lightVertex)
	toLight := lp.position.Subtract(sp.position)
	distSquared := toLight.LengthSquared()
	if distSquared == 0 {
		return core.Spectrum{}
	}
	distance := math.Sqrt(distSquared)
	direction := toLight.Multiply(1 / distance)

	cameraF, cosCamera, cameraDirPdfW, cameraRevPdfW, ok := sp.evaluateValid(direction, wl, core.TransportRadiance)
	if !ok {
		return core.Spectrum{}
	}
	cameraSurvival := sp.continuation(wl)
	cameraDirPdfW *= cameraSurvival
	cameraRevPdfW *= cameraSurvival

	lightF, cosLight, lightDirPdfW, lightRevPdfW, ok := lp.evaluateValid(direction.Negate(), wl, core.TransportImportance)
	if !ok {
		return core.Spectrum{}
	}
	lightSurvival := lp.continuation(wl)
	lightDirPdfW *= lightSurvival
	lightRevPdfW *= lightSurvival

	geometry := cosCamera * cosLight / distSquared

	cameraDirPdfA := core.SolidAnglePDF(cameraDirPdfW).ToArea(distSquared, cosLight).Value
	lightDirPdfA := core.SolidAnglePDF(lightDirPdfW).ToArea(distSquared, cosCamera).Value

	wLight := mis(cameraDirPdfA) * (v.vmWeightAt(lp) + lightVertex.DVCM + lightVertex.DVC*mis(lightRevPdfW))
	wCamera := mis(lightDirPdfA) * (v.vmWeightAt(sp) + s.dVCM + s.dVC*mis(cameraRevPdfW))
	weight := 1 / (wLight + 1 + wCamera)

	if v.scene.Occluded(sp.position, lp.position) {
		return core.Spectrum{}
	}
	v.metrics.vertexConnects.Inc()

	contribution, _ := sanitize(cameraF.MultiplyVec(lightF).
		MultiplyVec(v.transmittance(distance, wl)).
		Multiply(weight * geometry))
	return contribution
}

// merge gathers the stored surface light vertices within the pass radius of
// an eye surface vertex. The result excludes the eye throughput and the
// density normalization.
func (v *VCM) merge(s *subpath, sp scatterPoint, wl core.WavelengthSample) core.Spectrum {
	var contribution core.Spectrum
	cameraSurvival := sp.continuation(wl)

	v.grid.Query(sp.position, func(lightVertex *pathspace.Vertex, distSquared float64) {
		if lightVertex.Hit == nil {
			return
		}
		if int(lightVertex.PathLength+s.pathLength) > v.config.MaxPathLength {
			return
		}

		// the light vertex's incoming direction is the photon's, reversed
		f, _, cameraDirPdfW, cameraRevPdfW, ok := sp.evaluateValid(lightVertex.IncomingDirection, wl, core.TransportRadiance)
		if !ok {
			return
		}
		cameraDirPdfW *= cameraSurvival
		cameraRevPdfW *= continuation(lightVertex.Hit, wl)

		weight := 1.0
		if !v.ppm() {
			wLight := lightVertex.DVCM*v.globals.VCWeight + lightVertex.DVM*mis(cameraDirPdfW)
			wCamera := s.dVCM*v.globals.VCWeight + s.dVM*mis(cameraRevPdfW)
			weight = 1 / (wLight + 1 + wCamera)
		}

		term, ok := sanitize(f.MultiplyVec(lightVertex.Throughput).Multiply(weight))
		if !ok {
			return
		}
		merges.Inc()
		contribution = contribution.Add(term)
	})

	return contribution
}
