package material

import "github.com/df07/go-pathspace-renderer/pkg/core"

// facingNormal returns the surface normal flipped onto the side of wo
func facingNormal(wo core.Vec3, hit *core.SurfaceInteraction) core.Vec3 {
	if wo.Dot(hit.Normal) < 0 {
		return hit.Normal.Negate()
	}
	return hit.Normal
}

// reflect mirrors wo about the normal n
func reflect(wo, n core.Vec3) core.Vec3 {
	return n.Multiply(2 * wo.Dot(n)).Subtract(wo)
}

// maxReflectance is the largest channel of a reflectance curve, clamped to [0, 1]
func maxReflectance(curve core.SpectralCurve, wl core.WavelengthSample) float64 {
	return max(0, min(1, core.SampleCurve(curve, wl).MaxComponent()))
}
