package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// TransportMode tells a material whether the path carries radiance (from the
// camera) or importance (from a light)
type TransportMode int

const (
	TransportRadiance TransportMode = iota
	TransportImportance
)

// SurfaceInteraction describes a ray hit. Normal faces the side the ray came from.
type SurfaceInteraction struct {
	Point     Vec3
	Normal    Vec3
	T         float64
	FrontFace bool
	Material  Material
	Light     Light // non-nil when the surface is an emitter
}

// SetFaceNormal orients the normal against the incoming ray direction
func (si *SurfaceInteraction) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	si.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if si.FrontFace {
		si.Normal = outwardNormal
	} else {
		si.Normal = outwardNormal.Negate()
	}
}

// BSDFSample is the result of sampling a material.
// F excludes the cosine term; PDF and ReversePDF are solid angle densities.
type BSDFSample struct {
	Direction  Vec3
	F          Spectrum
	PDF        float64
	ReversePDF float64
	Specular   bool
}

// Material is the attenuation contract the integrators consume.
// wo points away from the surface toward the previous path vertex.
type Material interface {
	Sample(wo Vec3, hit *SurfaceInteraction, wl WavelengthSample, mode TransportMode, u Vec2) (BSDFSample, bool)
	// Evaluate returns f(wo, wi) and the solid angle densities of sampling wi
	// from wo (forward) and wo from wi (reverse). Specular materials return zero.
	Evaluate(wo, wi Vec3, hit *SurfaceInteraction, wl WavelengthSample, mode TransportMode) (Spectrum, float64, float64)
	ContinuationProbability(hit *SurfaceInteraction, wl WavelengthSample) float64
}

// DeltaMaterial is implemented by materials that scatter into a single
// direction. Connections and merges skip their vertices.
type DeltaMaterial interface {
	IsDelta() bool
}

// Illumination is a light point sampled toward a receiver
type Illumination struct {
	Radiance     Spectrum // emitted toward the receiver, not divided by any pdf
	Direction    Vec3     // receiver to light, normalized
	Distance     float64
	DirectPdfW   float64 // solid angle density at the receiver
	EmissionPdfW float64 // density of the light emitting along this direction
	CosAtLight   float64
}

// Emission is a ray leaving a light
type Emission struct {
	Point        Vec3
	Normal       Vec3
	Direction    Vec3
	Radiance     Spectrum
	EmissionPdfW float64 // position density times direction density
	DirectPdfA   float64 // area density of picking Point in Illuminate
	CosAtLight   float64
}

// LightHit is the emission seen by a ray that hits a light
type LightHit struct {
	Radiance     Spectrum
	DirectPdfA   float64
	EmissionPdfW float64
}

// Light is a finite emitter. Densities exclude the light selection probability.
type Light interface {
	IsDelta() bool
	Power() float64
	Illuminate(receiver Vec3, wl WavelengthSample, u Vec2) (Illumination, bool)
	Emit(wl WavelengthSample, uPosition, uDirection Vec2) (Emission, bool)
	// Radiance evaluates the light at a point hit by a ray travelling along rayDirection
	Radiance(point, rayDirection Vec3, wl WavelengthSample) (LightHit, bool)
}

// LightSampler picks emitters for both next event estimation and emission
type LightSampler interface {
	Lights() []Light
	Pick(u float64) (Light, float64)
	PickProbability(light Light) float64
}

// Shape is anything a ray can hit
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*SurfaceInteraction, bool)
	BoundingBox() AABB
}

// RayCaster answers visibility queries against the scene
type RayCaster interface {
	CastRay(ray Ray, tMin, tMax float64) (*SurfaceInteraction, bool)
	Occluded(from, to Vec3) bool
	Bounds() AABB
}

// CameraConnection describes a point projected onto the camera
type CameraConnection struct {
	Raster    Vec2
	Direction Vec3 // from the point toward the camera, normalized
	Distance  float64
	Position  Vec3 // point on the camera the connection ends at
	// Density is the film sampling density for this direction, in the camera's
	// measure: solid angle for a pinhole, area for an orthographic film
	Density float64
}

// Camera generates primary rays and accepts light connections
type Camera interface {
	Resolution() (int, int)
	GenerateRay(raster Vec2) Ray
	// RayPDF is the film sampling density of a primary ray, in Measure()
	RayPDF(direction Vec3) float64
	Measure() Measure
	Forward() Vec3
	Connect(point Vec3) (CameraConnection, bool)
}
