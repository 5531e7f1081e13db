package pathspace

import (
	"errors"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// ErrArenaExhausted is returned when a vertex arena reaches its capacity
var ErrArenaExhausted = errors.New("pathspace: vertex arena exhausted")

// Vertex is one scattering event of a light or eye subpath together with the
// running quantities needed to weight any strategy that ends at it
type Vertex struct {
	Hit        *core.SurfaceInteraction // nil for vertices on lights or in media
	PathLength uint                     // number of segments from the subpath origin

	Throughput  core.Spectrum // product of f*cos/pdf along the subpath
	Light       core.Spectrum // emission sampled at this vertex
	Attenuation core.Spectrum // last attenuation (BSDF or medium) applied

	PathPDF             core.PDF // density of the subpath up to this vertex
	BasicPDF            core.PDF // density of the last sampling decision alone
	CameraConnectionPDF core.PDF // density of the camera generating this vertex

	// recursive MIS quantities
	DVCM float64
	DVC  float64
	DVM  float64

	IncomingWavelength core.WavelengthSample
	OutgoingWavelength core.WavelengthSample
	CameraWavelength   core.WavelengthSample

	Occluded   bool
	IsSpecular bool
	IsEnd      bool

	WorldNormal       core.Vec3
	IncomingDirection core.Vec3 // points away from the vertex toward the previous one
	Point             core.Vec3
}

// Position returns the world position of the vertex
func (v *Vertex) Position() core.Vec3 {
	return v.Point
}

// reset makes the vertex neutral: unit densities, unit throughput
func (v *Vertex) reset() {
	*v = Vertex{
		Throughput:          core.NewVec3(1, 1, 1),
		PathPDF:             core.AreaPDF(1),
		BasicPDF:            core.SolidAnglePDF(1),
		CameraConnectionPDF: core.AreaPDF(1),
	}
}

// Arena allocates vertices for subpath construction
type Arena struct {
	vertices *Freelist[Vertex]
}

// NewArena creates an arena. A positive capacity bounds the live vertices.
func NewArena(capacity int) *Arena {
	return &Arena{vertices: NewFreelist[Vertex](capacity)}
}

// Allocate returns a neutral vertex
func (a *Arena) Allocate() (*Vertex, error) {
	v := a.vertices.Get()
	if v == nil {
		return nil, ErrArenaExhausted
	}
	v.reset()
	return v, nil
}

// Release returns a vertex to the arena
func (a *Arena) Release(v *Vertex) {
	a.vertices.Put(v)
}

// ReleaseAll returns every vertex of the slice and empties it
func (a *Arena) ReleaseAll(vertices []*Vertex) []*Vertex {
	for _, v := range vertices {
		a.vertices.Put(v)
	}
	return vertices[:0]
}

// Live returns the number of allocated vertices
func (a *Arena) Live() int {
	return a.vertices.Live()
}
