package pathspace

import "github.com/df07/go-pathspace-renderer/pkg/core"

// ResultKind says whether a result belongs to the requesting pixel or is splatted
type ResultKind int

const (
	// EyePath results belong to the pixel whose sample produced them
	EyePath ResultKind = iota
	// LightPath results land on the pixel at Raster
	LightPath
)

// Result is one radiance contribution. Results form a singly linked list.
type Result struct {
	Kind       ResultKind
	Raster     core.Vec2
	Radiance   core.Spectrum
	Wavelength core.WavelengthSample
	Next       *Result
}

// ResultPool recycles result nodes
type ResultPool struct {
	results *Freelist[Result]
}

// NewResultPool creates an unbounded pool
func NewResultPool() *ResultPool {
	return &ResultPool{results: NewFreelist[Result](0)}
}

// Prepend creates a result in front of head and returns the new head
func (p *ResultPool) Prepend(head *Result, kind ResultKind, raster core.Vec2, radiance core.Spectrum, wl core.WavelengthSample) *Result {
	r := p.results.Get()
	r.Kind = kind
	r.Raster = raster
	r.Radiance = radiance
	r.Wavelength = wl
	r.Next = head
	return r
}

// Release returns every node of the list to the pool
func (p *ResultPool) Release(head *Result) {
	for head != nil {
		next := head.Next
		p.results.Put(head)
		head = next
	}
}

// Live returns the number of nodes not yet released
func (p *ResultPool) Live() int {
	return p.results.Live()
}

// Append joins two lists and returns the combined head
func Append(head, tail *Result) *Result {
	if head == nil {
		return tail
	}
	last := head
	for last.Next != nil {
		last = last.Next
	}
	last.Next = tail
	return head
}
