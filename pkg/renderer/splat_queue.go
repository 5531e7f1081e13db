package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/df07/go-pathspace-renderer/pkg/core"
)

// Splat is a light path contribution with pre-computed pixel coordinates
type Splat struct {
	X, Y int       // Pixel coordinates (computed when enqueuing)
	XYZ  core.Vec3 // CIE XYZ contribution
}

// SplatQueue collects light path contributions from every worker during a
// pass. Appends are lock-free unless the buffer has to grow.
type SplatQueue struct {
	splats []Splat       // Pre-allocated buffer for lock-free appends
	length int64         // Atomic counter for current length
	mu     sync.RWMutex // Writers share the lock; growing the buffer takes it exclusively
}

// NewSplatQueue creates a new splat queue with pre-allocated buffer
func NewSplatQueue() *SplatQueue {
	return &SplatQueue{
		splats: make([]Splat, 50000), // Start with reasonable buffer size
	}
}

// AddSplat adds a contribution to the pixel containing the raster position
func (sq *SplatQueue) AddSplat(raster core.Vec2, xyz core.Vec3) {
	splat := Splat{X: int(raster.X), Y: int(raster.Y), XYZ: xyz}
	index := int(atomic.AddInt64(&sq.length, 1) - 1)

	// Fast path: the slot is already allocated
	sq.mu.RLock()
	if index < len(sq.splats) {
		sq.splats[index] = splat
		sq.mu.RUnlock()
		return
	}
	sq.mu.RUnlock()

	// Slow path: grow until the slot exists; another writer may already have
	sq.mu.Lock()
	defer sq.mu.Unlock()
	for index >= len(sq.splats) {
		grown := make([]Splat, len(sq.splats)*2)
		copy(grown, sq.splats)
		sq.splats = grown
	}
	sq.splats[index] = splat
}

// Drain calls fn for every pending splat and empties the queue. It must not
// run concurrently with AddSplat.
func (sq *SplatQueue) Drain(fn func(Splat)) {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	length := int(atomic.LoadInt64(&sq.length))
	for _, splat := range sq.splats[:length] {
		fn(splat)
	}
	atomic.StoreInt64(&sq.length, 0)
}

// Count returns the current number of pending splats
func (sq *SplatQueue) Count() int {
	return int(atomic.LoadInt64(&sq.length))
}

// Clear removes all pending splats
func (sq *SplatQueue) Clear() {
	atomic.StoreInt64(&sq.length, 0) // length controls access, the buffer is reused
}
