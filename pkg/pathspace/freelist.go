package pathspace

// Freelist recycles values of one type so the hot path does not allocate.
// It is not safe for concurrent use: each worker owns its freelists.
type Freelist[T any] struct {
	free     []*T
	capacity int // 0 means unbounded
	live     int
}

// NewFreelist creates a freelist. A positive capacity bounds the number of
// values handed out at the same time.
func NewFreelist[T any](capacity int) *Freelist[T] {
	return &Freelist[T]{capacity: capacity}
}

// Get returns a zeroed value, or nil once capacity values are live
func (f *Freelist[T]) Get() *T {
	if f.capacity > 0 && f.live >= f.capacity {
		return nil
	}
	f.live++
	if n := len(f.free); n > 0 {
		v := f.free[n-1]
		f.free = f.free[:n-1]
		var zero T
		*v = zero
		return v
	}
	return new(T)
}

// Put returns a value to the freelist
func (f *Freelist[T]) Put(v *T) {
	if v == nil {
		return
	}
	f.live--
	f.free = append(f.free, v)
}

// Live returns the number of values handed out and not yet returned
func (f *Freelist[T]) Live() int {
	return f.live
}
