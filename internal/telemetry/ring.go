package telemetry

// ring is a fixed-capacity FIFO buffer. Pushing beyond capacity evicts the
// oldest entry, so the buffer always holds the most recent window in
// insertion order. Both the operation-history and network-sample stores are
// built on it so the eviction invariant lives in one place.
type ring[T any] struct {
	buf  []T
	head int // index of the oldest entry
	size int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &ring[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry when full.
func (r *ring[T]) Push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

func (r *ring[T]) Len() int {
	return r.size
}

func (r *ring[T]) Cap() int {
	return len(r.buf)
}

// Items returns a copy of the buffered entries, oldest first.
func (r *ring[T]) Items() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Last returns the most recently pushed entry.
func (r *ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.head+r.size-1)%len(r.buf)], true
}

// LastN returns up to n of the most recent entries, oldest first.
func (r *ring[T]) LastN(n int) []T {
	if n > r.size {
		n = r.size
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head+r.size-n+i)%len(r.buf)]
	}
	return out
}
