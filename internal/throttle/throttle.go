package throttle

import "sync"

// Latest keeps only the most recent value submitted since the last Take.
// The caller decides the window by when it calls Take, usually on a ticker.
type Latest[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
}

func (l *Latest[T]) Submit(v T) {
	l.mu.Lock()
	l.value = v
	l.set = true
	l.mu.Unlock()
}

// Take returns the pending value and clears it. ok is false when nothing was
// submitted in the window.
func (l *Latest[T]) Take() (v T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.set {
		return v, false
	}
	v, ok = l.value, true
	var zero T
	l.value = zero
	l.set = false
	return v, ok
}

// Pending reports whether a value is waiting without consuming it.
func (l *Latest[T]) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}
