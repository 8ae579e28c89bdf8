// Package window holds short, time-bounded sample histories used to smooth
// noisy progress counters.
package window

// Sample is a value observed at a timestamp in whole seconds.
type Sample[T any] struct {
	Timestamp int64
	Value     T
}

// Window is an arrival-ordered sequence of samples pruned by age.
// The zero value is an empty window ready for use.
type Window[T any] struct {
	samples []Sample[T]
}

// Append adds a sample after every sample already held.
func (w *Window[T]) Append(timestamp int64, value T) {
	w.samples = append(w.samples, Sample[T]{Timestamp: timestamp, Value: value})
}

// Clear drops every sample.
func (w *Window[T]) Clear() {
	w.samples = w.samples[:0]
}

// Len returns the number of retained samples.
func (w *Window[T]) Len() int {
	return len(w.samples)
}

// Newest returns the most recent sample.
func (w *Window[T]) Newest() (Sample[T], bool) {
	if len(w.samples) == 0 {
		return Sample[T]{}, false
	}

	return w.samples[len(w.samples)-1], true
}

// Oldest returns the earliest retained sample.
func (w *Window[T]) Oldest() (Sample[T], bool) {
	if len(w.samples) == 0 {
		return Sample[T]{}, false
	}

	return w.samples[0], true
}

// Prune drops every sample older than now-horizon. A sample exactly at the
// cutoff is kept.
func (w *Window[T]) Prune(now, horizon int64) {
	cutoff := now - horizon
	filtered := w.samples[:0] // Reuse underlying array
	for _, sample := range w.samples {
		if sample.Timestamp >= cutoff {
			filtered = append(filtered, sample)
		}
	}

	var zero Sample[T]
	for i := len(filtered); i < len(w.samples); i++ {
		w.samples[i] = zero
	}

	w.samples = filtered
}

// Samples returns a copy of the retained samples, oldest first.
func (w *Window[T]) Samples() []Sample[T] {
	out := make([]Sample[T], len(w.samples))
	copy(out, w.samples)

	return out
}
