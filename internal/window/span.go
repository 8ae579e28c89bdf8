package window

// Counter is the set of value types a rate can be computed over.
type Counter interface {
	~int | ~int32 | ~int64
}

// Delta is the change between the oldest and newest samples of a window.
type Delta struct {
	Seconds int64
	Value   int64
}

// PerSecond returns Value/Seconds truncated toward zero.
func (d Delta) PerSecond() int64 {
	return d.Value / d.Seconds
}

// Rate returns Value/Seconds as a float.
func (d Delta) Rate() float64 {
	return float64(d.Value) / float64(d.Seconds)
}

// Span returns the delta between the oldest and newest samples of w. It is
// unavailable with fewer than two samples, when no time has passed between
// them, or when the counter went backwards.
func Span[T Counter](w *Window[T]) (Delta, bool) {
	if w.Len() < 2 { //nolint:mnd // A rate needs two endpoints
		return Delta{}, false
	}

	oldest, _ := w.Oldest()
	newest, _ := w.Newest()

	delta := Delta{
		Seconds: newest.Timestamp - oldest.Timestamp,
		Value:   int64(newest.Value) - int64(oldest.Value),
	}
	if delta.Seconds <= 0 || delta.Value < 0 {
		return Delta{}, false
	}

	return delta, true
}

// WeightedMean returns the mean of the window's values where the i-th oldest
// sample has weight i+1, truncated toward zero.
func WeightedMean[T Counter](w *Window[T]) (int64, bool) {
	if w.Len() == 0 {
		return 0, false
	}

	var weightedSum, totalWeight float64
	for i, sample := range w.samples {
		weight := float64(i + 1)
		weightedSum += float64(sample.Value) * weight
		totalWeight += weight
	}

	return int64(weightedSum / totalWeight), true
}
