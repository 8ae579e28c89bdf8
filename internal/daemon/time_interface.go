package daemon

import "time"

// FixedTimeProvider is a TimeProvider that returns a settable instant, for tests.
type FixedTimeProvider struct {
	Current time.Time
}

// Advance moves the provider's clock forward by d.
func (f *FixedTimeProvider) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}

// Now returns the current instant.
func (f *FixedTimeProvider) Now() time.Time {
	return f.Current
}

// RealTimeProvider implements TimeProvider using real time functions.
type RealTimeProvider struct{}

// Now returns the current time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// TimeProvider provides the current time for dependency injection.
type TimeProvider interface {
	Now() time.Time
}
