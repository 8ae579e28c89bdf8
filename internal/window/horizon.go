package window

// Exported constants.
const (
	// DefaultHorizon is the retention horizon in seconds for ordinary backups.
	DefaultHorizon = 30
	// DefaultInitialHorizon is the retention horizon in seconds once an initial
	// backup has been seen.
	DefaultInitialHorizon = 90
)

// Horizon selects the retention horizon. It starts at the default and widens
// to the initial-backup horizon the first time an initial backup is reported;
// it never narrows again.
type Horizon struct {
	defaultSeconds int64
	initialSeconds int64
	initial        bool
}

// NewHorizon creates a Horizon. Non-positive arguments use the package defaults.
func NewHorizon(defaultSeconds, initialSeconds int64) *Horizon {
	if defaultSeconds <= 0 {
		defaultSeconds = DefaultHorizon
	}

	if initialSeconds <= 0 {
		initialSeconds = DefaultInitialHorizon
	}

	return &Horizon{defaultSeconds: defaultSeconds, initialSeconds: initialSeconds}
}

// Initial reports whether an initial backup has been observed.
func (h *Horizon) Initial() bool {
	return h.initial
}

// Observe records whether the current snapshot is an initial backup and
// returns the horizon to use for this tick.
func (h *Horizon) Observe(isInitialBackup bool) int64 {
	if isInitialBackup {
		h.initial = true
	}

	return h.Seconds()
}

// Seconds returns the current horizon.
func (h *Horizon) Seconds() int64 {
	if h.initial {
		return h.initialSeconds
	}

	return h.defaultSeconds
}
