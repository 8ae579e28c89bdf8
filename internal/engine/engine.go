// Package engine turns a stream of backup status snapshots into smoothed
// progress rows.
//
// An Engine is owned by a single control loop and is not safe for concurrent
// use. Each call to Process folds one snapshot into the engine's windows and
// returns the row for it.
package engine

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/joe/tm-monitor/internal/snapshot"
	"github.com/joe/tm-monitor/internal/window"
)

// Exported constants.
const (
	// DecimalUnit is the unit base for SI sizes (1 GB = 1000³ bytes).
	DecimalUnit = 1000
	// BinaryUnit is the unit base for binary sizes (1 GB = 1024³ bytes).
	BinaryUnit = 1024
)

// Exported variables.
var (
	ErrInvalidPattern = errors.New("invalid phase pattern")
	ErrInvalidUnit    = errors.New("unit must be 1000 or 1024")
)

// DefaultThinningPatterns match the phases that report deletion progress
// rather than copy progress.
//
//nolint:gochecknoglobals // Read-only default shared with config
var DefaultThinningPatterns = []string{"*Thinning*", "*Deleting*"}

// Options configures a new Engine.
type Options struct {
	Unit             int64       // 1000 or 1024
	Window           int64       // Default retention horizon in seconds
	InitialWindow    int64       // Horizon once an initial backup is seen
	ThinningPatterns []string    // Glob patterns for thinning phases (default: DefaultThinningPatterns)
	Logger           *zap.Logger // Diagnostics (default: no-op)
}

// Engine holds the smoothing state carried between snapshots.
type Engine struct {
	unit     int64
	horizon  *window.Horizon
	bytes    window.Window[int64]
	files    window.Window[int64]
	etas     window.Window[int64]
	phases   PhaseTracker
	thinning PhaseClassifier
	batch    StableBatchTotal
	logger   *zap.Logger
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Unit != DecimalUnit && opts.Unit != BinaryUnit {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidUnit, opts.Unit)
	}

	patterns := opts.ThinningPatterns
	if len(patterns) == 0 {
		patterns = DefaultThinningPatterns
	}

	classifier, err := NewPhaseClassifier(patterns)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		unit:     opts.Unit,
		horizon:  window.NewHorizon(opts.Window, opts.InitialWindow),
		thinning: classifier,
		logger:   logger,
	}, nil
}

// Horizon returns the retention horizon currently in effect, in seconds.
func (e *Engine) Horizon() int64 {
	return e.horizon.Seconds()
}

// Process folds snap, observed at now (Unix seconds), into the engine and
// returns its row.
func (e *Engine) Process(snap snapshot.Snapshot, now int64) Row {
	horizon := e.horizon.Observe(snap.FirstBackup)

	if e.phases.Observe(snap.Phase) {
		e.etas.Clear()
		e.logger.Debug("phase changed, ETA history cleared", zap.String("phase", snap.Phase))
	}

	e.bytes.Append(now, snap.BytesCopied)
	e.files.Append(now, snap.FilesCopied)
	e.bytes.Prune(now, horizon)
	e.files.Prune(now, horizon)

	row := newRow(now, snap)
	rates := e.rates()
	row.Speed = rates.speed
	row.FilesPerSec = rates.filesPerSec
	row.BytesPerSec = rates.bytesPerSec

	progress := e.reconcile(snap, now, horizon, rates.bytesPerSec)
	row.CopiedBatch = progress.copiedBatch
	row.PctBatch = progress.pctBatch
	row.CopiedTotal = progress.copiedTotal
	row.PctTotal = progress.pctTotal
	row.ETA = progress.eta

	return row
}

// isThinning reports whether phase reports deletion progress.
func (e *Engine) isThinning(phase string) bool {
	return e.thinning.Match(phase)
}

// validatePatterns checks every pattern is a well-formed glob.
func validatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
	}

	return nil
}
