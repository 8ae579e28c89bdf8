package engine

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/joe/tm-monitor/internal/snapshot"
	"github.com/joe/tm-monitor/pkg/formatters"
)

// Exported constants.
const (
	// PercentageScale converts a 0-1 ratio to a percentage.
	PercentageScale = 100.0
	// ThinningLabel replaces the batch progress while old backups are removed.
	ThinningLabel = "Thinning"
)

// Exported variables.
var (
	ErrNonFinite = errors.New("non-finite intermediate value")
)

// StableBatchTotal holds the estimated size of the current batch. A new
// estimate replaces the held one only when none is held or it differs by
// more than one GB of the configured unit.
//
// The held value is never reset between backup runs.
type StableBatchTotal struct {
	held float64
}

// Stabilize returns the batch total to use for estimate.
func (s *StableBatchTotal) Stabilize(estimate float64, unit int64) float64 {
	if s.held == 0 || math.Abs(estimate-s.held) > formatters.Cube(unit) {
		s.held = estimate
	}

	return s.held
}

// Value returns the held estimate, zero when none is held.
func (s *StableBatchTotal) Value() float64 {
	return s.held
}

// progressFields holds the rendered batch and total progress of one tick.
type progressFields struct {
	copiedBatch string
	pctBatch    string
	copiedTotal string
	pctTotal    string
	eta         string
}

func missingProgress() progressFields {
	return progressFields{
		copiedBatch: formatters.Missing,
		pctBatch:    formatters.Missing,
		copiedTotal: formatters.Missing,
		pctTotal:    formatters.Missing,
		eta:         formatters.Missing,
	}
}

// reconcile derives batch and overall progress for snap.
func (e *Engine) reconcile(snap snapshot.Snapshot, now, horizon, bytesPerSec int64) progressFields {
	switch {
	case e.isThinning(snap.Phase):
		return e.thinningProgress(snap)
	case snap.Percent > 0 && snap.Percent <= 1 && snap.BytesCopied > 0 && snap.TotalBytes > 0:
		fields, err := e.copyingProgress(snap, now, horizon, bytesPerSec)
		if err != nil {
			e.logger.Error("calculation error", zap.Error(err), zap.String("phase", snap.Phase))

			return missingProgress()
		}

		return fields
	default:
		return missingProgress()
	}
}

// thinningProgress reports deletion progress against the total.
func (e *Engine) thinningProgress(snap snapshot.Snapshot) progressFields {
	fields := missingProgress()
	if snap.BytesCopied <= 0 || snap.TotalBytes <= 0 {
		return fields
	}

	bytes := float64(snap.BytesCopied)
	total := float64(snap.TotalBytes)

	fields.copiedTotal = formatters.FormatProgress(bytes, total, e.unit)
	fields.pctTotal = formatters.FormatPercent(clampPercent(bytes / total * PercentageScale))
	fields.copiedBatch = ThinningLabel

	return fields
}

// copyingProgress reconciles progress within the current batch with progress
// across the whole backup. Batches before the current one are assumed to be
// complete, so the copied total is everything outside the batch plus what the
// batch has copied so far.
func (e *Engine) copyingProgress(snap snapshot.Snapshot, now, horizon, bytesPerSec int64) (progressFields, error) {
	fields := missingProgress()

	bytes := float64(snap.BytesCopied)
	total := float64(snap.TotalBytes)

	estimate := bytes / snap.Percent
	if !isFinite(estimate) {
		return fields, fmt.Errorf("batch total %v/%v: %w", bytes, snap.Percent, ErrNonFinite)
	}

	batchTotal := e.batch.Stabilize(estimate, e.unit)
	fields.copiedBatch = formatters.FormatProgress(bytes, batchTotal, e.unit)

	batchPct := 0.0
	if batchTotal > 0 {
		batchPct = bytes / batchTotal * PercentageScale
	}

	fields.pctBatch = formatters.FormatPercent(e.clampWarn("batch", batchPct))

	copiedTotal := math.Min(math.Max(0, (total-batchTotal)+bytes), total)
	if !isFinite(copiedTotal) {
		return missingProgress(), fmt.Errorf("copied total: %w", ErrNonFinite)
	}

	fields.copiedTotal = formatters.FormatProgress(copiedTotal, total, e.unit)
	fields.pctTotal = formatters.FormatPercent(e.clampWarn("total", copiedTotal/total*PercentageScale))
	fields.eta = e.smoothedETA(now, horizon, bytesPerSec, snap.TotalBytes, int64(copiedTotal))

	return fields, nil
}

// clampWarn clamps percent to [0, 100], logging a warning when it was above 100.
func (e *Engine) clampWarn(name string, percent float64) float64 {
	if percent > PercentageScale {
		e.logger.Warn(
			"percent above 100%, clamping",
			zap.String("field", name),
			zap.String("raw", fmt.Sprintf("%.2f%%", percent)),
		)
	}

	return clampPercent(percent)
}

func clampPercent(percent float64) float64 {
	return math.Max(0, math.Min(PercentageScale, percent))
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
