package engine

import (
	"github.com/joe/tm-monitor/internal/window"
	"github.com/joe/tm-monitor/pkg/formatters"
)

// rateFields holds the rendered throughput of one tick.
type rateFields struct {
	speed       string
	filesPerSec string
	bytesPerSec int64
}

// rates computes throughput from the endpoints of the byte and file windows.
func (e *Engine) rates() rateFields {
	fields := rateFields{speed: formatters.Missing, filesPerSec: formatters.Missing}

	if delta, ok := window.Span(&e.bytes); ok {
		fields.bytesPerSec = delta.PerSecond()
		fields.speed = formatters.FormatSpeed(delta.Value, delta.Seconds, e.unit)
	}

	if delta, ok := window.Span(&e.files); ok {
		fields.filesPerSec = formatters.FormatFileRate(delta.Rate())
	}

	return fields
}

// etaSeconds returns the instantaneous time remaining at bytesPerSec.
func etaSeconds(bytesPerSec, totalBytes, copiedBytes int64) (int64, bool) {
	if bytesPerSec <= 0 || totalBytes <= 0 {
		return 0, false
	}

	remaining := max(0, totalBytes-copiedBytes)

	return remaining / bytesPerSec, true
}

// InstantETA renders the unsmoothed time remaining, or Missing when no rate
// or total is known.
func InstantETA(bytesPerSec, totalBytes, copiedBytes int64) string {
	seconds, ok := etaSeconds(bytesPerSec, totalBytes, copiedBytes)
	if !ok {
		return formatters.Missing
	}

	return formatters.FormatClock(seconds)
}

// smoothedETA records the instantaneous ETA in the ETA window and renders the
// recency-weighted mean of the retained samples.
func (e *Engine) smoothedETA(now, horizon, bytesPerSec, totalBytes, copiedBytes int64) string {
	seconds, ok := etaSeconds(bytesPerSec, totalBytes, copiedBytes)
	if !ok {
		return formatters.Missing
	}

	e.etas.Append(now, seconds)
	e.etas.Prune(now, horizon)

	mean, ok := window.WeightedMean(&e.etas)
	if !ok {
		return formatters.Missing
	}

	return formatters.FormatClock(mean)
}
