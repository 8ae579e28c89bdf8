// Package formatters renders progress values as the fixed-field text the
// monitor script expects.
package formatters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Exported constants.
const (
	// FieldSeparator joins the fields of an output row.
	FieldSeparator = "|"
	// Missing marks a field that could not be computed.
	Missing = "-"
	// OverADay is shown instead of clock text for ETAs of a day or more.
	OverADay = "> 24:00:00"
	// SecondsPerDay is the ETA ceiling for clock rendering.
	SecondsPerDay = 86400
	// SecondsPerHour is the number of seconds in an hour.
	SecondsPerHour = 3600
	// SecondsPerMinute is the number of seconds in a minute.
	SecondsPerMinute = 60
)

// FormatClock formats a duration in whole seconds as H:MM:SS, or OverADay when
// it reaches 24 hours. Negative values render as Missing.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		return Missing
	}

	if seconds >= SecondsPerDay {
		return OverADay
	}

	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	secs := seconds % SecondsPerMinute

	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
}

// FormatFileRate formats a files-per-second rate (e.g., "3.50/s").
func FormatFileRate(filesPerSec float64) string {
	return fmt.Sprintf("%.2f/s", filesPerSec)
}

// FormatFloat formats a float the way the monitor script has always received
// it: shortest round-trip digits, a trailing ".0" for integral values, and
// exponent form below 1e-4 or from 1e16 upward.
func FormatFloat(value float64) string {
	switch {
	case math.IsNaN(value):
		return "nan"
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	}

	if value == 0 {
		if math.Signbit(value) {
			return "-0.0"
		}

		return "0.0"
	}

	const (
		minFixedExponent = -4
		maxFixedExponent = 16
	)

	scientific := strconv.FormatFloat(value, 'e', -1, 64)

	exponent := 0
	if idx := strings.IndexByte(scientific, 'e'); idx >= 0 {
		exponent, _ = strconv.Atoi(scientific[idx+1:])
	}

	if exponent < minFixedExponent || exponent >= maxFixedExponent {
		return scientific
	}

	fixed := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}

	return fixed
}

// FormatGB formats a byte count as gigabytes of the given unit base.
func FormatGB(bytes float64, unit int64) string {
	return fmt.Sprintf("%.2f GB", bytes/Cube(unit))
}

// FormatPercent formats a percentage padded to six characters (e.g., " 42.00%").
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%6.2f%%", percent)
}

// FormatProgress formats copied and total bytes as "X.XX GB / Y.YY GB".
func FormatProgress(copied, total float64, unit int64) string {
	return FormatGB(copied, unit) + " / " + FormatGB(total, unit)
}

// FormatSpeed formats a byte delta over a time delta as megabytes per second
// of the given unit base (e.g., "12.34 MB/s").
func FormatSpeed(deltaBytes, deltaSeconds, unit int64) string {
	bytesPerSec := float64(deltaBytes) / float64(deltaSeconds)

	return fmt.Sprintf("%.2f MB/s", bytesPerSec/Square(unit))
}

// JoinFields joins row fields with FieldSeparator.
func JoinFields(fields []string) string {
	return strings.Join(fields, FieldSeparator)
}

// Cube returns unit³ as a float.
func Cube(unit int64) float64 {
	u := float64(unit)

	return u * u * u
}

// Square returns unit² as a float.
func Square(unit int64) float64 {
	u := float64(unit)

	return u * u
}
