package snapshot

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Exported variables.
var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrNullField     = errors.New("field is null")
	ErrOutOfRange    = errors.New("number out of range")
	ErrWrongType     = errors.New("field has wrong type")
)

// extractor reads fields with zero defaults and keeps the first failure.
type extractor struct {
	err error
}

func (x *extractor) float(fields map[string]any, key string) float64 {
	raw, present := fields[key]
	if !present || x.err != nil {
		return 0
	}

	value, err := toFloat(raw)
	if err != nil {
		x.err = fmt.Errorf("%s: %w", key, err)
		return 0
	}

	return value
}

func (x *extractor) integer(fields map[string]any, key string) int64 {
	raw, present := fields[key]
	if !present || x.err != nil {
		return 0
	}

	value, err := toInt(raw)
	if err != nil {
		x.err = fmt.Errorf("%s: %w", key, err)
		return 0
	}

	return value
}

// toFloat accepts numbers, booleans and numeric strings.
func toFloat(raw any) (float64, error) {
	switch value := raw.(type) {
	case json.Number:
		return parseFloat(value.String())
	case string:
		return parseFloat(strings.TrimSpace(value))
	case bool:
		if value {
			return 1, nil
		}

		return 0, nil
	case nil:
		return 0, ErrNullField
	default:
		return 0, fmt.Errorf("%w: %T", ErrWrongType, raw)
	}
}

// toInt accepts integers, fractional numbers (truncated toward zero),
// booleans and strings holding an integer.
func toInt(raw any) (int64, error) {
	switch value := raw.(type) {
	case json.Number:
		if parsed, err := strconv.ParseInt(value.String(), 10, 64); err == nil {
			return parsed, nil
		}

		parsed, err := parseFloat(value.String())
		if err != nil {
			return 0, err
		}

		return truncate(parsed)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, fmt.Errorf("%w: %q", ErrOutOfRange, value)
			}

			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
		}

		return parsed, nil
	case bool:
		if value {
			return 1, nil
		}

		return 0, nil
	case nil:
		return 0, ErrNullField
	default:
		return 0, fmt.Errorf("%w: %T", ErrWrongType, raw)
	}
}

func parseFloat(text string) (float64, error) {
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrOutOfRange, text)
		}

		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}

	return parsed, nil
}

func truncate(value float64) (int64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNumber, value)
	}

	truncated := math.Trunc(value)
	if truncated >= math.MaxInt64 || truncated < math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, value)
	}

	return int64(truncated), nil
}
