// Package snapshot decodes backup status lines into typed snapshots.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	pkgerrors "github.com/joe/tm-monitor/pkg/errors"
)

// Exported constants.
const (
	// QuitToken is the input line that ends the session.
	QuitToken = "QUIT"
	// UnknownPhase is reported when the status carries no BackupPhase.
	UnknownPhase = "Unknown"
)

// Exported variables.
var (
	ErrNotAnObject  = errors.New("value is not a JSON object")
	ErrQuit         = errors.New("quit requested")
	ErrTrailingData = errors.New("trailing data after status object")
)

// Snapshot is one decoded backup status record. Absent fields hold zero values.
type Snapshot struct {
	Running     bool
	Phase       string
	BytesCopied int64
	TotalBytes  int64
	Percent     float64
	FilesCopied int64
	FirstBackup bool
}

// Decode parses one input line. It returns ErrQuit for the quit token or a
// blank line, and a pkgerrors.DecodeError for anything it cannot decode.
func Decode(line string) (Snapshot, error) {
	line = strings.TrimSpace(line)
	if line == "" || line == QuitToken {
		return Snapshot{}, ErrQuit
	}

	root, err := parseLine(line)
	if err != nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CategoryJSON, err)
	}

	status, ok := root.(map[string]any)
	if !ok {
		return Snapshot{}, pkgerrors.New(pkgerrors.CategoryUnexpected, fmt.Errorf("status: %w", ErrNotAnObject))
	}

	progress := map[string]any{}
	if raw, present := status["Progress"]; present {
		progress, ok = raw.(map[string]any)
		if !ok {
			return Snapshot{}, pkgerrors.New(pkgerrors.CategoryUnexpected, fmt.Errorf("Progress: %w", ErrNotAnObject))
		}
	}

	fields := extractor{}
	snap := Snapshot{
		Running:     fields.integer(status, "Running") != 0,
		Phase:       phaseOf(status),
		BytesCopied: fields.integer(progress, "bytes"),
		TotalBytes:  fields.integer(progress, "totalBytes"),
		Percent:     fields.float(progress, "Percent"),
		FilesCopied: fields.integer(progress, "files"),
		FirstBackup: fields.integer(status, "FirstBackup") == 1,
	}

	if fields.err != nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CategoryData, fields.err)
	}

	return snap, nil
}

// parseLine decodes exactly one JSON value, keeping numbers as json.Number so
// large byte counters are not rounded through float64.
func parseLine(line string) (any, error) {
	decoder := json.NewDecoder(strings.NewReader(line))
	decoder.UseNumber()

	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}

	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, ErrTrailingData
		}

		return nil, fmt.Errorf("failed to decode status: %w", err)
	}

	return root, nil
}

func phaseOf(status map[string]any) string {
	raw, present := status["BackupPhase"]
	if !present || raw == nil {
		return UnknownPhase
	}

	if phase, ok := raw.(string); ok {
		return phase
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprint(raw)
	}

	return string(encoded)
}
