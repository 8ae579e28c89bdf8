// Package daemon runs the line-oriented control loop: one status line in,
// one progress row out.
package daemon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/joe/tm-monitor/internal/engine"
	"github.com/joe/tm-monitor/internal/snapshot"
	pkgerrors "github.com/joe/tm-monitor/pkg/errors"
)

// Exported constants.
const (
	// MaxLineBytes is the longest input line accepted.
	MaxLineBytes = 16 * 1024 * 1024
)

// Processor folds a snapshot observed at now (Unix seconds) into a row.
type Processor interface {
	Process(snap snapshot.Snapshot, now int64) engine.Row
}

// Daemon reads status lines and writes progress rows.
type Daemon struct {
	TimeProvider TimeProvider // Time provider (for dependency injection)
	processor    Processor
	logger       *zap.Logger
}

// New creates a Daemon around processor. A nil logger disables diagnostics.
func New(processor Processor, logger *zap.Logger) *Daemon {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Daemon{
		TimeProvider: &RealTimeProvider{},
		processor:    processor,
		logger:       logger,
	}
}

// line is one result from the background reader.
type line struct {
	text string
	err  error
}

// Run processes lines from in until the quit token, end of input, or ctx is
// cancelled. Every decoded or rejected line produces exactly one complete row
// on out. Cancellation takes effect between lines, never mid-row.
//
// Run returns nil on a clean stop and a wrapped error when reading or writing fails.
func (d *Daemon) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	d.logger.Info("helper started", zap.Int("pid", os.Getpid()))
	defer d.logger.Info("helper shutting down")

	done := make(chan struct{})
	defer close(done)

	lines := d.readLines(in, done)
	writer := bufio.NewWriter(out)

	for {
		if ctx.Err() != nil {
			return nil
		}

		var next line
		var ok bool

		select {
		case <-ctx.Done():
			d.logger.Info("shutdown signal received")
			return nil
		case next, ok = <-lines:
		}

		if !ok {
			return nil
		}

		if next.err != nil {
			d.logger.Error("input error", zap.Error(next.err))
			return fmt.Errorf("failed to read status line: %w", next.err)
		}

		row, quit := d.handleLine(next.text)
		if quit {
			return nil
		}

		if err := d.writeRow(writer, row); err != nil {
			return err
		}
	}
}

// handleLine decodes and processes one line. A panic while processing is
// reported as an unexpected error row.
func (d *Daemon) handleLine(text string) (row engine.Row, quit bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error("unexpected error", zap.Any("panic", recovered))
			row, quit = engine.ErrorRow(pkgerrors.CategoryUnexpected), false
		}
	}()

	snap, err := snapshot.Decode(text)
	if errors.Is(err, snapshot.ErrQuit) {
		return engine.Row{}, true
	}

	if err != nil {
		category := pkgerrors.CategoryOf(err)
		d.logger.Error(logMessageFor(category), zap.Error(err))
		d.logger.Debug("suggestions", zap.String("category", string(category)),
			zap.String("hints", pkgerrors.FormatSuggestions(err)))

		return engine.ErrorRow(category), false
	}

	return d.processor.Process(snap, d.TimeProvider.Now().Unix()), false
}

// readLines scans in on a background goroutine. The channel is closed at end
// of input; a read failure is delivered as a final line with err set.
func (d *Daemon) readLines(in io.Reader, done <-chan struct{}) <-chan line {
	lines := make(chan line)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineBytes)

		for scanner.Scan() {
			select {
			case lines <- line{text: scanner.Text()}:
			case <-done:
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case lines <- line{err: err}:
			case <-done:
			}
		}
	}()

	return lines
}

// writeRow writes row and its newline, then flushes so the consumer sees the
// whole row at once.
func (d *Daemon) writeRow(writer *bufio.Writer, row engine.Row) error {
	if _, err := writer.WriteString(row.String() + "\n"); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush row: %w", err)
	}

	return nil
}

func logMessageFor(category pkgerrors.ErrorCategory) string {
	switch category {
	case pkgerrors.CategoryJSON:
		return "JSON parsing error"
	case pkgerrors.CategoryData:
		return "data extraction error"
	default:
		return "unexpected error"
	}
}
