package engine

import (
	"strconv"
	"strings"

	"github.com/joe/tm-monitor/internal/snapshot"
	pkgerrors "github.com/joe/tm-monitor/pkg/errors"
	"github.com/joe/tm-monitor/pkg/formatters"
)

// NumFields is the number of fields in every output row.
const NumFields = 14

//nolint:gochecknoglobals // Stateless replacer shared by all rows
var fieldSanitizer = strings.NewReplacer(formatters.FieldSeparator, "/", "\n", " ", "\r", " ")

// Row is one output record.
type Row struct {
	Timestamp   int64
	Phase       string
	BytesCopied int64
	FilesCopied int64
	TotalBytes  int64
	Percent     string
	Speed       string
	FilesPerSec string
	BytesPerSec int64
	CopiedBatch string
	PctBatch    string
	CopiedTotal string
	PctTotal    string
	ETA         string
}

// ErrorRow returns the fixed row reported for an input line that could not be
// decoded. The category takes the place of the phase.
func ErrorRow(category pkgerrors.ErrorCategory) Row {
	return Row{
		Phase:       string(category),
		Percent:     "0",
		Speed:       formatters.Missing,
		FilesPerSec: formatters.Missing,
		CopiedBatch: formatters.Missing,
		PctBatch:    formatters.Missing,
		CopiedTotal: formatters.Missing,
		PctTotal:    formatters.Missing,
		ETA:         formatters.Missing,
	}
}

func newRow(now int64, snap snapshot.Snapshot) Row {
	return Row{
		Timestamp:   now,
		Phase:       snap.Phase,
		BytesCopied: snap.BytesCopied,
		FilesCopied: snap.FilesCopied,
		TotalBytes:  snap.TotalBytes,
		Percent:     formatters.FormatFloat(snap.Percent),
	}
}

// Fields returns the row's fields in output order. Separator and line break
// characters inside the phase are replaced so the row always has NumFields
// fields on one line.
func (r Row) Fields() []string {
	return []string{
		strconv.FormatInt(r.Timestamp, 10),
		fieldSanitizer.Replace(r.Phase),
		strconv.FormatInt(r.BytesCopied, 10),
		strconv.FormatInt(r.FilesCopied, 10),
		strconv.FormatInt(r.TotalBytes, 10),
		r.Percent,
		r.Speed,
		r.FilesPerSec,
		strconv.FormatInt(r.BytesPerSec, 10),
		r.CopiedBatch,
		r.PctBatch,
		r.CopiedTotal,
		r.PctTotal,
		r.ETA,
	}
}

// String renders the row as a pipe-delimited line without a trailing newline.
func (r Row) String() string {
	return formatters.JoinFields(r.Fields())
}
