package snapshot_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/tm-monitor/internal/snapshot"
	pkgerrors "github.com/joe/tm-monitor/pkg/errors"
)

func TestDecodeCopyingStatus(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	snap, err := snapshot.Decode(`{"Running":1,"BackupPhase":"Copying","FirstBackup":1,` +
		`"Progress":{"bytes":1000000,"totalBytes":10000000,"Percent":0.1,"files":10}}`)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(snap).To(Equal(snapshot.Snapshot{
		Running:     true,
		Phase:       "Copying",
		BytesCopied: 1000000,
		TotalBytes:  10000000,
		Percent:     0.1,
		FilesCopied: 10,
		FirstBackup: true,
	}))
}

func TestDecodeDefaults(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	snap, err := snapshot.Decode("  {}\n")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(snap).To(Equal(snapshot.Snapshot{Phase: snapshot.UnknownPhase}))
}

func TestDecodeLenientNumbers(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	snap, err := snapshot.Decode(`{"Running":true,"BackupPhase":"Copying","FirstBackup":"1",` +
		`"Progress":{"bytes":"42","totalBytes":1.9,"Percent":"0.25","files":false}}`)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(snap.Running).To(BeTrue())
	g.Expect(snap.FirstBackup).To(BeTrue())
	g.Expect(snap.BytesCopied).To(Equal(int64(42)))
	g.Expect(snap.TotalBytes).To(Equal(int64(1)))
	g.Expect(snap.Percent).To(BeNumerically("~", 0.25, 1e-12))
	g.Expect(snap.FilesCopied).To(BeZero())
}

func TestDecodeKeepsLargeCountersExact(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	snap, err := snapshot.Decode(`{"Progress":{"bytes":9007199254740993}}`)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(snap.BytesCopied).To(Equal(int64(9007199254740993)))
}

func TestDecodeNonStringPhase(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	snap, err := snapshot.Decode(`{"BackupPhase":7}`)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(snap.Phase).To(Equal("7"))

	snap, err = snapshot.Decode(`{"BackupPhase":null}`)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(snap.Phase).To(Equal(snapshot.UnknownPhase))
}

func TestDecodeQuit(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"QUIT", " QUIT\n", "", "   "} {
		if _, err := snapshot.Decode(line); !errors.Is(err, snapshot.ErrQuit) {
			t.Errorf("Decode(%q) error = %v, want ErrQuit", line, err)
		}
	}
}

func TestDecodeErrorCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		category pkgerrors.ErrorCategory
		cause    error
	}{
		{"not json", `not json`, pkgerrors.CategoryJSON, nil},
		{"truncated", `{"Running":1`, pkgerrors.CategoryJSON, nil},
		{"trailing data", `{} {}`, pkgerrors.CategoryJSON, snapshot.ErrTrailingData},
		{"array root", `[1,2]`, pkgerrors.CategoryUnexpected, snapshot.ErrNotAnObject},
		{"scalar progress", `{"Progress":5}`, pkgerrors.CategoryUnexpected, snapshot.ErrNotAnObject},
		{"null bytes", `{"Progress":{"bytes":null}}`, pkgerrors.CategoryData, snapshot.ErrNullField},
		{"text percent", `{"Progress":{"Percent":"lots"}}`, pkgerrors.CategoryData, snapshot.ErrInvalidNumber},
		{"fractional string", `{"Progress":{"files":"1.5"}}`, pkgerrors.CategoryData, snapshot.ErrInvalidNumber},
		{"object running", `{"Running":{}}`, pkgerrors.CategoryData, snapshot.ErrWrongType},
		{"overflow", `{"Progress":{"totalBytes":1e300}}`, pkgerrors.CategoryData, snapshot.ErrOutOfRange},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewWithT(t)

			_, err := snapshot.Decode(tt.line)
			g.Expect(err).Should(HaveOccurred())
			g.Expect(pkgerrors.CategoryOf(err)).To(Equal(tt.category))

			if tt.cause != nil {
				g.Expect(errors.Is(err, tt.cause)).To(BeTrue(), "error %v should wrap %v", err, tt.cause)
			}
		})
	}
}
