package window_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/tm-monitor/internal/window"
)

func TestPruneKeepsSampleAtCutoff(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	var w window.Window[int64]
	w.Append(100, 1)
	w.Append(110, 2)
	w.Append(120, 3)
	w.Append(130, 4)

	w.Prune(140, 30)

	samples := w.Samples()
	g.Expect(samples).To(HaveLen(3))
	g.Expect(samples[0]).To(Equal(window.Sample[int64]{Timestamp: 110, Value: 2}))

	for _, sample := range samples {
		g.Expect(140 - sample.Timestamp).To(BeNumerically("<=", 30))
	}
}

func TestPruneCanEmptyWindow(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	var w window.Window[int64]
	w.Append(1, 10)
	w.Append(2, 20)
	w.Prune(1000, 30)

	g.Expect(w.Len()).To(Equal(0))

	_, ok := w.Oldest()
	g.Expect(ok).To(BeFalse())

	_, ok = w.Newest()
	g.Expect(ok).To(BeFalse())
}

func TestClear(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	var w window.Window[int64]
	w.Append(1, 10)
	w.Clear()
	g.Expect(w.Len()).To(BeZero())

	w.Append(2, 20)
	newest, ok := w.Newest()
	g.Expect(ok).To(BeTrue())
	g.Expect(newest.Value).To(Equal(int64(20)))
}

func TestSamplesReturnsCopy(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	var w window.Window[int64]
	w.Append(1, 10)

	samples := w.Samples()
	samples[0].Value = 99

	oldest, _ := w.Oldest()
	g.Expect(oldest.Value).To(Equal(int64(10)))
}

func TestSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		samples   [][2]int64
		wantOK    bool
		wantDelta window.Delta
	}{
		{name: "empty", samples: nil, wantOK: false},
		{name: "single sample", samples: [][2]int64{{10, 100}}, wantOK: false},
		{
			name:      "oldest to newest only",
			samples:   [][2]int64{{10, 100}, {12, 5000}, {20, 600}},
			wantOK:    true,
			wantDelta: window.Delta{Seconds: 10, Value: 500},
		},
		{name: "counter regression", samples: [][2]int64{{10, 600}, {20, 100}}, wantOK: false},
		{name: "same timestamp", samples: [][2]int64{{10, 100}, {10, 200}}, wantOK: false},
		{
			name:      "flat counter",
			samples:   [][2]int64{{10, 100}, {20, 100}},
			wantOK:    true,
			wantDelta: window.Delta{Seconds: 10, Value: 0},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewWithT(t)

			var w window.Window[int64]
			for _, s := range tt.samples {
				w.Append(s[0], s[1])
			}

			delta, ok := window.Span(&w)
			g.Expect(ok).To(Equal(tt.wantOK))
			g.Expect(delta).To(Equal(tt.wantDelta))
		})
	}
}

func TestDeltaRates(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	delta := window.Delta{Seconds: 4, Value: 10}
	g.Expect(delta.PerSecond()).To(Equal(int64(2)))
	g.Expect(delta.Rate()).To(BeNumerically("~", 2.5, 1e-9))
}

func TestWeightedMean(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	var w window.Window[int64]
	_, ok := window.WeightedMean(&w)
	g.Expect(ok).To(BeFalse())

	w.Append(1, 100)
	mean, ok := window.WeightedMean(&w)
	g.Expect(ok).To(BeTrue())
	g.Expect(mean).To(Equal(int64(100)))

	// (100*1 + 200*2 + 400*3) / 6 = 1700/6
	w.Append(2, 200)
	w.Append(3, 400)
	mean, _ = window.WeightedMean(&w)
	g.Expect(mean).To(Equal(int64(283)))
}

func TestHorizon(t *testing.T) {
	t.Parallel()

	g := NewWithT(t)

	h := window.NewHorizon(30, 90)
	g.Expect(h.Observe(false)).To(Equal(int64(30)))
	g.Expect(h.Observe(false)).To(Equal(int64(30)))
	g.Expect(h.Initial()).To(BeFalse())

	g.Expect(h.Observe(true)).To(Equal(int64(90)))
	g.Expect(h.Observe(false)).To(Equal(int64(90)))
	g.Expect(h.Initial()).To(BeTrue())

	defaults := window.NewHorizon(0, -5)
	g.Expect(defaults.Seconds()).To(Equal(int64(window.DefaultHorizon)))
	g.Expect(defaults.Observe(true)).To(Equal(int64(window.DefaultInitialHorizon)))

	override := window.NewHorizon(15, 240)
	g.Expect(override.Observe(true)).To(Equal(int64(240)))
}
