package latency

import (
	"testing"
	"time"
)

func TestFirstSampleSetsMean(t *testing.T) {
	e := New(DefaultDecay)
	e.Observe(50 * time.Millisecond)
	if got := e.Mean(); got != 50*time.Millisecond {
		t.Fatalf("Mean after one sample = %v, want 50ms", got)
	}
	if got := e.StdDev(); got != 0 {
		t.Fatalf("StdDev after one sample = %v, want 0", got)
	}
	if e.Samples() != 1 {
		t.Fatalf("Samples = %d, want 1", e.Samples())
	}
}

func TestSmoothingBlendsTowardNewSamples(t *testing.T) {
	e := New(0.5)
	e.Observe(100 * time.Millisecond)
	e.Observe(200 * time.Millisecond)
	if got := e.Mean(); got != 150*time.Millisecond {
		t.Fatalf("Mean after 100,200 at decay 0.5 = %v, want 150ms", got)
	}
	if got := e.StdDev(); got == 0 {
		t.Fatalf("StdDev should be nonzero after divergent samples")
	}
}

func TestSteadyStreamConverges(t *testing.T) {
	e := New(DefaultDecay)
	for i := 0; i < 200; i++ {
		e.Observe(40 * time.Millisecond)
	}
	mean := e.Mean()
	if mean < 39*time.Millisecond || mean > 41*time.Millisecond {
		t.Fatalf("Mean after steady 40ms stream = %v", mean)
	}
	if sd := e.StdDev(); sd > time.Millisecond {
		t.Fatalf("StdDev after steady stream = %v, want ~0", sd)
	}
}

func TestNegativeSampleClampsToZero(t *testing.T) {
	e := New(DefaultDecay)
	e.Observe(-30 * time.Millisecond)
	if got := e.Mean(); got != 0 {
		t.Fatalf("Mean after clamped negative sample = %v, want 0", got)
	}
	if e.Samples() != 1 {
		t.Fatalf("clamped sample must still count, Samples = %d", e.Samples())
	}
}

func TestInvalidDecayFallsBack(t *testing.T) {
	e := New(0)
	e.Observe(10 * time.Millisecond)
	e.Observe(20 * time.Millisecond)
	if e.Mean() <= 10*time.Millisecond || e.Mean() >= 20*time.Millisecond {
		t.Fatalf("fallback decay produced mean %v", e.Mean())
	}
}
