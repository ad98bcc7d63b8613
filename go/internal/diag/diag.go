// Package diag is the read-only diagnostics sink the frame pump
// refreshes once per processed frame.
package diag

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot is one refresh of the session's observable health.
type Snapshot struct {
	LatencyMean     time.Duration
	LatencyStdDev   time.Duration
	HistoryLength   int
	Frame           int
	PredictedFrames int
	Stalling        bool
}

// Sink receives snapshots. Implementations must be cheap; Refresh runs
// on the session goroutine.
type Sink interface {
	Refresh(Snapshot)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Snapshot)

func (f SinkFunc) Refresh(s Snapshot) { f(s) }

// Panel holds the latest snapshot and renders it as a fixed textual
// block.
type Panel struct {
	last Snapshot
}

func (p *Panel) Refresh(s Snapshot) { p.last = s }

// Last returns the most recently refreshed snapshot.
func (p *Panel) Last() Snapshot { return p.last }

// Render formats the panel text.
func (p *Panel) Render() string {
	s := p.last
	var b strings.Builder
	fmt.Fprintf(&b, "latency   %dms ± %dms\n", s.LatencyMean.Milliseconds(), s.LatencyStdDev.Milliseconds())
	fmt.Fprintf(&b, "frame     %d\n", s.Frame)
	fmt.Fprintf(&b, "history   %d\n", s.HistoryLength)
	fmt.Fprintf(&b, "predicted %d\n", s.PredictedFrames)
	fmt.Fprintf(&b, "stalling  %t", s.Stalling)
	return b.String()
}
