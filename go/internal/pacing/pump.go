// Package pacing holds the frame clock and the fixed-timestep pump that
// gates engine advancement to at most once per elapsed timestep.
package pacing

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/netplay/go/internal/diag"
	"github.com/mcdev12/netplay/go/internal/engine"
	"github.com/mcdev12/netplay/go/internal/latency"
	"github.com/mcdev12/netplay/go/internal/sim"
)

// FrameClock tracks the last processed frame time against the fixed
// timestep. Only the pump mutates it.
type FrameClock struct {
	LastFrameTime time.Time
	Timestep      time.Duration
}

// Config wires a pump to its collaborators.
type Config struct {
	Engine     engine.Engine
	Simulation sim.Simulation
	Surface    sim.Surface
	Estimator  *latency.Estimator
	Sink       diag.Sink

	// Clock supplies wall time and the refresh ticker; tests inject a
	// fake.
	Clock clockwork.Clock

	// RefreshInterval is how often the pump wakes to check the frame
	// clock. It is independent of the simulation timestep.
	RefreshInterval time.Duration
}

// Pump drives the engine at the simulation's fixed timestep. Each wakeup
// it either processes exactly one frame (input sample, engine advance,
// draw, diagnostics refresh) or does nothing, depending on elapsed time.
type Pump struct {
	cfg       Config
	clock     FrameClock
	readInput func() sim.Input
}

// NewPump builds a pump. The frame clock starts at the current time, so
// the first frame processes one full timestep after construction.
func NewPump(cfg Config) (*Pump, error) {
	if cfg.Engine == nil || cfg.Simulation == nil || cfg.Surface == nil {
		return nil, fmt.Errorf("pacing: engine, simulation, and surface are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	timestep := cfg.Simulation.Timestep()
	if timestep <= 0 {
		return nil, fmt.Errorf("pacing: non-positive timestep %v", timestep)
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = timestep / 4
	}
	return &Pump{
		cfg: cfg,
		clock: FrameClock{
			LastFrameTime: cfg.Clock.Now(),
			Timestep:      timestep,
		},
		readInput: cfg.Simulation.InputReader(cfg.Surface),
	}, nil
}

// Tick performs one pacing check at the given wall-clock timestamp. It
// returns true when a frame was processed. Elapsed time below the
// timestep leaves all state untouched.
func (p *Pump) Tick(now time.Time) bool {
	if now.Sub(p.clock.LastFrameTime) < p.clock.Timestep {
		return false
	}
	input := p.readInput()
	p.cfg.Engine.Advance(input)
	p.cfg.Simulation.Draw(p.cfg.Engine.CurrentState(), p.cfg.Surface)
	p.clock.LastFrameTime = now
	p.refreshDiagnostics()
	return true
}

// Run re-arms the pump on every refresh tick until the context ends. The
// pump never stops itself; cancellation comes from the hosting
// environment.
func (p *Pump) Run(ctx context.Context) {
	ticker := p.cfg.Clock.NewTicker(p.cfg.RefreshInterval)
	defer ticker.Stop()
	log.Debug().
		Dur("timestep", p.clock.Timestep).
		Dur("refresh_interval", p.cfg.RefreshInterval).
		Msg("frame pump running")
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			p.Tick(now)
		}
	}
}

// LastFrameTime exposes the frame clock for observability.
func (p *Pump) LastFrameTime() time.Time { return p.clock.LastFrameTime }

func (p *Pump) refreshDiagnostics() {
	if p.cfg.Sink == nil {
		return
	}
	snap := diag.Snapshot{
		HistoryLength:   p.cfg.Engine.HistoryLength(),
		Frame:           p.cfg.Engine.CurrentFrame(),
		PredictedFrames: p.cfg.Engine.PredictedFrameCount(),
		Stalling:        p.cfg.Engine.IsStalling(),
	}
	if p.cfg.Estimator != nil {
		snap.LatencyMean = p.cfg.Estimator.Mean()
		snap.LatencyStdDev = p.cfg.Estimator.StdDev()
	}
	p.cfg.Sink.Refresh(snap)
}
