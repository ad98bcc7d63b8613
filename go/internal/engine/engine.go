// Package engine declares the synchronization engine contract the
// session drives. The reconciliation algorithm itself (rollback,
// prediction, correction) lives behind this interface; the session only
// feeds it local and remote observations and reads its output.
package engine

import (
	"time"

	"github.com/mcdev12/netplay/go/internal/latency"
	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/sim"
)

// Engine reconciles local and remote input history into the current
// simulation state. Implementations are driven from a single goroutine.
type Engine interface {
	// Advance steps the engine once with the local input for the next
	// frame. The engine reports the input (and, for hosts, the resulting
	// snapshot) through the configured callbacks.
	Advance(input sim.Input)

	// ObserveRemoteInput records an input the remote player confirmed
	// for the given frame.
	ObserveRemoteInput(frame int, from models.Player, input sim.Input)

	// ObserveAuthoritativeState replaces predicted state with the host's
	// authoritative snapshot for the given frame.
	ObserveAuthoritativeState(frame int, state sim.State)

	CurrentState() sim.State
	CurrentFrame() int

	// HistoryLength is how many frames of history the engine retains.
	HistoryLength() int

	// LargestFutureFrameCount is how far ahead of the local frame the
	// remote side has confirmed input.
	LargestFutureFrameCount() int

	// PredictedFrameCount is how many local frames ran on predicted
	// (unconfirmed) remote input.
	PredictedFrameCount() int

	// IsStalling reports whether the engine wants the pump to hold
	// because prediction has outrun the configured bound.
	IsStalling() bool
}

// Config carries everything an engine needs at construction. Exactly one
// engine is built per session, at data-channel open.
type Config struct {
	IsHost             bool
	Players            [2]models.Player
	InitialState       sim.State
	InitialInputs      map[models.Player]sim.Input
	MaxPredictedFrames int
	Latency            *latency.Estimator
	Timestep           time.Duration

	// OnLocalInput fires once per Advance with the frame-stamped local
	// input that must reach the peer.
	OnLocalInput func(frame int, input sim.Input)

	// OnStateSnapshot fires once per Advance on the host with the state
	// that must be pushed to the client. Nil on the client side.
	OnStateSnapshot func(frame int, state sim.State)
}

// Factory builds an engine from its construction-time configuration.
type Factory func(Config) (Engine, error)
