// Package sim declares the contract a pluggable simulation must satisfy.
// The session layer treats simulation state and inputs as opaque values;
// it only moves them between the engine, the wire, and the render
// surface.
package sim

import (
	"encoding/json"
	"time"

	"github.com/mcdev12/netplay/go/internal/models"
)

// Input is one player's simulation-defined input for a single frame. It
// must marshal to JSON for the wire.
type Input any

// State is the simulation-defined world state. It must marshal to JSON
// for the host's authoritative snapshots.
type State any

// Surface is the render target handed to Draw. The demo implementation
// is a text-cell buffer; a real frontend substitutes its own.
type Surface interface {
	Size() (w, h int)
	Clear()
	Set(x, y int, c rune)
}

// Simulation is the full capability set the session consumes.
type Simulation interface {
	// InitialStateAndInputs produces the starting state and one initial
	// input per player, in player-pair order.
	InitialStateAndInputs(players [2]models.Player) (State, map[models.Player]Input)

	// Timestep is the fixed simulation step the frame pump paces to.
	Timestep() time.Duration

	// SurfaceSize is the render surface the simulation expects.
	SurfaceSize() (w, h int)

	// DecodeInput parses a wire input payload.
	DecodeInput(data json.RawMessage) (Input, error)

	// DecodeState parses a wire state payload.
	DecodeState(data json.RawMessage) (State, error)

	// Draw renders a state onto the surface.
	Draw(state State, surface Surface)

	// InputReader returns a function that samples the local input once
	// per call. The surface is the input source's focus target.
	InputReader(surface Surface) func() Input
}
