// Package lockstep is a minimal reference engine: no rollback, no
// re-simulation, each Advance applies the latest known input of every
// player. It exists so the demo binary and end-to-end tests can run a
// full session; a production rollback engine replaces it behind the same
// contract.
package lockstep

import (
	"fmt"

	"github.com/mcdev12/netplay/go/internal/engine"
	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/sim"
)

// StepFunc advances a state one frame from the latest input per player.
type StepFunc func(state sim.State, inputs map[models.Player]sim.Input) sim.State

// Factory returns an engine factory closing over the simulation's step
// function.
func Factory(step StepFunc) engine.Factory {
	return func(cfg engine.Config) (engine.Engine, error) {
		if step == nil {
			return nil, fmt.Errorf("lockstep: nil step function")
		}
		if cfg.OnLocalInput == nil {
			return nil, fmt.Errorf("lockstep: OnLocalInput callback is required")
		}
		if cfg.MaxPredictedFrames <= 0 {
			return nil, fmt.Errorf("lockstep: MaxPredictedFrames must be positive, got %d", cfg.MaxPredictedFrames)
		}
		e := &Engine{cfg: cfg, step: step, state: cfg.InitialState}
		e.inputs = make(map[models.Player]sim.Input, len(cfg.InitialInputs))
		for p, in := range cfg.InitialInputs {
			e.inputs[p] = in
		}
		for _, p := range cfg.Players {
			if p.Local {
				e.local = p
			} else {
				e.remote = p
			}
		}
		return e, nil
	}
}

// Engine is the lockstep implementation of engine.Engine.
type Engine struct {
	cfg           engine.Config
	step          StepFunc
	state         sim.State
	frame         int
	inputs        map[models.Player]sim.Input
	local, remote models.Player

	lastRemoteFrame int
}

func (e *Engine) Advance(input sim.Input) {
	e.inputs[e.local] = input
	e.frame++
	e.state = e.step(e.state, e.inputs)
	e.cfg.OnLocalInput(e.frame, input)
	if e.cfg.IsHost && e.cfg.OnStateSnapshot != nil {
		e.cfg.OnStateSnapshot(e.frame, e.state)
	}
}

func (e *Engine) ObserveRemoteInput(frame int, from models.Player, input sim.Input) {
	e.inputs[from] = input
	if frame > e.lastRemoteFrame {
		e.lastRemoteFrame = frame
	}
}

func (e *Engine) ObserveAuthoritativeState(frame int, state sim.State) {
	e.state = state
	if frame > e.frame {
		e.frame = frame
	}
}

func (e *Engine) CurrentState() sim.State { return e.state }
func (e *Engine) CurrentFrame() int       { return e.frame }

func (e *Engine) HistoryLength() int { return e.PredictedFrameCount() }

func (e *Engine) LargestFutureFrameCount() int {
	if e.lastRemoteFrame <= e.frame {
		return 0
	}
	return e.lastRemoteFrame - e.frame
}

func (e *Engine) PredictedFrameCount() int {
	if e.frame <= e.lastRemoteFrame {
		return 0
	}
	return e.frame - e.lastRemoteFrame
}

func (e *Engine) IsStalling() bool {
	return e.PredictedFrameCount() > e.cfg.MaxPredictedFrames
}
