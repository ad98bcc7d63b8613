// Package enginetest provides a recording fake engine for session and
// pacing tests.
package enginetest

import (
	"github.com/mcdev12/netplay/go/internal/engine"
	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/sim"
)

// RemoteInput records one ObserveRemoteInput call.
type RemoteInput struct {
	Frame int
	From  models.Player
	Input sim.Input
}

// AuthoritativeState records one ObserveAuthoritativeState call.
type AuthoritativeState struct {
	Frame int
	State sim.State
}

// Fake records every engine call and mimics the callback contract:
// Advance increments the frame, fires OnLocalInput, and on the host also
// fires OnStateSnapshot with the configured state.
type Fake struct {
	Cfg engine.Config

	Advanced     []sim.Input
	RemoteInputs []RemoteInput
	AuthStates   []AuthoritativeState

	State     sim.State
	Frame     int
	History   int
	Future    int
	Predicted int
	Stalling  bool
}

// Factory returns an engine.Factory that captures the construction
// config into f and hands f back as the engine.
func Factory(f *Fake) engine.Factory {
	return func(cfg engine.Config) (engine.Engine, error) {
		f.Cfg = cfg
		if f.State == nil {
			f.State = cfg.InitialState
		}
		return f, nil
	}
}

func (f *Fake) Advance(input sim.Input) {
	f.Advanced = append(f.Advanced, input)
	f.Frame++
	if f.Cfg.OnLocalInput != nil {
		f.Cfg.OnLocalInput(f.Frame, input)
	}
	if f.Cfg.IsHost && f.Cfg.OnStateSnapshot != nil {
		f.Cfg.OnStateSnapshot(f.Frame, f.State)
	}
}

func (f *Fake) ObserveRemoteInput(frame int, from models.Player, input sim.Input) {
	f.RemoteInputs = append(f.RemoteInputs, RemoteInput{Frame: frame, From: from, Input: input})
}

func (f *Fake) ObserveAuthoritativeState(frame int, state sim.State) {
	f.AuthStates = append(f.AuthStates, AuthoritativeState{Frame: frame, State: state})
}

func (f *Fake) CurrentState() sim.State      { return f.State }
func (f *Fake) CurrentFrame() int            { return f.Frame }
func (f *Fake) HistoryLength() int           { return f.History }
func (f *Fake) LargestFutureFrameCount() int { return f.Future }
func (f *Fake) PredictedFrameCount() int     { return f.Predicted }
func (f *Fake) IsStalling() bool             { return f.Stalling }
