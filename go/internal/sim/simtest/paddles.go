// Package simtest provides a deterministic two-paddle simulation used by
// the demo binary and the end-to-end tests.
package simtest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/sim"
)

const (
	Width  = 40
	Height = 12
)

// State holds one vertical position per player ordinal.
type State struct {
	Paddles [2]int `json:"paddles"`
}

// Input moves the player's paddle up or down one row per frame.
type Input struct {
	Dy int `json:"dy"`
}

// Paddles is the demo simulation. The zero value is ready to use.
type Paddles struct{}

var _ sim.Simulation = Paddles{}

func (Paddles) InitialStateAndInputs(players [2]models.Player) (sim.State, map[models.Player]sim.Input) {
	inputs := make(map[models.Player]sim.Input, len(players))
	for _, p := range players {
		inputs[p] = Input{}
	}
	return State{Paddles: [2]int{Height / 2, Height / 2}}, inputs
}

func (Paddles) Timestep() time.Duration { return 16 * time.Millisecond }

func (Paddles) SurfaceSize() (w, h int) { return Width, Height }

func (Paddles) DecodeInput(data json.RawMessage) (sim.Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("simtest: decode input: %w", err)
	}
	return in, nil
}

func (Paddles) DecodeState(data json.RawMessage) (sim.State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("simtest: decode state: %w", err)
	}
	return st, nil
}

func (Paddles) Draw(state sim.State, surface sim.Surface) {
	st, ok := state.(State)
	if !ok {
		return
	}
	surface.Clear()
	w, h := surface.Size()
	cols := [2]int{1, w - 2}
	for ordinal, y := range st.Paddles {
		for dy := -1; dy <= 1; dy++ {
			if y+dy >= 0 && y+dy < h {
				surface.Set(cols[ordinal], y+dy, '|')
			}
		}
	}
}

// InputReader returns a scripted oscillating input so the demo animates
// without a real input device.
func (Paddles) InputReader(surface sim.Surface) func() sim.Input {
	tick := 0
	return func() sim.Input {
		tick++
		if tick/Height%2 == 0 {
			return Input{Dy: 1}
		}
		return Input{Dy: -1}
	}
}

// Step advances the state one frame from the latest input of each
// player. It is the step function handed to the lockstep engine.
func Step(state sim.State, inputs map[models.Player]sim.Input) sim.State {
	st, ok := state.(State)
	if !ok {
		return state
	}
	for p, raw := range inputs {
		in, ok := raw.(Input)
		if !ok || p.Ordinal < 0 || p.Ordinal > 1 {
			continue
		}
		y := st.Paddles[p.Ordinal] + in.Dy
		if y < 0 {
			y = 0
		}
		if y >= Height {
			y = Height - 1
		}
		st.Paddles[p.Ordinal] = y
	}
	return st
}
