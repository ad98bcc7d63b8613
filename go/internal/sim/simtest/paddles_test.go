package simtest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/sim"
)

func TestStepMovesAndClamps(t *testing.T) {
	players := models.PlayerPair(models.RoleHost)
	st := sim.State(State{Paddles: [2]int{0, Height - 1}})
	inputs := map[models.Player]sim.Input{
		players[0]: Input{Dy: -1},
		players[1]: Input{Dy: 1},
	}
	next := Step(st, inputs).(State)
	if next.Paddles[0] != 0 || next.Paddles[1] != Height-1 {
		t.Fatalf("clamp failed: %+v", next)
	}

	inputs[players[0]] = Input{Dy: 1}
	inputs[players[1]] = Input{Dy: -1}
	next = Step(next, inputs).(State)
	if next.Paddles[0] != 1 || next.Paddles[1] != Height-2 {
		t.Fatalf("step failed: %+v", next)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	var p Paddles
	inRaw, err := json.Marshal(Input{Dy: -1})
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	in, err := p.DecodeInput(inRaw)
	if err != nil {
		t.Fatalf("DecodeInput: %v", err)
	}
	if in.(Input).Dy != -1 {
		t.Fatalf("DecodeInput = %+v", in)
	}

	stRaw, err := json.Marshal(State{Paddles: [2]int{3, 7}})
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	st, err := p.DecodeState(stRaw)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if st.(State).Paddles != [2]int{3, 7} {
		t.Fatalf("DecodeState = %+v", st)
	}

	if _, err := p.DecodeInput(json.RawMessage(`"nope"`)); err == nil {
		t.Fatalf("DecodeInput should reject non-object payload")
	}
}

func TestDrawRendersBothPaddles(t *testing.T) {
	var p Paddles
	surface := NewTextSurface(p.SurfaceSize())
	p.Draw(State{Paddles: [2]int{2, 9}}, surface)
	out := surface.Render()
	if !strings.Contains(out, "|") {
		t.Fatalf("draw produced empty surface:\n%s", out)
	}
	rows := strings.Split(out, "\n")
	if rows[2][1] != '|' {
		t.Fatalf("host paddle not at row 2 col 1:\n%s", out)
	}
	if rows[9][Width-2] != '|' {
		t.Fatalf("client paddle not at row 9 col %d:\n%s", Width-2, out)
	}
}
