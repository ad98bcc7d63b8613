package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/protocol"
	"github.com/mcdev12/netplay/go/internal/sim"
)

// handleMessage decodes one inbound envelope and routes it. A malformed
// or unrecognized envelope is a forward-compatible no-op; a payload that
// the simulation cannot decode is fatal to the session.
func (s *Session) handleMessage(raw []byte) error {
	msg, err := protocol.Decode(raw)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownType) {
			s.log.Debug().Err(err).Msg("ignoring unknown message type")
		} else {
			s.log.Warn().Err(err).Msg("ignoring malformed envelope")
		}
		return nil
	}

	switch m := msg.(type) {
	case protocol.Input:
		input, err := s.cfg.Simulation.DecodeInput(m.Input)
		if err != nil {
			return fmt.Errorf("session: decode remote input at frame %d: %w", m.Frame, err)
		}
		// Sender attribution is fixed per role: everything inbound comes
		// from the one remote player.
		s.eng.ObserveRemoteInput(m.Frame, s.remotePlayer, input)

	case protocol.State:
		if s.cfg.Role == models.RoleHost {
			// The host is the sole source of authority; a state message
			// arriving here is a peer bug, not ours.
			s.log.Warn().Int("frame", m.Frame).Msg("host ignoring inbound state message")
			return nil
		}
		state, err := s.cfg.Simulation.DecodeState(m.State)
		if err != nil {
			return fmt.Errorf("session: decode authoritative state at frame %d: %w", m.Frame, err)
		}
		s.eng.ObserveAuthoritativeState(m.Frame, state)

	case protocol.PingRequest:
		// Echo straight back; any processing delay would inflate the
		// peer's estimate.
		s.send(protocol.PingResponse{SentTime: m.SentTime})

	case protocol.PingResponse:
		rtt := s.cfg.Clock.Now().Sub(protocol.FromEpochMillis(m.SentTime))
		s.estimator.Observe(rtt)
	}
	return nil
}

// sendLocalInput is the engine's OnLocalInput callback.
func (s *Session) sendLocalInput(frame int, input sim.Input) {
	payload, err := json.Marshal(input)
	if err != nil {
		s.fail(fmt.Errorf("session: marshal local input at frame %d: %w", frame, err))
		return
	}
	s.send(protocol.Input{Frame: frame, Input: payload})
}

// sendStateSnapshot is the engine's OnStateSnapshot callback. Only the
// host wires it, so only the host can ever emit state messages.
func (s *Session) sendStateSnapshot(frame int, state sim.State) {
	payload, err := json.Marshal(state)
	if err != nil {
		s.fail(fmt.Errorf("session: marshal state snapshot at frame %d: %w", frame, err))
		return
	}
	s.send(protocol.State{Frame: frame, State: payload})
}

func (s *Session) sendPing() {
	s.send(protocol.PingRequest{SentTime: protocol.EpochMillis(s.cfg.Clock.Now())})
}

func (s *Session) send(m protocol.Message) {
	b, err := protocol.Encode(m)
	if err != nil {
		s.fail(fmt.Errorf("session: encode outbound message: %w", err))
		return
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.ch.Send(ctx, b); err != nil {
		s.fail(fmt.Errorf("session: send: %w", err))
	}
}
