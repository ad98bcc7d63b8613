package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType marks an envelope whose type tag this build does not
// recognize. Dispatchers treat it as a forward-compatible no-op rather
// than an error, so newer peers can extend the protocol.
var ErrUnknownType = errors.New("protocol: unknown message type")

type envelope struct {
	Type string `json:"type"`
}

// Encode marshals a message into its wire envelope.
func Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("protocol: encode nil message")
	}
	switch msg := m.(type) {
	case Input:
		return json.Marshal(struct {
			Type string `json:"type"`
			Input
		}{TypeInput, msg})
	case State:
		return json.Marshal(struct {
			Type string `json:"type"`
			State
		}{TypeState, msg})
	case PingRequest:
		return json.Marshal(struct {
			Type string `json:"type"`
			PingRequest
		}{TypePingRequest, msg})
	case PingResponse:
		return json.Marshal(struct {
			Type string `json:"type"`
			PingResponse
		}{TypePingResponse, msg})
	default:
		return nil, fmt.Errorf("protocol: encode unsupported message %T", m)
	}
}

// Decode parses a wire envelope into its concrete variant. An envelope
// carrying an unrecognized type tag returns ErrUnknownType.
func Decode(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("protocol: decode empty envelope")
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	switch env.Type {
	case TypeInput:
		var m Input
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode input: %w", err)
		}
		return m, nil
	case TypeState:
		var m State
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode state: %w", err)
		}
		return m, nil
	case TypePingRequest:
		var m PingRequest
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode ping-req: %w", err)
		}
		return m, nil
	case TypePingResponse:
		var m PingResponse
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("protocol: decode ping-resp: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}
