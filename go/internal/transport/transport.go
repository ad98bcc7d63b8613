// Package transport abstracts the reliable, order-preserving two-peer
// channel the session runs over. The session layer never sees a concrete
// transport; it consumes Channel and Dialer.
package transport

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrChannelClosed is returned by Send after the channel has closed.
var ErrChannelClosed = errors.New("transport: channel closed")

// EventKind enumerates channel lifecycle notifications.
type EventKind int

const (
	// PeerJoined fires once when the remote side is present and the data
	// channel is usable.
	PeerJoined EventKind = iota
	// PeerLeft fires when the remote side goes away. The session treats
	// it as terminal; there is no reconnect.
	PeerLeft
	// Errored fires on a transport failure.
	Errored
)

func (k EventKind) String() string {
	switch k {
	case PeerJoined:
		return "peer-joined"
	case PeerLeft:
		return "peer-left"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Event is one lifecycle notification.
type Event struct {
	Kind EventKind
	Err  error
}

// Channel is an open bidirectional byte channel to the single remote
// peer. Payloads arrive in send order; the channel itself provides no
// retransmission or deduplication.
type Channel interface {
	// Send queues one payload for the peer. It blocks only if the
	// transport's outbound queue is full.
	Send(ctx context.Context, payload []byte) error

	// Receive yields inbound payloads. The channel closes when the
	// transport does.
	Receive() <-chan []byte

	// Events yields lifecycle notifications.
	Events() <-chan Event

	Close() error
}

// Dialer establishes channels through a rendezvous point. Host registers
// a room under the token and waits; Join dials an existing room. Neither
// applies a timeout of its own; cancellation comes from the context.
type Dialer interface {
	Host(ctx context.Context, token string) (Channel, error)
	Join(ctx context.Context, token string) (Channel, error)
}

// Frame is the envelope exchanged with the relay server. Data frames
// wrap session payloads verbatim; the other kinds are relay control
// notifications.
type Frame struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

const (
	FrameData       = "data"
	FramePeerJoined = "peer-joined"
	FramePeerLeft   = "peer-left"
	FrameError      = "error"
)
