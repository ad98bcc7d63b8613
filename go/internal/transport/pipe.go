package transport

import (
	"context"
	"sync"
)

const pipeBuffer = 256

// Pipe returns a connected in-memory channel pair for tests and
// single-process demos. Both ends observe PeerJoined immediately;
// closing one end delivers PeerLeft to the other.
func Pipe() (Channel, Channel) {
	ab := make(chan []byte, pipeBuffer)
	ba := make(chan []byte, pipeBuffer)
	a := &pipeEnd{out: ab, in: ba, events: make(chan Event, 4), done: make(chan struct{})}
	b := &pipeEnd{out: ba, in: ab, events: make(chan Event, 4), done: make(chan struct{})}
	a.peer, b.peer = b, a
	a.events <- Event{Kind: PeerJoined}
	b.events <- Event{Kind: PeerJoined}
	return a, b
}

type pipeEnd struct {
	out    chan []byte
	in     chan []byte
	events chan Event
	done   chan struct{}
	peer   *pipeEnd
	once   sync.Once
}

func (p *pipeEnd) Send(ctx context.Context, payload []byte) error {
	// Copy so the caller may reuse its buffer after Send returns.
	buf := make([]byte, len(payload))
	copy(buf, payload)
	select {
	case <-p.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.out <- buf:
		return nil
	}
}

func (p *pipeEnd) Receive() <-chan []byte { return p.in }
func (p *pipeEnd) Events() <-chan Event   { return p.events }

func (p *pipeEnd) Close() error {
	p.once.Do(func() {
		close(p.done)
		select {
		case p.peer.events <- Event{Kind: PeerLeft}:
		default:
		}
	})
	return nil
}
