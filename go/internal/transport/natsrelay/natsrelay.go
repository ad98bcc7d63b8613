// Package natsrelay carries the session channel over NATS core pub/sub
// instead of the WebSocket relay. Each room is a subject pair: frames to
// the host ride <prefix>.<room>.to-host, frames to the client ride
// <prefix>.<room>.to-client. Presence is a hello request/reply on
// <prefix>.<room>.hello.
//
// Ordering note: NATS preserves publish order per connection and
// subject, which satisfies the channel contract as long as each
// direction has a single publisher — which a two-peer room guarantees.
package natsrelay

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/netplay/go/internal/transport"
)

// Config tunes the NATS connection.
type Config struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
	QueueSize     int
}

// DefaultConfig returns the defaults used by the peer binary.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "netplay",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		QueueSize:     256,
	}
}

// Dialer implements transport.Dialer over NATS.
type Dialer struct {
	Config Config
}

func (d *Dialer) Host(ctx context.Context, token string) (transport.Channel, error) {
	ch, err := d.connect(token, true)
	if err != nil {
		return nil, err
	}
	// Answer the client's hello and surface it as the peer joining.
	sub, err := ch.nc.Subscribe(ch.subject("hello"), func(m *nats.Msg) {
		if err := m.Respond([]byte("ok")); err != nil {
			log.Error().Err(err).Msg("hello ack failed")
			return
		}
		ch.emit(transport.Event{Kind: transport.PeerJoined})
	})
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("natsrelay: subscribe hello: %w", err)
	}
	ch.helloSub = sub
	return ch, nil
}

func (d *Dialer) Join(ctx context.Context, token string) (transport.Channel, error) {
	ch, err := d.connect(token, false)
	if err != nil {
		return nil, err
	}
	// No timeout of our own; only the caller's context bounds the wait.
	if _, err := ch.nc.RequestWithContext(ctx, ch.subject("hello"), nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("natsrelay: hello host: %w", err)
	}
	ch.emit(transport.Event{Kind: transport.PeerJoined})
	return ch, nil
}

func (d *Dialer) connect(token string, isHost bool) (*channel, error) {
	if token == "" {
		return nil, fmt.Errorf("natsrelay: empty room token")
	}
	cfg := d.Config
	if cfg.URL == "" {
		cfg = DefaultConfig()
	}

	ch := &channel{
		cfg:    cfg,
		token:  token,
		recv:   make(chan []byte, cfg.QueueSize),
		events: make(chan transport.Event, 8),
		done:   make(chan struct{}),
	}
	if isHost {
		ch.sendSubject = ch.subject("to-client")
		ch.recvSubject = ch.subject("to-host")
	} else {
		ch.sendSubject = ch.subject("to-host")
		ch.recvSubject = ch.subject("to-client")
	}

	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			ch.emit(transport.Event{Kind: transport.Errored, Err: err})
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			ch.emit(transport.Event{Kind: transport.PeerLeft})
		}),
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("natsrelay: connect %s: %w", cfg.URL, err)
	}
	ch.nc = nc

	sub, err := nc.Subscribe(ch.recvSubject, func(m *nats.Msg) {
		select {
		case ch.recv <- m.Data:
		case <-ch.done:
		}
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("natsrelay: subscribe %s: %w", ch.recvSubject, err)
	}
	ch.recvSub = sub

	log.Info().Str("room", token).Bool("host", isHost).Str("url", cfg.URL).Msg("NATS channel established")
	return ch, nil
}

type channel struct {
	cfg   Config
	token string
	nc    *nats.Conn

	sendSubject string
	recvSubject string
	recvSub     *nats.Subscription
	helloSub    *nats.Subscription

	recv   chan []byte
	events chan transport.Event
	done   chan struct{}
}

func (c *channel) subject(leaf string) string {
	return fmt.Sprintf("%s.%s.%s", c.cfg.SubjectPrefix, c.token, leaf)
}

func (c *channel) Send(ctx context.Context, payload []byte) error {
	select {
	case <-c.done:
		return transport.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := c.nc.Publish(c.sendSubject, payload); err != nil {
		return fmt.Errorf("natsrelay: publish: %w", err)
	}
	return nil
}

func (c *channel) Receive() <-chan []byte         { return c.recv }
func (c *channel) Events() <-chan transport.Event { return c.events }

func (c *channel) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	close(c.done)
	if c.helloSub != nil {
		c.helloSub.Unsubscribe()
	}
	if c.recvSub != nil {
		c.recvSub.Unsubscribe()
	}
	c.nc.Drain()
	return nil
}

func (c *channel) emit(ev transport.Event) {
	select {
	case c.events <- ev:
	default:
		log.Warn().Stringer("kind", ev.Kind).Msg("NATS channel event queue full, dropping event")
	}
}
