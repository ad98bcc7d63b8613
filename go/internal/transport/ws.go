package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ChannelConfig tunes the WebSocket relay channel.
type ChannelConfig struct {
	WriteTimeout    time.Duration
	PingInterval    time.Duration // transport-level keepalive, unrelated to protocol pings
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
}

// DefaultChannelConfig returns the defaults used by the peer binary.
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendQueueSize:   256,
	}
}

// RelayDialer connects peers through the relay server's /ws endpoint.
type RelayDialer struct {
	// BaseURL is the relay server root, e.g. "ws://localhost:8420".
	BaseURL string
	Config  ChannelConfig
	Header  http.Header

	// Dialer overrides the websocket dialer; nil uses the default.
	Dialer *websocket.Dialer
}

func (d *RelayDialer) Host(ctx context.Context, token string) (Channel, error) {
	return d.connect(ctx, token, "host")
}

func (d *RelayDialer) Join(ctx context.Context, token string) (Channel, error) {
	return d.connect(ctx, token, "client")
}

func (d *RelayDialer) connect(ctx context.Context, token, role string) (Channel, error) {
	if token == "" {
		return nil, fmt.Errorf("transport: empty room token")
	}
	wsd := d.Dialer
	if wsd == nil {
		wsd = websocket.DefaultDialer
	}
	cfg := d.Config
	if cfg.SendQueueSize == 0 {
		cfg = DefaultChannelConfig()
	}
	endpoint := fmt.Sprintf("%s/ws?room=%s&role=%s", d.BaseURL, url.QueryEscape(token), role)
	conn, resp, err := wsd.DialContext(ctx, endpoint, d.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("transport: dial relay %s (%s): %w", endpoint, resp.Status, err)
		}
		return nil, fmt.Errorf("transport: dial relay %s: %w", endpoint, err)
	}
	log.Info().Str("room", token).Str("role", role).Msg("relay channel established")
	ch := newWSChannel(conn, cfg)
	go ch.readPump()
	go ch.writePump()
	return ch, nil
}

type wsChannel struct {
	conn   *websocket.Conn
	cfg    ChannelConfig
	send   chan []byte
	recv   chan []byte
	events chan Event
	done   chan struct{}
	once   sync.Once
}

func newWSChannel(conn *websocket.Conn, cfg ChannelConfig) *wsChannel {
	return &wsChannel{
		conn:   conn,
		cfg:    cfg,
		send:   make(chan []byte, cfg.SendQueueSize),
		recv:   make(chan []byte, cfg.SendQueueSize),
		events: make(chan Event, 8),
		done:   make(chan struct{}),
	}
}

func (c *wsChannel) Send(ctx context.Context, payload []byte) error {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	select {
	case <-c.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	case c.send <- buf:
		return nil
	}
}

func (c *wsChannel) Receive() <-chan []byte { return c.recv }
func (c *wsChannel) Events() <-chan Event   { return c.events }

func (c *wsChannel) Close() error {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}

func (c *wsChannel) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		log.Warn().Stringer("kind", ev.Kind).Msg("channel event queue full, dropping event")
	}
}

func (c *wsChannel) readPump() {
	defer c.Close()
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.emit(Event{Kind: PeerLeft})
				} else {
					c.emit(Event{Kind: Errored, Err: err})
				}
			}
			close(c.recv)
			return
		}
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Warn().Err(err).Msg("relay sent unparseable frame, ignoring")
			continue
		}
		switch frame.Kind {
		case FrameData:
			select {
			case c.recv <- frame.Payload:
			case <-c.done:
				close(c.recv)
				return
			}
		case FramePeerJoined:
			c.emit(Event{Kind: PeerJoined})
		case FramePeerLeft:
			c.emit(Event{Kind: PeerLeft})
		case FrameError:
			c.emit(Event{Kind: Errored, Err: errors.New(frame.Reason)})
		default:
			// Unknown relay frame kinds are ignored for forward
			// compatibility, like unknown protocol tags.
		}
	}
}

func (c *wsChannel) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case payload := <-c.send:
			frame, err := json.Marshal(Frame{Kind: FrameData, Payload: payload})
			if err != nil {
				log.Error().Err(err).Msg("marshal data frame")
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.emit(Event{Kind: Errored, Err: err})
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.emit(Event{Kind: Errored, Err: err})
				return
			}
		}
	}
}
