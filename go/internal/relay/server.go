// Package relay implements the rendezvous and relay server. A host
// registers a room under its token; a client dials the token; the server
// then pipes data frames between the two WebSocket connections in order,
// both ways. Rooms hold at most two members and disappear when both
// leave.
package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/netplay/go/internal/transport"
)

// Config holds connection tuning for the relay server.
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the relay server defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendQueueSize:   256,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
}

// Server relays frames between the two members of each room.
type Server struct {
	mu       sync.RWMutex
	rooms    map[string]*room
	upgrader websocket.Upgrader
	cfg      Config
}

type room struct {
	token  string
	host   *member
	client *member
}

type member struct {
	id   uuid.UUID
	role string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewServer builds a relay server.
func NewServer(cfg Config) *Server {
	return &Server{
		rooms: make(map[string]*room),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		cfg: cfg,
	}
}

// RegisterRoutes attaches the relay endpoints to a mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleSession)
	mux.HandleFunc("/rooms", s.HandleRooms)
	log.Info().Msg("relay routes registered")
}

// HandleSession upgrades a peer connection and binds it into its room.
func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("room")
	if token == "" {
		http.Error(w, "room is required", http.StatusBadRequest)
		return
	}
	role := r.URL.Query().Get("role")
	if role != "host" && role != "client" {
		http.Error(w, "role must be host or client", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade relay connection")
		return
	}

	m := &member{
		id:   uuid.New(),
		role: role,
		conn: conn,
		send: make(chan []byte, s.cfg.SendQueueSize),
		done: make(chan struct{}),
	}
	go s.writePump(m)

	if err := s.bind(token, m); err != nil {
		s.reject(m, err.Error())
		return
	}

	log.Info().
		Str("member_id", m.id.String()).
		Str("room", token).
		Str("role", role).
		Msg("peer bound to room")

	s.readLoop(token, m)
}

// HandleRooms reports active rooms as JSON.
func (s *Server) HandleRooms(w http.ResponseWriter, r *http.Request) {
	type roomInfo struct {
		Room    string `json:"room"`
		Members int    `json:"members"`
	}
	s.mu.RLock()
	out := struct {
		Rooms []roomInfo `json:"rooms"`
	}{Rooms: make([]roomInfo, 0, len(s.rooms))}
	for token, rm := range s.rooms {
		n := 0
		if rm.host != nil {
			n++
		}
		if rm.client != nil {
			n++
		}
		out.Rooms = append(out.Rooms, roomInfo{Room: token, Members: n})
	}
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("encode rooms response")
	}
}

// bind registers a member into its room and, once both sides are
// present, notifies each of them.
func (s *Server) bind(token string, m *member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm := s.rooms[token]
	switch m.role {
	case "host":
		if rm != nil && rm.host != nil {
			return errRoomTaken
		}
		if rm == nil {
			rm = &room{token: token}
			s.rooms[token] = rm
		}
		rm.host = m
	case "client":
		if rm == nil || rm.host == nil {
			return errNoSuchRoom
		}
		if rm.client != nil {
			return errRoomFull
		}
		rm.client = m
	}

	if rm.host != nil && rm.client != nil {
		joined, _ := json.Marshal(transport.Frame{Kind: transport.FramePeerJoined})
		rm.host.enqueue(joined)
		rm.client.enqueue(joined)
	}
	return nil
}

// readLoop forwards data frames to the room counterpart until the
// connection drops, then unbinds the member.
func (s *Server) readLoop(token string, m *member) {
	defer s.unbind(token, m)

	m.conn.SetReadLimit(s.cfg.MaxMessageSize)
	m.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	m.conn.SetPongHandler(func(string) error {
		m.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, raw, err := m.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("member_id", m.id.String()).Msg("unexpected relay close")
			}
			return
		}
		m.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		var frame transport.Frame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Kind != transport.FrameData {
			// Only data frames cross the relay; anything else from a
			// peer is dropped.
			continue
		}
		if other := s.counterpart(token, m); other != nil {
			other.enqueue(raw)
		}
	}
}

func (s *Server) counterpart(token string, m *member) *member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rm := s.rooms[token]
	if rm == nil {
		return nil
	}
	if rm.host == m {
		return rm.client
	}
	return rm.host
}

func (s *Server) unbind(token string, m *member) {
	s.mu.Lock()
	rm := s.rooms[token]
	var other *member
	if rm != nil {
		if rm.host == m {
			rm.host = nil
		}
		if rm.client == m {
			rm.client = nil
		}
		if rm.host == nil && rm.client == nil {
			delete(s.rooms, token)
		} else if rm.host != nil {
			other = rm.host
		} else {
			other = rm.client
		}
	}
	s.mu.Unlock()

	m.close()
	if other != nil {
		left, _ := json.Marshal(transport.Frame{Kind: transport.FramePeerLeft})
		other.enqueue(left)
	}
	log.Info().
		Str("member_id", m.id.String()).
		Str("room", token).
		Str("role", m.role).
		Msg("peer unbound from room")
}

func (s *Server) reject(m *member, reason string) {
	frame, _ := json.Marshal(transport.Frame{Kind: transport.FrameError, Reason: reason})
	m.enqueue(frame)
	// Give the write pump a moment to flush before tearing down.
	time.Sleep(50 * time.Millisecond)
	m.close()
	log.Warn().Str("member_id", m.id.String()).Str("reason", reason).Msg("peer rejected")
}

func (m *member) enqueue(frame []byte) {
	select {
	case m.send <- frame:
	default:
		log.Warn().Str("member_id", m.id.String()).Msg("member send queue full, dropping frame")
	}
}

func (m *member) close() {
	m.once.Do(func() {
		close(m.done)
		m.conn.Close()
	})
}

// writePump drains the member's send queue and keeps the connection
// alive with periodic pings.
func (s *Server) writePump(m *member) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		m.close()
	}()
	for {
		select {
		case <-m.done:
			return
		case frame := <-m.send:
			m.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := m.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error().Err(err).Str("member_id", m.id.String()).Msg("relay write failed")
				return
			}
		case <-ticker.C:
			m.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := m.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
