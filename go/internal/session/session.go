// Package session owns one two-peer game session: role, the fixed player
// pair, the engine instance, the latency estimator, and the frame clock.
// It multiplexes transport receive, the ping interval, and the frame
// pump's refresh tick on a single goroutine, so none of that state needs
// locking.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/netplay/go/internal/diag"
	"github.com/mcdev12/netplay/go/internal/engine"
	"github.com/mcdev12/netplay/go/internal/latency"
	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/pacing"
	"github.com/mcdev12/netplay/go/internal/sim"
	"github.com/mcdev12/netplay/go/internal/transport"
)

// Config assembles a session's collaborators.
type Config struct {
	Role  models.Role
	Token string

	Dialer        transport.Dialer
	Simulation    sim.Simulation
	EngineFactory engine.Factory
	Surface       sim.Surface

	// Diagnostics receives a refresh once per processed frame. Optional.
	Diagnostics diag.Sink

	// Clock defaults to the real clock; tests inject a fake.
	Clock clockwork.Clock

	PingInterval       time.Duration
	RefreshInterval    time.Duration
	MaxPredictedFrames int
	LatencyDecay       float64
}

// DefaultPingInterval is how often a session emits ping-req once
// running.
const DefaultPingInterval = time.Second

// DefaultMaxPredictedFrames bounds how far the engine may predict ahead
// of confirmed remote input.
const DefaultMaxPredictedFrames = 8

// Session is one live two-peer session. All fields past construction are
// confined to the Run goroutine.
type Session struct {
	id  uuid.UUID
	cfg Config
	log zerolog.Logger

	state     LifecycleState
	err       error
	estimator *latency.Estimator

	players      [2]models.Player
	localPlayer  models.Player
	remotePlayer models.Player

	ch   transport.Channel
	eng  engine.Engine
	pump *pacing.Pump

	ctx context.Context
}

// New validates the config and returns an idle session.
func New(cfg Config) (*Session, error) {
	if cfg.Dialer == nil {
		return nil, fmt.Errorf("session: dialer is required")
	}
	if cfg.Simulation == nil {
		return nil, fmt.Errorf("session: simulation is required")
	}
	if cfg.EngineFactory == nil {
		return nil, fmt.Errorf("session: engine factory is required")
	}
	if cfg.Surface == nil {
		return nil, fmt.Errorf("session: surface is required")
	}
	if cfg.Role == models.RoleClient && cfg.Token == "" {
		return nil, fmt.Errorf("session: client role requires a room token")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = cfg.Simulation.Timestep() / 4
	}
	if cfg.MaxPredictedFrames <= 0 {
		cfg.MaxPredictedFrames = DefaultMaxPredictedFrames
	}

	id := uuid.New()
	return &Session{
		id:        id,
		cfg:       cfg,
		log:       log.With().Str("session_id", id.String()).Stringer("role", cfg.Role).Logger(),
		state:     StateIdle,
		estimator: latency.New(cfg.LatencyDecay),
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() LifecycleState { return s.state }

// Err returns the error that moved the session to Errored, if any.
func (s *Session) Err() error { return s.err }

// Players returns the fixed player pair. Valid once running.
func (s *Session) Players() [2]models.Player { return s.players }

// Estimator exposes the latency estimator for observability.
func (s *Session) Estimator() *latency.Estimator { return s.estimator }

// Run drives the session to completion: rendezvous, channel open, engine
// construction, then the event loop. It returns when the context is
// cancelled, the peer leaves, or the session errors.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	s.transition(StateSignalingOpen)

	var (
		ch  transport.Channel
		err error
	)
	switch s.cfg.Role {
	case models.RoleHost:
		ch, err = s.cfg.Dialer.Host(ctx, s.cfg.Token)
		if err == nil {
			s.transition(StateAwaitingPeer)
		}
	case models.RoleClient:
		ch, err = s.cfg.Dialer.Join(ctx, s.cfg.Token)
		if err == nil {
			s.transition(StateDialing)
		}
	default:
		err = fmt.Errorf("session: unknown role %v", s.cfg.Role)
	}
	if err != nil {
		s.fail(err)
		return err
	}
	s.ch = ch
	defer ch.Close()

	// Hold until the data channel reports the peer present. There is
	// deliberately no timeout here; only the context can abort the wait.
	for s.state == StateAwaitingPeer || s.state == StateDialing {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-ch.Events():
			switch ev.Kind {
			case transport.PeerJoined:
				s.transition(StateDataChannelOpen)
			case transport.PeerLeft:
				err := fmt.Errorf("session: peer left before channel opened")
				s.fail(err)
				return err
			case transport.Errored:
				s.fail(ev.Err)
				return ev.Err
			}
		}
	}

	if err := s.open(); err != nil {
		s.fail(err)
		return err
	}
	s.transition(StateRunning)
	return s.loop(ctx)
}

// open constructs the player pair, the engine, and the frame pump. It
// runs exactly once, at data-channel open.
func (s *Session) open() error {
	s.players = models.PlayerPair(s.cfg.Role)
	for _, p := range s.players {
		if p.Local {
			s.localPlayer = p
		} else {
			s.remotePlayer = p
		}
	}

	initialState, initialInputs := s.cfg.Simulation.InitialStateAndInputs(s.players)
	engCfg := engine.Config{
		IsHost:             s.cfg.Role == models.RoleHost,
		Players:            s.players,
		InitialState:       initialState,
		InitialInputs:      initialInputs,
		MaxPredictedFrames: s.cfg.MaxPredictedFrames,
		Latency:            s.estimator,
		Timestep:           s.cfg.Simulation.Timestep(),
		OnLocalInput:       s.sendLocalInput,
	}
	if s.cfg.Role == models.RoleHost {
		engCfg.OnStateSnapshot = s.sendStateSnapshot
	}

	eng, err := s.cfg.EngineFactory(engCfg)
	if err != nil {
		return fmt.Errorf("session: construct engine: %w", err)
	}
	s.eng = eng

	pump, err := pacing.NewPump(pacing.Config{
		Engine:          eng,
		Simulation:      s.cfg.Simulation,
		Surface:         s.cfg.Surface,
		Estimator:       s.estimator,
		Sink:            s.cfg.Diagnostics,
		Clock:           s.cfg.Clock,
		RefreshInterval: s.cfg.RefreshInterval,
	})
	if err != nil {
		return fmt.Errorf("session: construct frame pump: %w", err)
	}
	s.pump = pump

	s.log.Info().
		Stringer("local", s.localPlayer).
		Stringer("remote", s.remotePlayer).
		Dur("timestep", s.cfg.Simulation.Timestep()).
		Msg("session open")
	return nil
}

// loop is the session's single event goroutine: transport receive, the
// ping interval, and the frame refresh all run to completion here, one
// at a time.
func (s *Session) loop(ctx context.Context) error {
	ping := s.cfg.Clock.NewTicker(s.cfg.PingInterval)
	defer ping.Stop()
	refresh := s.cfg.Clock.NewTicker(s.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("session stopped by host environment")
			return ctx.Err()

		case raw, ok := <-s.ch.Receive():
			if !ok {
				err := fmt.Errorf("session: transport receive closed")
				s.fail(err)
				return err
			}
			if err := s.handleMessage(raw); err != nil {
				s.fail(err)
				return err
			}

		case ev := <-s.ch.Events():
			switch ev.Kind {
			case transport.PeerLeft:
				err := fmt.Errorf("session: peer left")
				s.fail(err)
				return err
			case transport.Errored:
				s.fail(ev.Err)
				return ev.Err
			}

		case <-ping.Chan():
			s.sendPing()

		case now := <-refresh.Chan():
			s.pump.Tick(now)
		}
	}
}

func (s *Session) transition(next LifecycleState) {
	s.log.Debug().Stringer("from", s.state).Stringer("to", next).Msg("lifecycle transition")
	s.state = next
}

// fail moves the session to the absorbing Errored state. Transport
// failures are fatal to the session but not to the process; there is no
// retry.
func (s *Session) fail(err error) {
	if s.state == StateErrored {
		return
	}
	s.err = err
	s.state = StateErrored
	s.log.Error().Err(err).Msg("session errored")
}
