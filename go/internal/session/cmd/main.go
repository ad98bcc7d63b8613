package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/netplay/go/internal/config"
	"github.com/mcdev12/netplay/go/internal/diag"
	"github.com/mcdev12/netplay/go/internal/engine/lockstep"
	"github.com/mcdev12/netplay/go/internal/models"
	"github.com/mcdev12/netplay/go/internal/rendezvous"
	"github.com/mcdev12/netplay/go/internal/session"
	"github.com/mcdev12/netplay/go/internal/sim/simtest"
	"github.com/mcdev12/netplay/go/internal/transport"
	"github.com/mcdev12/netplay/go/internal/transport/natsrelay"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	configPath := flag.String("config", "", "path to peer YAML config")
	quiet := flag.Bool("quiet", false, "suppress the frame display")
	flag.Parse()

	cfg, err := config.LoadPeer(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// The locator decides the role: a room token means join as client,
	// none means host a new room.
	role, token := models.RoleHost, ""
	if flag.NArg() > 0 {
		role, token = rendezvous.Resolve(flag.Arg(0))
	}
	if role == models.RoleHost {
		token = rendezvous.NewToken()
		fmt.Printf("share this link with your peer:\n  %s\n\n", rendezvous.ShareURL(cfg.ShareBase, token))
	}

	var dialer transport.Dialer
	switch cfg.Transport {
	case "nats":
		nrc := natsrelay.DefaultConfig()
		nrc.URL = cfg.NATSURL
		dialer = &natsrelay.Dialer{Config: nrc}
	case "ws":
		dialer = &transport.RelayDialer{BaseURL: cfg.RelayURL}
	default:
		log.Fatal().Str("transport", cfg.Transport).Msg("unknown transport")
	}

	paddles := simtest.Paddles{}
	w, h := paddles.SurfaceSize()
	surface := simtest.NewTextSurface(w, h)
	panel := &diag.Panel{}

	// Refresh runs on the session goroutine right after Draw, so
	// rendering here is safe.
	display := diag.SinkFunc(func(s diag.Snapshot) {
		panel.Refresh(s)
		if *quiet {
			return
		}
		fmt.Print("\033[H\033[2J")
		fmt.Println(surface.Render())
		fmt.Println(panel.Render())
	})

	sess, err := session.New(session.Config{
		Role:               role,
		Token:              token,
		Dialer:             dialer,
		Simulation:         paddles,
		EngineFactory:      lockstep.Factory(simtest.Step),
		Surface:            surface,
		Diagnostics:        display,
		PingInterval:       cfg.PingInterval,
		RefreshInterval:    cfg.RefreshInterval,
		MaxPredictedFrames: cfg.MaxPredictedFrames,
		LatencyDecay:       cfg.LatencyDecay,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Stringer("role", role).Str("room", token).Msg("starting session")

	if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("session ended with error")
	}

	log.Info().Msg("session shutdown complete")
}
