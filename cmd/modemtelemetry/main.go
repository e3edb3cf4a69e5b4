// cmd/modemtelemetry/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/config"
	"github.com/tamzrod/modem-telemetry/internal/metrics"
	"github.com/tamzrod/modem-telemetry/internal/poller"
	"github.com/tamzrod/modem-telemetry/internal/status"
	"github.com/tamzrod/modem-telemetry/internal/writer"
)

func main() {
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		boot.Fatal().Msg("usage: modemtelemetry <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("config load failed")
	}

	if err := config.Validate(cfg); err != nil {
		boot.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	log := newLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --------------------
	// Build pipeline
	// --------------------

	// ---- poller ----
	p, closePoller, err := poller.Build(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("poller build failed")
	}
	defer closePoller()

	// ---- writer plan + sinks ----
	plan, err := writer.BuildPlan(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("writer plan failed")
	}

	sinks, statusSinks, closeWriters, err := writer.BuildEndpointClients(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("writer clients failed")
	}
	defer closeWriters()

	dataWriter := writer.New(plan, sinks)

	// Status delivery is optional; the reporter always logs.
	statusWriter, statusEnabled := writer.NewStatusWriter(statusSinks)
	reporter := status.NewReporter(statusWriter, log)
	log.Debug().Bool("status_delivery", statusEnabled).Msg("status reporter ready")

	// ---- metrics ----
	var obs poller.Observer
	if cfg.Metrics.Listen != "" {
		m := metrics.New()
		obs = m
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen, log); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	// --------------------
	// Announce, then poll until signalled
	// --------------------

	reporter.Initializing()
	if err := dataWriter.WriteMeta(); err != nil {
		log.Warn().Err(err).Msg("meta announcement failed")
	}

	runner := poller.NewRunner(p, dataWriter, reporter, obs, log)
	interval := time.Duration(cfg.Poll.IntervalS) * time.Second

	log.Info().Str("config", cfgPath).Dur("interval", interval).Msg("modem telemetry started")
	if err := runner.Run(ctx, interval, cfg.Poll.SingleFlight); err != nil {
		log.Error().Err(err).Msg("runner failed")
	}
	log.Info().Msg("modem telemetry stopped")
}

func newLogger(c config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stderr)
	if c.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return out.Level(level).With().Timestamp().Logger()
}
