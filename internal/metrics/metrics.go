// Package metrics exposes poll-cycle counters and the last decoded values
// to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/fault"
	"github.com/tamzrod/modem-telemetry/internal/poller"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

var _ poller.Observer = (*Metrics)(nil)

// Metrics implements poller.Observer.
type Metrics struct {
	reg *prometheus.Registry

	cycles   *prometheus.CounterVec
	failures *prometheus.CounterVec
	skipped  prometheus.Counter
	inflight prometheus.Gauge
	duration prometheus.Histogram
	values   *prometheus.GaugeVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modem_poll_cycles_total",
			Help: "Poll cycles by result (ok|error).",
		}, []string{"result"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modem_poll_failures_total",
			Help: "Failed poll cycles by failure kind and step.",
		}, []string{"kind", "step"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modem_poll_ticks_skipped_total",
			Help: "Ticks dropped because the previous cycle was still running.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "modem_poll_cycles_in_flight",
			Help: "Poll cycles currently running.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "modem_poll_cycle_duration_seconds",
			Help:    "Wall time of one poll cycle.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "modem_telemetry_value",
			Help: "Last numeric value emitted per telemetry path.",
		}, []string{"path"}),
	}
	m.reg.MustRegister(m.cycles, m.failures, m.skipped, m.inflight, m.duration, m.values)
	return m
}

// CycleStarted implements poller.Observer.
func (m *Metrics) CycleStarted() { m.inflight.Inc() }

// CycleSkipped implements poller.Observer.
func (m *Metrics) CycleSkipped() { m.skipped.Inc() }

// CycleFinished implements poller.Observer.
func (m *Metrics) CycleFinished(res poller.PollResult, took time.Duration) {
	m.inflight.Dec()
	m.duration.Observe(took.Seconds())

	if res.Err != nil {
		m.cycles.WithLabelValues("error").Inc()
		m.failures.WithLabelValues(fault.KindOf(res.Err).String(), res.FailedStep).Inc()
		return
	}
	m.cycles.WithLabelValues("ok").Inc()

	for _, v := range res.Values {
		switch x := v.Value.(type) {
		case telemetry.Position:
			m.values.WithLabelValues(v.Path + ".latitude").Set(x.Latitude)
			m.values.WithLabelValues(v.Path + ".longitude").Set(x.Longitude)
		default:
			if f, ok := number(x); ok {
				m.values.WithLabelValues(v.Path).Set(f)
			}
		}
	}
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on listen until ctx ends.
func (m *Metrics) Serve(ctx context.Context, listen string, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("component", "metrics").Str("listen", listen).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
