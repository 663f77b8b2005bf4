package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "koebako"

type PrometheusRecorder struct {
	transitions    *prometheus.CounterVec
	flushFailures  prometheus.Counter
	notifyFailures prometheus.Counter
	openSessions   prometheus.Gauge
}

func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	f := promauto.With(reg)
	return &PrometheusRecorder{
		transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "voice_transitions_total",
				Help:      "Voice transitions recorded and flushed, by action.",
			},
			[]string{"action"},
		),
		flushFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_failures_total",
			Help:      "Transitions whose persistence flush failed.",
		}),
		notifyFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be delivered.",
		}),
		openSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_voice_sessions",
			Help:      "Members currently tracked in a voice channel.",
		}),
	}
}

func (r *PrometheusRecorder) TransitionProcessed(action string) {
	r.transitions.WithLabelValues(action).Inc()
}

func (r *PrometheusRecorder) FlushFailed() {
	r.flushFailures.Inc()
}

func (r *PrometheusRecorder) NotificationFailed() {
	r.notifyFailures.Inc()
}

func (r *PrometheusRecorder) OpenSessions(n int) {
	r.openSessions.Set(float64(n))
}

func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown failed", "error", err)
		}
	}()

	slog.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
