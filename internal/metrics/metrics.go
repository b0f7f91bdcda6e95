// Package metrics exposes prometheus counters for checking runs.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const NAMESPACE = "hexpat"

// Results a check can end with.
const (
	RESULT_OK       = "ok"
	RESULT_INVALID  = "invalid"
	RESULT_INTERNAL = "internal"
	RESULT_DECODE   = "decode"
)

type Collector struct {
	registry *prometheus.Registry

	checks   *prometheus.CounterVec
	duration prometheus.Histogram
	nodes    prometheus.Counter
}

// NewCollector registers the check metrics on registry, or on a fresh
// registry when nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "checks_total",
			Help:      "Documents checked, by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "check_duration_seconds",
			Help:      "Time spent decoding and validating one document.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "nodes_checked_total",
			Help:      "Top-level AST nodes in documents that decoded.",
		}),
	}
	registry.MustRegister(c.checks, c.duration, c.nodes)

	for _, result := range []string{RESULT_OK, RESULT_INVALID, RESULT_INTERNAL, RESULT_DECODE} {
		c.checks.WithLabelValues(result)
	}
	return c
}

func (c *Collector) ObserveCheck(result string, nodes int, elapsed time.Duration) {
	c.checks.WithLabelValues(result).Inc()
	c.duration.Observe(elapsed.Seconds())
	c.nodes.Add(float64(nodes))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server started", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("metrics server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
