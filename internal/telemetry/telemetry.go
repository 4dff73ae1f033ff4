// Package telemetry exposes per-step aggregate metrics as Prometheus
// gauges, optionally served over HTTP, mirroring the teacher's plain
// net/http server style (internal/api/server.go) rather than inventing a
// bespoke metrics transport.
package telemetry

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/orbitsim/internal/metrics"
)

// labelNames identifies one running (strategy, repetition) worker.
var labelNames = []string{"strategy", "repetition"}

// Reporter owns one Prometheus registry and, if an address was given, the
// HTTP server exposing it at /metrics.
type Reporter struct {
	registry *prometheus.Registry

	throughput *prometheus.GaugeVec
	dropRate   *prometheus.GaugeVec
	avgDelay   *prometheus.GaugeVec
	cost       *prometheus.GaugeVec
	avgHops    *prometheus.GaugeVec

	server *http.Server
}

// NewReporter builds a Reporter and, when addr is non-empty, starts serving
// /metrics on it in the background. addr == "" disables the HTTP endpoint
// entirely; Observe still records into the in-process registry.
func NewReporter(addr string) *Reporter {
	reg := prometheus.NewRegistry()

	r := &Reporter{
		registry: reg,
		throughput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orbitsim_throughput_bps",
			Help: "Per-step delivered throughput in bits per second.",
		}, labelNames),
		dropRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orbitsim_drop_rate",
			Help: "Per-step generation-weighted drop rate.",
		}, labelNames),
		avgDelay: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orbitsim_avg_delay_ms",
			Help: "Per-step generation-weighted average delay in milliseconds.",
		}, labelNames),
		cost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orbitsim_cost_ms",
			Help: "Per-step generation-weighted average cost in milliseconds.",
		}, labelNames),
		avgHops: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orbitsim_avg_hops",
			Help: "Per-step rate-weighted average hop count of delivered streams.",
		}, labelNames),
	}
	reg.MustRegister(r.throughput, r.dropRate, r.avgDelay, r.cost, r.avgHops)

	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		r.server = &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		go func() {
			log.Printf("telemetry: serving metrics on %s", addr)
			if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("telemetry: metrics server exited: %v", err)
			}
		}()
	}

	return r
}

// Observe records one step's aggregate under the given (strategy, repetition) labels.
func (r *Reporter) Observe(strategy string, repetition int, agg metrics.Aggregate) {
	rep := strconv.Itoa(repetition)
	r.throughput.WithLabelValues(strategy, rep).Set(agg.Throughput)
	r.dropRate.WithLabelValues(strategy, rep).Set(agg.DropRate)
	r.avgDelay.WithLabelValues(strategy, rep).Set(agg.AvgDelay)
	r.cost.WithLabelValues(strategy, rep).Set(agg.Cost)
	r.avgHops.WithLabelValues(strategy, rep).Set(agg.AvgHops)
}

// Shutdown gracefully stops the HTTP server, if one was started.
func (r *Reporter) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
