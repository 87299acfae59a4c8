package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface on top of Prometheus
// collectors.
type Prometheus struct {
	solves        *prometheus.CounterVec
	moves         prometheus.Counter
	solveDuration prometheus.Histogram
	cacheEvents   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInflight  prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them with reg.
// It panics if any collector is already registered, like MustRegister.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hanoi_solves_total",
				Help: "Completed solve runs by result.",
			},
			[]string{"result"},
		),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hanoi_moves_total",
			Help: "Disk moves made by successful solves.",
		}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hanoi_solve_duration_seconds",
			Help:    "Wall time of solve runs.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hanoi_cache_events_total",
				Help: "Cache lookups and writes by event and key type.",
			},
			[]string{"event", "key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hanoi_http_requests_total",
				Help: "HTTP responses by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "hanoi_http_request_duration_seconds",
				Help: "HTTP request latency by method and route.",
			},
			[]string{"method", "route"},
		),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hanoi_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(
		p.solves, p.moves, p.solveDuration, p.cacheEvents,
		p.httpRequests, p.httpDuration, p.httpInflight,
	)
	return p
}

// Install registers p as the solver, cache and HTTP hooks.
func (p *Prometheus) Install() {
	SetSolverHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

func (p *Prometheus) OnSolveStart(context.Context, int) {}

func (p *Prometheus) OnSolveComplete(_ context.Context, _ int, moves int, d time.Duration, err error) {
	if err != nil {
		p.solves.WithLabelValues("error").Inc()
		return
	}
	p.solves.WithLabelValues("ok").Inc()
	p.moves.Add(float64(moves))
	p.solveDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cacheEvents.WithLabelValues("set", keyType).Inc()
}

func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.httpInflight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpInflight.Dec()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// WriteTextfile writes everything g gathers to path in the Prometheus text
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

var (
	_ SolverHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ HTTPHooks   = (*Prometheus)(nil)
)
