// Package metrics exposes Prometheus collectors for dialogue generation,
// reputation changes and the HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Miltondz/one-page-rpg-sub001/internal/services"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/dialogue"
	"github.com/Miltondz/one-page-rpg-sub001/pkg/reputation"
)

const namespace = "social"

// Generation results, used as the "result" label.
const (
	ResultOK          = "ok"
	ResultUnavailable = "unavailable"
	ResultRateLimited = "rate_limited"
	ResultEmpty       = "empty"
	ResultMalformed   = "malformed"
	ResultFailed      = "failed"
)

// Metrics owns its own registry so tests and multiple servers never collide
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	generations       *prometheus.CounterVec
	reputationChanges *prometheus.CounterVec
	activeGames       prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogue_generations_total",
			Help:      "Dialogue lines produced, by source and generative result.",
		}, []string{"source", "result"}),
		reputationChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reputation_changes_total",
			Help:      "Faction actions applied, by primary faction and direction.",
		}, []string{"faction", "direction"}),
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Games held in memory.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.generations,
		m.reputationChanges,
		m.activeGames,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveGeneration implements dialogue.Observer.
func (m *Metrics) ObserveGeneration(_ string, source dialogue.Source, err error) {
	m.generations.WithLabelValues(string(source), GenerationResult(err)).Inc()
}

// GenerationResult maps a generative-stage error to a label value.
func GenerationResult(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, dialogue.ErrGenerationUnavailable):
		return ResultUnavailable
	case errors.Is(err, services.ErrRateLimited):
		return ResultRateLimited
	case errors.Is(err, dialogue.ErrEmptyResponse):
		return ResultEmpty
	case errors.Is(err, dialogue.ErrMalformedResponse):
		return ResultMalformed
	default:
		return ResultFailed
	}
}

func (m *Metrics) ObserveReputationChange(f reputation.Faction, change int) {
	direction := "none"
	switch {
	case change > 0:
		direction = "up"
	case change < 0:
		direction = "down"
	}
	m.reputationChanges.WithLabelValues(string(f), direction).Inc()
}

func (m *Metrics) SetActiveGames(n int) {
	m.activeGames.Set(float64(n))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
