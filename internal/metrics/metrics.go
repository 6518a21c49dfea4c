// Package metrics exposes Prometheus collectors for upstream traffic, cache
// effectiveness and schedule provenance.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the scraper records into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	SchedulesServed  *prometheus.CounterVec
	ScheduleIDs      prometheus.Gauge
	UpcomingGames    prometheus.Gauge
}

// New registers the collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acorn_upstream_requests_total",
				Help: "Total number of requests to the athletics site",
			},
			[]string{"status"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "acorn_upstream_request_duration_seconds",
				Help:    "Duration of requests to the athletics site in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acorn_cache_lookups_total",
				Help: "Cache lookups by cache name and outcome",
			},
			[]string{"cache", "outcome"},
		),
		SchedulesServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acorn_schedules_served_total",
				Help: "Schedules returned by sport and data source",
			},
			[]string{"sport", "data_source"},
		),
		ScheduleIDs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "acorn_schedule_ids_resolved",
				Help: "Number of sports with a resolved text-export schedule ID",
			},
		),
		UpcomingGames: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "acorn_upcoming_games",
				Help: "Number of upcoming games in the last aggregation",
			},
		),
	}
}

// RecordUpstream records one upstream request. status is 0 for transport errors.
func (m *Metrics) RecordUpstream(status int, seconds float64) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(label).Inc()
	m.UpstreamDuration.WithLabelValues(label).Observe(seconds)
}

// RecordCache records a cache hit or miss
func (m *Metrics) RecordCache(cache string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, outcome).Inc()
}

// RecordSchedule records which source served a schedule
func (m *Metrics) RecordSchedule(sport, dataSource string) {
	if m == nil {
		return
	}
	m.SchedulesServed.WithLabelValues(sport, dataSource).Inc()
}

// SetScheduleIDs records the size of the last resolved ID map
func (m *Metrics) SetScheduleIDs(n int) {
	if m == nil {
		return
	}
	m.ScheduleIDs.Set(float64(n))
}

// SetUpcomingGames records the size of the last upcoming-games aggregation
func (m *Metrics) SetUpcomingGames(n int) {
	if m == nil {
		return
	}
	m.UpcomingGames.Set(float64(n))
}
