package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ecoleta_"

	ResultSuccess   = "success"
	ResultError     = "error"
	ResultInvalid   = "invalid"
	ResultReference = "invalid_reference"
)

var (
	registerOnce sync.Once

	discoveryQueries *prometheus.CounterVec
	discoveryLatency *prometheus.HistogramVec
	discoveryResults prometheus.Histogram

	registrations *prometheus.CounterVec

	itemCatalogHits *prometheus.CounterVec
)

// Init registers the service metrics with the default registry. Helpers are
// no-ops until Init has run.
func Init() {
	registerOnce.Do(func() {
		discoveryQueries = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "discovery_queries_total",
				Help: "Point discovery queries by result and whether an item filter was applied",
			},
			[]string{"result", "filtered"},
		)
		discoveryLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "discovery_latency_seconds",
				Help:    "Point discovery latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		discoveryResults = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "discovery_result_points",
				Help:    "Number of points returned by a discovery query",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		)
		registrations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "point_registrations_total",
				Help: "Point registrations by result",
			},
			[]string{"result"},
		)
		itemCatalogHits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "item_catalog_reads_total",
				Help: "Item catalog reads by cache outcome",
			},
			[]string{"cache"},
		)

		prometheus.MustRegister(
			discoveryQueries,
			discoveryLatency,
			discoveryResults,
			registrations,
			itemCatalogHits,
		)
	})
}

// ObserveDiscovery records one discovery query.
func ObserveDiscovery(result string, filtered bool, points int, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	f := "false"
	if filtered {
		f = "true"
	}
	if discoveryQueries != nil {
		discoveryQueries.WithLabelValues(result, f).Inc()
	}
	if discoveryLatency != nil {
		discoveryLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if discoveryResults != nil && result == ResultSuccess {
		discoveryResults.Observe(float64(points))
	}
}

// IncRegistration counts a registration attempt by outcome.
func IncRegistration(result string) {
	if registrations != nil {
		registrations.WithLabelValues(result).Inc()
	}
}

func IncItemCatalogRead(hit bool) {
	if itemCatalogHits == nil {
		return
	}
	if hit {
		itemCatalogHits.WithLabelValues("hit").Inc()
		return
	}
	itemCatalogHits.WithLabelValues("miss").Inc()
}
