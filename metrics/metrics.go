// metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tzimport"

const (
	EndpointZoneList    = "list-time-zone"
	EndpointZoneDetails = "get-time-zone"

	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeTransport = "transport_error"
)

// ImportMetrics counts what an import run did. A nil *ImportMetrics is valid and
// records nothing.
type ImportMetrics struct {
	registry      *prometheus.Registry
	apiRequests   *prometheus.CounterVec
	errorLogRows  prometheus.Counter
	zonesImported prometheus.Counter
	detailsMerged prometheus.Counter
	lastSuccess   prometheus.Gauge
}

// New builds an ImportMetrics with its own registry, so several importers in one
// process never collide on registration.
func New() *ImportMetrics {
	m := &ImportMetrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "TimeZoneDB API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		errorLogRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "error_log_entries_total",
			Help:      "Rows appended to the error log.",
		}),
		zonesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zones_imported_total",
			Help:      "Zone list rows inserted.",
		}),
		detailsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_details_merged_total",
			Help:      "Zone detail rows merged from staging.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed import run.",
		}),
	}
	m.registry.MustRegister(m.apiRequests, m.errorLogRows, m.zonesImported, m.detailsMerged, m.lastSuccess)
	return m
}

// Registry exposes the collectors, for promhttp.
func (m *ImportMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *ImportMetrics) ObserveRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

func (m *ImportMetrics) ErrorLogged() {
	if m == nil {
		return
	}
	m.errorLogRows.Inc()
}

func (m *ImportMetrics) AddZonesImported(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.zonesImported.Add(float64(n))
}

func (m *ImportMetrics) AddDetailsMerged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.detailsMerged.Add(float64(n))
}

// MarkSuccess records the completion time of a run, as Unix seconds.
func (m *ImportMetrics) MarkSuccess(unixSeconds int64) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(unixSeconds))
}

// WriteTextfile dumps every collector to path in the node_exporter textfile format.
func (m *ImportMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
