package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest(EndpointZoneList, OutcomeFailure)
	m.ObserveRequest(EndpointZoneList, OutcomeFailure)
	m.ObserveRequest(EndpointZoneList, OutcomeSuccess)
	m.ErrorLogged()
	m.AddZonesImported(3)
	m.AddDetailsMerged(2)
	m.AddDetailsMerged(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues(EndpointZoneList, OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues(EndpointZoneList, OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorLogRows))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.zonesImported))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.detailsMerged))
}

func TestImportMetrics_NilIsNoop(t *testing.T) {
	var m *ImportMetrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(EndpointZoneDetails, OutcomeTransport)
		m.ErrorLogged()
		m.AddZonesImported(1)
		m.AddDetailsMerged(1)
		m.MarkSuccess(1)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/metrics.prom"))
}

func TestImportMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.AddZonesImported(5)
	m.MarkSuccess(1700000000)

	path := filepath.Join(t.TempDir(), "tzimport.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tzimport_zones_imported_total 5")
	assert.Contains(t, string(data), "tzimport_last_success_timestamp_seconds 1.7e+09")
}
