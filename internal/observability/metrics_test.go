package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	m := NewMetrics("test_medfetch_new")

	assert.NotNil(t, m.SearchesStarted)
	assert.NotNil(t, m.SearchesCompleted)
	assert.NotNil(t, m.SearchesFailed)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.IdsPerSearch)
	assert.NotNil(t, m.EntriesFetched)
	assert.NotNil(t, m.FetchFailures)
}

func TestRecordSearchStarted(t *testing.T) {
	m := NewMetrics("test_medfetch_started")

	initial := testutil.ToFloat64(m.SearchesStarted)
	m.RecordSearchStarted()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesStarted))
}

func TestRecordSearchCompleted(t *testing.T) {
	m := NewMetrics("test_medfetch_completed")

	m.RecordSearchCompleted(50, 48, 2.5)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchesCompleted))
	assert.Equal(t, float64(48), testutil.ToFloat64(m.EntriesFetched))

	histCount, err := getHistogramSampleCount(m.SearchDuration)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)

	idsCount, err := getHistogramSampleCount(m.IdsPerSearch)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idsCount)
}

func TestRecordSearchFailed(t *testing.T) {
	m := NewMetrics("test_medfetch_failed")

	m.RecordSearchFailed("search", 0.5)
	m.RecordSearchFailed("fetch", 1.5)
	m.RecordSearchFailed("fetch", 2.0)

	assert.Equal(t, float64(3), testutil.ToFloat64(m.SearchesFailed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FetchFailures.WithLabelValues("search")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.FetchFailures.WithLabelValues("fetch")))
}

// Helper to get histogram sample count
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var d = &dto.Metric{}
	if err := m.Write(d); err != nil {
		return 0, err
	}

	return d.Histogram.GetSampleCount(), nil
}
