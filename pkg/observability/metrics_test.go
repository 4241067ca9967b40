package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/rfdict/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.DictMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	dm, err := observability.NewDictMetrics(meter)
	require.NoError(t, err)

	return dm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestDictMetrics_RecordInsert(t *testing.T) {
	t.Parallel()
	dm, reader := setupTestMeter(t)
	ctx := context.Background()

	dm.RecordInsert(ctx, false, false)

	rm := collectMetrics(t, reader)

	inserts := findMetric(rm, "rfdict.inserts.total")
	require.NotNil(t, inserts, "rfdict.inserts.total metric not found")

	// A duplicate must not land in the inserts counter.
	assert.Nil(t, findMetric(rm, "rfdict.inserts.duplicates.total"))
}

func TestDictMetrics_RecordInsertDuplicate(t *testing.T) {
	t.Parallel()
	dm, reader := setupTestMeter(t)
	ctx := context.Background()

	dm.RecordInsert(ctx, true, true)

	rm := collectMetrics(t, reader)

	duplicates := findMetric(rm, "rfdict.inserts.duplicates.total")
	require.NotNil(t, duplicates, "rfdict.inserts.duplicates.total metric not found")
	assert.Nil(t, findMetric(rm, "rfdict.inserts.total"))
}

func TestDictMetrics_RecordLookup(t *testing.T) {
	t.Parallel()
	dm, reader := setupTestMeter(t)
	ctx := context.Background()

	dm.RecordLookup(ctx, true)
	dm.RecordLookup(ctx, false)

	rm := collectMetrics(t, reader)

	lookups := findMetric(rm, "rfdict.lookups.total")
	require.NotNil(t, lookups, "rfdict.lookups.total metric not found")

	sum, ok := lookups.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 2, "hit and miss should be separate series")
}

func TestDictMetrics_RecordLoad(t *testing.T) {
	t.Parallel()
	dm, reader := setupTestMeter(t)

	dm.RecordLoad(context.Background(), 250*time.Millisecond)

	rm := collectMetrics(t, reader)

	load := findMetric(rm, "rfdict.load.duration.seconds")
	require.NotNil(t, load, "rfdict.load.duration.seconds metric not found")
}

func TestNewDictMetrics_WithNoopMeter(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	dm, err := observability.NewDictMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, dm)

	// Should not panic on recording.
	dm.RecordInsert(context.Background(), false, false)
	dm.RecordLookup(context.Background(), true)
	dm.RecordLoad(context.Background(), time.Millisecond)
}
