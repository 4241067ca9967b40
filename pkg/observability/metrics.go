package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricInsertsTotal    = "rfdict.inserts.total"
	metricDuplicatesTotal = "rfdict.inserts.duplicates.total"
	metricLookupsTotal    = "rfdict.lookups.total"
	metricLoadDuration    = "rfdict.load.duration.seconds"

	attrSensitive = "sensitive"
	attrHit       = "hit"
)

// loadBucketBoundaries covers 1ms to 60s for word-list loads that range from
// a handful of keys to multi-million-line dictionaries.
var loadBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// DictMetrics holds the OTel instruments for dictionary operations.
type DictMetrics struct {
	insertsTotal    metric.Int64Counter
	duplicatesTotal metric.Int64Counter
	lookupsTotal    metric.Int64Counter
	loadDuration    metric.Float64Histogram
}

// NewDictMetrics creates dictionary metric instruments from the given meter.
func NewDictMetrics(mt metric.Meter) (*DictMetrics, error) {
	inserts, err := mt.Int64Counter(metricInsertsTotal,
		metric.WithDescription("Total number of accepted key insertions"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInsertsTotal, err)
	}

	duplicates, err := mt.Int64Counter(metricDuplicatesTotal,
		metric.WithDescription("Total number of insertions rejected as duplicates"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDuplicatesTotal, err)
	}

	lookups, err := mt.Int64Counter(metricLookupsTotal,
		metric.WithDescription("Total number of key lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLookupsTotal, err)
	}

	load, err := mt.Float64Histogram(metricLoadDuration,
		metric.WithDescription("Word-list load duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(loadBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLoadDuration, err)
	}

	return &DictMetrics{
		insertsTotal:    inserts,
		duplicatesTotal: duplicates,
		lookupsTotal:    lookups,
		loadDuration:    load,
	}, nil
}

// RecordInsert records an insertion attempt and whether it was rejected
// as a duplicate.
func (dm *DictMetrics) RecordInsert(ctx context.Context, sensitive, duplicate bool) {
	attrs := metric.WithAttributes(attribute.Bool(attrSensitive, sensitive))

	if duplicate {
		dm.duplicatesTotal.Add(ctx, 1, attrs)

		return
	}

	dm.insertsTotal.Add(ctx, 1, attrs)
}

// RecordLookup records a key lookup and whether it found a value.
func (dm *DictMetrics) RecordLookup(ctx context.Context, hit bool) {
	dm.lookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool(attrHit, hit)))
}

// RecordLoad records the duration of a word-list load.
func (dm *DictMetrics) RecordLoad(ctx context.Context, duration time.Duration) {
	dm.loadDuration.Record(ctx, duration.Seconds())
}
