package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/convention-query-builder-go/querybuilder/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics), "failed to collect metrics")

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordDuration("querybuilder_resolve_duration_seconds", 150*time.Millisecond, map[string]string{
		"status": "success",
	})

	// assert
	m := findMetric(t, collect(t, reader), "querybuilder_resolve_duration_seconds")
	assert.Equal(t, "s", m.Unit)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)

	expectedAttrs := attribute.NewSet(attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"operation": "rebuild", "status": "success"}

	// act
	collector.IncrementCounter("querybuilder_rebuilds_total", labels)
	collector.IncrementCounterContext(context.Background(), "querybuilder_rebuilds_total", labels)
	collector.IncrementCounter("querybuilder_rebuilds_total", map[string]string{"operation": "rebuild", "status": "error"})

	// assert
	sum, ok := findMetric(t, collect(t, reader), "querybuilder_rebuilds_total").Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum")
	require.Len(t, sum.DataPoints, 2)

	values := make(map[string]int64)
	for _, dataPoint := range sum.DataPoints {
		status, _ := dataPoint.Attributes.Value("status")
		values[status.AsString()] = dataPoint.Value
	}

	assert.Equal(t, map[string]int64{"success": 2, "error": 1}, values)
}

func Test_MetricsCollector_RecordValue(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordValue("querybuilder_bindings", 3, nil)
	collector.RecordValueContext(context.Background(), "querybuilder_bindings", 5, nil)

	// assert
	gauge, ok := findMetric(t, collect(t, reader), "querybuilder_bindings").Data.(metricdata.Gauge[float64])
	require.True(t, ok, "expected a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, float64(5), gauge.DataPoints[0].Value)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	var wg sync.WaitGroup

	// act
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				collector.IncrementCounter("querybuilder_resolves_total", map[string]string{"status": "success"})
				collector.RecordDuration("querybuilder_resolve_duration_seconds", time.Millisecond, nil)
			}
		}()
	}
	wg.Wait()

	// assert
	sum, ok := findMetric(t, collect(t, reader), "querybuilder_resolves_total").Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(16*50), sum.DataPoints[0].Value)
}
