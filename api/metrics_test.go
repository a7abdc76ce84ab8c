package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollector() *MetricsCollector {
	return &MetricsCollector{
		routeMetrics: make(map[string]*RouteMetrics),
		windowStart:  time.Now(),
	}
}

func TestRecordRequestAggregatesPerRoute(t *testing.T) {
	mc := newCollector()

	mc.RecordRequest("GET", "/api/v1/reports/active/{community_id}", 200, 10*time.Millisecond)
	mc.RecordRequest("GET", "/api/v1/reports/active/{community_id}", 200, 30*time.Millisecond)
	mc.RecordRequest("POST", "/api/v1/reports", 400, 5*time.Millisecond)

	summary := mc.GetSummary()
	assert.Equal(t, int64(3), summary.TotalRequests)
	assert.Equal(t, int64(1), summary.TotalErrors)

	routes := mc.GetRouteMetrics()
	require.Len(t, routes, 2)

	var active RouteMetrics
	for _, rm := range routes {
		if rm.Method == "GET" {
			active = rm
		}
	}
	assert.Equal(t, int64(2), active.Count)
	assert.Equal(t, int64(0), active.ErrorCount)
	assert.Equal(t, 40*time.Millisecond, active.TotalTime)
	assert.Equal(t, 20*time.Millisecond, active.AvgTime)
	assert.Equal(t, 30*time.Millisecond, active.MaxTime)
	assert.False(t, active.LastRequest.IsZero())
}

func TestGetMetricsReturnsSingleton(t *testing.T) {
	assert.Same(t, GetMetrics(), GetMetrics())
}
