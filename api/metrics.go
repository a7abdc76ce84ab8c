package api

import (
	"sync"
	"time"
)

// RouteMetrics aggregates request timing for a single method+path pair.
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsSummary is the service-wide rollup returned by the metrics endpoint.
type MetricsSummary struct {
	TotalRequests int64     `json:"totalRequests"`
	TotalErrors   int64     `json:"totalErrors"`
	WindowStart   time.Time `json:"windowStart"`
}

// MetricsCollector aggregates per-route request metrics. Recording is a
// map update under a mutex; there is no trace retention, so it is cheap
// enough to sit in the request path.
type MetricsCollector struct {
	mu            sync.RWMutex
	routeMetrics  map[string]*RouteMetrics
	windowStart   time.Time
	totalRequests int64
	totalErrors   int64
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// GetMetrics returns the global metrics collector
func GetMetrics() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = &MetricsCollector{
			routeMetrics: make(map[string]*RouteMetrics),
			windowStart:  time.Now(),
		}
	})
	return globalMetrics
}

// RecordRequest folds one completed request into the route aggregates.
func (mc *MetricsCollector) RecordRequest(method, path string, status int, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.totalRequests++
	if status >= 400 {
		mc.totalErrors++
	}

	key := method + " " + path
	rm, ok := mc.routeMetrics[key]
	if !ok {
		rm = &RouteMetrics{Method: method, Path: path}
		mc.routeMetrics[key] = rm
	}
	rm.Count++
	if status >= 400 {
		rm.ErrorCount++
	}
	rm.TotalTime += duration
	rm.AvgTime = time.Duration(int64(rm.TotalTime) / rm.Count)
	if duration > rm.MaxTime {
		rm.MaxTime = duration
	}
	rm.LastRequest = time.Now()
}

// GetSummary returns the service-wide rollup.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return MetricsSummary{
		TotalRequests: mc.totalRequests,
		TotalErrors:   mc.totalErrors,
		WindowStart:   mc.windowStart,
	}
}

// GetRouteMetrics returns a copy of the per-route aggregates.
func (mc *MetricsCollector) GetRouteMetrics() []RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	out := make([]RouteMetrics, 0, len(mc.routeMetrics))
	for _, rm := range mc.routeMetrics {
		out = append(out, *rm)
	}
	return out
}
