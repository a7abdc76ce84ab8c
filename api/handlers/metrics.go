package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jackle3/moderation-api/api"
)

// MetricsHandler exposes the in-process request metrics
type MetricsHandler struct{}

// GetMetricsSummary returns the rollup plus per-route aggregates
func (m MetricsHandler) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	metrics := api.GetMetrics()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(map[string]interface{}{
		"summary": metrics.GetSummary(),
		"routes":  metrics.GetRouteMetrics(),
	})
	_, _ = w.Write(b)
}
