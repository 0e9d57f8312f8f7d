package api

import (
	"net/http"

	"github.com/heysubinoy/pyaztext/internal/store"
)

// MetricsHandler serves the store's operation counters and latencies.
func MetricsHandler(instrumentedStore *store.InstrumentedStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, instrumentedStore.GetMetrics().Report())
	}
}
