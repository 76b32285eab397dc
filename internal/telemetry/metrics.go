package telemetry

import (
	"fmt"
	"log/slog"
	"net/http"
)

// StartMetricsServer exposes the given handler at /metrics in the
// background. Serving errors are logged; a broken metrics port must not
// take down a benchmark run.
func StartMetricsServer(port int, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%d", port)
	slog.Info("Starting metrics server", "addr", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("Metrics server stopped", "error", err)
		}
	}()
}
