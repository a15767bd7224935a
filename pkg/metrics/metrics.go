// Package metrics exposes Prometheus counters for the processing pipeline.
package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ShipmentsProcessed counts shipment batches run through the pipeline.
	ShipmentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tariffmill_shipments_processed_total",
		Help: "Number of shipment batches processed.",
	})

	// RowsEmitted counts derivative declaration rows emitted, by material.
	RowsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tariffmill_export_rows_total",
		Help: "Number of Section 232 export rows emitted.",
	}, []string{"material"})

	// PartsNotFound counts catalog misses that degraded to non-232 rows.
	PartsNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tariffmill_parts_not_found_total",
		Help: "Number of line items whose part number was missing from the catalog.",
	})

	// FilesFailed counts input files that could not be processed.
	FilesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tariffmill_files_failed_total",
		Help: "Number of input files moved to the Failed folder.",
	})
)

// Serve starts the metrics endpoint on the given port. It blocks, so run it
// in a goroutine when watch mode is active.
func Serve(port int, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("metrics endpoint listening", slog.Int("port", port))
	return srv.ListenAndServe()
}
