// Package telemetry holds the Prometheus collectors, the OpenTelemetry tracer
// accessor and the slog constructor shared by the engine packages.
//
// Collectors are registered once with the default Prometheus registry via
// promauto; engine packages only ever record into them.
package telemetry

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used for every span.
const TracerName = "crtfuse"

var (
	// BirkhoffProjections counts Sinkhorn projections by convergence outcome.
	BirkhoffProjections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crtfuse_birkhoff_projections_total",
		Help: "Sinkhorn-Knopp projections by convergence outcome",
	}, []string{"converged"})

	// BirkhoffIterations observes iterations used per projection.
	BirkhoffIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crtfuse_birkhoff_iterations",
		Help:    "Iterations used per Sinkhorn-Knopp projection",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	})

	// HomologyComputations counts homology loss evaluations.
	HomologyComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crtfuse_homology_computations_total",
		Help: "Homology loss evaluations",
	})

	// HomologyKernelMembers observes the number of kernel members per batch.
	HomologyKernelMembers = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crtfuse_homology_kernel_members",
		Help:    "Kernel members (inconsistent samples) per evaluated batch",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
	})

	// LayerForwardDuration observes the wall time of a layer forward pass.
	LayerForwardDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crtfuse_layer_forward_duration_seconds",
		Help:    "Duration of CRT modular layer forward passes",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
)

var (
	tracerOnce sync.Once
	tracer     trace.Tracer
)

// Tracer returns the package tracer, resolving it lazily so that a provider
// installed after import is still honoured.
//
// Thread Safety: Safe for concurrent use (sync.Once).
func Tracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer(TracerName)
	})
	return tracer
}

// ParseLevel maps a textual level to slog.Level. Unknown values map to Info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a JSON slog.Logger writing to w at the given level.
func NewLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// OrDefault returns l, or slog.Default() when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
