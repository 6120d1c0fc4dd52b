package telemetry_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/telemetry"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, telemetry.ParseLevel(in), in)
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := telemetry.NewLogger("warn", &buf)

	l.Info("dropped")
	assert.Zero(t, buf.Len(), "info is below the warn threshold")

	l.Warn("kept", slog.Int("iterations", 3))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, float64(3), rec["iterations"])
}

func TestOrDefault(t *testing.T) {
	assert.Same(t, slog.Default(), telemetry.OrDefault(nil))
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, telemetry.OrDefault(l))
}

func TestTracerIsStable(t *testing.T) {
	assert.NotNil(t, telemetry.Tracer())
	assert.Equal(t, telemetry.Tracer(), telemetry.Tracer())
}

func TestCountersRecord(t *testing.T) {
	before := testutil.ToFloat64(telemetry.HomologyComputations)
	telemetry.HomologyComputations.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(telemetry.HomologyComputations))

	c := telemetry.BirkhoffProjections.WithLabelValues("true")
	b := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, b+1, testutil.ToFloat64(c))
}
