package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/config"
	"github.com/katalvlaran/crtfuse/coprime"
	"github.com/katalvlaran/crtfuse/homology"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "standard", c.Preset)
	assert.Equal(t, 100, c.Birkhoff.MaxIterations)
}

func TestParseModuli(t *testing.T) {
	doc := `
moduli: [2, 3, 5, 7]
feature_dim: 4
encoder: {seed: 7, temperature: 0.5}
homology: {tau: 0.25, edge_policy: band, band_width: 0.2}
workers: 2
log_level: debug
`
	c, err := config.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 5, 7}, c.Moduli)
	assert.Empty(t, c.Preset)
	assert.Equal(t, 4, c.FeatureDim)
	assert.Equal(t, int64(7), c.Encoder.Seed)
	assert.Equal(t, 0.25, c.Homology.Tau)
	assert.Equal(t, 0.1, c.Homology.Lambda, "unset keys keep defaults")

	e, err := c.Build(nil, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 5, 7}, e.Moduli)
	assert.Equal(t, homology.BandPolicy{Width: 0.2}, e.Loss.Policy())
	assert.Equal(t, 4, e.Encoder.FeatureDim())
}

func TestParseEmptyUsesDefaultPreset(t *testing.T) {
	c, err := config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "standard", c.Preset)

	e, err := c.Build(coprime.NewSelector(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 11, 13, 15, 17}, e.Moduli)
	assert.NotNil(t, e.Layer)
	assert.NotNil(t, e.Attention)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":        "modulii: [2, 3]\n",
		"both sources":       "moduli: [2, 3]\npreset: small\n",
		"single modulus":     "moduli: [7]\n",
		"modulus one":        "moduli: [1, 3]\n",
		"bad level":          "log_level: loud\n",
		"zero tolerance":     "birkhoff: {tolerance: 0}\n",
		"band without width": "homology: {edge_policy: band}\n",
		"bad policy":         "homology: {edge_policy: ring}\n",
		"negative lambda":    "homology: {lambda: -1}\n",
		"negative max loops": "homology: {max_loops: -1}\n",
	}
	for name, doc := range cases {
		_, err := config.Parse(strings.NewReader(doc))
		assert.Error(t, err, name)
	}

	_, err := config.Parse(strings.NewReader("workers: 0\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestBuildUnknownPreset(t *testing.T) {
	c, err := config.Parse(strings.NewReader("preset: nope\n"))
	require.NoError(t, err)

	_, err = c.Build(nil, quietLogger())
	assert.ErrorIs(t, err, coprime.ErrUnknownPreset)
}

func TestLoadAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crtfuse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preset: small\nworkers: 3\n"), 0o600))

	t.Setenv(config.EnvLogLevel, "warn")
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", c.Preset)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, "warn", c.LogLevel)

	t.Setenv(config.EnvWorkers, "x")
	_, err = config.Load(path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
