package encoder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/encoder"
)

func TestNew_BadOptions(t *testing.T) {
	_, err := encoder.New(nil, 4)
	assert.ErrorIs(t, err, encoder.ErrBadOption)
	_, err = encoder.New([]uint64{2, 3}, 0)
	assert.ErrorIs(t, err, encoder.ErrBadOption)
	_, err = encoder.New([]uint64{1, 3}, 4)
	assert.ErrorIs(t, err, encoder.ErrBadOption)
	_, err = encoder.New([]uint64{2, 3}, 4, encoder.WithTemperature(0))
	assert.ErrorIs(t, err, encoder.ErrBadOption)
	_, err = encoder.New([]uint64{2, 3}, 4, encoder.WithTemperature(math.NaN()))
	assert.ErrorIs(t, err, encoder.ErrBadOption)
}

// TestEncode_Distributions checks shape and normalization of every output.
func TestEncode_Distributions(t *testing.T) {
	moduli := []uint64{2, 3, 5, 7}
	enc, err := encoder.New(moduli, 6, encoder.WithSeed(42))
	require.NoError(t, err)

	dists, err := enc.Encode([]float64{0.1, -0.4, 2, 0, 1.5, -3})
	require.NoError(t, err)
	require.Len(t, dists, len(moduli))
	for i, p := range dists {
		assert.Len(t, p, int(moduli[i]))
		var sum float64
		for _, pv := range p {
			assert.GreaterOrEqual(t, pv, 0.0)
			sum += pv
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "distribution %d", i)
	}

	exp := enc.ExpectedResidues(dists)
	for i, r := range exp {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, float64(moduli[i]-1))
	}
}

func TestEncode_Errors(t *testing.T) {
	enc, err := encoder.New([]uint64{2, 3}, 3)
	require.NoError(t, err)

	_, err = enc.Encode([]float64{1, 2})
	assert.ErrorIs(t, err, encoder.ErrDimensionMismatch)
	_, err = enc.Encode([]float64{1, math.Inf(-1), 2})
	assert.ErrorIs(t, err, encoder.ErrNonFinite)
}

// TestEncode_Deterministic expects identical bits for identical seeds.
func TestEncode_Deterministic(t *testing.T) {
	x := []float64{0.3, 0.2, -1.1, 4}
	a, err := encoder.New([]uint64{3, 5, 7}, 4, encoder.WithSeed(7))
	require.NoError(t, err)
	b, err := encoder.New([]uint64{3, 5, 7}, 4, encoder.WithSeed(7))
	require.NoError(t, err)
	c, err := encoder.New([]uint64{3, 5, 7}, 4, encoder.WithSeed(8))
	require.NoError(t, err)

	da, _ := a.Encode(x)
	db, _ := b.Encode(x)
	dc, _ := c.Encode(x)
	assert.Equal(t, da, db)
	assert.NotEqual(t, da, dc)

	again, _ := a.Encode(x)
	assert.Equal(t, da, again)
}

// TestWithWeights_PeakedDistribution uses hand-set weights so that a
// low temperature yields near one-hot distributions with integral expectations.
func TestWithWeights_PeakedDistribution(t *testing.T) {
	// Feature vector [1]; class scores equal the weight, so the argmax class
	// is the one with the largest weight.
	weights := [][][]float64{
		{{0}, {1}},                // mod 2 → 1
		{{0}, {0}, {1}},           // mod 3 → 2
		{{1}, {0}, {0}, {0}, {0}}, // mod 5 → 0
	}
	enc, err := encoder.New([]uint64{2, 3, 5}, 1,
		encoder.WithWeights(weights, nil), encoder.WithTemperature(0.01))
	require.NoError(t, err)

	dists, err := enc.Encode([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 0}, encoder.ArgmaxResidues(dists))

	exp := encoder.ExpectedResidues(dists)
	assert.InDelta(t, 1, exp[0], 1e-9)
	assert.InDelta(t, 2, exp[1], 1e-9)
	assert.InDelta(t, 0, exp[2], 1e-9)
}

func TestWithWeights_ShapeChecks(t *testing.T) {
	_, err := encoder.New([]uint64{2, 3}, 1, encoder.WithWeights([][][]float64{{{0}, {1}}}, nil))
	assert.ErrorIs(t, err, encoder.ErrDimensionMismatch, "missing modulus block")

	_, err = encoder.New([]uint64{2}, 1, encoder.WithWeights([][][]float64{{{0}}}, nil))
	assert.ErrorIs(t, err, encoder.ErrDimensionMismatch, "one class row for modulus 2")

	_, err = encoder.New([]uint64{2}, 2, encoder.WithWeights([][][]float64{{{0, 1}, {1}}}, nil))
	assert.ErrorIs(t, err, encoder.ErrDimensionMismatch, "ragged feature row")

	_, err = encoder.New([]uint64{2}, 1,
		encoder.WithWeights([][][]float64{{{0}, {1}}}, [][]float64{{0}}))
	assert.ErrorIs(t, err, encoder.ErrDimensionMismatch, "short bias row")
}

func TestArgmaxResidues_Ties(t *testing.T) {
	assert.Equal(t, []uint64{0, 1}, encoder.ArgmaxResidues([][]float64{{0.5, 0.5}, {0.2, 0.4, 0.4}}))
}
