package homology_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/crt"
	"github.com/katalvlaran/crtfuse/homology"
)

func newRec(t *testing.T) *crt.Reconstructor {
	t.Helper()
	rec, err := crt.NewReconstructor([]uint64{2, 3, 5})
	require.NoError(t, err)
	return rec
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func TestNewValidatesOptions(t *testing.T) {
	l, err := homology.New()
	require.NoError(t, err)
	assert.Equal(t, homology.DefaultTau, l.Tau())
	assert.Equal(t, homology.DefaultLambda, l.Lambda())
	assert.Equal(t, "threshold", l.Policy().Name())

	bad := map[string]homology.Option{
		"negative tau":    homology.WithTau(-1),
		"nan alpha":       homology.WithAlpha(math.NaN()),
		"negative lambda": homology.WithLambda(-0.1),
		"zero beta":       homology.WithBeta(0),
		"inf gamma":       homology.WithGamma(math.Inf(1)),
		"nil policy":      homology.WithEdgePolicy(nil),
		"negative band":   homology.WithEdgePolicy(homology.BandPolicy{Width: -1}),
		"negative loops":  homology.WithMaxLoops(-1),
	}
	for name, opt := range bad {
		_, err := homology.New(opt)
		assert.ErrorIs(t, err, homology.ErrBadOption, name)
	}
}

// TestComputeZeroLossBaseline: exact residues never enter the kernel.
func TestComputeZeroLossBaseline(t *testing.T) {
	l, err := homology.New()
	require.NoError(t, err)

	res, err := l.Compute(context.Background(), [][]float64{{0, 1, 2}, {1, 0, 3}, {0, 2, 1}}, newRec(t))
	require.NoError(t, err)
	assert.Equal(t, &homology.Result{}, res)
}

func TestComputeEmptyBatch(t *testing.T) {
	l, err := homology.New()
	require.NoError(t, err)

	res, err := l.Compute(context.Background(), nil, newRec(t))
	require.NoError(t, err)
	assert.Zero(t, res.Loss)
	assert.Zero(t, res.Cycles)
}

// TestComputePositiveDetection mixes consistent and fractional rows.
func TestComputePositiveDetection(t *testing.T) {
	l, err := homology.New()
	require.NoError(t, err)
	batch := [][]float64{{0, 1, 2}, {0.5, 1.5, 2.5}, {0.6, 1.6, 2.6}, {1, 0, 3}}

	res, err := l.Compute(context.Background(), batch, newRec(t))
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.Cycles, 1)
	assert.Greater(t, res.Loss, 0.0)
	assert.Equal(t, 2, res.KernelMembers)
	assert.Equal(t, homology.Betti{Beta0: 1, Beta1: 0}, res.Betti)

	require.Len(t, res.Details, 1)
	d := res.Details[0]
	assert.Equal(t, []int{1, 2}, d.Members)
	assert.False(t, d.Closed)
	want := (sigmoid(1.5-0.5) + sigmoid(1.8-0.5)) * 2
	assert.InDelta(t, want, res.Loss, 1e-9)
	assert.InDelta(t, 0.1*res.Loss, res.WeightedLoss, 1e-12)
}

func TestDetectCyclesTriangleIsClosed(t *testing.T) {
	l, err := homology.New()
	require.NoError(t, err)
	batch := [][]float64{{0.5, 0, 0.5}, {0.25, 0.5, 0.5}, {0.75, 0.75, 0}}

	cycles, err := l.DetectCycles(batch, newRec(t))
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, []int{0, 1, 2}, cycles[0].Members)
	assert.Equal(t, []float64{1, 1.25, 1.5}, cycles[0].Errors)
	assert.True(t, cycles[0].Closed)
	assert.Equal(t, 3, cycles[0].Edges)
	assert.Equal(t, 1, cycles[0].Rank)
	assert.Equal(t, [][]int{{0, 1, 2, 0}}, cycles[0].Loops)

	b, err := l.ComputeBettiNumbers(batch, newRec(t))
	require.NoError(t, err)
	assert.Equal(t, homology.Betti{Beta0: 1, Beta1: 1}, b)
}

func TestBandPolicySplitsComponents(t *testing.T) {
	l, err := homology.New(homology.WithEdgePolicy(homology.BandPolicy{Width: 0.1}))
	require.NoError(t, err)
	batch := [][]float64{{0.25, 0.25, 0.25}, {0.5, 0.5, 0.5}, {0.25, 0.5, 0}}

	cycles, err := l.DetectCycles(batch, newRec(t))
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.Equal(t, []int{0, 2}, cycles[0].Members)
	assert.Equal(t, []int{1}, cycles[1].Members)

	g, errs, err := l.BuildGraph(batch, newRec(t))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 1.5, 0.75}, errs)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, g.HasEdge("s0000", "s0002"))
}

func TestCycleLossFormula(t *testing.T) {
	l, err := homology.New(homology.WithAlpha(2), homology.WithBeta(2), homology.WithGamma(3))
	require.NoError(t, err)

	// sigmoid(0) = 0.5 per member; |c|^α = 4; β^γ = 8.
	assert.InDelta(t, 32.0, l.CycleLoss(homology.Cycle{Errors: []float64{0.5, 0.5}}), 1e-12)
	assert.Zero(t, l.CycleLoss(homology.Cycle{}))
}

func TestComputeErrors(t *testing.T) {
	l, err := homology.New()
	require.NoError(t, err)

	_, err = l.Compute(context.Background(), [][]float64{{0.5, 0.5}}, newRec(t))
	assert.ErrorIs(t, err, crt.ErrResidueCount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Compute(ctx, [][]float64{{0.5, 0.5, 0.5}}, newRec(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeDeterministic(t *testing.T) {
	l, err := homology.New(homology.WithTau(0.2))
	require.NoError(t, err)
	batch := [][]float64{{0.3, 1.1, 2.9}, {0.5, 0.5, 0.5}, {1, 2, 3}, {0.9, 0.1, 4.4}, {0.2, 0.2, 0.2}}

	a, err := l.Compute(context.Background(), batch, newRec(t))
	require.NoError(t, err)
	b, err := l.Compute(context.Background(), batch, newRec(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestComputeAllRowsInconsistent: n identical fractional rows form the
// complete graph K_n under the threshold policy. β1 = n(n−1)/2 − n + 1 comes
// from the edge count; only DefaultMaxLoops loops are materialized.
func TestComputeAllRowsInconsistent(t *testing.T) {
	const n = 500
	batch := make([][]float64, n)
	for i := range batch {
		batch[i] = []float64{0.5, 1.5, 2.5}
	}
	l, err := homology.New()
	require.NoError(t, err)

	res, err := l.Compute(context.Background(), batch, newRec(t))
	require.NoError(t, err)
	wantRank := n*(n-1)/2 - n + 1
	assert.Equal(t, n, res.KernelMembers)
	assert.Equal(t, homology.Betti{Beta0: 1, Beta1: wantRank}, res.Betti)
	require.Len(t, res.Details, 1)
	assert.Equal(t, wantRank, res.Details[0].Loops)
	assert.True(t, res.Details[0].Closed)

	cycles, err := l.DetectCycles(batch, newRec(t))
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, n*(n-1)/2, cycles[0].Edges)
	assert.Len(t, cycles[0].Loops, homology.DefaultMaxLoops)
	for _, loop := range cycles[0].Loops {
		assert.GreaterOrEqual(t, len(loop)-1, 3)
		assert.Equal(t, loop[0], loop[len(loop)-1])
	}
}

func TestWithMaxLoopsZeroKeepsCounts(t *testing.T) {
	l, err := homology.New(homology.WithMaxLoops(0))
	require.NoError(t, err)
	batch := [][]float64{{0.5, 0, 0.5}, {0.25, 0.5, 0.5}, {0.75, 0.75, 0}, {0.5, 0.5, 0.5}}

	cycles, err := l.DetectCycles(batch, newRec(t))
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Empty(t, cycles[0].Loops)
	assert.True(t, cycles[0].Closed)
	assert.Equal(t, 6, cycles[0].Edges)
	assert.Equal(t, 3, cycles[0].Rank)

	b, err := l.ComputeBettiNumbers(batch, newRec(t))
	require.NoError(t, err)
	assert.Equal(t, homology.Betti{Beta0: 1, Beta1: 3}, b)
}

func BenchmarkComputeAllRowsInconsistent(b *testing.B) {
	batch := make([][]float64, 200)
	for i := range batch {
		batch[i] = []float64{0.5, 1.5, 2.5}
	}
	rec, _ := crt.NewReconstructor([]uint64{2, 3, 5})
	l, _ := homology.New()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = l.Compute(ctx, batch, rec)
	}
}
