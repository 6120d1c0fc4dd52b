package birkhoff_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crtfuse/birkhoff"
	"github.com/katalvlaran/crtfuse/matrix"
)

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)
	return m
}

func requireDoublyStochastic(t *testing.T, m *matrix.Dense, tol float64) {
	t.Helper()
	rs, err := matrix.RowSums(m)
	require.NoError(t, err)
	cs, err := matrix.ColSums(m)
	require.NoError(t, err)
	for i, s := range rs {
		require.InDelta(t, 1, s, tol, "row %d", i)
	}
	for j, s := range cs {
		require.InDelta(t, 1, s, tol, "col %d", j)
	}
}

func TestNewProjectorOptions(t *testing.T) {
	p, err := birkhoff.NewProjector()
	require.NoError(t, err)
	assert.Equal(t, birkhoff.DefaultMaxIterations, p.MaxIterations())
	assert.Equal(t, birkhoff.DefaultTolerance, p.Tolerance())

	_, err = birkhoff.NewProjector(birkhoff.WithMaxIterations(0))
	assert.ErrorIs(t, err, birkhoff.ErrBadOption)
	_, err = birkhoff.NewProjector(birkhoff.WithTolerance(0))
	assert.ErrorIs(t, err, birkhoff.ErrBadOption)
	_, err = birkhoff.NewProjector(birkhoff.WithTolerance(math.NaN()))
	assert.ErrorIs(t, err, birkhoff.ErrBadOption)
}

// TestProjectConverges covers the 3×3 reference case with a loose budget.
func TestProjectConverges(t *testing.T) {
	p, err := birkhoff.NewProjector(birkhoff.WithMaxIterations(20), birkhoff.WithTolerance(0.05))
	require.NoError(t, err)

	in := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	res, err := p.Project(in)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Iterations, 20)
	assert.LessOrEqual(t, res.MaxDeviation, 0.05)
	requireDoublyStochastic(t, res.Matrix, 0.05)

	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, in.ToRows(), "input must not be mutated")
}

func TestProjectTightTolerance(t *testing.T) {
	p, err := birkhoff.NewProjector(birkhoff.WithMaxIterations(1000), birkhoff.WithTolerance(1e-9))
	require.NoError(t, err)

	res, err := p.Project(mustRows(t, [][]float64{{2, 1, 1}, {1, 3, 1}, {1, 1, 4}}))
	require.NoError(t, err)
	require.True(t, res.Converged)
	requireDoublyStochastic(t, res.Matrix, 1e-9)
}

func TestProjectZeroRowsBecomeUniform(t *testing.T) {
	p, err := birkhoff.NewProjector()
	require.NoError(t, err)

	res, err := p.Project(mustRows(t, [][]float64{{0, 0}, {1, 1}}))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, [][]float64{{0.5, 0.5}, {0.5, 0.5}}, res.Matrix.ToRows())

	zero, _ := matrix.NewDense(3, 3)
	res, err = p.Project(zero)
	require.NoError(t, err)
	requireDoublyStochastic(t, res.Matrix, 1e-12)
}

func TestProjectNonConvergenceIsNotAnError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p, err := birkhoff.NewProjector(
		birkhoff.WithMaxIterations(3),
		birkhoff.WithTolerance(1e-9),
		birkhoff.WithTrace(),
		birkhoff.WithLogger(logger),
	)
	require.NoError(t, err)

	// The zero pattern admits no exact scaling; deviation decays like 1/k.
	res, err := p.Project(mustRows(t, [][]float64{{1, 1}, {0, 1}}))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Iterations)
	require.Len(t, res.Trace, 3)
	assert.InDelta(t, 1.0/3, res.Trace[0], 1e-12)
	assert.Equal(t, res.MaxDeviation, res.Trace[2])
	assert.Contains(t, buf.String(), "did not converge")
}

func TestProjectErrors(t *testing.T) {
	p, err := birkhoff.NewProjector()
	require.NoError(t, err)

	_, err = p.Project(mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}))
	assert.ErrorIs(t, err, birkhoff.ErrDimensionMismatch)
	assert.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = p.Project(nil)
	assert.ErrorIs(t, err, birkhoff.ErrDimensionMismatch)

	_, err = p.Project(mustRows(t, [][]float64{{1, -1}, {1, 1}}))
	assert.ErrorIs(t, err, birkhoff.ErrInvalidEntry)

	_, err = p.Project(mustRows(t, [][]float64{{1, math.Inf(1)}, {1, 1}}))
	assert.ErrorIs(t, err, birkhoff.ErrInvalidEntry)
}

func TestProjectDeterministic(t *testing.T) {
	p, err := birkhoff.NewProjector(birkhoff.WithMaxIterations(7))
	require.NoError(t, err)
	in := mustRows(t, [][]float64{{0.3, 9, 1}, {4, 0, 2}, {1, 1, 1}})

	a, err := p.Project(in)
	require.NoError(t, err)
	b, err := p.Project(in)
	require.NoError(t, err)
	assert.Equal(t, a.Matrix.ToRows(), b.Matrix.ToRows())
	assert.Equal(t, a.Iterations, b.Iterations)
}

func TestValidate(t *testing.T) {
	id, _ := matrix.Identity(3)
	v, err := birkhoff.Validate(id, 1e-12)
	require.NoError(t, err)
	assert.True(t, v.IsDoublyStochastic)
	assert.Zero(t, v.MaxRowError)
	assert.Zero(t, v.MaxColError)

	v, err = birkhoff.Validate(mustRows(t, [][]float64{{1, 1}, {1, 1}}), 0.1)
	require.NoError(t, err)
	assert.False(t, v.IsDoublyStochastic)
	assert.Equal(t, 1.0, v.MaxRowError)
	assert.Equal(t, 1.0, v.MaxColError)

	v, err = birkhoff.Validate(mustRows(t, [][]float64{{1.5, -0.5}, {-0.5, 1.5}}), 0.1)
	require.NoError(t, err)
	assert.False(t, v.IsDoublyStochastic, "negative entries are outside the polytope")

	_, err = birkhoff.Validate(mustRows(t, [][]float64{{1, 0}}), 0.1)
	assert.ErrorIs(t, err, birkhoff.ErrDimensionMismatch)
}
