package homology

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/crtfuse/core"
	"github.com/katalvlaran/crtfuse/crt"
	"github.com/katalvlaran/crtfuse/dfs"
	"github.com/katalvlaran/crtfuse/telemetry"
)

// Loss evaluates the homology regularizer with fixed parameters.
type Loss struct {
	tau      float64
	alpha    float64
	lambda   float64
	beta     float64
	gamma    float64
	maxLoops int
	policy   EdgePolicy
	logger   *slog.Logger
}

// New applies opts over the defaults and validates them.
func New(opts ...Option) (*Loss, error) {
	l := &Loss{
		tau:      DefaultTau,
		alpha:    DefaultAlpha,
		lambda:   DefaultLambda,
		beta:     DefaultBeta,
		gamma:    DefaultGamma,
		maxLoops: DefaultMaxLoops,
		policy:   ThresholdPolicy{},
	}
	for _, opt := range opts {
		opt(l)
	}

	switch {
	case !finite(l.tau) || l.tau < 0:
		return nil, fmt.Errorf("New: tau=%g: %w", l.tau, ErrBadOption)
	case !finite(l.alpha):
		return nil, fmt.Errorf("New: alpha=%g: %w", l.alpha, ErrBadOption)
	case !finite(l.lambda) || l.lambda < 0:
		return nil, fmt.Errorf("New: lambda=%g: %w", l.lambda, ErrBadOption)
	case !finite(l.beta) || l.beta <= 0:
		return nil, fmt.Errorf("New: beta=%g: %w", l.beta, ErrBadOption)
	case !finite(l.gamma):
		return nil, fmt.Errorf("New: gamma=%g: %w", l.gamma, ErrBadOption)
	case l.maxLoops < 0:
		return nil, fmt.Errorf("New: max loops=%d: %w", l.maxLoops, ErrBadOption)
	case l.policy == nil:
		return nil, fmt.Errorf("New: nil edge policy: %w", ErrBadOption)
	}
	if b, ok := l.policy.(BandPolicy); ok && (!finite(b.Width) || b.Width < 0) {
		return nil, fmt.Errorf("New: band width=%g: %w", b.Width, ErrBadOption)
	}
	l.logger = telemetry.OrDefault(l.logger)

	return l, nil
}

// Tau returns the kernel threshold.
func (l *Loss) Tau() float64 { return l.tau }

// Lambda returns the loss weight.
func (l *Loss) Lambda() float64 { return l.lambda }

// Policy returns the edge policy.
func (l *Loss) Policy() EdgePolicy { return l.policy }

// BuildGraph scores every row of batch and returns the inconsistency graph
// over kernel members together with the per-row errors.
//
// Vertices are core.SampleID(i) carrying the row error; edges follow the
// edge policy and are weighted by |e_i − e_j|.
//
// Errors: crt.ErrResidueCount when a row length differs from the moduli count.
// Complexity: O(n·k + K²) for n rows, k moduli and K kernel members.
func (l *Loss) BuildGraph(batch [][]float64, rec *crt.Reconstructor) (*core.Graph, []float64, error) {
	errs := make([]float64, len(batch))
	var kernel []int
	for i, row := range batch {
		if len(row) != rec.Len() {
			return nil, nil, fmt.Errorf("BuildGraph: row %d has %d residues for %d moduli: %w",
				i, len(row), rec.Len(), crt.ErrResidueCount)
		}
		errs[i] = rec.ReconstructionError(row)
		if errs[i] > l.tau {
			kernel = append(kernel, i)
		}
	}

	g := core.NewGraph()
	for _, i := range kernel {
		if err := g.AddVertex(core.SampleID(i), errs[i]); err != nil {
			return nil, nil, fmt.Errorf("BuildGraph: %w", err)
		}
	}
	for a, i := range kernel {
		for _, j := range kernel[a+1:] {
			if !l.policy.Connect(errs[i], errs[j]) {
				continue
			}
			if _, err := g.AddEdge(core.SampleID(i), core.SampleID(j), math.Abs(errs[i]-errs[j])); err != nil {
				return nil, nil, fmt.Errorf("BuildGraph: %w", err)
			}
		}
	}

	return g, errs, nil
}

// DetectCycles returns one Cycle per connected component of the inconsistency
// graph, ordered by smallest member.
func (l *Loss) DetectCycles(batch [][]float64, rec *crt.Reconstructor) ([]Cycle, error) {
	cycles, _, err := l.detect(context.Background(), batch, rec)
	return cycles, err
}

// detect is DetectCycles with cancellation; it also reports the kernel size.
func (l *Loss) detect(ctx context.Context, batch [][]float64, rec *crt.Reconstructor) ([]Cycle, int, error) {
	g, errs, err := l.BuildGraph(batch, rec)
	if err != nil {
		return nil, 0, err
	}
	if g.VertexCount() == 0 {
		return nil, 0, nil
	}

	comps, err := dfs.Components(g, dfs.WithContext(ctx))
	if err != nil {
		return nil, 0, fmt.Errorf("DetectCycles: %w", err)
	}

	owner := make(map[string]int, g.VertexCount())
	cycles := make([]Cycle, len(comps))
	var closed bool
	for c, comp := range comps {
		members, err := sampleIndices(comp)
		if err != nil {
			return nil, 0, fmt.Errorf("DetectCycles: %w", err)
		}
		slices.Sort(members)
		cycles[c].Members = members
		cycles[c].Errors = make([]float64, len(members))
		for k, i := range members {
			cycles[c].Errors[k] = errs[i]
		}

		// Every edge is internal to one component: Σ deg / 2.
		var degSum int
		for _, id := range comp {
			owner[id] = c
			d, err := g.Degree(id)
			if err != nil {
				return nil, 0, fmt.Errorf("DetectCycles: %w", err)
			}
			degSum += d
		}
		cycles[c].Edges = degSum / 2
		cycles[c].Rank = cycles[c].Edges - len(comp) + 1
		cycles[c].Closed = cycles[c].Rank > 0
		closed = closed || cycles[c].Closed
	}

	if closed && l.maxLoops > 0 {
		_, loops, err := dfs.DetectCycles(g, dfs.WithContext(ctx), dfs.WithMaxLoops(l.maxLoops))
		if err != nil {
			return nil, 0, fmt.Errorf("DetectCycles: %w", err)
		}
		for _, loop := range loops {
			idx, err := sampleIndices(loop)
			if err != nil {
				return nil, 0, fmt.Errorf("DetectCycles: %w", err)
			}
			c := owner[loop[0]]
			cycles[c].Loops = append(cycles[c].Loops, idx)
		}
	}
	slices.SortFunc(cycles, func(a, b Cycle) int { return cmp.Compare(a.Members[0], b.Members[0]) })

	return cycles, g.VertexCount(), nil
}

// CycleLoss returns Σ sigmoid(e_i − τ) · |c|^α · β^γ.
func (l *Loss) CycleLoss(c Cycle) float64 {
	if len(c.Errors) == 0 {
		return 0
	}
	scale := math.Pow(float64(len(c.Errors)), l.alpha) * math.Pow(l.beta, l.gamma)
	var sum float64
	for _, e := range c.Errors {
		sum += sigmoid(e - l.tau)
	}

	return sum * scale
}

// Compute evaluates the regularizer over batch.
// An empty batch or a batch without kernel members yields a zero Result.
//
// Errors: crt.ErrResidueCount, ctx.Err() on cancellation.
func (l *Loss) Compute(ctx context.Context, batch [][]float64, rec *crt.Reconstructor) (*Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "homology.Compute",
		trace.WithAttributes(
			attribute.Int("homology.batch_size", len(batch)),
			attribute.String("homology.edge_policy", l.policy.Name()),
		),
	)
	defer span.End()

	cycles, kernel, err := l.detect(ctx, batch, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detect cycles")
		return nil, err
	}

	res := &Result{Cycles: len(cycles), KernelMembers: kernel}
	for _, c := range cycles {
		cost := l.CycleLoss(c)
		res.Loss += cost
		res.Betti.Beta1 += c.Rank
		res.Details = append(res.Details, CycleDetail{
			Members:   c.Members,
			Size:      c.Size(),
			Loops:     c.Rank,
			Closed:    c.Closed,
			MeanError: mean(c.Errors),
			Cost:      cost,
		})
	}
	res.Betti.Beta0 = len(cycles)
	res.WeightedLoss = l.lambda * res.Loss

	telemetry.HomologyComputations.Inc()
	telemetry.HomologyKernelMembers.Observe(float64(kernel))
	span.SetAttributes(
		attribute.Int("homology.kernel_members", kernel),
		attribute.Int("homology.cycles", res.Cycles),
		attribute.Float64("homology.loss", res.Loss),
	)
	l.logger.Debug("homology computed",
		slog.Int("batch", len(batch)),
		slog.Int("kernel_members", kernel),
		slog.Int("cycles", res.Cycles),
		slog.Float64("loss", res.Loss),
	)

	return res, nil
}

// ComputeBettiNumbers returns β0 (components among kernel members) and β1
// (independent closed loops, E − V + C).
func (l *Loss) ComputeBettiNumbers(batch [][]float64, rec *crt.Reconstructor) (Betti, error) {
	cycles, err := l.DetectCycles(batch, rec)
	if err != nil {
		return Betti{}, err
	}
	b := Betti{Beta0: len(cycles)}
	for _, c := range cycles {
		b.Beta1 += c.Rank
	}

	return b, nil
}

func sampleIndices(ids []string) ([]int, error) {
	out := make([]int, len(ids))
	for k, id := range ids {
		i, err := core.ParseSampleID(id)
		if err != nil {
			return nil, err
		}
		out[k] = i
	}
	return out, nil
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}
