package homology

import (
	"errors"
	"log/slog"
	"math"
)

// Defaults used by New.
const (
	DefaultTau    = 0.5
	DefaultAlpha  = 1.0
	DefaultLambda = 0.1
	DefaultBeta   = 1.0
	DefaultGamma  = 1.0

	// DefaultMaxLoops bounds the example loops attached to the cycles of one
	// computation. Betti numbers never depend on it.
	DefaultMaxLoops = 16
)

// ErrBadOption is returned by New for out-of-range parameters.
var ErrBadOption = errors.New("homology: invalid option")

// EdgePolicy decides whether two kernel members with errors ei and ej are
// joined in the inconsistency graph.
type EdgePolicy interface {
	Connect(ei, ej float64) bool
	Name() string
}

// ThresholdPolicy joins every pair of kernel members: being above τ is the
// only similarity required.
type ThresholdPolicy struct{}

// Connect always reports true.
func (ThresholdPolicy) Connect(_, _ float64) bool { return true }

// Name returns "threshold".
func (ThresholdPolicy) Name() string { return "threshold" }

// BandPolicy joins kernel members whose errors differ by at most Width.
type BandPolicy struct {
	Width float64
}

// Connect reports |ei − ej| ≤ Width.
func (b BandPolicy) Connect(ei, ej float64) bool { return math.Abs(ei-ej) <= b.Width }

// Name returns "band".
func (BandPolicy) Name() string { return "band" }

// Option configures a Loss.
type Option func(*Loss)

// WithTau sets the kernel threshold τ (≥ 0).
func WithTau(tau float64) Option { return func(l *Loss) { l.tau = tau } }

// WithAlpha sets the cycle-size exponent α.
func WithAlpha(alpha float64) Option { return func(l *Loss) { l.alpha = alpha } }

// WithLambda sets the loss weight λ (≥ 0).
func WithLambda(lambda float64) Option { return func(l *Loss) { l.lambda = lambda } }

// WithBeta sets the base β (> 0) of the β^γ factor.
func WithBeta(beta float64) Option { return func(l *Loss) { l.beta = beta } }

// WithGamma sets the exponent γ of the β^γ factor.
func WithGamma(gamma float64) Option { return func(l *Loss) { l.gamma = gamma } }

// WithEdgePolicy replaces the default ThresholdPolicy.
func WithEdgePolicy(p EdgePolicy) Option { return func(l *Loss) { l.policy = p } }

// WithMaxLoops bounds how many explicit loops DetectCycles attaches across
// all cycles (≥ 0; 0 skips loop extraction entirely).
func WithMaxLoops(n int) Option { return func(l *Loss) { l.maxLoops = n } }

// WithLogger sets the logger for per-call debug lines.
func WithLogger(lg *slog.Logger) Option { return func(l *Loss) { l.logger = lg } }

// Cycle is one connected component of the inconsistency graph.
type Cycle struct {
	// Members are batch indices, ascending.
	Members []int `json:"members"`

	// Errors[i] is the reconstruction error of Members[i].
	Errors []float64 `json:"errors"`

	// Edges is the number of graph edges inside the component.
	Edges int `json:"edges"`

	// Rank is the cyclomatic number Edges − |c| + 1: how many independent
	// closed loops the component holds.
	Rank int `json:"rank"`

	// Loops are sample loops ([v0, …, v0] as batch indices) inside the
	// component, bounded by WithMaxLoops. len(Loops) ≤ Rank.
	Loops [][]int `json:"loops,omitempty"`

	// Closed reports Rank > 0, i.e. Edges ≥ |c|.
	Closed bool `json:"closed"`
}

// Size returns |c|.
func (c Cycle) Size() int { return len(c.Members) }

// CycleDetail summarizes one cycle in a Result.
type CycleDetail struct {
	Members   []int   `json:"members"`
	Size      int     `json:"size"`
	Loops     int     `json:"loops"`
	Closed    bool    `json:"closed"`
	MeanError float64 `json:"mean_error"`
	Cost      float64 `json:"cost"`
}

// Betti holds the heuristic Betti numbers of the inconsistency graph.
type Betti struct {
	Beta0 int `json:"beta0"`
	Beta1 int `json:"beta1"`
}

// Result is the outcome of Compute.
type Result struct {
	Loss          float64       `json:"loss"`
	WeightedLoss  float64       `json:"weighted_loss"`
	Cycles        int           `json:"cycles"`
	KernelMembers int           `json:"kernel_members"`
	Betti         Betti         `json:"betti"`
	Details       []CycleDetail `json:"details,omitempty"`
}
