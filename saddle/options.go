package saddle

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/saddle/solver"
)

// Defaults for Problem.Solve.
const (
	// DefaultMaxIters bounds the number of outer alternation iterations.
	DefaultMaxIters = 50

	// DefaultAlpha is the proximal penalty weight. A genuine tunable: larger
	// values damp the alternation harder, smaller values track best
	// responses more aggressively.
	DefaultAlpha = 1.0

	// DefaultEps is the ∞-norm threshold between consecutive Cesàro average
	// points that declares convergence.
	DefaultEps = 1e-4
)

// options is the gathered solve configuration.
type options struct {
	method   Method
	maxIters int
	alpha    float64
	eps      float64
	slv      solver.Solver
	ref      Reformulator
	log      *zap.Logger
}

// Option configures Problem.Solve. Constructors panic on nonsensical values
// (programmer error); absent options fall back to documented defaults.
type Option func(*options)

// WithMethod selects the solve strategy.
func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// WithMaxIters bounds the outer iterations. Panics if iters < 1.
func WithMaxIters(iters int) Option {
	if iters < 1 {
		panic("saddle: WithMaxIters requires iters >= 1")
	}

	return func(o *options) { o.maxIters = iters }
}

// WithAlpha sets the proximal penalty weight. Panics if alpha < 0;
// alpha == 0 degenerates to plain (unstabilized) best response.
func WithAlpha(alpha float64) Option {
	if alpha < 0 {
		panic("saddle: WithAlpha requires alpha >= 0")
	}

	return func(o *options) { o.alpha = alpha }
}

// WithEps sets the convergence threshold. Panics if eps <= 0.
func WithEps(eps float64) Option {
	if eps <= 0 {
		panic("saddle: WithEps requires eps > 0")
	}

	return func(o *options) { o.eps = eps }
}

// WithSolver injects the convex solve service used for every sub-problem.
// Panics on nil.
func WithSolver(s solver.Solver) Option {
	if s == nil {
		panic("saddle: WithSolver requires a non-nil solver")
	}

	return func(o *options) { o.slv = s }
}

// WithReformulator injects the external disciplined reformulator consumed by
// MethodReformulate.
func WithReformulator(r Reformulator) Option {
	return func(o *options) { o.ref = r }
}

// WithLogger injects a structured logger for iteration progress (Debug) and
// terminal outcome (Info). A nil logger silences output.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log == nil {
			log = zap.NewNop()
		}
		o.log = log
	}
}

func gatherOptions(opts ...Option) options {
	o := options{
		method:   MethodAlternating,
		maxIters: DefaultMaxIters,
		alpha:    DefaultAlpha,
		eps:      DefaultEps,
		slv:      solver.New(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
