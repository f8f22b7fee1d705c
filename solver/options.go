package solver

// Defaults for the ADMM reference solver. Tolerances are deliberately tight:
// the saddle solvers build small sub-problems and trade iterations for
// accuracy of the reported one-sided optima.
const (
	// DefaultMaxIters bounds ADMM iterations per solve.
	DefaultMaxIters = 200_000

	// DefaultEpsAbs is the absolute residual tolerance.
	DefaultEpsAbs = 1e-9

	// DefaultEpsRel is the relative residual tolerance.
	DefaultEpsRel = 1e-9

	// DefaultRho is the dual step size for inequality rows; equality rows use
	// DefaultRho * eqRhoScale.
	DefaultRho = 0.1

	// DefaultSigma is the primal regularization keeping the KKT system
	// quasi-definite.
	DefaultSigma = 1e-6

	// DefaultRelax is the over-relaxation coefficient applied to iterates.
	DefaultRelax = 1.6

	// DefaultEpsInfeas is the tolerance of the infeasibility and
	// unboundedness certificates.
	DefaultEpsInfeas = 1e-7

	// eqRhoScale stiffens the penalty on equality rows.
	eqRhoScale = 1e3

	// checkInterval is how often residuals and certificates are evaluated.
	checkInterval = 25
)

// options is the gathered ADMM configuration.
type options struct {
	maxIters  int
	epsAbs    float64
	epsRel    float64
	rho       float64
	sigma     float64
	relax     float64
	epsInfeas float64
}

// Option mutates the ADMM configuration. Constructors panic on nonsensical
// values: a bad tolerance is a programmer error, not runtime input.
type Option func(*options)

// WithMaxIters bounds the iteration count. Panics if iters < 1.
func WithMaxIters(iters int) Option {
	if iters < 1 {
		panic("solver: WithMaxIters requires iters >= 1")
	}

	return func(o *options) { o.maxIters = iters }
}

// WithEpsAbs sets the absolute residual tolerance. Panics if eps <= 0.
func WithEpsAbs(eps float64) Option {
	if eps <= 0 {
		panic("solver: WithEpsAbs requires eps > 0")
	}

	return func(o *options) { o.epsAbs = eps }
}

// WithEpsRel sets the relative residual tolerance. Panics if eps <= 0.
func WithEpsRel(eps float64) Option {
	if eps <= 0 {
		panic("solver: WithEpsRel requires eps > 0")
	}

	return func(o *options) { o.epsRel = eps }
}

// WithRho sets the dual step size. Panics if rho <= 0.
func WithRho(rho float64) Option {
	if rho <= 0 {
		panic("solver: WithRho requires rho > 0")
	}

	return func(o *options) { o.rho = rho }
}

// WithSigma sets the primal regularization. Panics if sigma <= 0.
func WithSigma(sigma float64) Option {
	if sigma <= 0 {
		panic("solver: WithSigma requires sigma > 0")
	}

	return func(o *options) { o.sigma = sigma }
}

func gatherOptions(opts ...Option) options {
	o := options{
		maxIters:  DefaultMaxIters,
		epsAbs:    DefaultEpsAbs,
		epsRel:    DefaultEpsRel,
		rho:       DefaultRho,
		sigma:     DefaultSigma,
		relax:     DefaultRelax,
		epsInfeas: DefaultEpsInfeas,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
