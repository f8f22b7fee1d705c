package saddle

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/saddle/expr"
)

// Sentinel errors. Modeling errors indicate a malformed problem and are
// never retried; ErrSubproblemNotOptimal is the single solver-status error
// and always carries the offending status in its wrapping message.
var (
	// ErrEmptyPlayerSet is returned when a player variable set is empty.
	ErrEmptyPlayerSet = errors.New("saddle: player variable set is empty")

	// ErrSharedVariable is returned when the minimizer and maximizer sets intersect.
	ErrSharedVariable = errors.New("saddle: variable declared on both sides")

	// ErrNonScalarObjective is returned when the objective is not 1×1.
	ErrNonScalarObjective = errors.New("saddle: objective must be scalar")

	// ErrUndeclaredVariable is returned when the objective references a
	// variable that belongs to neither player set.
	ErrUndeclaredVariable = errors.New("saddle: objective variable declared on neither side")

	// ErrMixedConstraint is returned when a constraint couples both players.
	// Coupling constraints are unsupported: they belong in the objective.
	ErrMixedConstraint = errors.New("saddle: constraint references both player sets")

	// ErrOrphanConstraint is returned when a constraint references neither
	// player set.
	ErrOrphanConstraint = errors.New("saddle: constraint references neither player set")

	// ErrAmbiguousCurvature is returned by the reformulation parser when a
	// variable's role is undeclared — curvature must be declared, never guessed.
	ErrAmbiguousCurvature = errors.New("saddle: ambiguous variable curvature")

	// ErrUnsupportedExpr is returned by the reformulation parser for node
	// kinds outside the recognized representable forms.
	ErrUnsupportedExpr = errors.New("saddle: expression not recognized by the reformulation parser")

	// ErrSubproblemNotOptimal aborts a solve when any best-response,
	// initialization, or validation sub-solve reports a non-optimal status.
	ErrSubproblemNotOptimal = errors.New("saddle: sub-solve not optimal")

	// ErrNoReformulator is returned when MethodReformulate is requested
	// without a configured Reformulator.
	ErrNoReformulator = errors.New("saddle: no reformulator configured")

	// ErrUnknownMethod is returned for an unrecognized solve method.
	ErrUnknownMethod = errors.New("saddle: unknown solve method")

	// ErrNoValue is returned when fixing a variable that has no value in the
	// supplied valuation.
	ErrNoValue = errors.New("saddle: fixed variable has no value")
)

// Method selects the solve strategy.
type Method int

const (
	// MethodAlternating is the proximally stabilized alternating
	// best-response iteration. Always available.
	MethodAlternating Method = iota

	// MethodReformulate is the fast path through an external disciplined
	// saddle-point reformulator; requires WithReformulator.
	MethodReformulate
)

// String renders the method name.
func (m Method) String() string {
	switch m {
	case MethodAlternating:
		return "alternating"
	case MethodReformulate:
		return "reformulate"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Outcome is the terminal state of a completed solve. Budget exhaustion is
// deliberately distinct from convergence: the reported point is the last
// Cesàro average either way, but only OutcomeConverged met the ε test.
type Outcome int

const (
	// OutcomeConverged: consecutive average points differed by at most ε.
	OutcomeConverged Outcome = iota

	// OutcomeBudgetExhausted: the iteration budget ran out first. Inspect
	// Result.Gap before trusting the point.
	OutcomeBudgetExhausted
)

// String renders the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeBudgetExhausted:
		return "budget-exhausted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of Problem.Solve.
//
// MaxValue and MinValue are the prox-free one-sided optima at the final
// point; Gap = |MaxValue − MinValue| is zero at an exact saddle point and is
// always reported, never a failure condition.
type Result struct {
	Outcome    Outcome
	Iterations int
	Gap        float64
	MaxValue   float64
	MinValue   float64
	Point      expr.Valuation
}

// side tags the two players in internal plumbing.
type side int

const (
	sideMin side = iota
	sideMax
)

func (s side) String() string {
	if s == sideMax {
		return "maximizer"
	}

	return "minimizer"
}
