package solver

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/saddle/expr"
)

// Sentinel errors: modeling failures surfaced as errors (numeric outcomes
// travel in Result.Status instead).
var (
	// ErrNotAffine is returned when a constraint or a Dot operand that must
	// be affine in the free variables is not.
	ErrNotAffine = errors.New("solver: expression is not affine")

	// ErrNotQuadratic is returned when the objective falls outside the
	// supported class (affine plus weighted SumSquares of affine arguments).
	ErrNotQuadratic = errors.New("solver: objective is not a supported quadratic")

	// ErrObjectiveShape is returned when the objective is not scalar.
	ErrObjectiveShape = errors.New("solver: objective must be scalar")

	// ErrNoVariables is returned when neither the objective, the constraints,
	// nor Extra reference any variable.
	ErrNoVariables = errors.New("solver: problem has no variables")
)

// Status is the outcome of a numeric solve.
type Status int

const (
	// StatusOptimal: the solver met its termination tolerances.
	StatusOptimal Status = iota

	// StatusInfeasible: a primal infeasibility certificate was found.
	StatusInfeasible

	// StatusUnbounded: a dual infeasibility certificate was found
	// (the objective is unbounded in the feasible direction).
	StatusUnbounded

	// StatusError: the solver stopped without a conclusive answer
	// (iteration budget exhausted or numeric breakdown).
	StatusError
)

// String renders the status in solver-log form.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Sense is the optimization direction.
type Sense int

const (
	// Minimize the objective.
	Minimize Sense = iota

	// Maximize the objective.
	Maximize
)

// String renders the sense.
func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}

	return "minimize"
}

// Problem is one convex program handed to a Solver.
//
// Extra lists variables that must be indexed (and therefore valued in the
// result) even when the objective and constraints never mention them; the
// saddle solver uses it to give declared-but-unused variables a defined
// starting point during feasibility initialization.
type Problem struct {
	Sense       Sense
	Objective   expr.Expr
	Constraints []expr.Constraint
	Extra       []*expr.Variable
}

// Result is the outcome of Solver.Solve. Value and Point are meaningful only
// when Status is StatusOptimal; Point then covers every indexed variable.
type Result struct {
	Status Status
	Value  float64
	Point  expr.Valuation
}

// Solver is the opaque convex solve service: implementations must treat the
// problem as read-only and report non-optimal outcomes via Result.Status,
// reserving errors for malformed input.
type Solver interface {
	Solve(p Problem) (Result, error)
}
