package saddle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/saddle/expr"
	"github.com/katalvlaran/saddle/solver"
)

// KRepresentation is the structured conic summary of a convex-concave scalar
// expression consumed by an external disciplined reformulator. The core
// produces and forwards it; it never inspects one beyond construction.
type KRepresentation struct {
	F, T, X, Y  expr.Expr
	Constraints []expr.Constraint
}

// Reformulator is the boundary to the external disciplined saddle-point
// machinery: it supplies the linear representation of a maximizer variable
// and rewrites a parsed representation plus both constraint halves into one
// ordinary convex program.
type Reformulator interface {
	// MaximizerRepr builds the representation of a lone maximizer-tagged
	// variable appearing in the objective.
	MaximizerRepr(v *expr.Variable) (KRepresentation, error)

	// MinimaxToMin rewrites the representation and the two constraint halves
	// into a single convex minimization.
	MinimaxToMin(k KRepresentation, xCons, yCons []expr.Constraint) (solver.Problem, error)
}

// constantRepr wraps a scalar constant into a trivial representation.
func constantRepr(v float64) KRepresentation {
	return KRepresentation{
		F: expr.Const(0),
		T: expr.Const(v),
		X: expr.Const(0),
		Y: expr.Const(0),
	}
}

// passthroughRepr wraps an already-convex (minimizer-tagged) variable.
func passthroughRepr(v *expr.Variable) KRepresentation {
	return KRepresentation{
		F: expr.Const(0),
		T: v,
		X: expr.Const(0),
		Y: expr.Const(0),
	}
}

// ParseRepr resolves the declared role of the objective's leaf into a
// representation usable by the fast reformulation path. It guards that path
// only; the alternating method never calls it.
//
// Leaf cases:
//   - scalar numeric constant: trivial wrap;
//   - minimizer-tagged variable: passed through (already convex);
//   - maximizer-tagged variable: delegated to ref.MaximizerRepr;
//   - variable tagged neither: ErrAmbiguousCurvature — curvature must be
//     declared, never guessed.
//
// Non-scalar expressions yield ErrNonScalarObjective; unrecognized node
// kinds yield ErrUnsupportedExpr.
func ParseRepr(e expr.Expr, minVars, maxVars []*expr.Variable, ref Reformulator) (KRepresentation, error) {
	if !e.Shape().IsScalar() {
		return KRepresentation{}, ErrNonScalarObjective
	}

	switch node := e.(type) {
	case *expr.Constant:
		return constantRepr(node.Matrix().At(0, 0)), nil

	case *expr.Variable:
		for _, v := range minVars {
			if v == node {
				return passthroughRepr(node), nil
			}
		}
		for _, v := range maxVars {
			if v == node {
				if ref == nil {
					return KRepresentation{}, ErrNoReformulator
				}

				return ref.MaximizerRepr(node)
			}
		}

		return KRepresentation{}, fmt.Errorf("%w: %s", ErrAmbiguousCurvature, node.Name())

	default:
		return KRepresentation{}, fmt.Errorf("%w: node %T", ErrUnsupportedExpr, e)
	}
}

// solveReformulated is the fast path: resolve roles, reuse the partition
// computed at construction, hand everything to the reformulator, and solve
// the single convex program it returns.
func (p *Problem) solveReformulated(o options) (Result, error) {
	if o.ref == nil {
		return Result{}, ErrNoReformulator
	}

	k, err := ParseRepr(p.objective, p.minVars, p.maxVars, o.ref)
	if err != nil {
		return Result{}, err
	}

	prog, err := o.ref.MinimaxToMin(k, p.cons(sideMin), p.cons(sideMax))
	if err != nil {
		return Result{}, err
	}

	res, err := o.slv.Solve(prog)
	if err != nil {
		return Result{}, err
	}
	if res.Status != solver.StatusOptimal {
		return Result{}, fmt.Errorf("%w: reformulated program returned %s", ErrSubproblemNotOptimal, res.Status)
	}

	// Write solved values back onto the variables the program covers.
	for v, x := range res.Point {
		if err = v.SetValue(x); err != nil {
			return Result{}, err
		}
	}
	o.log.Info("reformulated solve finished",
		zap.Float64("value", res.Value), zap.Int("variables", len(res.Point)))

	return Result{
		Outcome:  OutcomeConverged,
		Gap:      0,
		MaxValue: res.Value,
		MinValue: res.Value,
		Point:    res.Point.Clone(),
	}, nil
}
