package saddle

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/saddle/expr"
)

// Problem is a saddle-point problem: a scalar convex-concave objective over
// two disjoint player variable sets, plus constraints each binding exactly
// one side. Immutable after construction.
type Problem struct {
	objective   expr.Expr
	constraints []expr.Constraint
	minVars     []*expr.Variable
	maxVars     []*expr.Variable
	minSet      map[*expr.Variable]bool
	maxSet      map[*expr.Variable]bool
	xCons       []expr.Constraint // bind minimizer variables only
	yCons       []expr.Constraint // bind maximizer variables only
	allVars     []*expr.Variable  // minVars ∪ maxVars, ordered by creation ID
}

// NewProblem validates the two-player structure and partitions the
// constraints eagerly, so every modeling error surfaces before any numeric
// solve:
//
//   - objective must be scalar (ErrNonScalarObjective);
//   - both player sets non-empty (ErrEmptyPlayerSet) and disjoint
//     (ErrSharedVariable);
//   - every objective variable declared on one side (ErrUndeclaredVariable);
//   - every constraint intersecting exactly one side (ErrMixedConstraint,
//     ErrOrphanConstraint).
//
// The constraint slice is copied; duplicate variables within a side list are
// deduplicated.
func NewProblem(objective expr.Expr, constraints []expr.Constraint, minVars, maxVars []*expr.Variable) (*Problem, error) {
	if objective == nil || !objective.Shape().IsScalar() {
		return nil, ErrNonScalarObjective
	}
	minVars = dedupVars(minVars)
	maxVars = dedupVars(maxVars)
	if len(minVars) == 0 || len(maxVars) == 0 {
		return nil, ErrEmptyPlayerSet
	}

	minSet := make(map[*expr.Variable]bool, len(minVars))
	for _, v := range minVars {
		minSet[v] = true
	}
	maxSet := make(map[*expr.Variable]bool, len(maxVars))
	for _, v := range maxVars {
		if minSet[v] {
			return nil, fmt.Errorf("%w: %s", ErrSharedVariable, v.Name())
		}
		maxSet[v] = true
	}

	for _, v := range expr.VariablesOf(objective) {
		if !minSet[v] && !maxSet[v] {
			return nil, fmt.Errorf("%w: %s", ErrUndeclaredVariable, v.Name())
		}
	}

	cons := make([]expr.Constraint, len(constraints))
	copy(cons, constraints)
	xCons, yCons, err := Partition(cons, minVars, maxVars)
	if err != nil {
		return nil, err
	}

	all := make([]*expr.Variable, 0, len(minVars)+len(maxVars))
	all = append(all, minVars...)
	all = append(all, maxVars...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })

	return &Problem{
		objective:   objective,
		constraints: cons,
		minVars:     minVars,
		maxVars:     maxVars,
		minSet:      minSet,
		maxSet:      maxSet,
		xCons:       xCons,
		yCons:       yCons,
		allVars:     all,
	}, nil
}

// Objective returns the joint objective expression.
func (p *Problem) Objective() expr.Expr { return p.objective }

// Constraints returns a copy of the joint constraint list.
func (p *Problem) Constraints() []expr.Constraint {
	out := make([]expr.Constraint, len(p.constraints))
	copy(out, p.constraints)

	return out
}

// MinVars returns a copy of the minimizer variable list.
func (p *Problem) MinVars() []*expr.Variable {
	out := make([]*expr.Variable, len(p.minVars))
	copy(out, p.minVars)

	return out
}

// MaxVars returns a copy of the maximizer variable list.
func (p *Problem) MaxVars() []*expr.Variable {
	out := make([]*expr.Variable, len(p.maxVars))
	copy(out, p.maxVars)

	return out
}

// vars returns the given side's variable list (internal, not a copy).
func (p *Problem) vars(s side) []*expr.Variable {
	if s == sideMax {
		return p.maxVars
	}

	return p.minVars
}

// set returns the given side's membership set (internal).
func (p *Problem) set(s side) map[*expr.Variable]bool {
	if s == sideMax {
		return p.maxSet
	}

	return p.minSet
}

// cons returns the given side's constraint half (internal, not a copy).
func (p *Problem) cons(s side) []expr.Constraint {
	if s == sideMax {
		return p.yCons
	}

	return p.xCons
}

func dedupVars(vars []*expr.Variable) []*expr.Variable {
	seen := make(map[*expr.Variable]struct{}, len(vars))
	out := make([]*expr.Variable, 0, len(vars))
	for _, v := range vars {
		if v == nil {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
