package saddle

import (
	"fmt"

	"github.com/katalvlaran/saddle/expr"
)

// Partition splits a joint constraint list into the minimizer's subset and
// the maximizer's subset. A constraint whose variables intersect exactly one
// side is assigned there; intersecting both sides is fatal (coupling
// constraints are unsupported — they belong in the objective, or the model
// is malformed); intersecting neither side is fatal too.
//
// The classification is a single pass over a variable→side lookup table
// built once, so it is linear in the total number of constraint-variable
// references. The input order is preserved within each half, and
// len(xCons)+len(yCons) == len(constraints) on success.
//
// Errors: ErrMixedConstraint, ErrOrphanConstraint (wrapped with the
// offending constraint's rendering).
func Partition(constraints []expr.Constraint, minVars, maxVars []*expr.Variable) (xCons, yCons []expr.Constraint, err error) {
	lookup := make(map[*expr.Variable]side, len(minVars)+len(maxVars))
	for _, v := range minVars {
		lookup[v] = sideMin
	}
	for _, v := range maxVars {
		lookup[v] = sideMax
	}

	for _, c := range constraints {
		var sawMin, sawMax bool
		for _, v := range c.Variables() {
			s, ok := lookup[v]
			if !ok {
				continue // undeclared variables don't classify; alone they orphan the constraint
			}
			if s == sideMin {
				sawMin = true
			} else {
				sawMax = true
			}
		}
		switch {
		case sawMin && sawMax:
			return nil, nil, fmt.Errorf("%w: %s", ErrMixedConstraint, c.String())
		case sawMin:
			xCons = append(xCons, c)
		case sawMax:
			yCons = append(yCons, c)
		default:
			return nil, nil, fmt.Errorf("%w: %s", ErrOrphanConstraint, c.String())
		}
	}

	return xCons, yCons, nil
}
