package saddle

import (
	"fmt"

	"github.com/katalvlaran/saddle/expr"
)

// Fix rebuilds e with every variable in fixed replaced by a frozen
// expr.Parameter of identical shape, holding the variable's value under `at`
// and carrying its nonnegativity attribute (so curvature analysis of the
// rebuilt tree sees the same facts). This is the transform that turns one
// player's variables into constants from the other player's perspective.
//
// Contracts:
//   - Copy-on-write: composite nodes are rebuilt, never mutated, so
//     concurrent readers of the original tree stay valid. Untouched leaves
//     pass through by reference — variables keep their identity, and
//     Constant/Parameter leaves are immutable.
//   - Every fixed variable must have a value in `at` (ErrNoValue otherwise).
//   - Fixing the empty set returns a tree that evaluates identically to e
//     under any assignment.
//
// Complexity: O(nodes) time, O(depth) stack.
func Fix(e expr.Expr, fixed map[*expr.Variable]bool, at expr.Valuation) (expr.Expr, error) {
	switch node := e.(type) {
	case *expr.Variable:
		if !fixed[node] {
			return node, nil
		}
		val, ok := at[node]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoValue, node.Name())
		}

		return expr.NewParameter(node.Shape(), val, node.Nonneg()), nil

	case *expr.Constant, *expr.Parameter:
		return e, nil

	case expr.Composite:
		args := node.Args()
		rebuilt := make([]expr.Expr, len(args))
		for i, a := range args {
			sub, err := Fix(a, fixed, at)
			if err != nil {
				return nil, err
			}
			rebuilt[i] = sub
		}

		return node.Rebuild(rebuilt), nil

	default:
		return nil, fmt.Errorf("%w: node %T", ErrUnsupportedExpr, e)
	}
}
