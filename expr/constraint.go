package expr

import "fmt"

// RelOp is the relational operator of a constraint.
type RelOp int

const (
	// RelEq is elementwise equality.
	RelEq RelOp = iota

	// RelLessEq is elementwise ≤.
	RelLessEq

	// RelGreaterEq is elementwise ≥.
	RelGreaterEq
)

// String renders the operator symbol.
func (op RelOp) String() string {
	switch op {
	case RelEq:
		return "=="
	case RelLessEq:
		return "<="
	case RelGreaterEq:
		return ">="
	default:
		return fmt.Sprintf("RelOp(%d)", int(op))
	}
}

// Constraint is a relational expression Left Op Right. Both sides must share
// one shape, except that a scalar side broadcasts against a vector side.
// Constraints are immutable after construction.
type Constraint struct {
	Op          RelOp
	Left, Right Expr
}

// Eq builds Left == Right.
func Eq(l, r Expr) Constraint { return newConstraint(RelEq, l, r) }

// LessEq builds Left <= Right.
func LessEq(l, r Expr) Constraint { return newConstraint(RelLessEq, l, r) }

// GreaterEq builds Left >= Right.
func GreaterEq(l, r Expr) Constraint { return newConstraint(RelGreaterEq, l, r) }

func newConstraint(op RelOp, l, r Expr) Constraint {
	ls, rs := l.Shape(), r.Shape()
	if !ls.IsVector() || !rs.IsVector() {
		panic(ErrShape)
	}
	// Equal shapes, or one scalar side broadcasting against the other.
	if ls != rs && !ls.IsScalar() && !rs.IsScalar() {
		panic(ErrShape)
	}

	return Constraint{Op: op, Left: l, Right: r}
}

// Rows returns the number of elementwise relations the constraint encodes.
func (c Constraint) Rows() int {
	if n := c.Left.Shape().Rows; n > 1 {
		return n
	}

	return c.Right.Shape().Rows
}

// Variables returns the deduplicated variables referenced by either side,
// ordered by creation ID.
func (c Constraint) Variables() []*Variable {
	return VariablesOf(c.Left, c.Right)
}

// String renders "left op right".
func (c Constraint) String() string {
	return fmt.Sprintf("%s %s %s", c.Left.String(), c.Op, c.Right.String())
}
