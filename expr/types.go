package expr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Construction-time shape violations panic with ErrShape
// (programmer error); evaluation-time problems are returned and matched via
// errors.Is.
var (
	// ErrShape indicates invalid or incompatible shapes.
	ErrShape = errors.New("expr: shape mismatch")

	// ErrNoValue indicates that a variable was evaluated without a value,
	// neither in the supplied Valuation nor stored on the variable itself.
	ErrNoValue = errors.New("expr: variable has no value")

	// ErrEmpty indicates a variadic constructor received no operands.
	ErrEmpty = errors.New("expr: no operands")
)

// Shape describes the dimensions of an expression: rows×cols.
// Scalars are 1×1 and vectors are n×1. Matrix shapes (cols > 1) are legal
// for constants only.
type Shape struct {
	Rows, Cols int
}

// ScalarShape returns the 1×1 shape.
func ScalarShape() Shape { return Shape{Rows: 1, Cols: 1} }

// VectorShape returns the n×1 shape. Panics with ErrShape if n < 1.
func VectorShape(n int) Shape {
	if n < 1 {
		panic(ErrShape)
	}

	return Shape{Rows: n, Cols: 1}
}

// Size returns the total number of entries, rows*cols.
func (s Shape) Size() int { return s.Rows * s.Cols }

// IsScalar reports whether the shape is 1×1.
func (s Shape) IsScalar() bool { return s.Rows == 1 && s.Cols == 1 }

// IsVector reports whether the shape is a column (cols == 1).
func (s Shape) IsVector() bool { return s.Cols == 1 }

// String renders the shape as "rows×cols".
func (s Shape) String() string { return fmt.Sprintf("%d×%d", s.Rows, s.Cols) }

// Expr is a node of an expression tree. Implementations are exactly the
// closed node set documented in the package comment.
type Expr interface {
	// Shape reports the node's dimensions.
	Shape() Shape

	// String renders a compact human-readable form (diagnostics only).
	String() string
}

// Composite is implemented by every non-leaf node. Args returns the ordered
// child list (callers must not mutate it); Rebuild returns a copy of the
// node with the given children, leaving the receiver untouched. Rebuild is
// the copy-on-write hook used by tree transforms such as variable fixing.
type Composite interface {
	Expr

	// Args returns the node's ordered children.
	Args() []Expr

	// Rebuild returns a copy of the node with children replaced by args.
	// len(args) must equal len(Args()) and shapes must match; violations
	// panic with ErrShape.
	Rebuild(args []Expr) Expr
}

// sameShape panics with ErrShape unless all expressions share one shape.
func sameShape(xs ...Expr) Shape {
	if len(xs) == 0 {
		panic(ErrEmpty)
	}
	s := xs[0].Shape()
	for _, x := range xs[1:] {
		if x.Shape() != s {
			panic(ErrShape)
		}
	}

	return s
}
