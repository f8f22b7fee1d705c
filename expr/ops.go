package expr

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// AddExpr is the n-ary elementwise sum of equally shaped operands.
type AddExpr struct {
	shape Shape
	args  []Expr
}

// Add sums the operands elementwise. All operands must share one shape;
// violations panic with ErrShape (ErrEmpty when no operands are given).
func Add(xs ...Expr) Expr {
	s := sameShape(xs...)
	args := make([]Expr, len(xs))
	copy(args, xs)

	return &AddExpr{shape: s, args: args}
}

// Sub returns a − b, sugar for Add(a, Neg(b)).
func Sub(a, b Expr) Expr { return Add(a, Neg(b)) }

// Shape implements Expr.
func (e *AddExpr) Shape() Shape { return e.shape }

// Args implements Composite.
func (e *AddExpr) Args() []Expr { return e.args }

// Rebuild implements Composite.
func (e *AddExpr) Rebuild(args []Expr) Expr {
	if len(args) != len(e.args) {
		panic(ErrShape)
	}

	return Add(args...)
}

// String implements Expr.
func (e *AddExpr) String() string {
	parts := make([]string, len(e.args))
	for i, a := range e.args {
		parts[i] = a.String()
	}

	return "(" + strings.Join(parts, " + ") + ")"
}

// NegExpr is the elementwise negation of its operand.
type NegExpr struct {
	arg Expr
}

// Neg negates x elementwise.
func Neg(x Expr) Expr { return &NegExpr{arg: x} }

// Shape implements Expr.
func (e *NegExpr) Shape() Shape { return e.arg.Shape() }

// Args implements Composite.
func (e *NegExpr) Args() []Expr { return []Expr{e.arg} }

// Rebuild implements Composite.
func (e *NegExpr) Rebuild(args []Expr) Expr {
	if len(args) != 1 {
		panic(ErrShape)
	}

	return Neg(args[0])
}

// String implements Expr.
func (e *NegExpr) String() string { return "-" + e.arg.String() }

// ScaleExpr multiplies its operand by a fixed scalar coefficient.
type ScaleExpr struct {
	c   float64
	arg Expr
}

// Scale returns c·x.
func Scale(c float64, x Expr) Expr { return &ScaleExpr{c: c, arg: x} }

// Coeff returns the scalar coefficient.
func (e *ScaleExpr) Coeff() float64 { return e.c }

// Shape implements Expr.
func (e *ScaleExpr) Shape() Shape { return e.arg.Shape() }

// Args implements Composite.
func (e *ScaleExpr) Args() []Expr { return []Expr{e.arg} }

// Rebuild implements Composite.
func (e *ScaleExpr) Rebuild(args []Expr) Expr {
	if len(args) != 1 {
		panic(ErrShape)
	}

	return Scale(e.c, args[0])
}

// String implements Expr.
func (e *ScaleExpr) String() string { return fmt.Sprintf("%g*%s", e.c, e.arg.String()) }

// MatVecExpr is a constant matrix applied to a vector operand: A·x.
// The coefficient matrix is node data, not a child.
type MatVecExpr struct {
	a   *mat.Dense
	arg Expr
}

// MatVec returns A·x for a constant matrix A and a vector expression x.
// Panics with ErrShape unless x is a vector with rows == cols(A).
func MatVec(a *mat.Dense, x Expr) Expr {
	if a == nil {
		panic(ErrShape)
	}
	if _, c := a.Dims(); !x.Shape().IsVector() || x.Shape().Rows != c {
		panic(ErrShape)
	}

	return &MatVecExpr{a: mat.DenseCopyOf(a), arg: x}
}

// Coeff returns a copy of the coefficient matrix.
func (e *MatVecExpr) Coeff() *mat.Dense { return mat.DenseCopyOf(e.a) }

// Shape implements Expr.
func (e *MatVecExpr) Shape() Shape {
	r, _ := e.a.Dims()

	return Shape{Rows: r, Cols: 1}
}

// Args implements Composite.
func (e *MatVecExpr) Args() []Expr { return []Expr{e.arg} }

// Rebuild implements Composite.
func (e *MatVecExpr) Rebuild(args []Expr) Expr {
	if len(args) != 1 {
		panic(ErrShape)
	}

	return MatVec(e.a, args[0])
}

// String implements Expr.
func (e *MatVecExpr) String() string {
	r, c := e.a.Dims()

	return fmt.Sprintf("mat%d×%d*%s", r, c, e.arg.String())
}

// DotExpr is the inner product of two equally shaped vector operands.
// The result is scalar. Note the node itself is bilinear; affine consumers
// require one side to be variable-free (a constant or frozen parameter).
type DotExpr struct {
	left, right Expr
}

// Dot returns ⟨a, b⟩ for vectors (or scalars) of identical shape.
func Dot(a, b Expr) Expr {
	if !a.Shape().IsVector() || a.Shape() != b.Shape() {
		panic(ErrShape)
	}

	return &DotExpr{left: a, right: b}
}

// Shape implements Expr.
func (e *DotExpr) Shape() Shape { return ScalarShape() }

// Args implements Composite.
func (e *DotExpr) Args() []Expr { return []Expr{e.left, e.right} }

// Rebuild implements Composite.
func (e *DotExpr) Rebuild(args []Expr) Expr {
	if len(args) != 2 {
		panic(ErrShape)
	}

	return Dot(args[0], args[1])
}

// String implements Expr.
func (e *DotExpr) String() string {
	return fmt.Sprintf("⟨%s, %s⟩", e.left.String(), e.right.String())
}

// SumExpr is the scalar sum of all entries of its operand.
type SumExpr struct {
	arg Expr
}

// Sum returns the scalar sum of all entries of x.
func Sum(x Expr) Expr { return &SumExpr{arg: x} }

// Shape implements Expr.
func (e *SumExpr) Shape() Shape { return ScalarShape() }

// Args implements Composite.
func (e *SumExpr) Args() []Expr { return []Expr{e.arg} }

// Rebuild implements Composite.
func (e *SumExpr) Rebuild(args []Expr) Expr {
	if len(args) != 1 {
		panic(ErrShape)
	}

	return Sum(args[0])
}

// String implements Expr.
func (e *SumExpr) String() string { return fmt.Sprintf("sum(%s)", e.arg.String()) }

// SumSquaresExpr is the scalar sum of squared entries of its operand, the
// quadratic atom used for proximal penalties.
type SumSquaresExpr struct {
	arg Expr
}

// SumSquares returns Σᵢ xᵢ² as a scalar expression.
func SumSquares(x Expr) Expr { return &SumSquaresExpr{arg: x} }

// Shape implements Expr.
func (e *SumSquaresExpr) Shape() Shape { return ScalarShape() }

// Args implements Composite.
func (e *SumSquaresExpr) Args() []Expr { return []Expr{e.arg} }

// Rebuild implements Composite.
func (e *SumSquaresExpr) Rebuild(args []Expr) Expr {
	if len(args) != 1 {
		panic(ErrShape)
	}

	return SumSquares(args[0])
}

// String implements Expr.
func (e *SumSquaresExpr) String() string { return fmt.Sprintf("sum_squares(%s)", e.arg.String()) }

// AbsExpr is the elementwise absolute value of its operand.
type AbsExpr struct {
	arg Expr
}

// Abs returns |x| elementwise.
func Abs(x Expr) Expr { return &AbsExpr{arg: x} }

// Shape implements Expr.
func (e *AbsExpr) Shape() Shape { return e.arg.Shape() }

// Args implements Composite.
func (e *AbsExpr) Args() []Expr { return []Expr{e.arg} }

// Rebuild implements Composite.
func (e *AbsExpr) Rebuild(args []Expr) Expr {
	if len(args) != 1 {
		panic(ErrShape)
	}

	return Abs(args[0])
}

// String implements Expr.
func (e *AbsExpr) String() string { return fmt.Sprintf("|%s|", e.arg.String()) }
