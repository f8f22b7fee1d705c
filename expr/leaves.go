package expr

import (
	"fmt"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// varSeq issues monotone variable IDs so that enumeration order is stable
// and independent of map iteration.
var varSeq atomic.Uint64

// Variable is an atomic decision unknown: a named scalar or vector leaf with
// an optional nonnegativity attribute and a mutable numeric value. Identity
// is pointer identity; two variables with the same name are distinct.
//
// The value is a convenience slot written by solvers at finalization; it is
// not consulted when an explicit Valuation covers the variable.
type Variable struct {
	id     uint64
	name   string
	shape  Shape
	nonneg bool
	value  *mat.VecDense
}

// NewScalar declares a scalar (1×1) variable.
func NewScalar(name string) *Variable { return newVariable(name, ScalarShape(), false) }

// NewVector declares an n×1 vector variable. Panics with ErrShape if n < 1.
func NewVector(name string, n int) *Variable { return newVariable(name, VectorShape(n), false) }

// NewNonnegVector declares an n×1 vector variable constrained to be
// elementwise nonnegative by every consuming solver.
func NewNonnegVector(name string, n int) *Variable { return newVariable(name, VectorShape(n), true) }

func newVariable(name string, s Shape, nonneg bool) *Variable {
	return &Variable{id: varSeq.Add(1), name: name, shape: s, nonneg: nonneg}
}

// ID returns the variable's monotone creation sequence number.
func (v *Variable) ID() uint64 { return v.id }

// Name returns the declared name (diagnostics only; not an identity).
func (v *Variable) Name() string { return v.name }

// Shape implements Expr.
func (v *Variable) Shape() Shape { return v.shape }

// Nonneg reports whether the variable carries the nonnegativity attribute.
func (v *Variable) Nonneg() bool { return v.nonneg }

// Value returns a copy of the stored value, or nil when unset.
func (v *Variable) Value() *mat.VecDense {
	if v.value == nil {
		return nil
	}

	return mat.VecDenseCopyOf(v.value)
}

// SetValue stores a copy of val on the variable. It returns ErrShape when
// val's length differs from the variable's size, and clears the slot when
// val is nil.
func (v *Variable) SetValue(val *mat.VecDense) error {
	if val == nil {
		v.value = nil

		return nil
	}
	if val.Len() != v.shape.Size() {
		return ErrShape
	}
	v.value = mat.VecDenseCopyOf(val)

	return nil
}

// String implements Expr.
func (v *Variable) String() string { return fmt.Sprintf("var(%s)", v.name) }

// Parameter is an ephemeral frozen placeholder: a value snapshot standing in
// for a variable during one sub-solve. It carries the original variable's
// shape and nonnegativity attribute so curvature analysis downstream sees
// the same facts it would have seen on the variable.
type Parameter struct {
	shape  Shape
	nonneg bool
	value  *mat.VecDense
}

// NewParameter freezes val into a parameter of shape s. Panics with ErrShape
// when val's length differs from s.Size().
func NewParameter(s Shape, val *mat.VecDense, nonneg bool) *Parameter {
	if val == nil || val.Len() != s.Size() {
		panic(ErrShape)
	}

	return &Parameter{shape: s, nonneg: nonneg, value: mat.VecDenseCopyOf(val)}
}

// Shape implements Expr.
func (p *Parameter) Shape() Shape { return p.shape }

// Nonneg reports whether the frozen variable carried the nonnegativity attribute.
func (p *Parameter) Nonneg() bool { return p.nonneg }

// Value returns a copy of the frozen snapshot.
func (p *Parameter) Value() *mat.VecDense { return mat.VecDenseCopyOf(p.value) }

// String implements Expr.
func (p *Parameter) String() string { return fmt.Sprintf("param%s", p.shape) }

// Constant is a numeric leaf: scalar, vector, or matrix data.
type Constant struct {
	m *mat.Dense
}

// Const wraps a scalar constant.
func Const(v float64) *Constant { return &Constant{m: mat.NewDense(1, 1, []float64{v})} }

// Vec wraps a vector constant. Panics with ErrShape on empty input.
func Vec(vs []float64) *Constant {
	if len(vs) == 0 {
		panic(ErrShape)
	}
	data := make([]float64, len(vs))
	copy(data, vs)

	return &Constant{m: mat.NewDense(len(vs), 1, data)}
}

// Mat wraps a dense matrix constant (copied).
func Mat(m *mat.Dense) *Constant {
	if m == nil {
		panic(ErrShape)
	}

	return &Constant{m: mat.DenseCopyOf(m)}
}

// Shape implements Expr.
func (c *Constant) Shape() Shape {
	r, cols := c.m.Dims()

	return Shape{Rows: r, Cols: cols}
}

// Matrix returns a copy of the underlying data.
func (c *Constant) Matrix() *mat.Dense { return mat.DenseCopyOf(c.m) }

// Vector returns the data as a column vector copy. Panics with ErrShape when
// the constant is matrix-shaped.
func (c *Constant) Vector() *mat.VecDense {
	r, cols := c.m.Dims()
	if cols != 1 {
		panic(ErrShape)
	}
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		out.SetVec(i, c.m.At(i, 0))
	}

	return out
}

// String implements Expr.
func (c *Constant) String() string {
	if c.Shape().IsScalar() {
		return fmt.Sprintf("%g", c.m.At(0, 0))
	}

	return fmt.Sprintf("const%s", c.Shape())
}
