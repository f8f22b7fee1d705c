package expr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Valuation is an explicit assignment of values to variables. It is the
// immutable cross-call communication medium of the saddle solvers: callers
// thread valuations through sub-solves instead of mutating variable state,
// which keeps the sequential data dependency visible and testable.
//
// Treat valuations as immutable: derive new ones with Set / Clone.
type Valuation map[*Variable]*mat.VecDense

// Clone returns a deep copy of the valuation.
func (val Valuation) Clone() Valuation {
	out := make(Valuation, len(val))
	for v, x := range val {
		out[v] = mat.VecDenseCopyOf(x)
	}

	return out
}

// Set returns a copy of the valuation with v bound to a copy of x.
// The receiver is left untouched; a nil receiver is treated as empty.
func (val Valuation) Set(v *Variable, x *mat.VecDense) Valuation {
	out := val.Clone()
	if out == nil {
		out = make(Valuation, 1)
	}
	out[v] = mat.VecDenseCopyOf(x)

	return out
}

// Eval computes the numeric value of e under val. Variables read val first
// and fall back to their stored value; a variable with neither yields
// ErrNoValue. Scalars come back as length-1 vectors. Matrix-shaped constants
// cannot be evaluated standalone (they are MatVec coefficients) and yield
// ErrShape.
func Eval(e Expr, val Valuation) (*mat.VecDense, error) {
	switch n := e.(type) {
	case *Variable:
		if x, ok := val[n]; ok {
			return mat.VecDenseCopyOf(x), nil
		}
		if n.value != nil {
			return mat.VecDenseCopyOf(n.value), nil
		}

		return nil, fmt.Errorf("%w: %s", ErrNoValue, n.Name())

	case *Parameter:
		return n.Value(), nil

	case *Constant:
		if !n.Shape().IsVector() {
			return nil, ErrShape
		}

		return n.Vector(), nil

	case *AddExpr:
		out := mat.NewVecDense(n.Shape().Size(), nil)
		for _, a := range n.args {
			x, err := Eval(a, val)
			if err != nil {
				return nil, err
			}
			out.AddVec(out, x)
		}

		return out, nil

	case *NegExpr:
		x, err := Eval(n.arg, val)
		if err != nil {
			return nil, err
		}
		x.ScaleVec(-1, x)

		return x, nil

	case *ScaleExpr:
		x, err := Eval(n.arg, val)
		if err != nil {
			return nil, err
		}
		x.ScaleVec(n.c, x)

		return x, nil

	case *MatVecExpr:
		x, err := Eval(n.arg, val)
		if err != nil {
			return nil, err
		}
		r, _ := n.a.Dims()
		out := mat.NewVecDense(r, nil)
		out.MulVec(n.a, x)

		return out, nil

	case *DotExpr:
		l, err := Eval(n.left, val)
		if err != nil {
			return nil, err
		}
		r, err := Eval(n.right, val)
		if err != nil {
			return nil, err
		}

		return mat.NewVecDense(1, []float64{mat.Dot(l, r)}), nil

	case *SumExpr:
		x, err := Eval(n.arg, val)
		if err != nil {
			return nil, err
		}
		var s float64
		for i := 0; i < x.Len(); i++ {
			s += x.AtVec(i)
		}

		return mat.NewVecDense(1, []float64{s}), nil

	case *SumSquaresExpr:
		x, err := Eval(n.arg, val)
		if err != nil {
			return nil, err
		}

		return mat.NewVecDense(1, []float64{mat.Dot(x, x)}), nil

	case *AbsExpr:
		x, err := Eval(n.arg, val)
		if err != nil {
			return nil, err
		}
		for i := 0; i < x.Len(); i++ {
			x.SetVec(i, math.Abs(x.AtVec(i)))
		}

		return x, nil

	default:
		return nil, fmt.Errorf("expr: cannot evaluate node %T", e)
	}
}
