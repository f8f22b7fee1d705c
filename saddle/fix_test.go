package saddle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/saddle/expr"
	"github.com/katalvlaran/saddle/saddle"
)

func vec(vs ...float64) *mat.VecDense { return mat.NewVecDense(len(vs), vs) }

// TestFix_RemovesFixedVariables freezes one side of a bilinear-plus-quadratic
// tree and checks that the rebuilt tree evaluates from the other side alone.
func TestFix_RemovesFixedVariables(t *testing.T) {
	x := expr.NewVector("x", 2)
	y := expr.NewVector("y", 2)
	e := expr.Add(expr.Dot(x, y), expr.SumSquares(x))

	at := expr.Valuation{}.Set(x, vec(1, 2))
	fixed, err := saddle.Fix(e, map[*expr.Variable]bool{x: true}, at)
	require.NoError(t, err)

	// Only y remains free.
	require.Equal(t, []*expr.Variable{y}, expr.VariablesOf(fixed))

	// ⟨(1,2), (3,4)⟩ + (1 + 4) = 16, with y supplied by valuation only.
	got, err := expr.Eval(fixed, expr.Valuation{}.Set(y, vec(3, 4)))
	require.NoError(t, err)
	require.InDelta(t, 16, got.AtVec(0), 1e-12)

	// The original tree is untouched: x is still a live leaf of e.
	require.Equal(t, []*expr.Variable{x, y}, expr.VariablesOf(e))
}

// TestFix_EmptySetIsIdentity: fixing nothing yields a tree evaluating
// identically to the source under any assignment.
func TestFix_EmptySetIsIdentity(t *testing.T) {
	x := expr.NewVector("x", 2)
	e := expr.Sum(expr.Abs(expr.Sub(x, expr.Vec([]float64{1, -1}))))

	fixed, err := saddle.Fix(e, nil, nil)
	require.NoError(t, err)

	val := expr.Valuation{}.Set(x, vec(4, 4))
	want, err := expr.Eval(e, val)
	require.NoError(t, err)
	got, err := expr.Eval(fixed, val)
	require.NoError(t, err)
	require.InDelta(t, want.AtVec(0), got.AtVec(0), 1e-12)
}

// TestFix_MissingValue: a fixed variable absent from the valuation is fatal.
func TestFix_MissingValue(t *testing.T) {
	x := expr.NewVector("x", 2)
	_, err := saddle.Fix(expr.Sum(x), map[*expr.Variable]bool{x: true}, nil)
	require.ErrorIs(t, err, saddle.ErrNoValue)
}

// TestFix_ParameterCarriesAttributes: the frozen leaf keeps the variable's
// shape and nonnegativity, and snapshots the value.
func TestFix_ParameterCarriesAttributes(t *testing.T) {
	x := expr.NewNonnegVector("x", 2)
	y := expr.NewVector("y", 2)
	e := expr.Dot(x, y)

	at := expr.Valuation{}.Set(x, vec(5, 6))
	fixed, err := saddle.Fix(e, map[*expr.Variable]bool{x: true}, at)
	require.NoError(t, err)

	dot, ok := fixed.(expr.Composite)
	require.True(t, ok)
	p, ok := dot.Args()[0].(*expr.Parameter)
	require.True(t, ok)
	require.True(t, p.Nonneg())
	require.Equal(t, expr.VectorShape(2), p.Shape())
	require.InDeltaSlice(t, []float64{5, 6}, p.Value().RawVector().Data, 1e-12)

	// Same leaf identity on the unfixed side.
	require.Same(t, y, dot.Args()[1])
}
