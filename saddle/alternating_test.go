package saddle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/saddle/expr"
	"github.com/katalvlaran/saddle/saddle"
	"github.com/katalvlaran/saddle/solver"
)

// boxedBilinear builds min_x max_y ⟨x, y⟩ over |x| ≤ 1, |y| ≤ 1.
// Its unique saddle point is the origin, so the alternation is stationary
// from the feasibility initialization onward.
func boxedBilinear(t *testing.T) (*saddle.Problem, *expr.Variable, *expr.Variable) {
	t.Helper()
	x := expr.NewVector("x", 2)
	y := expr.NewVector("y", 2)
	p, err := saddle.NewProblem(expr.Dot(x, y), []expr.Constraint{
		expr.LessEq(expr.Abs(x), expr.Const(1)),
		expr.LessEq(expr.Abs(y), expr.Const(1)),
	}, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	return p, x, y
}

// TestSolve_StationarySaddle: a problem already at its saddle point converges
// on the second iteration, the first moment two average points exist.
func TestSolve_StationarySaddle(t *testing.T) {
	p, x, y := boxedBilinear(t)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, saddle.OutcomeConverged, res.Outcome)
	require.Equal(t, 2, res.Iterations)
	require.InDelta(t, 0, res.Gap, 1e-9)
	require.InDelta(t, 0, res.MaxValue, 1e-9)
	require.InDelta(t, 0, res.MinValue, 1e-9)

	for _, v := range []*expr.Variable{x, y} {
		require.NotNil(t, v.Value())
		require.InDelta(t, 0, v.Value().AtVec(0), 1e-9)
		require.InDelta(t, 0, v.Value().AtVec(1), 1e-9)
	}
}

// TestSolve_MatrixGame couples the players through a payoff matrix:
// min_x max_y ⟨x, Ay⟩ over unit boxes. The origin is an equilibrium.
func TestSolve_MatrixGame(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, -2, 3, 1})
	x := expr.NewVector("x", 2)
	y := expr.NewVector("y", 2)
	p, err := saddle.NewProblem(expr.Dot(x, expr.MatVec(a, y)), []expr.Constraint{
		expr.LessEq(expr.Abs(x), expr.Const(1)),
		expr.LessEq(expr.Abs(y), expr.Const(1)),
	}, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, saddle.OutcomeConverged, res.Outcome)
	require.InDelta(t, 0, res.Gap, 1e-9)
	require.InDelta(t, 0, res.MaxValue, 1e-9)
}

// separableQuadratic builds min_x max_y (x−2)² − (y−3)² over [0,5]².
// The saddle point is (2, 3) with value 0, approached geometrically by the
// damped alternation from the zero initialization.
func separableQuadratic(t *testing.T) (*saddle.Problem, *expr.Variable, *expr.Variable) {
	t.Helper()
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	obj := expr.Sub(
		expr.SumSquares(expr.Sub(x, expr.Const(2))),
		expr.SumSquares(expr.Sub(y, expr.Const(3))))
	p, err := saddle.NewProblem(obj, []expr.Constraint{
		expr.GreaterEq(x, expr.Const(0)), expr.LessEq(x, expr.Const(5)),
		expr.GreaterEq(y, expr.Const(0)), expr.LessEq(y, expr.Const(5)),
	}, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	return p, x, y
}

// TestSolve_SeparableQuadratic tracks a genuinely moving alternation: the
// averaged point must approach (2, 3) and the reported gap must shrink with it.
func TestSolve_SeparableQuadratic(t *testing.T) {
	p, x, y := separableQuadratic(t)

	res, err := p.Solve(saddle.WithEps(1e-2))
	require.NoError(t, err)
	require.Equal(t, saddle.OutcomeConverged, res.Outcome)
	require.Greater(t, res.Iterations, 2)
	require.Less(t, res.Iterations, saddle.DefaultMaxIters)

	require.InDelta(t, 2, x.Value().AtVec(0), 0.25)
	require.InDelta(t, 3, y.Value().AtVec(0), 0.30)
	require.Less(t, res.Gap, 0.2)
	require.LessOrEqual(t, res.MinValue, res.MaxValue)
}

// TestSolve_BudgetExhausted: one iteration of the same problem lands exactly
// at the first damped best responses (1, 1.5) and reports the honest gap.
func TestSolve_BudgetExhausted(t *testing.T) {
	p, x, y := separableQuadratic(t)

	res, err := p.Solve(saddle.WithMaxIters(1))
	require.NoError(t, err)
	require.Equal(t, saddle.OutcomeBudgetExhausted, res.Outcome)
	require.Equal(t, 1, res.Iterations)

	// max step from y=0: argmax −(y−3)² − (y−0)² = 1.5;
	// min step from x=0: argmin (x−2)² + (x−0)² = 1.
	require.InDelta(t, 1, x.Value().AtVec(0), 1e-5)
	require.InDelta(t, 1.5, y.Value().AtVec(0), 1e-5)

	// Prox-free one-sided optima at (1, 1.5): max = 1, min = −2.25.
	require.InDelta(t, 1, res.MaxValue, 1e-4)
	require.InDelta(t, -2.25, res.MinValue, 1e-4)
	require.Greater(t, res.Gap, 0.5)
}

// TestSolve_RobustPricing is a worst-case pricing game: positions x must
// deliver payoff ≥ 1 in every scenario while prices p̃ move inside a band
// around (1, 1). The minimax value is 1.1 at x = (0.5, 0.5), p̃ = (1.1, 1.1).
// Whatever the terminal outcome, weak duality pins MaxValue ≥ 1.1 ≥ MinValue
// and the averaged point stays feasible for its own side.
func TestSolve_RobustPricing(t *testing.T) {
	v := mat.NewDense(2, 2, []float64{1.5, 0.5, 0.5, 1.5})
	x := expr.NewVector("x", 2)
	pt := expr.NewVector("p", 2)
	prob, err := saddle.NewProblem(expr.Dot(pt, x), []expr.Constraint{
		expr.GreaterEq(expr.MatVec(v, x), expr.Const(1)),
		expr.LessEq(expr.Abs(expr.Sub(pt, expr.Vec([]float64{1, 1}))), expr.Const(0.1)),
	}, []*expr.Variable{x}, []*expr.Variable{pt})
	require.NoError(t, err)

	res, err := prob.Solve(saddle.WithEps(1e-3), saddle.WithMaxIters(100))
	require.NoError(t, err)

	require.GreaterOrEqual(t, res.MaxValue, 1.1-1e-2)
	require.LessOrEqual(t, res.MinValue, 1.1+1e-2)
	require.GreaterOrEqual(t, res.Gap, 0.0)

	// The averaged position still covers every scenario.
	payoff, err := expr.Eval(expr.MatVec(v, x), nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, payoff.AtVec(0), 1-1e-2)
	require.GreaterOrEqual(t, payoff.AtVec(1), 1-1e-2)

	// The averaged price stays inside the band.
	band, err := expr.Eval(expr.Abs(expr.Sub(pt, expr.Vec([]float64{1, 1}))), nil)
	require.NoError(t, err)
	require.LessOrEqual(t, band.AtVec(0), 0.1+1e-2)
	require.LessOrEqual(t, band.AtVec(1), 0.1+1e-2)
}

// arbitragePayoff is the two-asset, two-scenario payoff matrix of the
// arbitrage fixtures below: V[i][j] is asset j's payoff in scenario i.
func arbitragePayoff() *mat.Dense {
	return mat.NewDense(2, 2, []float64{1.5, 0.5, 0.5, 1.5})
}

// TestSolve_ArbitrageFreeMarket: with prices p = (1, 1) the market admits no
// arbitrage — every position with nonnegative payoffs costs at least zero —
// so the cheapest such position is free: min ⟨p, x⟩ s.t. Vx ≥ 0 is 0.
func TestSolve_ArbitrageFreeMarket(t *testing.T) {
	x := expr.NewVector("x", 2)
	res, err := solver.New().Solve(solver.Problem{
		Sense:       solver.Minimize,
		Objective:   expr.Dot(expr.Vec([]float64{1, 1}), x),
		Constraints: []expr.Constraint{expr.GreaterEq(expr.MatVec(arbitragePayoff(), x), expr.Const(0))},
	})
	require.NoError(t, err)
	require.Equal(t, solver.StatusOptimal, res.Status)
	require.InDelta(t, 0, res.Value, 1e-6)
}

// robustArbitrage builds the saddle version of the arbitrage check around the
// off-equilibrium price (0.1, 1): min_x max_p̃ ⟨x, p̃⟩ with Vx ≥ 0 and
// |p̃ − p| ≤ band.
func robustArbitrage(t *testing.T, band float64) *saddle.Problem {
	t.Helper()
	x := expr.NewVector("x", 2)
	pt := expr.NewVector("p_tilde", 2)
	prob, err := saddle.NewProblem(expr.Dot(x, pt), []expr.Constraint{
		expr.GreaterEq(expr.MatVec(arbitragePayoff(), x), expr.Const(0)),
		expr.LessEq(expr.Abs(expr.Sub(pt, expr.Vec([]float64{0.1, 1}))), expr.Const(band)),
	}, []*expr.Variable{x}, []*expr.Variable{pt})
	require.NoError(t, err)

	return prob
}

// TestSolve_RobustArbitrageSmallBand: a 0.1 price band around (0.1, 1) leaves
// an arbitrage direction open for every admissible p̃, so the minimizer's
// prox-free validation program is unbounded and the solve must abort with a
// non-optimal sub-solve status.
func TestSolve_RobustArbitrageSmallBand(t *testing.T) {
	prob := robustArbitrage(t, 0.1)

	_, err := prob.Solve()
	require.ErrorIs(t, err, saddle.ErrSubproblemNotOptimal)
}

// TestSolve_RobustArbitrageLargeBand: widening the band to 1 lets the
// maximizer close the arbitrage, and the solve succeeds with value ≈ 0.
func TestSolve_RobustArbitrageLargeBand(t *testing.T) {
	prob := robustArbitrage(t, 1)

	res, err := prob.Solve()
	require.NoError(t, err)
	require.Equal(t, saddle.OutcomeConverged, res.Outcome)
	require.InDelta(t, 0, res.MaxValue, 1e-6)
	require.InDelta(t, 0, res.MinValue, 1e-6)
	require.InDelta(t, 0, res.Gap, 1e-6)
}

// TestSolve_InfeasibleInitialization: an empty minimizer feasible set aborts
// before any alternation.
func TestSolve_InfeasibleInitialization(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	p, err := saddle.NewProblem(expr.Dot(x, y), []expr.Constraint{
		expr.LessEq(x, expr.Const(0)),
		expr.GreaterEq(x, expr.Const(1)),
		expr.LessEq(expr.Abs(y), expr.Const(1)),
	}, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	_, err = p.Solve()
	require.ErrorIs(t, err, saddle.ErrSubproblemNotOptimal)
}

// TestSolve_UnboundedBestResponse: with the proximal weight disabled an
// unconstrained-above maximizer diverges; the abort still leaves variables at
// the last consistent point.
func TestSolve_UnboundedBestResponse(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	obj := expr.Add(expr.SumSquares(x), expr.Sum(y))
	p, err := saddle.NewProblem(obj, []expr.Constraint{
		expr.GreaterEq(x, expr.Const(0)),
		expr.LessEq(x, expr.Const(1)),
		expr.GreaterEq(y, expr.Const(0)),
	}, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	_, err = p.Solve(saddle.WithAlpha(0))
	require.ErrorIs(t, err, saddle.ErrSubproblemNotOptimal)
	require.NotNil(t, x.Value())
	require.NotNil(t, y.Value())
}

// TestSolve_UnusedVariableGetsValue: a declared variable absent from the
// objective and all constraints still comes back with a defined value.
func TestSolve_UnusedVariableGetsValue(t *testing.T) {
	x := expr.NewVector("x", 2)
	y := expr.NewVector("y", 2)
	u := expr.NewScalar("u")
	p, err := saddle.NewProblem(expr.Dot(x, y), []expr.Constraint{
		expr.LessEq(expr.Abs(x), expr.Const(1)),
		expr.LessEq(expr.Abs(y), expr.Const(1)),
	}, []*expr.Variable{x, u}, []*expr.Variable{y})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Contains(t, res.Point, u)
	require.Equal(t, 1, res.Point[u].Len())
	require.NotNil(t, u.Value())
}
