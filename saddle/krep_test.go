package saddle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/saddle/expr"
	"github.com/katalvlaran/saddle/saddle"
	"github.com/katalvlaran/saddle/solver"
)

// stubReformulator is a minimal Reformulator: maximizer variables pass
// through, and MinimaxToMin hands back a canned convex program while
// recording the constraint halves it was given.
type stubReformulator struct {
	prog     solver.Problem
	gotXCons int
	gotYCons int
}

func (s *stubReformulator) MaximizerRepr(v *expr.Variable) (saddle.KRepresentation, error) {
	return saddle.KRepresentation{
		F: expr.Const(0),
		T: v,
		X: expr.Const(0),
		Y: expr.Const(0),
	}, nil
}

func (s *stubReformulator) MinimaxToMin(_ saddle.KRepresentation, xCons, yCons []expr.Constraint) (solver.Problem, error) {
	s.gotXCons, s.gotYCons = len(xCons), len(yCons)

	return s.prog, nil
}

// TestParseRepr_LeafCases walks every recognized leaf and every rejection.
func TestParseRepr_LeafCases(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	minVars := []*expr.Variable{x}
	maxVars := []*expr.Variable{y}
	ref := &stubReformulator{}

	// Scalar constant wraps trivially.
	k, err := saddle.ParseRepr(expr.Const(2.5), minVars, maxVars, ref)
	require.NoError(t, err)
	got, err := expr.Eval(k.T, nil)
	require.NoError(t, err)
	require.InDelta(t, 2.5, got.AtVec(0), 1e-12)

	// Minimizer variable passes through unchanged.
	k, err = saddle.ParseRepr(x, minVars, maxVars, ref)
	require.NoError(t, err)
	require.Same(t, x, k.T)

	// Maximizer variable delegates to the reformulator.
	k, err = saddle.ParseRepr(y, minVars, maxVars, ref)
	require.NoError(t, err)
	require.Same(t, y, k.T)

	// Maximizer variable with no reformulator configured.
	_, err = saddle.ParseRepr(y, minVars, maxVars, nil)
	require.ErrorIs(t, err, saddle.ErrNoReformulator)

	// Undeclared role: curvature is declared, never guessed.
	z := expr.NewScalar("z")
	_, err = saddle.ParseRepr(z, minVars, maxVars, ref)
	require.ErrorIs(t, err, saddle.ErrAmbiguousCurvature)

	// Non-scalar objectives are rejected outright.
	v := expr.NewVector("v", 3)
	_, err = saddle.ParseRepr(v, minVars, maxVars, ref)
	require.ErrorIs(t, err, saddle.ErrNonScalarObjective)

	// Composite nodes are outside the recognized leaf forms.
	_, err = saddle.ParseRepr(expr.Add(x, expr.Const(1)), minVars, maxVars, ref)
	require.ErrorIs(t, err, saddle.ErrUnsupportedExpr)
}

// TestSolve_Reformulated runs the fast path end to end against the stub and
// checks the solved values land back on the variables.
func TestSolve_Reformulated(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	cons := []expr.Constraint{
		expr.GreaterEq(x, expr.Const(0)),
		expr.LessEq(y, expr.Const(10)),
	}
	p, err := saddle.NewProblem(y, cons, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	ref := &stubReformulator{prog: solver.Problem{
		Sense:     solver.Minimize,
		Objective: expr.SumSquares(expr.Sub(y, expr.Const(3))),
	}}
	res, err := p.Solve(saddle.WithMethod(saddle.MethodReformulate), saddle.WithReformulator(ref))
	require.NoError(t, err)

	require.Equal(t, saddle.OutcomeConverged, res.Outcome)
	require.Zero(t, res.Gap)
	require.InDelta(t, 0, res.MaxValue, 1e-6)
	require.InDelta(t, res.MaxValue, res.MinValue, 1e-12)
	require.InDelta(t, 3, res.Point[y].AtVec(0), 1e-6)
	require.NotNil(t, y.Value())
	require.InDelta(t, 3, y.Value().AtVec(0), 1e-6)

	// Both partitioned constraint halves reached the reformulator.
	require.Equal(t, 1, ref.gotXCons)
	require.Equal(t, 1, ref.gotYCons)
}

// TestSolve_ReformulatedNotOptimal: a non-optimal rewritten program aborts
// with the status error.
func TestSolve_ReformulatedNotOptimal(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	p, err := saddle.NewProblem(y, nil, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	// Unbounded below: min y with no constraints.
	ref := &stubReformulator{prog: solver.Problem{
		Sense:     solver.Minimize,
		Objective: expr.Sum(y),
	}}
	_, err = p.Solve(saddle.WithMethod(saddle.MethodReformulate), saddle.WithReformulator(ref))
	require.ErrorIs(t, err, saddle.ErrSubproblemNotOptimal)
}

// TestSolve_ReformulateWithoutReformulator fails fast.
func TestSolve_ReformulateWithoutReformulator(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewScalar("y")
	p, err := saddle.NewProblem(y, nil, []*expr.Variable{x}, []*expr.Variable{y})
	require.NoError(t, err)

	_, err = p.Solve(saddle.WithMethod(saddle.MethodReformulate))
	require.ErrorIs(t, err, saddle.ErrNoReformulator)
}
