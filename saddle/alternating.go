package saddle

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/saddle/expr"
	"github.com/katalvlaran/saddle/solver"
)

// Solve runs the selected method and returns the terminal Result.
//
// On success every declared variable holds its final value (the Cesàro
// average for MethodAlternating); on an aborted alternation, variable state
// reflects the last successful step only and the error wraps
// ErrSubproblemNotOptimal with the offending status.
func (p *Problem) Solve(opts ...Option) (Result, error) {
	o := gatherOptions(opts...)
	switch o.method {
	case MethodAlternating:
		return p.solveAlternating(o)
	case MethodReformulate:
		return p.solveReformulated(o)
	default:
		return Result{}, ErrUnknownMethod
	}
}

// solveAlternating is the proximally stabilized best-response iteration.
//
// Steps:
//  1. Feasibility initialization per side (zero objective over the side's
//     own constraint half, every side variable indexed).
//  2. For k = 0 … maxIters−1: maximizer best response with the minimizer
//     frozen, then minimizer best response with the maximizer frozen at its
//     just-updated values; both proximally penalized around the stepping
//     side's current values with weight α.
//  3. Post-step values append to per-variable histories; the aggregate
//     point is the per-variable arithmetic mean over the entire history.
//  4. Once two aggregate points exist, an ∞-norm difference ≤ ε converges.
//  5. Finalize variables at their Cesàro averages and re-solve both sides
//     prox-free at that point to report the saddle gap.
//
// The sequential order inside one iteration is load-bearing: step 2's
// minimizer solve must observe the maximizer values produced in the same
// iteration. The valuation threading makes that dependency explicit.
func (p *Problem) solveAlternating(o options) (Result, error) {
	point, err := p.initialize(o)
	if err != nil {
		return Result{}, err
	}

	hist := make(map[*expr.Variable][]*mat.VecDense, len(p.allVars))
	var prevAgg *mat.VecDense
	outcome := OutcomeBudgetExhausted
	iters := 0

	for k := 0; k < o.maxIters; k++ {
		iters = k + 1

		// Maximizer step: minimizer variables frozen at the current point.
		res, err := p.bestResponse(sideMax, point, o.alpha, o.slv)
		if err != nil {
			p.finalize(point)

			return Result{}, err
		}
		point = mergePoint(point, res.Point, p.maxVars)

		// Minimizer step: maximizer variables frozen at just-updated values.
		res, err = p.bestResponse(sideMin, point, o.alpha, o.slv)
		if err != nil {
			p.finalize(point)

			return Result{}, err
		}
		point = mergePoint(point, res.Point, p.minVars)

		for _, v := range p.allVars {
			hist[v] = append(hist[v], mat.VecDenseCopyOf(point[v]))
		}

		agg := flatten(p.allVars, p.averagePoint(hist))
		if prevAgg != nil {
			delta := infDelta(agg, prevAgg)
			o.log.Debug("alternation step",
				zap.Int("iteration", k), zap.Float64("delta", delta))
			if delta <= o.eps {
				outcome = OutcomeConverged
				break
			}
		}
		prevAgg = agg
	}

	// Finalization: every variable at its Cesàro average, not the raw last
	// iterate — averaging stabilizes the cycling typical of plain
	// alternating best response on convex-concave games.
	avgPoint := p.averagePoint(hist)
	p.finalize(avgPoint)

	maxVal, minVal, err := p.validate(avgPoint, o)
	if err != nil {
		return Result{}, err
	}
	gap := math.Abs(maxVal - minVal)
	o.log.Info("alternating solve finished",
		zap.Stringer("outcome", outcome),
		zap.Int("iterations", iters),
		zap.Float64("gap", gap),
		zap.Float64("max_value", maxVal),
		zap.Float64("min_value", minVal))

	return Result{
		Outcome:    outcome,
		Iterations: iters,
		Gap:        gap,
		MaxValue:   maxVal,
		MinValue:   minVal,
		Point:      avgPoint.Clone(),
	}, nil
}

// initialize solves a feasibility-only program per side so every declared
// variable — including ones absent from the objective and all constraints —
// starts with a defined value.
func (p *Problem) initialize(o options) (expr.Valuation, error) {
	point := make(expr.Valuation, len(p.allVars))
	for _, s := range []side{sideMin, sideMax} {
		res, err := o.slv.Solve(solver.Problem{
			Sense:       solver.Minimize,
			Objective:   expr.Const(0),
			Constraints: p.cons(s),
			Extra:       p.vars(s),
		})
		if err != nil {
			return nil, err
		}
		if res.Status != solver.StatusOptimal {
			return nil, fmt.Errorf("%w: %s feasibility returned %s", ErrSubproblemNotOptimal, s, res.Status)
		}
		for _, v := range p.vars(s) {
			point[v] = mat.VecDenseCopyOf(res.Point[v])
		}
	}

	return point, nil
}

// bestResponse solves one player's sub-problem: the other side's variables
// fixed at `point` (via Fix), a quadratic proximal penalty of weight alpha
// around the stepping side's current values (added when minimizing,
// subtracted when maximizing), restricted to the side's own constraint half.
// A non-optimal status is fatal and propagates the status.
func (p *Problem) bestResponse(s side, point expr.Valuation, alpha float64, slv solver.Solver) (solver.Result, error) {
	other, sense := sideMax, solver.Minimize
	if s == sideMax {
		other, sense = sideMin, solver.Maximize
	}

	obj, err := Fix(p.objective, p.set(other), point)
	if err != nil {
		return solver.Result{}, err
	}
	if alpha > 0 {
		prox := p.proxTerm(s, point, alpha)
		if s == sideMax {
			obj = expr.Sub(obj, prox)
		} else {
			obj = expr.Add(obj, prox)
		}
	}

	res, err := slv.Solve(solver.Problem{
		Sense:       sense,
		Objective:   obj,
		Constraints: p.cons(s),
		Extra:       p.vars(s),
	})
	if err != nil {
		return solver.Result{}, err
	}
	if res.Status != solver.StatusOptimal {
		return solver.Result{}, fmt.Errorf("%w: %s sub-solve returned %s", ErrSubproblemNotOptimal, s, res.Status)
	}

	return res, nil
}

// proxTerm builds α·Σ_v sum_squares(v − center_v) over the side's variables.
func (p *Problem) proxTerm(s side, center expr.Valuation, alpha float64) expr.Expr {
	vars := p.vars(s)
	terms := make([]expr.Expr, 0, len(vars))
	for _, v := range vars {
		c := center[v]
		cv := make([]float64, c.Len())
		for i := 0; i < c.Len(); i++ {
			cv[i] = c.AtVec(i)
		}
		terms = append(terms, expr.SumSquares(expr.Sub(v, expr.Vec(cv))))
	}

	return expr.Scale(alpha, expr.Add(terms...))
}

// validate re-solves both one-sided problems once, prox-free, at the final
// point. The returned optima feed the saddle gap report; their points are
// discarded so finalized variable values stay untouched.
func (p *Problem) validate(point expr.Valuation, o options) (maxVal, minVal float64, err error) {
	res, err := p.bestResponse(sideMax, point, 0, o.slv)
	if err != nil {
		return 0, 0, err
	}
	maxVal = res.Value

	res, err = p.bestResponse(sideMin, point, 0, o.slv)
	if err != nil {
		return 0, 0, err
	}
	minVal = res.Value

	return maxVal, minVal, nil
}

// averagePoint computes the per-variable arithmetic mean over each entire
// history: the Cesàro aggregate point.
func (p *Problem) averagePoint(hist map[*expr.Variable][]*mat.VecDense) expr.Valuation {
	out := make(expr.Valuation, len(p.allVars))
	for _, v := range p.allVars {
		snaps := hist[v]
		avg := mat.NewVecDense(v.Shape().Size(), nil)
		for _, s := range snaps {
			avg.AddVec(avg, s)
		}
		if len(snaps) > 0 {
			avg.ScaleVec(1/float64(len(snaps)), avg)
		}
		out[v] = avg
	}

	return out
}

// finalize writes the point's values onto the variables themselves, giving
// callers post-solve read access through Variable.Value.
func (p *Problem) finalize(point expr.Valuation) {
	for _, v := range p.allVars {
		if x, ok := point[v]; ok {
			_ = v.SetValue(x) // shapes match by construction
		}
	}
}

// mergePoint derives a new valuation with the listed variables replaced by
// their solved values; the base valuation is never mutated.
func mergePoint(base, solved expr.Valuation, vars []*expr.Variable) expr.Valuation {
	out := base.Clone()
	for _, v := range vars {
		if x, ok := solved[v]; ok {
			out[v] = mat.VecDenseCopyOf(x)
		}
	}

	return out
}

// flatten stacks the valuation's values in declared-variable order.
func flatten(vars []*expr.Variable, val expr.Valuation) *mat.VecDense {
	total := 0
	for _, v := range vars {
		total += v.Shape().Size()
	}
	out := mat.NewVecDense(total, nil)
	at := 0
	for _, v := range vars {
		x := val[v]
		for i := 0; i < x.Len(); i++ {
			out.SetVec(at, x.AtVec(i))
			at++
		}
	}

	return out
}

// infDelta is the ∞-norm of a−b.
func infDelta(a, b *mat.VecDense) float64 {
	out := 0.0
	for i := 0; i < a.Len(); i++ {
		if d := math.Abs(a.AtVec(i) - b.AtVec(i)); d > out {
			out = d
		}
	}

	return out
}
