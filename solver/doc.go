// Package solver provides the convex solve service consumed by the saddle
// solvers: a Status/Result contract, the Solver interface, and a reference
// implementation for convex quadratic programs with affine constraints.
//
// # Contract
//
// A Solver receives one Problem — a sense (Minimize or Maximize), a scalar
// objective expression, a constraint list, and optionally extra variables
// that must receive values even when nothing references them — and returns a
// Result carrying a Status, the optimal value, and a Valuation covering
// every indexed variable. Modeling failures (non-affine constraints, an
// objective outside the supported quadratic class) are returned as errors;
// numeric outcomes (infeasible, unbounded, iteration budget exhausted) are
// reported through Result.Status.
//
// # Reference implementation
//
// ADMM solves
//
//	minimize   ½ xᵀPx + qᵀx + r
//	subject to l ≤ Ax ≤ u
//
// by operator splitting in the style of OSQP (Stellato et al.): the KKT
// system of the x-update is factorized once (gonum mat.LU) and reused across
// iterations; iterates are over-relaxed, the auxiliary variable is projected
// onto [l, u], and termination tests absolute+relative primal/dual residual
// thresholds. Divergence certificates classify primal-infeasible and
// unbounded (dual-infeasible) problems. Equality rows receive a stiffer
// penalty parameter than inequality rows.
//
// The supported objective class is affine plus nonnegatively weighted
// SumSquares atoms of affine arguments. Constraints are affine rows, with
// one extension: |g| ≤ h expands into the two affine rows ±g − h ≤ 0.
// Variables declared nonnegative contribute implicit bound rows.
//
// # Errors
//
//	ErrNotAffine       - a constraint (or Dot operand) is not affine.
//	ErrNotQuadratic    - the objective is outside affine + SumSquares.
//	ErrObjectiveShape  - the objective is not scalar.
//	ErrNoVariables     - the problem indexes no variables at all.
package solver
