// Package saddle computes saddle points (equilibria) of scalar
// convex-concave objectives over two disjoint player variable sets — a
// minimizer and a maximizer — subject to constraints that each bind exactly
// one player.
//
// # Model
//
// A Problem is built from a scalar objective, a joint constraint list, and
// the two player sets. Construction validates the two-player structure
// eagerly: both sets non-empty and disjoint, every objective variable
// declared on one side, and every constraint intersecting exactly one side
// (coupling constraints are rejected — they belong in the objective, or the
// model is malformed).
//
// # Solving
//
// The always-available method is the alternating, proximally stabilized
// best-response iteration (MethodAlternating):
//
//  1. Feasibility initialization: each side solves a zero-objective program
//     over its own constraints, giving every declared variable — including
//     ones absent from the objective and all constraints — a starting value.
//  2. Each iteration takes a maximizer best-response step with the
//     minimizer frozen, then a minimizer step with the maximizer frozen at
//     its just-updated values. Both steps carry a quadratic proximal
//     penalty of weight α around the stepping side's current values.
//  3. Iterate histories feed running (Cesàro) averages; the loop stops when
//     the ∞-norm between consecutive average points drops to ε, or the
//     iteration budget runs out — Result.Outcome tells the two apart.
//  4. Variables are finalized at their Cesàro averages, and one prox-free
//     re-solve per side reports the saddle gap |maxValue − minValue|,
//     diagnostic only, never a failure by itself.
//
// Unregularized alternating best response need not converge on a
// convex-concave game; the proximal term plus average-point reporting is a
// standard stabilization in the spirit of Douglas–Rachford splitting, with
// no global guarantee. Any sub-solve returning a non-optimal status aborts
// the loop immediately with ErrSubproblemNotOptimal.
//
// MethodReformulate is the fast path: when every maximizer variable enters
// the objective through recognized representable forms, the package resolves
// variable roles, partitions the constraints, and hands the parsed
// K-representation plus both constraint halves to an injected Reformulator,
// which returns one ordinary convex program.
//
// # Concurrency
//
// One solve is single-threaded and strictly sequential: the maximizer step
// must observe the minimizer's values before the minimizer overwrites them,
// and vice versa. The cross-step medium is an explicit immutable
// expr.Valuation threaded through calls, not shared mutable state; variable
// values are written once, at finalization. Independent Problem instances
// may be solved concurrently.
//
// # Errors
//
// Modeling errors (ErrEmptyPlayerSet, ErrSharedVariable,
// ErrNonScalarObjective, ErrUndeclaredVariable, ErrMixedConstraint,
// ErrOrphanConstraint, ErrAmbiguousCurvature) are fatal and raised at
// construction or at the first offending step, before any numeric solve.
// ErrSubproblemNotOptimal wraps the offending solver status and aborts the
// outer loop with no retry and no partial result beyond the last successful
// step.
package saddle
