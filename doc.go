// Package saddle is your in-memory toolkit for modeling and solving
// convex-concave saddle-point problems — from expression trees to an
// embedded first-order convex solver.
//
// 🚀 What is saddle?
//
//	A modular library that brings together:
//		• Expression trees: typed vector variables, parameters & operators
//		• Constraint modeling: ==, <=, >= with scalar broadcasting
//		• Variable fixing: copy-on-write freezing of one player's variables
//		• Constraint partitioning: single-pass split between the two players
//		• Alternating solves: proximally stabilized best responses with
//		  Cesàro averaging and a reported saddle gap
//		• Reformulation hook: plug in an external disciplined rewriter
//		• Convex solves: an operator-splitting QP/LP solver built on gonum
//
// ✨ Why choose saddle?
//
//   - Explicit contracts – sentinel errors, documented defaults, no surprises
//   - Deterministic – variables are ordered by creation, never by map walks
//   - Immutable modeling – solves thread valuations instead of mutating trees
//   - Extensible – inject your own Solver, Reformulator or logger via options
//
// Under the hood, everything is organized under three subpackages:
//
//	expr/   — expression trees, constraints, valuations & evaluation
//	solver/ — the embedded convex QP/LP solver and its modeling front end
//	saddle/ — two-player problems, partitioning, fixing & the solve loops
//
// Quick example:
//
//	x := expr.NewVector("x", 2)
//	y := expr.NewVector("y", 2)
//	p, err := saddle.NewProblem(expr.Dot(x, y), []expr.Constraint{
//		expr.LessEq(expr.Abs(x), expr.Const(1)),
//		expr.LessEq(expr.Abs(y), expr.Const(1)),
//	}, []*expr.Variable{x}, []*expr.Variable{y})
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := p.Solve()
//	// res.Gap reports |max-player value − min-player value| at the point.
//
// Start with saddle.NewProblem, then Solve with the options you need.
//
//	go get github.com/katalvlaran/saddle
package saddle
