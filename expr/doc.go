// Package expr implements the expression-tree layer of the saddle module:
// shape-checked construction of scalar and vector expressions over decision
// variables, frozen parameters and numeric constants, plus relational
// constraints, evaluation, and variable enumeration.
//
// # Node kinds
//
// The node set is deliberately closed and small, so that consumers can
// dispatch on concrete types rather than probing structure at runtime:
//
//	Leaves:      *Variable, *Parameter, *Constant
//	Composites:  *AddExpr, *NegExpr, *ScaleExpr, *MatVecExpr,
//	             *DotExpr, *SumExpr, *SumSquaresExpr, *AbsExpr
//
// Every composite implements the Composite interface, exposing its ordered
// child list (Args) and a copy-on-write rebuild hook (Rebuild). Trees are
// immutable after construction: transforms produce new trees and never touch
// the original, so concurrent readers of a shared tree stay valid.
//
// # Shapes
//
// A Shape is rows×cols. Scalars are 1×1, vectors are n×1. Matrix shapes are
// reserved for constants (coefficient data); decision variables are scalars
// or vectors. Constructors validate shapes eagerly and panic with ErrShape
// on misuse — shape violations are programmer errors, mirroring the policy
// of gonum/mat.
//
// # Values
//
// Numeric values are gonum vectors (*mat.VecDense). Evaluation reads an
// explicit Valuation first and falls back to the value stored on each
// Variable, returning ErrNoValue when neither is available.
//
// # Errors
//
//	ErrShape   - invalid or incompatible shapes at construction or evaluation.
//	ErrNoValue - a variable was evaluated without an assigned value.
package expr
