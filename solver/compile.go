package solver

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/saddle/expr"
)

// varIndex assigns every variable of a problem a contiguous block of the
// stacked decision vector. Ordering follows variable creation IDs, so the
// layout is deterministic for a fixed construction sequence.
type varIndex struct {
	vars []*expr.Variable
	off  map[*expr.Variable]int
	n    int
}

// newVarIndex collects variables from the objective, every constraint, and
// the Extra list. Returns ErrNoVariables when the problem indexes nothing.
func newVarIndex(p Problem) (*varIndex, error) {
	seen := make(map[*expr.Variable]struct{})
	var vars []*expr.Variable
	add := func(vs []*expr.Variable) {
		for _, v := range vs {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vars = append(vars, v)
			}
		}
	}
	add(expr.VariablesOf(p.Objective))
	for _, c := range p.Constraints {
		add(c.Variables())
	}
	add(p.Extra)
	if len(vars) == 0 {
		return nil, ErrNoVariables
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID() < vars[j].ID() })

	idx := &varIndex{vars: vars, off: make(map[*expr.Variable]int, len(vars))}
	for _, v := range vars {
		idx.off[v] = idx.n
		idx.n += v.Shape().Size()
	}

	return idx, nil
}

// point splits a stacked decision vector back into a per-variable valuation.
func (idx *varIndex) point(x *mat.VecDense) expr.Valuation {
	out := make(expr.Valuation, len(idx.vars))
	for _, v := range idx.vars {
		size := v.Shape().Size()
		blk := mat.NewVecDense(size, nil)
		for i := 0; i < size; i++ {
			blk.SetVec(i, x.AtVec(idx.off[v]+i))
		}
		out[v] = blk
	}

	return out
}

// affine is the canonical form coef·x + b of an expression over the stacked
// decision vector. hasVars distinguishes genuinely constant expressions
// (parameters, constants) from ones with zero coefficients by construction.
type affine struct {
	rows    int
	coef    *mat.Dense
	b       *mat.VecDense
	hasVars bool
}

func zeroAffine(rows, n int) *affine {
	return &affine{rows: rows, coef: mat.NewDense(rows, n, nil), b: mat.NewVecDense(rows, nil)}
}

// affineOf propagates the affine form bottom-up over the closed node set.
// Non-affine atoms (Abs, SumSquares, Dot with variables on both sides) yield
// ErrNotAffine.
func (c *compiler) affineOf(e expr.Expr) (*affine, error) {
	n := c.idx.n
	switch node := e.(type) {
	case *expr.Constant:
		if !node.Shape().IsVector() {
			return nil, fmt.Errorf("%w: matrix constant %s outside MatVec", ErrNotAffine, node.Shape())
		}
		a := zeroAffine(node.Shape().Rows, n)
		a.b.CopyVec(node.Vector())

		return a, nil

	case *expr.Parameter:
		a := zeroAffine(node.Shape().Size(), n)
		a.b.CopyVec(node.Value())

		return a, nil

	case *expr.Variable:
		size := node.Shape().Size()
		a := zeroAffine(size, n)
		a.hasVars = true
		off := c.idx.off[node]
		for i := 0; i < size; i++ {
			a.coef.Set(i, off+i, 1)
		}

		return a, nil

	case *expr.AddExpr:
		args := node.Args()
		out, err := c.affineOf(args[0])
		if err != nil {
			return nil, err
		}
		for _, arg := range args[1:] {
			a, err := c.affineOf(arg)
			if err != nil {
				return nil, err
			}
			out.coef.Add(out.coef, a.coef)
			out.b.AddVec(out.b, a.b)
			out.hasVars = out.hasVars || a.hasVars
		}

		return out, nil

	case *expr.NegExpr:
		a, err := c.affineOf(node.Args()[0])
		if err != nil {
			return nil, err
		}
		a.coef.Scale(-1, a.coef)
		a.b.ScaleVec(-1, a.b)

		return a, nil

	case *expr.ScaleExpr:
		a, err := c.affineOf(node.Args()[0])
		if err != nil {
			return nil, err
		}
		a.coef.Scale(node.Coeff(), a.coef)
		a.b.ScaleVec(node.Coeff(), a.b)

		return a, nil

	case *expr.MatVecExpr:
		a, err := c.affineOf(node.Args()[0])
		if err != nil {
			return nil, err
		}
		m := node.Coeff()
		rows, _ := m.Dims()
		out := &affine{rows: rows, hasVars: a.hasVars}
		out.coef = mat.NewDense(rows, n, nil)
		out.coef.Mul(m, a.coef)
		out.b = mat.NewVecDense(rows, nil)
		out.b.MulVec(m, a.b)

		return out, nil

	case *expr.DotExpr:
		args := node.Args()
		l, err := c.affineOf(args[0])
		if err != nil {
			return nil, err
		}
		r, err := c.affineOf(args[1])
		if err != nil {
			return nil, err
		}
		if l.hasVars && r.hasVars {
			return nil, fmt.Errorf("%w: inner product with variables on both sides", ErrNotAffine)
		}
		// Keep the variable-bearing side free; for two constant sides either works.
		fixed, free := l, r
		if l.hasVars {
			fixed, free = r, l
		}
		out := zeroAffine(1, n)
		out.hasVars = free.hasVars
		for j := 0; j < free.rows; j++ {
			w := fixed.b.AtVec(j)
			for k := 0; k < n; k++ {
				out.coef.Set(0, k, out.coef.At(0, k)+w*free.coef.At(j, k))
			}
			out.b.SetVec(0, out.b.AtVec(0)+w*free.b.AtVec(j))
		}

		return out, nil

	case *expr.SumExpr:
		a, err := c.affineOf(node.Args()[0])
		if err != nil {
			return nil, err
		}
		out := zeroAffine(1, n)
		out.hasVars = a.hasVars
		for j := 0; j < a.rows; j++ {
			for k := 0; k < n; k++ {
				out.coef.Set(0, k, out.coef.At(0, k)+a.coef.At(j, k))
			}
			out.b.SetVec(0, out.b.AtVec(0)+a.b.AtVec(j))
		}

		return out, nil

	default:
		return nil, fmt.Errorf("%w: node %T", ErrNotAffine, e)
	}
}

// broadcast replicates a single affine row to the requested row count.
// Used for scalar-vs-vector constraint sides.
func broadcast(a *affine, rows, n int) *affine {
	if a.rows == rows {
		return a
	}
	out := zeroAffine(rows, n)
	out.hasVars = a.hasVars
	for j := 0; j < rows; j++ {
		for k := 0; k < n; k++ {
			out.coef.Set(j, k, a.coef.At(0, k))
		}
		out.b.SetVec(j, a.b.AtVec(0))
	}

	return out
}

// quadForm is the canonical objective ½ xᵀPx + qᵀx + r.
type quadForm struct {
	p *mat.Dense
	q *mat.VecDense
	r float64
}

// quadOf accumulates the quadratic form of the objective: sums, scalings and
// negations of SumSquares atoms over affine arguments, plus an affine rest.
func (c *compiler) quadOf(e expr.Expr, weight float64, acc *quadForm) error {
	switch node := e.(type) {
	case *expr.AddExpr:
		for _, arg := range node.Args() {
			if err := c.quadOf(arg, weight, acc); err != nil {
				return err
			}
		}

		return nil

	case *expr.NegExpr:
		return c.quadOf(node.Args()[0], -weight, acc)

	case *expr.ScaleExpr:
		return c.quadOf(node.Args()[0], weight*node.Coeff(), acc)

	case *expr.SumSquaresExpr:
		a, err := c.affineOf(node.Args()[0])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrNotQuadratic, err)
		}
		// ½xᵀPx convention: sum_squares(Ax+b) contributes P += 2w·AᵀA,
		// q += 2w·Aᵀb, r += w·bᵀb.
		n := c.idx.n
		for j := 0; j < a.rows; j++ {
			bj := a.b.AtVec(j)
			acc.r += weight * bj * bj
			for k := 0; k < n; k++ {
				ajk := a.coef.At(j, k)
				if ajk == 0 {
					continue
				}
				acc.q.SetVec(k, acc.q.AtVec(k)+2*weight*ajk*bj)
				for l := 0; l < n; l++ {
					if ajl := a.coef.At(j, l); ajl != 0 {
						acc.p.Set(k, l, acc.p.At(k, l)+2*weight*ajk*ajl)
					}
				}
			}
		}

		return nil

	default:
		a, err := c.affineOf(e)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrNotQuadratic, err)
		}
		if a.rows != 1 {
			return ErrObjectiveShape
		}
		for k := 0; k < c.idx.n; k++ {
			acc.q.SetVec(k, acc.q.AtVec(k)+weight*a.coef.At(0, k))
		}
		acc.r += weight * a.b.AtVec(0)

		return nil
	}
}

// qpData is the fully canonicalized program minimize ½xᵀPx+qᵀx+r subject to
// l ≤ Ax ≤ u, plus the variable layout to decode solutions.
type qpData struct {
	idx     *varIndex
	p       *mat.Dense
	q       *mat.VecDense
	r       float64
	a       *mat.Dense
	l, u    *mat.VecDense
	m       int
	negated bool // Maximize compiled as negated Minimize
}

type compiler struct {
	idx  *varIndex
	rows [][]float64
	lo   []float64
	hi   []float64
}

// addRow appends one canonical row coef·x ∈ [lo, hi].
func (c *compiler) addRow(coef []float64, lo, hi float64) {
	c.rows = append(c.rows, coef)
	c.lo = append(c.lo, lo)
	c.hi = append(c.hi, hi)
}

// addAffineRows appends the rows of d = coef·x + b under the relation
// d (op) 0, rewritten to bounds on coef·x.
func (c *compiler) addAffineRows(d *affine, op expr.RelOp) {
	for j := 0; j < d.rows; j++ {
		row := make([]float64, c.idx.n)
		for k := 0; k < c.idx.n; k++ {
			row[k] = d.coef.At(j, k)
		}
		rhs := -d.b.AtVec(j)
		switch op {
		case expr.RelEq:
			c.addRow(row, rhs, rhs)
		case expr.RelLessEq:
			c.addRow(row, math.Inf(-1), rhs)
		case expr.RelGreaterEq:
			c.addRow(row, rhs, math.Inf(1))
		}
	}
}

// subAffine returns l − r with scalar broadcasting.
func (c *compiler) subAffine(l, r *affine) *affine {
	rows := l.rows
	if r.rows > rows {
		rows = r.rows
	}
	l = broadcast(l, rows, c.idx.n)
	r = broadcast(r, rows, c.idx.n)
	out := zeroAffine(rows, c.idx.n)
	out.hasVars = l.hasVars || r.hasVars
	out.coef.Sub(l.coef, r.coef)
	out.b.SubVec(l.b, r.b)

	return out
}

// addConstraint canonicalizes one relational constraint. |g| ≤ h (or
// h ≥ |g|) expands to the pair ±g − h ≤ 0; everything else must be affine.
func (c *compiler) addConstraint(con expr.Constraint) error {
	if abs, ok := con.Left.(*expr.AbsExpr); ok && con.Op == expr.RelLessEq {
		return c.addAbsRows(abs, con.Right)
	}
	if abs, ok := con.Right.(*expr.AbsExpr); ok && con.Op == expr.RelGreaterEq {
		return c.addAbsRows(abs, con.Left)
	}

	l, err := c.affineOf(con.Left)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", con.String(), err)
	}
	r, err := c.affineOf(con.Right)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", con.String(), err)
	}
	c.addAffineRows(c.subAffine(l, r), con.Op)

	return nil
}

// addAbsRows emits the linearization of |g| ≤ h.
func (c *compiler) addAbsRows(abs *expr.AbsExpr, bound expr.Expr) error {
	g, err := c.affineOf(abs.Args()[0])
	if err != nil {
		return err
	}
	h, err := c.affineOf(bound)
	if err != nil {
		return err
	}
	neg := zeroAffine(g.rows, c.idx.n)
	neg.hasVars = g.hasVars
	neg.coef.Scale(-1, g.coef)
	neg.b.ScaleVec(-1, g.b)
	c.addAffineRows(c.subAffine(g, h), expr.RelLessEq)
	c.addAffineRows(c.subAffine(neg, h), expr.RelLessEq)

	return nil
}

// compile canonicalizes a Problem into qpData. Maximize problems are negated
// into minimizations; callers must flip the reported value back.
func compile(p Problem) (*qpData, error) {
	if p.Objective == nil || !p.Objective.Shape().IsScalar() {
		return nil, ErrObjectiveShape
	}
	idx, err := newVarIndex(p)
	if err != nil {
		return nil, err
	}
	c := &compiler{idx: idx}

	weight := 1.0
	if p.Sense == Maximize {
		weight = -1.0
	}
	acc := &quadForm{p: mat.NewDense(idx.n, idx.n, nil), q: mat.NewVecDense(idx.n, nil)}
	if err = c.quadOf(p.Objective, weight, acc); err != nil {
		return nil, err
	}

	for _, con := range p.Constraints {
		if err = c.addConstraint(con); err != nil {
			return nil, err
		}
	}
	// Nonnegativity attributes become implicit bound rows.
	for _, v := range idx.vars {
		if !v.Nonneg() {
			continue
		}
		for i := 0; i < v.Shape().Size(); i++ {
			row := make([]float64, idx.n)
			row[idx.off[v]+i] = 1
			c.addRow(row, 0, math.Inf(1))
		}
	}
	// ADMM needs at least one row; an unconstrained program gets a vacuous one.
	if len(c.rows) == 0 {
		c.addRow(make([]float64, idx.n), math.Inf(-1), math.Inf(1))
	}

	m := len(c.rows)
	a := mat.NewDense(m, idx.n, nil)
	l := mat.NewVecDense(m, nil)
	u := mat.NewVecDense(m, nil)
	for j, row := range c.rows {
		a.SetRow(j, row)
		l.SetVec(j, c.lo[j])
		u.SetVec(j, c.hi[j])
	}

	return &qpData{
		idx: idx, p: acc.p, q: acc.q, r: acc.r,
		a: a, l: l, u: u, m: m,
		negated: p.Sense == Maximize,
	}, nil
}
