package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ADMM is the reference Solver: OSQP-style operator splitting for convex
// quadratic programs with affine two-sided constraints. Zero value is not
// usable; construct with New.
type ADMM struct {
	opts options
}

var _ Solver = (*ADMM)(nil)

// New returns an ADMM solver with the given options applied over defaults.
func New(opts ...Option) *ADMM {
	return &ADMM{opts: gatherOptions(opts...)}
}

// Solve canonicalizes p and runs the splitting iteration.
//
// Steps:
//  1. Compile p to minimize ½xᵀPx+qᵀx+r subject to l ≤ Ax ≤ u.
//  2. Factorize the KKT matrix [[P+σI, Aᵀ],[A, −diag(1/ρ)]] once (LU).
//  3. Iterate the over-relaxed x/z/y updates with projection onto [l, u].
//  4. Every checkInterval iterations test residual termination and the
//     primal/dual infeasibility certificates.
//
// Complexity: O((n+m)³) for the factorization, O((n+m)²) per iteration.
func (s *ADMM) Solve(p Problem) (Result, error) {
	data, err := compile(p)
	if err != nil {
		return Result{}, err
	}

	n, m := data.idx.n, data.m

	// Per-row dual step: stiffer on equality rows.
	rho := make([]float64, m)
	for j := 0; j < m; j++ {
		rho[j] = s.opts.rho
		if data.l.AtVec(j) == data.u.AtVec(j) {
			rho[j] = s.opts.rho * eqRhoScale
		}
	}

	// KKT assembly and one-time factorization.
	kkt := mat.NewDense(n+m, n+m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kkt.Set(i, j, data.p.At(i, j))
		}
		kkt.Set(i, i, kkt.At(i, i)+s.opts.sigma)
	}
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			kkt.Set(i, n+j, data.a.At(j, i))
			kkt.Set(n+j, i, data.a.At(j, i))
		}
		kkt.Set(n+j, n+j, -1/rho[j])
	}
	var lu mat.LU
	lu.Factorize(kkt)

	var (
		x   = mat.NewVecDense(n, nil)
		z   = mat.NewVecDense(m, nil)
		y   = mat.NewVecDense(m, nil)
		dx  = mat.NewVecDense(n, nil)
		dy  = mat.NewVecDense(m, nil)
		rhs = mat.NewVecDense(n+m, nil)
		w   = mat.NewVecDense(n+m, nil)
		px  = mat.NewVecDense(n, nil)
		ax  = mat.NewVecDense(m, nil)
		aty = mat.NewVecDense(n, nil)
	)
	alpha := s.opts.relax

	for k := 0; k < s.opts.maxIters; k++ {
		// rhs = [σx − q ; z − y/ρ]
		for i := 0; i < n; i++ {
			rhs.SetVec(i, s.opts.sigma*x.AtVec(i)-data.q.AtVec(i))
		}
		for j := 0; j < m; j++ {
			rhs.SetVec(n+j, z.AtVec(j)-y.AtVec(j)/rho[j])
		}
		if err = lu.SolveVecTo(w, false, rhs); err != nil {
			return Result{Status: StatusError}, nil
		}

		for i := 0; i < n; i++ {
			xt := w.AtVec(i)
			next := alpha*xt + (1-alpha)*x.AtVec(i)
			dx.SetVec(i, next-x.AtVec(i))
			x.SetVec(i, next)
		}
		for j := 0; j < m; j++ {
			nu := w.AtVec(n + j)
			zt := z.AtVec(j) + (nu-y.AtVec(j))/rho[j]
			v := alpha*zt + (1-alpha)*z.AtVec(j)
			zNext := clamp(v+y.AtVec(j)/rho[j], data.l.AtVec(j), data.u.AtVec(j))
			yNext := y.AtVec(j) + rho[j]*(v-zNext)
			dy.SetVec(j, yNext-y.AtVec(j))
			z.SetVec(j, zNext)
			y.SetVec(j, yNext)
		}

		if (k+1)%checkInterval != 0 && k+1 != s.opts.maxIters {
			continue
		}

		px.MulVec(data.p, x)
		ax.MulVec(data.a, x)
		aty.MulVec(data.a.T(), y)
		if hasNaN(x) || hasNaN(y) {
			return Result{Status: StatusError}, nil
		}

		// Residual termination.
		rPrim, rDual := 0.0, 0.0
		for j := 0; j < m; j++ {
			rPrim = math.Max(rPrim, math.Abs(ax.AtVec(j)-z.AtVec(j)))
		}
		for i := 0; i < n; i++ {
			rDual = math.Max(rDual, math.Abs(px.AtVec(i)+data.q.AtVec(i)+aty.AtVec(i)))
		}
		epsPrim := s.opts.epsAbs + s.opts.epsRel*math.Max(infNorm(ax), infNorm(z))
		epsDual := s.opts.epsAbs + s.opts.epsRel*math.Max(infNorm(px), math.Max(infNorm(aty), infNorm(data.q)))
		if rPrim <= epsPrim && rDual <= epsDual {
			val := 0.5*mat.Dot(px, x) + mat.Dot(data.q, x) + data.r
			if data.negated {
				val = -val
			}

			return Result{Status: StatusOptimal, Value: val, Point: data.idx.point(x)}, nil
		}

		if s.primalInfeasible(data, dy) {
			return Result{Status: StatusInfeasible}, nil
		}
		if s.dualInfeasible(data, dx) {
			return Result{Status: StatusUnbounded}, nil
		}
	}

	return Result{Status: StatusError}, nil
}

// primalInfeasible tests the δy certificate: Aᵀδy ≈ 0 with a strictly
// negative support value of δy against the bounds.
func (s *ADMM) primalInfeasible(data *qpData, dy *mat.VecDense) bool {
	norm := infNorm(dy)
	if norm == 0 {
		return false
	}
	eps := s.opts.epsInfeas * norm

	atdy := mat.NewVecDense(data.idx.n, nil)
	atdy.MulVec(data.a.T(), dy)
	if infNorm(atdy) > eps {
		return false
	}

	support := 0.0
	for j := 0; j < data.m; j++ {
		d := dy.AtVec(j)
		switch {
		case d > eps:
			if math.IsInf(data.u.AtVec(j), 1) {
				return false
			}
			support += data.u.AtVec(j) * d
		case d < -eps:
			if math.IsInf(data.l.AtVec(j), -1) {
				return false
			}
			support += data.l.AtVec(j) * d
		}
	}

	return support <= -eps
}

// dualInfeasible tests the δx certificate: Pδx ≈ 0, qᵀδx < 0, and Aδx
// consistent with the recession cone of [l, u].
func (s *ADMM) dualInfeasible(data *qpData, dx *mat.VecDense) bool {
	norm := infNorm(dx)
	if norm == 0 {
		return false
	}
	eps := s.opts.epsInfeas * norm

	pdx := mat.NewVecDense(data.idx.n, nil)
	pdx.MulVec(data.p, dx)
	if infNorm(pdx) > eps {
		return false
	}
	if mat.Dot(data.q, dx) >= -eps {
		return false
	}

	adx := mat.NewVecDense(data.m, nil)
	adx.MulVec(data.a, dx)
	for j := 0; j < data.m; j++ {
		d := adx.AtVec(j)
		uInf := math.IsInf(data.u.AtVec(j), 1)
		lInf := math.IsInf(data.l.AtVec(j), -1)
		if (!uInf && d > eps) || (!lInf && d < -eps) {
			return false
		}
	}

	return true
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func infNorm(v *mat.VecDense) float64 {
	out := 0.0
	for i := 0; i < v.Len(); i++ {
		if a := math.Abs(v.AtVec(i)); a > out {
			out = a
		}
	}

	return out
}

func hasNaN(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		if math.IsNaN(v.AtVec(i)) {
			return true
		}
	}

	return false
}
