package simplex

import (
	"math"

	"github.com/pkg/errors"
)

// Model is a fully-assembled linear program in memory: dimensions, the CSC
// constraint matrix, bounds, objective, sense, and right-hand side. It is
// immutable during a solve (spec §5, "shared-resource policy").
//
//	minimize    c^T x
//	subject to  A x {<=,=,>=} b   (row i uses Sense[i])
//	            Lower <= x <= Upper
type Model struct {
	M, N   int
	A      *SparseMatrix
	C      []float64
	Lower  []float64
	Upper  []float64
	RHS    []float64
	Sense  []Sense
}

// validate checks dimensional and value consistency, returning
// ErrNullArgument/ErrInvalidArgument as appropriate (spec §7).
func (m *Model) validate(inf float64) error {
	if m == nil {
		return ErrNullArgument
	}
	if m.A == nil || m.C == nil || m.Lower == nil || m.Upper == nil || m.RHS == nil || m.Sense == nil {
		return ErrNullArgument
	}
	if m.M < 0 || m.N < 0 {
		return errors.Wrap(ErrInvalidArgument, "negative dimension")
	}
	if m.A.Rows != m.M || m.A.Cols != m.N {
		return errors.Wrap(ErrInvalidArgument, "matrix dimensions do not match M, N")
	}
	if len(m.C) != m.N || len(m.Lower) != m.N || len(m.Upper) != m.N {
		return errors.Wrap(ErrInvalidArgument, "column vector length mismatch")
	}
	if len(m.RHS) != m.M || len(m.Sense) != m.M {
		return errors.Wrap(ErrInvalidArgument, "row vector length mismatch")
	}
	for j := 0; j < m.N; j++ {
		if math.IsNaN(m.C[j]) || math.IsInf(m.C[j], 0) {
			return errors.Wrap(ErrInvalidArgument, "non-finite objective coefficient")
		}
		lb, ub := m.Lower[j], m.Upper[j]
		if math.IsNaN(lb) || math.IsNaN(ub) {
			return errors.Wrap(ErrInvalidArgument, "NaN bound")
		}
		if !IsInfinite(lb, inf) && !IsInfinite(ub, inf) && lb > ub+1e-9 {
			return errors.Wrap(ErrInvalidArgument, "lower bound exceeds upper bound")
		}
	}
	for i := 0; i < m.M; i++ {
		if math.IsNaN(m.RHS[i]) || math.IsInf(m.RHS[i], 0) {
			return errors.Wrap(ErrInvalidArgument, "non-finite right-hand side")
		}
		switch m.Sense[i] {
		case LE, EQ, GE:
		default:
			return errors.Wrap(ErrInvalidArgument, "sense not in {<=,=,>=}")
		}
	}
	return nil
}

// workingProblem is the equality-standard-form LP obtained by introducing
// one slack variable per row (spec §3, "Variable and row metadata"). It
// has n = model.N + model.M working variables and model.M equality rows.
type workingProblem struct {
	m, n  int
	a     *SparseMatrix // m x n, structurals followed by unit slack columns
	c     []float64     // length n, slacks have zero cost
	lower []float64     // length n, working bounds (mutated by perturbation)
	upper []float64
	rhs   []float64
	slackOf []int // row i's slack variable index (= model.N+i)
}

// normalize builds the working standard-form problem from a validated
// model, encoding each row's sense into its slack's bounds (spec §3):
// LE -> slack in [0, inf), GE -> slack in (-inf, 0], EQ -> slack fixed 0.
// This is the "Convert"-style standard-form assembly SPEC_FULL.md §C.1
// grounds on the teacher's Convert/BNB pattern.
func normalize(model *Model, inf float64) *workingProblem {
	m, n := model.M, model.N
	total := n + m

	b := newCSCBuilder(m, total)
	for j := 0; j < n; j++ {
		rows, vals := model.A.Column(j)
		b.addColumn(rows, vals)
	}
	for i := 0; i < m; i++ {
		b.addColumn([]int{i}, []float64{1})
	}
	a, err := b.build()
	if err != nil {
		// Columns are well-formed by construction; a failure here means
		// the caller's matrix was already inconsistent, which validate
		// would have rejected.
		panic("revsimplex: normalize produced an invalid matrix: " + err.Error())
	}

	c := make([]float64, total)
	copy(c, model.C)

	lower := make([]float64, total)
	upper := make([]float64, total)
	copy(lower, model.Lower)
	copy(upper, model.Upper)

	slackOf := make([]int, m)
	for i := 0; i < m; i++ {
		slackOf[i] = n + i
		switch model.Sense[i] {
		case LE:
			lower[n+i], upper[n+i] = 0, inf
		case GE:
			lower[n+i], upper[n+i] = -inf, 0
		case EQ:
			lower[n+i], upper[n+i] = 0, 0
		}
	}

	rhs := make([]float64, m)
	copy(rhs, model.RHS)

	return &workingProblem{m: m, n: total, a: a, c: c, lower: lower, upper: upper, rhs: rhs, slackOf: slackOf}
}
