package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/lapack"
)

// DropTol is the magnitude below which an eta's off-diagonal entries are
// dropped rather than stored, per spec §3.
const DropTol = 1e-12

// eta is one elementary update to B^-1 recording a single pivot: pivot row
// r, pivot value p = 1/(old pivot element), and the sparse off-diagonal
// entries of the elementary column (spec §3, "BasisFactor").
type eta struct {
	row int
	p   float64
	idx []int
	val []float64
}

// EtaChain is the product-form-of-the-inverse tail: B^-1 = (LU)^-1 * E_1 *
// E_2 * ... * E_k. It is implemented as an arena of etas in a single
// growable slice rather than a linked list, per the "index-based chain, a
// single arena reset" re-architecting note in spec §9; Reset truncates
// without releasing capacity, exactly as the teacher's Swap.Reset does for
// its own elementary-update chain (swap.go), which this type adapts.
//
// Unlike Swap (which represents the chain as rank-one Sherman-Morrison
// updates E_i = I + (y-e_k)e_k^T for an already-columnwise-swapped basis),
// EtaChain follows spec §4.1's FTRAN/BTRAN pseudocode directly: etas are
// applied chronologically (FTRAN) or in reverse (BTRAN) against a dense
// work vector, with the pivot value and off-diagonals defined exactly as
// spec §3 and §4.4 specify.
type EtaChain struct {
	dim  int
	etas []eta

	// condEstimate tracks an upper bound on the chain's condition number,
	// adapted from the teacher's Swap.cond bookkeeping (swap.go) and used
	// as the fifth refactor-scheduler signal (SPEC_FULL.md §C.3).
	condEstimate float64
}

// NewEtaChain allocates an empty chain for a basis of dimension dim.
func NewEtaChain(dim int) *EtaChain {
	return &EtaChain{dim: dim, condEstimate: 1}
}

// Len returns the number of etas currently in the chain.
func (e *EtaChain) Len() int { return len(e.etas) }

// Reset truncates the chain to empty without releasing the underlying
// array: a single arena reset, not a list walk (spec §9).
func (e *EtaChain) Reset() {
	e.etas = e.etas[:0]
	e.condEstimate = 1
}

// Memory estimates the chain's cumulative storage in entries (row+value
// pairs), used by the refactor scheduler's eta-memory signal.
func (e *EtaChain) Memory() int {
	n := 0
	for _, et := range e.etas {
		n += len(et.idx)
	}
	return n
}

// Append records one pivot as a new eta: pivot row r, pivot value p, and
// the off-diagonal entries of the column whose |value| >= DropTol. col is
// the FTRAN'd pivot column (length dim); r is the pivot row within it.
func (e *EtaChain) Append(r int, col []float64) {
	p := 1 / col[r]
	idx := make([]int, 0, 8)
	val := make([]float64, 0, 8)
	for i, v := range col {
		if i == r {
			continue
		}
		if math.Abs(v) >= DropTol {
			idx = append(idx, i)
			val = append(val, v)
		}
	}
	e.etas = append(e.etas, eta{row: r, p: p, idx: idx, val: val})
	e.condEstimate *= condOneNorm(col, r)
}

// CondNorm reports which lapack.MatrixNorm the chain's condition estimate
// is computed under, for callers that want to annotate a NUMERICAL_SINGULAR
// diagnostic with the norm in force.
const CondNorm lapack.MatrixNorm = lapack.MaxColumnSum

// condOneNorm estimates the condition number, under CondNorm, of the
// elementary matrix E = I + (col - e_r)*e_r^T that one eta contributes to
// B^-1, ported from the teacher's cond() helper (swap.go): it reuses
// gonum/floats.Norm for the column's 1-norm rather than reimplementing the
// reduction by hand.
func condOneNorm(col []float64, r int) float64 {
	yr := math.Abs(col[r])
	if yr == 0 {
		return math.Inf(1)
	}
	beta := 1 / yr
	norm1 := floats.Norm(col, 1)
	normE := math.Max(1, norm1)
	normEInv := math.Max(1, beta*(norm1+1)-1)
	return normE * normEInv
}

// Cond returns the chain's estimated condition number (1 if empty).
func (e *EtaChain) Cond() float64 {
	if len(e.etas) == 0 {
		return 1
	}
	return e.condEstimate
}

// ApplyForward applies the chain to a work vector in chronological
// (oldest-first) order, as the final step of FTRAN (spec §4.1): for each
// eta, w[r] <- w[r]*p, then w[i] -= v*w[r] for every stored (i, v).
func (e *EtaChain) ApplyForward(w []float64) {
	for _, et := range e.etas {
		w[et.row] *= et.p
		pivotVal := w[et.row]
		for k, i := range et.idx {
			w[i] -= et.val[k] * pivotVal
		}
	}
}

// ApplyBackward applies the chain in reverse (newest-first) order, as the
// first step of BTRAN (spec §4.1): for each eta from newest to oldest,
// t = sum(v*w[i]) over stored (i,v), then w[r] = (w[r]-t)*p.
func (e *EtaChain) ApplyBackward(w []float64) {
	for k := len(e.etas) - 1; k >= 0; k-- {
		et := e.etas[k]
		t := 0.0
		for j, i := range et.idx {
			t += et.val[j] * w[i]
		}
		w[et.row] = (w[et.row] - t) * et.p
	}
}
